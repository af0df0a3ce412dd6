package ops

import (
	"fmt"
	"math"

	"github.com/example/go-kokoro-tts/internal/runtime/tensor"
)

// LSTMParams holds the weights of a single LSTM direction in the usual
// stacked-gate layout: WIH is [4h, in], WHH is [4h, h], biases are [4h].
// Gate order within the leading dimension is input, forget, cell, output.
type LSTMParams struct {
	WIH *tensor.Tensor
	WHH *tensor.Tensor
	BIH *tensor.Tensor
	BHH *tensor.Tensor
}

// HiddenSize derives the hidden width from the stacked gate weights.
func (p LSTMParams) HiddenSize() (int64, error) {
	if p.WIH == nil || p.WHH == nil {
		return 0, fmt.Errorf("ops: lstm params missing weights")
	}

	shape := p.WIH.Shape()
	if len(shape) != 2 || shape[0]%4 != 0 {
		return 0, fmt.Errorf("ops: lstm input weight must be [4h, in], got %v", shape)
	}

	return shape[0] / 4, nil
}

// LSTM runs a unidirectional LSTM over a [seq, in] input and returns the
// hidden states [seq, h]. The initial hidden and cell states are zero.
func LSTM(x *tensor.Tensor, p LSTMParams, reverse bool) (*tensor.Tensor, error) {
	if x == nil {
		return nil, fmt.Errorf("ops: lstm input is nil")
	}

	xShape := x.Shape()
	if len(xShape) != 2 {
		return nil, fmt.Errorf("ops: lstm input must be [seq, in], got %v", xShape)
	}

	h, err := p.HiddenSize()
	if err != nil {
		return nil, err
	}

	seq := int(xShape[0])
	in := int(xShape[1])
	hI := int(h)

	wihShape := p.WIH.Shape()
	if wihShape[1] != xShape[1] {
		return nil, fmt.Errorf("ops: lstm input width %d does not match weight %v", in, wihShape)
	}

	whhShape := p.WHH.Shape()
	if len(whhShape) != 2 || whhShape[0] != 4*h || whhShape[1] != h {
		return nil, fmt.Errorf("ops: lstm hidden weight must be [%d, %d], got %v", 4*h, h, whhShape)
	}

	wih := p.WIH.RawData()
	whh := p.WHH.RawData()

	var bih, bhh []float32
	if p.BIH != nil {
		if p.BIH.ElemCount() != 4*hI {
			return nil, fmt.Errorf("ops: lstm input bias must have %d elements", 4*hI)
		}

		bih = p.BIH.RawData()
	}

	if p.BHH != nil {
		if p.BHH.ElemCount() != 4*hI {
			return nil, fmt.Errorf("ops: lstm hidden bias must have %d elements", 4*hI)
		}

		bhh = p.BHH.RawData()
	}

	xData := x.RawData()
	outData := make([]float32, seq*hI)
	hState := make([]float32, hI)
	cState := make([]float32, hI)
	gates := make([]float32, 4*hI)

	for step := range seq {
		t := step
		if reverse {
			t = seq - 1 - step
		}

		xRow := xData[t*in : (t+1)*in]

		for g := range 4 * hI {
			sum := float32(0)
			if bih != nil {
				sum += bih[g]
			}

			if bhh != nil {
				sum += bhh[g]
			}

			wRow := wih[g*in : (g+1)*in]
			for j := range in {
				sum += wRow[j] * xRow[j]
			}

			hRow := whh[g*hI : (g+1)*hI]
			for j := range hI {
				sum += hRow[j] * hState[j]
			}

			gates[g] = sum
		}

		for j := range hI {
			iGate := sigmoid(gates[j])
			fGate := sigmoid(gates[hI+j])
			gGate := float32(math.Tanh(float64(gates[2*hI+j])))
			oGate := sigmoid(gates[3*hI+j])

			cState[j] = fGate*cState[j] + iGate*gGate
			hState[j] = oGate * float32(math.Tanh(float64(cState[j])))
		}

		copy(outData[t*hI:(t+1)*hI], hState)
	}

	out, err := tensor.New(outData, []int64{int64(seq), h})
	if err != nil {
		return nil, fmt.Errorf("ops: lstm output: %w", err)
	}

	return out, nil
}

// BiLSTM runs forward and backward LSTM passes over a [seq, in] input and
// concatenates the per-step hidden states into [seq, 2h].
func BiLSTM(x *tensor.Tensor, fwd, bwd LSTMParams) (*tensor.Tensor, error) {
	f, err := LSTM(x, fwd, false)
	if err != nil {
		return nil, fmt.Errorf("ops: bilstm forward: %w", err)
	}

	b, err := LSTM(x, bwd, true)
	if err != nil {
		return nil, fmt.Errorf("ops: bilstm backward: %w", err)
	}

	out, err := tensor.Concat([]*tensor.Tensor{f, b}, 1)
	if err != nil {
		return nil, fmt.Errorf("ops: bilstm concat: %w", err)
	}

	return out, nil
}

func sigmoid(v float32) float32 {
	return float32(1.0 / (1.0 + math.Exp(-float64(v))))
}
