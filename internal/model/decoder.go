package model

import (
	"fmt"

	"github.com/example/go-kokoro-tts/internal/runtime/ops"
	"github.com/example/go-kokoro-tts/internal/runtime/tensor"
)

// decoder turns frame-rate features into a waveform. The aligned text
// features are stacked with the F0 and energy curves, conditioned on the
// voice's decoder style half, then pushed through a chain of
// upsample-and-convolve stages until one sample channel remains.
type decoder struct {
	cfg Config

	inputW, inputB *tensor.Tensor
	style          *linearParams

	upsW []*tensor.Tensor
	upsB []*tensor.Tensor

	outputW, outputB *tensor.Tensor
}

func loadDecoder(vb *VarBuilder, cfg Config) (*decoder, error) {
	d := &decoder{cfg: cfg}

	var err error

	// Input stage sees hidden features plus the F0 and energy rows.
	if d.inputW, err = vb.Tensor("input.weight", cfg.DecoderChannels[0], cfg.HiddenDim+2, 7); err != nil {
		return nil, err
	}

	if d.inputB, err = vb.Tensor("input.bias", cfg.DecoderChannels[0]); err != nil {
		return nil, err
	}

	if d.style, err = loadLinear(vb.Path("style"), cfg.DecoderChannels[0], cfg.StyleDim); err != nil {
		return nil, err
	}

	for i := range cfg.Upsample {
		stageVB := vb.Path("ups", fmt.Sprintf("%d", i))

		w, err := stageVB.Tensor("weight", cfg.DecoderChannels[i+1], cfg.DecoderChannels[i], 9)
		if err != nil {
			return nil, err
		}

		b, err := stageVB.Tensor("bias", cfg.DecoderChannels[i+1])
		if err != nil {
			return nil, err
		}

		d.upsW = append(d.upsW, w)
		d.upsB = append(d.upsB, b)
	}

	last := cfg.DecoderChannels[len(cfg.DecoderChannels)-1]

	if d.outputW, err = vb.Tensor("output.weight", 1, last, 7); err != nil {
		return nil, err
	}

	if d.outputB, err = vb.Tensor("output.bias", 1); err != nil {
		return nil, err
	}

	return d, nil
}

// forward synthesizes samples from aligned features [hidden, frames], the
// prosody curves [frames], and the decoder style row [styleDim]. The output
// length is frames times the hop length.
func (d *decoder) forward(aligned, f0, energy, style *tensor.Tensor) ([]float32, error) {
	frames, err := aligned.Dim(1)
	if err != nil {
		return nil, err
	}

	f0Row, err := f0.Reshape([]int64{1, frames})
	if err != nil {
		return nil, err
	}

	energyRow, err := energy.Reshape([]int64{1, frames})
	if err != nil {
		return nil, err
	}

	x, err := tensor.Concat([]*tensor.Tensor{aligned, f0Row, energyRow}, 0)
	if err != nil {
		return nil, err
	}

	if x, err = ops.Conv1D(x, d.inputW, d.inputB, 3); err != nil {
		return nil, err
	}

	if x, err = d.addStyleBias(x, style); err != nil {
		return nil, err
	}

	for i := range d.upsW {
		if x, err = ops.UpsampleNearest(x, d.cfg.Upsample[i]); err != nil {
			return nil, err
		}

		if x, err = ops.Conv1D(x, d.upsW[i], d.upsB[i], 4); err != nil {
			return nil, err
		}

		if x, err = tensor.LeakyReLU(x, 0.1); err != nil {
			return nil, err
		}
	}

	if x, err = ops.Conv1D(x, d.outputW, d.outputB, 3); err != nil {
		return nil, err
	}

	if x, err = tensor.Tanh(x); err != nil {
		return nil, err
	}

	samples := make([]float32, x.ElemCount())
	copy(samples, x.RawData())

	return samples, nil
}

// addStyleBias projects the style row to the input stage's channel count and
// adds the result to every frame of the [ch, frames] feature map.
func (d *decoder) addStyleBias(x, style *tensor.Tensor) (*tensor.Tensor, error) {
	bias, err := d.style.apply(style)
	if err != nil {
		return nil, err
	}

	shape := x.Shape()
	if len(shape) != 2 || bias.ElemCount() != int(shape[0]) {
		return nil, fmt.Errorf("model: style bias size %d does not match channels %v", bias.ElemCount(), shape)
	}

	out := x.Clone()
	data := out.RawData()
	bData := bias.RawData()
	cols := int(shape[1])

	for ch := range int(shape[0]) {
		row := data[ch*cols : (ch+1)*cols]
		for t := range row {
			row[t] += bData[ch]
		}
	}

	return out, nil
}
