package model

import (
	"fmt"

	"github.com/example/go-kokoro-tts/internal/runtime/ops"
	"github.com/example/go-kokoro-tts/internal/runtime/tensor"
)

// durationEncoder fuses the projected contextual features with the voice's
// prosody style half and re-encodes the result with a BiLSTM. The prosody
// branch downstream consumes the same style conditioning, so the style row
// is concatenated onto every timestep before the recurrence.
type durationEncoder struct {
	fwd, bwd ops.LSTMParams
}

// durationPredictor maps encoded features to per-token duration bin logits.
type durationPredictor struct {
	fwd, bwd ops.LSTMParams
	proj     *linearParams
}

func loadLSTMParams(vb *VarBuilder, suffix string) (ops.LSTMParams, error) {
	var p ops.LSTMParams
	var err error

	if p.WIH, err = vb.Tensor("weight_ih" + suffix); err != nil {
		return p, err
	}

	if p.WHH, err = vb.Tensor("weight_hh" + suffix); err != nil {
		return p, err
	}

	if p.BIH, err = vb.Tensor("bias_ih" + suffix); err != nil {
		return p, err
	}

	if p.BHH, err = vb.Tensor("bias_hh" + suffix); err != nil {
		return p, err
	}

	return p, nil
}

func loadBiLSTM(vb *VarBuilder) (fwd, bwd ops.LSTMParams, err error) {
	if fwd, err = loadLSTMParams(vb, ""); err != nil {
		return fwd, bwd, err
	}

	bwd, err = loadLSTMParams(vb, "_reverse")

	return fwd, bwd, err
}

func loadDurationEncoder(vb *VarBuilder) (*durationEncoder, error) {
	fwd, bwd, err := loadBiLSTM(vb.Path("lstm"))
	if err != nil {
		return nil, err
	}

	return &durationEncoder{fwd: fwd, bwd: bwd}, nil
}

func loadDurationPredictor(vb *VarBuilder, cfg Config) (*durationPredictor, error) {
	fwd, bwd, err := loadBiLSTM(vb.Path("lstm"))
	if err != nil {
		return nil, err
	}

	proj, err := loadLinear(vb.Path("proj"), cfg.DurationBins, cfg.HiddenDim)
	if err != nil {
		return nil, err
	}

	return &durationPredictor{fwd: fwd, bwd: bwd, proj: proj}, nil
}

// forward takes hidden features laid out [hidden, seq] and the prosody style
// row [styleDim], returning [seq, hidden].
func (e *durationEncoder) forward(hidden, style *tensor.Tensor) (*tensor.Tensor, error) {
	if hidden.Rank() != 2 {
		return nil, fmt.Errorf("model: duration encoder expects rank 2 input, got %d", hidden.Rank())
	}

	seqFirst, err := hidden.Transpose(0, 1)
	if err != nil {
		return nil, err
	}

	styled, err := appendStyleColumns(seqFirst, style)
	if err != nil {
		return nil, err
	}

	return ops.BiLSTM(styled, e.fwd, e.bwd)
}

// forward maps [seq, hidden] encoded features to [seq, bins] logits.
func (p *durationPredictor) forward(encoded *tensor.Tensor) (*tensor.Tensor, error) {
	recur, err := ops.BiLSTM(encoded, p.fwd, p.bwd)
	if err != nil {
		return nil, err
	}

	return p.proj.apply(recur)
}

// appendStyleColumns widens [seq, d] to [seq, d+styleDim], repeating the
// style row on every timestep.
func appendStyleColumns(x, style *tensor.Tensor) (*tensor.Tensor, error) {
	if x.Rank() != 2 || style.Rank() != 1 {
		return nil, fmt.Errorf("model: style concat expects [seq, d] and [styleDim], got %v and %v",
			x.Shape(), style.Shape())
	}

	seq := x.Shape()[0]
	styleDim := style.Shape()[0]

	tiled := make([]float32, int(seq)*int(styleDim))
	src := style.Data()
	for i := range int(seq) {
		copy(tiled[i*int(styleDim):], src)
	}

	styleMat, err := tensor.New(tiled, []int64{seq, styleDim})
	if err != nil {
		return nil, err
	}

	return tensor.Concat([]*tensor.Tensor{x, styleMat}, 1)
}
