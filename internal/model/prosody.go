package model

import (
	"fmt"

	"github.com/example/go-kokoro-tts/internal/runtime/ops"
	"github.com/example/go-kokoro-tts/internal/runtime/tensor"
)

// prosodyPredictor produces the per-frame F0 and energy curves. A shared
// style-conditioned BiLSTM runs over the frame-expanded features, then two
// convolutional branches reduce the result to one scalar per frame each.
type prosodyPredictor struct {
	fwd, bwd ops.LSTMParams

	f0     convBranch
	energy convBranch
}

// convBranch is two stride-1 convolutions with a LeakyReLU in between; the
// second collapses the channel dimension to 1.
type convBranch struct {
	conv1W, conv1B *tensor.Tensor
	conv2W, conv2B *tensor.Tensor
}

func loadConvBranch(vb *VarBuilder) (convBranch, error) {
	var b convBranch
	var err error

	if b.conv1W, err = vb.Tensor("conv1.weight"); err != nil {
		return b, err
	}

	if b.conv1B, err = vb.Tensor("conv1.bias"); err != nil {
		return b, err
	}

	if b.conv2W, err = vb.Tensor("conv2.weight"); err != nil {
		return b, err
	}

	if b.conv2B, err = vb.Tensor("conv2.bias"); err != nil {
		return b, err
	}

	return b, nil
}

func loadProsody(vb *VarBuilder) (*prosodyPredictor, error) {
	fwd, bwd, err := loadBiLSTM(vb.Path("lstm"))
	if err != nil {
		return nil, err
	}

	f0, err := loadConvBranch(vb.Path("f0"))
	if err != nil {
		return nil, err
	}

	energy, err := loadConvBranch(vb.Path("energy"))
	if err != nil {
		return nil, err
	}

	return &prosodyPredictor{fwd: fwd, bwd: bwd, f0: f0, energy: energy}, nil
}

// forward takes frame-aligned features [dim, frames] and the prosody style
// row, returning the F0 and energy curves, each [frames].
func (p *prosodyPredictor) forward(frames, style *tensor.Tensor) (f0, energy *tensor.Tensor, err error) {
	if frames.Rank() != 2 {
		return nil, nil, fmt.Errorf("model: prosody expects rank 2 input, got %d", frames.Rank())
	}

	seqFirst, err := frames.Transpose(0, 1)
	if err != nil {
		return nil, nil, err
	}

	styled, err := appendStyleColumns(seqFirst, style)
	if err != nil {
		return nil, nil, err
	}

	recur, err := ops.BiLSTM(styled, p.fwd, p.bwd)
	if err != nil {
		return nil, nil, err
	}

	// Back to channel-first for the conv branches.
	chFirst, err := recur.Transpose(0, 1)
	if err != nil {
		return nil, nil, err
	}

	f0, err = p.f0.forward(chFirst)
	if err != nil {
		return nil, nil, err
	}

	energy, err = p.energy.forward(chFirst)
	if err != nil {
		return nil, nil, err
	}

	return f0, energy, nil
}

func (b convBranch) forward(x *tensor.Tensor) (*tensor.Tensor, error) {
	pad1 := b.conv1W.Shape()[2] / 2

	h, err := ops.Conv1D(x, b.conv1W, b.conv1B, pad1)
	if err != nil {
		return nil, err
	}

	h, err = tensor.LeakyReLU(h, 0.2)
	if err != nil {
		return nil, err
	}

	pad2 := b.conv2W.Shape()[2] / 2

	h, err = ops.Conv1D(h, b.conv2W, b.conv2B, pad2)
	if err != nil {
		return nil, err
	}

	// Output of the second conv is [1, frames]; flatten to [frames].
	frames, err := h.Dim(1)
	if err != nil {
		return nil, err
	}

	return h.Reshape([]int64{frames})
}
