package model

import (
	"fmt"

	"github.com/example/go-kokoro-tts/internal/runtime/ops"
	"github.com/example/go-kokoro-tts/internal/runtime/tensor"
)

const textEncoderConvCount = 3

// textEncoder embeds token ids and refines them with a conv stack and a
// BiLSTM, producing the acoustic text representation [hidden, seq] that the
// alignment expands to frame rate.
type textEncoder struct {
	embedding *tensor.Tensor

	convW []*tensor.Tensor
	convB []*tensor.Tensor

	fwd, bwd ops.LSTMParams
}

func loadTextEncoder(vb *VarBuilder, cfg Config) (*textEncoder, error) {
	embedding, err := vb.Tensor("embedding.weight", cfg.VocabSize, cfg.HiddenDim)
	if err != nil {
		return nil, err
	}

	enc := &textEncoder{embedding: embedding}

	for i := range textEncoderConvCount {
		convVB := vb.Path("convs", fmt.Sprintf("%d", i))

		w, err := convVB.Tensor("weight")
		if err != nil {
			return nil, err
		}

		b, err := convVB.Tensor("bias")
		if err != nil {
			return nil, err
		}

		enc.convW = append(enc.convW, w)
		enc.convB = append(enc.convB, b)
	}

	enc.fwd, enc.bwd, err = loadBiLSTM(vb.Path("lstm"))
	if err != nil {
		return nil, err
	}

	return enc, nil
}

// forward encodes padded token ids into [hidden, seq]. Positions whose
// validity mask entry is 0 are zeroed between every stage so padding cannot
// leak through the convolutions' receptive field.
func (e *textEncoder) forward(ids []int64, validity []int64) (*tensor.Tensor, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("model: text encoder requires at least one token")
	}

	if len(validity) != len(ids) {
		return nil, fmt.Errorf("model: validity mask length %d does not match sequence %d", len(validity), len(ids))
	}

	embedded, err := ops.Embedding(e.embedding, ids)
	if err != nil {
		return nil, err
	}

	// [seq, hidden] -> [hidden, seq] for the conv stack.
	x, err := embedded.Transpose(0, 1)
	if err != nil {
		return nil, err
	}

	for i := range e.convW {
		if x, err = maskColumns(x, validity); err != nil {
			return nil, err
		}

		pad := e.convW[i].Shape()[2] / 2

		if x, err = ops.Conv1D(x, e.convW[i], e.convB[i], pad); err != nil {
			return nil, err
		}

		if x, err = tensor.LeakyReLU(x, 0.2); err != nil {
			return nil, err
		}
	}

	if x, err = maskColumns(x, validity); err != nil {
		return nil, err
	}

	seqFirst, err := x.Transpose(0, 1)
	if err != nil {
		return nil, err
	}

	recur, err := ops.BiLSTM(seqFirst, e.fwd, e.bwd)
	if err != nil {
		return nil, err
	}

	return recur.Transpose(0, 1)
}

// maskColumns zeroes every column t of a [ch, seq] tensor where mask[t] == 0.
func maskColumns(x *tensor.Tensor, mask []int64) (*tensor.Tensor, error) {
	shape := x.Shape()
	if len(shape) != 2 || shape[1] != int64(len(mask)) {
		return nil, fmt.Errorf("model: column mask length %d does not match shape %v", len(mask), shape)
	}

	out := x.Clone()
	data := out.RawData()
	cols := int(shape[1])

	for i := range data {
		if mask[i%cols] == 0 {
			data[i] = 0
		}
	}

	return out, nil
}
