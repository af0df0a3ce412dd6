// Package ops implements the neural building blocks used by the synthesis
// sub-models: 1-D convolution, LSTM cells, embedding lookup, and
// nearest-neighbour upsampling. All operations work on dense float32 tensors
// and return explicit errors on shape mismatches.
package ops

import (
	"fmt"

	"github.com/example/go-kokoro-tts/internal/runtime/tensor"
)

// Embedding gathers rows of a [vocab, dim] table by token id, producing
// [len(ids), dim].
func Embedding(table *tensor.Tensor, ids []int64) (*tensor.Tensor, error) {
	if table == nil {
		return nil, fmt.Errorf("ops: embedding table is nil")
	}

	if len(ids) == 0 {
		return nil, fmt.Errorf("ops: embedding requires at least one id")
	}

	shape := table.Shape()
	if len(shape) != 2 {
		return nil, fmt.Errorf("ops: embedding table must be [vocab, dim], got %v", shape)
	}

	vocab := shape[0]
	dim := int(shape[1])
	data := table.RawData()
	outData := make([]float32, len(ids)*dim)

	for i, id := range ids {
		if id < 0 || id >= vocab {
			return nil, fmt.Errorf("ops: embedding id %d out of range for vocab %d", id, vocab)
		}

		copy(outData[i*dim:(i+1)*dim], data[int(id)*dim:(int(id)+1)*dim])
	}

	out, err := tensor.New(outData, []int64{int64(len(ids)), int64(dim)})
	if err != nil {
		return nil, fmt.Errorf("ops: embedding output: %w", err)
	}

	return out, nil
}

// UpsampleNearest repeats each column of a [channels, length] tensor factor
// times, producing [channels, length*factor].
func UpsampleNearest(x *tensor.Tensor, factor int64) (*tensor.Tensor, error) {
	if x == nil {
		return nil, fmt.Errorf("ops: upsample input is nil")
	}

	if factor < 1 {
		return nil, fmt.Errorf("ops: upsample factor must be >= 1, got %d", factor)
	}

	shape := x.Shape()
	if len(shape) != 2 {
		return nil, fmt.Errorf("ops: upsample input must be [channels, length], got %v", shape)
	}

	ch := int(shape[0])
	length := int(shape[1])
	f := int(factor)
	data := x.RawData()
	outData := make([]float32, ch*length*f)

	for c := range ch {
		inRow := data[c*length : (c+1)*length]
		outRow := outData[c*length*f : (c+1)*length*f]

		for i, v := range inRow {
			base := i * f
			for j := range f {
				outRow[base+j] = v
			}
		}
	}

	out, err := tensor.New(outData, []int64{shape[0], shape[1] * factor})
	if err != nil {
		return nil, fmt.Errorf("ops: upsample output: %w", err)
	}

	return out, nil
}
