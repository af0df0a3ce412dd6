package tensor

import (
	"errors"
	"fmt"
	"math"
)

// Softmax applies softmax along dim.
func Softmax(x *Tensor, dim int) (*Tensor, error) {
	if x == nil {
		return nil, errors.New("tensor: softmax on nil tensor")
	}

	if len(x.shape) == 0 {
		return nil, errors.New("tensor: softmax requires rank >= 1")
	}

	dim, err := normalizeDim(dim, len(x.shape))
	if err != nil {
		return nil, fmt.Errorf("tensor: softmax: %w", err)
	}

	axis := x.shape[dim]
	if axis <= 0 {
		return nil, fmt.Errorf("tensor: softmax axis dimension must be > 0, got %d", axis)
	}

	inner := int64(1)
	for i := dim + 1; i < len(x.shape); i++ {
		inner *= x.shape[i]
	}

	outer := int64(1)
	for i := range dim {
		outer *= x.shape[i]
	}

	out := x.Clone()

	for o := range outer {
		for in := range inner {
			base := o*axis*inner + in
			maxV := float32(math.Inf(-1))

			for k := range axis {
				v := out.data[base+k*inner]
				if v > maxV {
					maxV = v
				}
			}

			var sum float64

			for k := range axis {
				i := base + k*inner
				e := math.Exp(float64(out.data[i] - maxV))
				out.data[i] = float32(e)
				sum += e
			}

			if sum == 0 {
				return nil, errors.New("tensor: softmax encountered zero normalization sum")
			}

			inv := float32(1.0 / sum)

			for k := range axis {
				i := base + k*inner
				out.data[i] *= inv
			}
		}
	}

	return out, nil
}

// LayerNorm normalizes the last dimension and applies optional weight/bias.
func LayerNorm(x, weight, bias *Tensor, eps float32) (*Tensor, error) {
	if x == nil {
		return nil, errors.New("tensor: layernorm input is nil")
	}

	if x.Rank() < 1 {
		return nil, errors.New("tensor: layernorm requires rank >= 1")
	}

	if eps <= 0 {
		return nil, errors.New("tensor: layernorm eps must be > 0")
	}

	d := x.shape[len(x.shape)-1]
	if d <= 0 {
		return nil, errors.New("tensor: layernorm last dimension must be > 0")
	}

	if weight != nil {
		if weight.Rank() != 1 || weight.shape[0] != d {
			return nil, fmt.Errorf("tensor: layernorm weight shape %v does not match last dimension %d", weight.shape, d)
		}
	}

	if bias != nil {
		if bias.Rank() != 1 || bias.shape[0] != d {
			return nil, fmt.Errorf("tensor: layernorm bias shape %v does not match last dimension %d", bias.shape, d)
		}
	}

	out := x.Clone()
	dd := int(d)

	outer := len(x.data) / dd
	for o := range outer {
		start := o * dd
		slice := out.data[start : start+dd]

		var mean float64
		for _, v := range slice {
			mean += float64(v)
		}

		mean /= float64(dd)

		var variance float64

		for _, v := range slice {
			delta := float64(v) - mean
			variance += delta * delta
		}

		variance /= float64(dd)

		invStd := float32(1.0 / math.Sqrt(variance+float64(eps)))
		for i := range dd {
			n := (slice[i] - float32(mean)) * invStd
			if weight != nil {
				n *= weight.data[i]
			}

			if bias != nil {
				n += bias.data[i]
			}

			slice[i] = n
		}
	}

	return out, nil
}

// MatMul performs 2-D matrix multiplication: [m, k] x [k, n] -> [m, n].
func MatMul(a, b *Tensor) (*Tensor, error) {
	if a == nil || b == nil {
		return nil, errors.New("tensor: matmul requires non-nil inputs")
	}

	if a.Rank() != 2 || b.Rank() != 2 {
		return nil, fmt.Errorf("tensor: matmul requires rank 2 inputs, got %d and %d", a.Rank(), b.Rank())
	}

	m := a.shape[0]
	k := a.shape[1]

	if b.shape[0] != k {
		return nil, fmt.Errorf("tensor: matmul mismatch: A shape %v and B shape %v", a.shape, b.shape)
	}

	n := b.shape[1]
	mI, kI, nI := int(m), int(k), int(n)
	outData := make([]float32, mI*nI)

	// Transposing B up front keeps both operands of the inner dot product
	// contiguous in memory.
	bT := make([]float32, kI*nI)
	for r := range kI {
		for c := range nI {
			bT[c*kI+r] = b.data[r*nI+c]
		}
	}

	for i := range mI {
		aRow := a.data[i*kI : (i+1)*kI]
		outRow := outData[i*nI : (i+1)*nI]

		for j := range nI {
			outRow[j] = dotF32(aRow, bT[j*kI:(j+1)*kI])
		}
	}

	return newOwned(outData, []int64{m, n}), nil
}

// Linear applies y = x * W^T + b where weight shape is [out, in].
func Linear(x, weight, bias *Tensor) (*Tensor, error) {
	if x == nil || weight == nil {
		return nil, errors.New("tensor: linear requires non-nil x and weight")
	}

	if x.Rank() < 1 {
		return nil, errors.New("tensor: linear requires x rank >= 1")
	}

	if weight.Rank() != 2 {
		return nil, fmt.Errorf("tensor: linear weight must be rank 2, got %d", weight.Rank())
	}

	in := x.shape[x.Rank()-1]

	out := weight.shape[0]
	if weight.shape[1] != in {
		return nil, fmt.Errorf("tensor: linear mismatch: x last dim %d, weight in dim %d", in, weight.shape[1])
	}

	if bias != nil {
		if bias.Rank() != 1 || bias.shape[0] != out {
			return nil, fmt.Errorf("tensor: linear bias shape %v does not match out dim %d", bias.shape, out)
		}
	}

	batch := len(x.data) / int(in)
	outData := make([]float32, batch*int(out))
	inI := int(in)
	outI := int(out)

	wData := weight.data
	for bIdx := range batch {
		xSlice := x.data[bIdx*inI : bIdx*inI+inI]

		yBase := bIdx * outI
		for o := range outI {
			sum := dotF32(xSlice, wData[o*inI:(o+1)*inI])
			if bias != nil {
				sum += bias.data[o]
			}

			outData[yBase+o] = sum
		}
	}

	outShape := make([]int64, x.Rank())
	copy(outShape, x.shape[:x.Rank()-1])
	outShape[x.Rank()-1] = out

	return newOwned(outData, outShape), nil
}

// SumDim sums over a single dimension, removing it from the shape.
// Summing the only dimension of a rank-1 tensor yields a scalar of shape [1].
func SumDim(x *Tensor, dim int) (*Tensor, error) {
	if x == nil {
		return nil, errors.New("tensor: sumdim on nil tensor")
	}

	dim, err := normalizeDim(dim, len(x.shape))
	if err != nil {
		return nil, fmt.Errorf("tensor: sumdim: %w", err)
	}

	axis := x.shape[dim]

	inner := int64(1)
	for i := dim + 1; i < len(x.shape); i++ {
		inner *= x.shape[i]
	}

	outer := int64(1)
	for i := range dim {
		outer *= x.shape[i]
	}

	outShape := make([]int64, 0, len(x.shape)-1)
	outShape = append(outShape, x.shape[:dim]...)
	outShape = append(outShape, x.shape[dim+1:]...)

	if len(outShape) == 0 {
		outShape = []int64{1}
	}

	outData := make([]float32, outer*inner)

	for o := range outer {
		for in := range inner {
			var sum float64
			for k := range axis {
				sum += float64(x.data[o*axis*inner+k*inner+in])
			}

			outData[o*inner+in] = float32(sum)
		}
	}

	return newOwned(outData, outShape), nil
}
