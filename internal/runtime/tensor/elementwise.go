package tensor

import (
	"errors"
	"fmt"
	"math"
)

// Sigmoid applies the logistic function element-wise.
func Sigmoid(x *Tensor) (*Tensor, error) {
	return unary(x, "sigmoid", func(v float32) float32 {
		return float32(1.0 / (1.0 + math.Exp(-float64(v))))
	})
}

// Tanh applies the hyperbolic tangent element-wise.
func Tanh(x *Tensor) (*Tensor, error) {
	return unary(x, "tanh", func(v float32) float32 {
		return float32(math.Tanh(float64(v)))
	})
}

// LeakyReLU applies max(v, slope*v) element-wise.
func LeakyReLU(x *Tensor, slope float32) (*Tensor, error) {
	return unary(x, "leakyrelu", func(v float32) float32 {
		if v >= 0 {
			return v
		}

		return slope * v
	})
}

// Scale multiplies every element by s.
func Scale(x *Tensor, s float32) (*Tensor, error) {
	return unary(x, "scale", func(v float32) float32 { return s * v })
}

// Add performs element-wise addition of two tensors with identical shapes.
func Add(a, b *Tensor) (*Tensor, error) {
	return binary(a, b, "add", func(x, y float32) float32 { return x + y })
}

// Mul performs element-wise multiplication of two tensors with identical shapes.
func Mul(a, b *Tensor) (*Tensor, error) {
	return binary(a, b, "mul", func(x, y float32) float32 { return x * y })
}

// AddRowVector adds a rank-1 vector of length d to every length-d row of a
// rank-2 tensor [n, d].
func AddRowVector(x, v *Tensor) (*Tensor, error) {
	if x == nil || v == nil {
		return nil, errors.New("tensor: addrowvector requires non-nil inputs")
	}

	if x.Rank() != 2 || v.Rank() != 1 {
		return nil, fmt.Errorf("tensor: addrowvector wants [n,d] + [d], got %v and %v", x.shape, v.shape)
	}

	if x.shape[1] != v.shape[0] {
		return nil, fmt.Errorf("tensor: addrowvector width mismatch: %d vs %d", x.shape[1], v.shape[0])
	}

	out := x.Clone()
	d := int(x.shape[1])

	for i := range out.data {
		out.data[i] += v.data[i%d]
	}

	return out, nil
}

func unary(x *Tensor, opName string, fn func(float32) float32) (*Tensor, error) {
	if x == nil {
		return nil, fmt.Errorf("tensor: %s on nil tensor", opName)
	}

	out := x.Clone()
	for i, v := range out.data {
		out.data[i] = fn(v)
	}

	return out, nil
}

func binary(a, b *Tensor, opName string, fn func(x, y float32) float32) (*Tensor, error) {
	if a == nil || b == nil {
		return nil, fmt.Errorf("tensor: %s requires non-nil inputs", opName)
	}

	if len(a.shape) != len(b.shape) {
		return nil, fmt.Errorf("tensor: %s shape mismatch: %v vs %v", opName, a.shape, b.shape)
	}

	for i := range a.shape {
		if a.shape[i] != b.shape[i] {
			return nil, fmt.Errorf("tensor: %s shape mismatch: %v vs %v", opName, a.shape, b.shape)
		}
	}

	out := a.Clone()
	for i := range out.data {
		out.data[i] = fn(a.data[i], b.data[i])
	}

	return out, nil
}

func dotF32(a, b []float32) float32 {
	var sum float32
	for i := range a {
		sum += a[i] * b[i]
	}

	return sum
}
