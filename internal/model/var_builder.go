package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/example/go-kokoro-tts/internal/runtime/tensor"
	"github.com/example/go-kokoro-tts/internal/safetensors"
)

// VarBuilder provides hierarchical tensor lookup over a safetensors store,
// so sub-model loaders can address weights relative to their own prefix.
type VarBuilder struct {
	store  *safetensors.Store
	prefix string
}

func NewVarBuilder(store *safetensors.Store) *VarBuilder {
	return &VarBuilder{store: store}
}

func (vb *VarBuilder) Path(parts ...string) *VarBuilder {
	if vb == nil {
		return nil
	}

	prefix := vb.prefix

	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		if prefix == "" {
			prefix = part
		} else {
			prefix += "." + part
		}
	}

	return &VarBuilder{store: vb.store, prefix: prefix}
}

func (vb *VarBuilder) Has(name string) bool {
	if vb == nil || vb.store == nil {
		return false
	}

	return vb.store.Has(vb.resolve(name))
}

func (vb *VarBuilder) Tensor(name string, wantShape ...int64) (*tensor.Tensor, error) {
	if vb == nil || vb.store == nil {
		return nil, errors.New("model: varbuilder has no store")
	}

	fullName := vb.resolve(name)

	st, err := vb.store.Tensor(fullName)
	if err != nil {
		return nil, err
	}

	if len(wantShape) > 0 && !equalShape(st.Shape, wantShape) {
		return nil, fmt.Errorf("model: tensor %q shape %v does not match expected %v", fullName, st.Shape, wantShape)
	}

	t, err := tensor.New(st.Data, st.Shape)
	if err != nil {
		return nil, fmt.Errorf("model: tensor %q: %w", fullName, err)
	}

	return t, nil
}

// TensorMaybe returns (nil, false, nil) when the tensor is absent.
func (vb *VarBuilder) TensorMaybe(name string, wantShape ...int64) (*tensor.Tensor, bool, error) {
	if !vb.Has(name) {
		return nil, false, nil
	}

	t, err := vb.Tensor(name, wantShape...)
	if err != nil {
		return nil, true, err
	}

	return t, true, nil
}

func (vb *VarBuilder) resolve(name string) string {
	name = strings.TrimSpace(name)
	if vb == nil || vb.prefix == "" {
		return name
	}

	if name == "" {
		return vb.prefix
	}

	return vb.prefix + "." + name
}

func equalShape(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}
