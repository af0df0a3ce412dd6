// Package model loads a speech synthesis checkpoint from safetensors and
// exposes its sub-models as pure float32 forward passes. The heavy lifting
// happens in internal/runtime; this package only wires weights to ops.
package model

import (
	"fmt"

	"github.com/example/go-kokoro-tts/internal/runtime/tensor"
	"github.com/example/go-kokoro-tts/internal/safetensors"
)

// Model bundles the five sub-models of the synthesis pipeline. All methods
// are safe for concurrent use once loading has finished: forward passes do
// not mutate the weights.
type Model struct {
	cfg Config

	bert     *bertEncoder
	bertProj *linearParams
	durEnc   *durationEncoder
	durPred  *durationPredictor
	prosody  *prosodyPredictor
	textEnc  *textEncoder
	dec      *decoder

	store *safetensors.Store
}

// Load memory-maps a checkpoint file and builds the sub-models with the
// default dimensions.
func Load(path string) (*Model, error) {
	return LoadWithConfig(path, DefaultConfig())
}

func LoadWithConfig(path string, cfg Config) (*Model, error) {
	store, err := safetensors.OpenStore(path)
	if err != nil {
		return nil, fmt.Errorf("model: open checkpoint: %w", err)
	}

	m, err := LoadFromStore(store, cfg)
	if err != nil {
		store.Close()
		return nil, err
	}

	m.store = store

	return m, nil
}

// LoadFromStore builds a Model from an already-open store. The caller keeps
// ownership of the store unless the model was created through Load.
func LoadFromStore(store *safetensors.Store, cfg Config) (*Model, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	vb := NewVarBuilder(store)

	m := &Model{cfg: cfg}

	var err error

	if m.bert, err = loadBERT(vb.Path("bert"), cfg); err != nil {
		return nil, fmt.Errorf("model: load context encoder: %w", err)
	}

	if m.bertProj, err = loadLinear(vb.Path("bert_proj"), cfg.HiddenDim, cfg.BertDim); err != nil {
		return nil, fmt.Errorf("model: load context projection: %w", err)
	}

	if m.durEnc, err = loadDurationEncoder(vb.Path("duration_encoder")); err != nil {
		return nil, fmt.Errorf("model: load duration encoder: %w", err)
	}

	if m.durPred, err = loadDurationPredictor(vb.Path("duration_predictor"), cfg); err != nil {
		return nil, fmt.Errorf("model: load duration predictor: %w", err)
	}

	if m.prosody, err = loadProsody(vb.Path("prosody")); err != nil {
		return nil, fmt.Errorf("model: load prosody predictor: %w", err)
	}

	if m.textEnc, err = loadTextEncoder(vb.Path("text_encoder"), cfg); err != nil {
		return nil, fmt.Errorf("model: load text encoder: %w", err)
	}

	if m.dec, err = loadDecoder(vb.Path("decoder"), cfg); err != nil {
		return nil, fmt.Errorf("model: load decoder: %w", err)
	}

	return m, nil
}

func (m *Model) Config() Config { return m.cfg }

// SampleRate is the output rate in Hz.
func (m *Model) SampleRate() int { return m.cfg.SampleRate }

// HopLength is the number of samples one acoustic frame expands to.
func (m *Model) HopLength() int { return m.cfg.HopLength() }

// ContextEncode runs the contextual encoder over padded token ids and
// projects the result to the hidden width, returning [hidden, seq].
// The attention mask marks positions to EXCLUDE with 1.
func (m *Model) ContextEncode(ids []int64, attentionMask []int64) (*tensor.Tensor, error) {
	ctx, err := m.bert.forward(ids, attentionMask)
	if err != nil {
		return nil, err
	}

	projected, err := m.bertProj.apply(ctx)
	if err != nil {
		return nil, err
	}

	return projected.Transpose(0, 1)
}

// EncodeDuration fuses [hidden, seq] contextual features with the prosody
// style row and returns duration features [seq, hidden].
func (m *Model) EncodeDuration(hidden, style *tensor.Tensor) (*tensor.Tensor, error) {
	return m.durEnc.forward(hidden, style)
}

// PredictDuration maps [seq, hidden] duration features to per-token bin
// logits [seq, bins].
func (m *Model) PredictDuration(encoded *tensor.Tensor) (*tensor.Tensor, error) {
	return m.durPred.forward(encoded)
}

// PredictProsody produces the F0 and energy curves, each [frames], from
// frame-aligned duration features [hidden, frames] and the prosody style row.
func (m *Model) PredictProsody(frames, style *tensor.Tensor) (f0, energy *tensor.Tensor, err error) {
	return m.prosody.forward(frames, style)
}

// EncodeText produces the acoustic text representation [hidden, seq] from
// padded token ids. The validity mask marks real positions with 1.
func (m *Model) EncodeText(ids []int64, validityMask []int64) (*tensor.Tensor, error) {
	return m.textEnc.forward(ids, validityMask)
}

// Decode synthesizes the waveform from frame-aligned text features
// [hidden, frames], the prosody curves, and the decoder style row.
func (m *Model) Decode(aligned, f0, energy, style *tensor.Tensor) ([]float32, error) {
	return m.dec.forward(aligned, f0, energy, style)
}

// Close releases the underlying store if this model owns one.
func (m *Model) Close() error {
	if m.store == nil {
		return nil
	}

	m.store.Close()
	m.store = nil

	return nil
}
