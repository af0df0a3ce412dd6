package model

import (
	"strings"
	"testing"

	"github.com/example/go-kokoro-tts/internal/runtime/tensor"
	"github.com/example/go-kokoro-tts/internal/safetensors"
)

func tinyConfig() Config {
	return Config{
		VocabSize:       5,
		BertDim:         8,
		BertLayers:      1,
		BertHeads:       2,
		BertFFDim:       16,
		MaxPositions:    32,
		HiddenDim:       8,
		StyleDim:        4,
		DurationBins:    3,
		DecoderChannels: []int64{6, 4},
		Upsample:        []int64{2},
		SampleRate:      100,
	}
}

// tinyTensors lists every weight the loader expects for tinyConfig, all
// zero-valued. Shapes follow the checkpoint layout.
func tinyTensors() []safetensors.Tensor {
	shapes := map[string][]int64{
		"bert.embeddings.word.weight":               {5, 8},
		"bert.embeddings.position.weight":           {32, 8},
		"bert.embeddings.norm.weight":               {8},
		"bert.embeddings.norm.bias":                 {8},
		"bert.layers.0.attention.query.weight":      {8, 8},
		"bert.layers.0.attention.query.bias":        {8},
		"bert.layers.0.attention.key.weight":        {8, 8},
		"bert.layers.0.attention.key.bias":          {8},
		"bert.layers.0.attention.value.weight":      {8, 8},
		"bert.layers.0.attention.value.bias":        {8},
		"bert.layers.0.attention.output.weight":     {8, 8},
		"bert.layers.0.attention.output.bias":       {8},
		"bert.layers.0.attention.norm.weight":       {8},
		"bert.layers.0.attention.norm.bias":         {8},
		"bert.layers.0.ffn.intermediate.weight":     {16, 8},
		"bert.layers.0.ffn.intermediate.bias":       {16},
		"bert.layers.0.ffn.output.weight":           {8, 16},
		"bert.layers.0.ffn.output.bias":             {8},
		"bert.layers.0.ffn.norm.weight":             {8},
		"bert.layers.0.ffn.norm.bias":               {8},
		"bert_proj.weight":                          {8, 8},
		"bert_proj.bias":                            {8},
		"duration_encoder.lstm.weight_ih":           {16, 12},
		"duration_encoder.lstm.weight_hh":           {16, 4},
		"duration_encoder.lstm.bias_ih":             {16},
		"duration_encoder.lstm.bias_hh":             {16},
		"duration_encoder.lstm.weight_ih_reverse":   {16, 12},
		"duration_encoder.lstm.weight_hh_reverse":   {16, 4},
		"duration_encoder.lstm.bias_ih_reverse":     {16},
		"duration_encoder.lstm.bias_hh_reverse":     {16},
		"duration_predictor.lstm.weight_ih":         {16, 8},
		"duration_predictor.lstm.weight_hh":         {16, 4},
		"duration_predictor.lstm.bias_ih":           {16},
		"duration_predictor.lstm.bias_hh":           {16},
		"duration_predictor.lstm.weight_ih_reverse": {16, 8},
		"duration_predictor.lstm.weight_hh_reverse": {16, 4},
		"duration_predictor.lstm.bias_ih_reverse":   {16},
		"duration_predictor.lstm.bias_hh_reverse":   {16},
		"duration_predictor.proj.weight":            {3, 8},
		"duration_predictor.proj.bias":              {3},
		"prosody.lstm.weight_ih":                    {16, 12},
		"prosody.lstm.weight_hh":                    {16, 4},
		"prosody.lstm.bias_ih":                      {16},
		"prosody.lstm.bias_hh":                      {16},
		"prosody.lstm.weight_ih_reverse":            {16, 12},
		"prosody.lstm.weight_hh_reverse":            {16, 4},
		"prosody.lstm.bias_ih_reverse":              {16},
		"prosody.lstm.bias_hh_reverse":              {16},
		"prosody.f0.conv1.weight":                   {4, 8, 3},
		"prosody.f0.conv1.bias":                     {4},
		"prosody.f0.conv2.weight":                   {1, 4, 1},
		"prosody.f0.conv2.bias":                     {1},
		"prosody.energy.conv1.weight":               {4, 8, 3},
		"prosody.energy.conv1.bias":                 {4},
		"prosody.energy.conv2.weight":               {1, 4, 1},
		"prosody.energy.conv2.bias":                 {1},
		"text_encoder.embedding.weight":             {5, 8},
		"text_encoder.convs.0.weight":               {8, 8, 3},
		"text_encoder.convs.0.bias":                 {8},
		"text_encoder.convs.1.weight":               {8, 8, 3},
		"text_encoder.convs.1.bias":                 {8},
		"text_encoder.convs.2.weight":               {8, 8, 3},
		"text_encoder.convs.2.bias":                 {8},
		"text_encoder.lstm.weight_ih":               {16, 8},
		"text_encoder.lstm.weight_hh":               {16, 4},
		"text_encoder.lstm.bias_ih":                 {16},
		"text_encoder.lstm.bias_hh":                 {16},
		"text_encoder.lstm.weight_ih_reverse":       {16, 8},
		"text_encoder.lstm.weight_hh_reverse":       {16, 4},
		"text_encoder.lstm.bias_ih_reverse":         {16},
		"text_encoder.lstm.bias_hh_reverse":         {16},
		"decoder.input.weight":                      {6, 10, 7},
		"decoder.input.bias":                        {6},
		"decoder.style.weight":                      {6, 4},
		"decoder.style.bias":                        {6},
		"decoder.ups.0.weight":                      {4, 6, 9},
		"decoder.ups.0.bias":                        {4},
		"decoder.output.weight":                     {1, 4, 7},
		"decoder.output.bias":                       {1},
	}

	tensors := make([]safetensors.Tensor, 0, len(shapes))
	for name, shape := range shapes {
		count := int64(1)
		for _, d := range shape {
			count *= d
		}
		tensors = append(tensors, safetensors.Tensor{
			Name:  name,
			Shape: shape,
			Data:  make([]float32, count),
		})
	}

	return tensors
}

func tinyModel(t *testing.T) *Model {
	t.Helper()

	data, err := safetensors.EncodeTensors(tinyTensors())
	if err != nil {
		t.Fatalf("encode store: %v", err)
	}

	store, err := safetensors.OpenStoreFromBytes(data)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}

	m, err := LoadFromStore(store, tinyConfig())
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	return m
}

func TestLoadFromStoreAndForwardShapes(t *testing.T) {
	m := tinyModel(t)

	ids := []int64{0, 1, 2, 3, 0}
	attn := []int64{0, 0, 0, 0, 0}
	validity := []int64{1, 1, 1, 1, 1}

	hidden, err := m.ContextEncode(ids, attn)
	if err != nil {
		t.Fatalf("context encode: %v", err)
	}
	if s := hidden.Shape(); s[0] != 8 || s[1] != 5 {
		t.Fatalf("hidden shape = %v, want [8 5]", s)
	}

	style, _ := tensor.Zeros([]int64{4})

	encoded, err := m.EncodeDuration(hidden, style)
	if err != nil {
		t.Fatalf("encode duration: %v", err)
	}
	if s := encoded.Shape(); s[0] != 5 || s[1] != 8 {
		t.Fatalf("encoded shape = %v, want [5 8]", s)
	}

	logits, err := m.PredictDuration(encoded)
	if err != nil {
		t.Fatalf("predict duration: %v", err)
	}
	if s := logits.Shape(); s[0] != 5 || s[1] != 3 {
		t.Fatalf("logits shape = %v, want [5 3]", s)
	}

	textFeat, err := m.EncodeText(ids, validity)
	if err != nil {
		t.Fatalf("encode text: %v", err)
	}
	if s := textFeat.Shape(); s[0] != 8 || s[1] != 5 {
		t.Fatalf("text features shape = %v, want [8 5]", s)
	}

	// Pretend each position got 2 frames.
	frames, _ := tensor.Zeros([]int64{8, 10})

	f0, energy, err := m.PredictProsody(frames, style)
	if err != nil {
		t.Fatalf("predict prosody: %v", err)
	}
	if f0.ElemCount() != 10 || energy.ElemCount() != 10 {
		t.Fatalf("prosody lengths = %d, %d, want 10", f0.ElemCount(), energy.ElemCount())
	}

	aligned, _ := tensor.Zeros([]int64{8, 10})

	samples, err := m.Decode(aligned, f0, energy, style)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(samples) != 10*m.HopLength() {
		t.Fatalf("samples = %d, want %d", len(samples), 10*m.HopLength())
	}
}

func TestLoadFailsOnMissingTensor(t *testing.T) {
	tensors := tinyTensors()

	filtered := tensors[:0]
	for _, tt := range tensors {
		if tt.Name == "decoder.output.weight" {
			continue
		}
		filtered = append(filtered, tt)
	}

	data, err := safetensors.EncodeTensors(filtered)
	if err != nil {
		t.Fatalf("encode store: %v", err)
	}

	store, err := safetensors.OpenStoreFromBytes(data)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}

	if _, err := LoadFromStore(store, tinyConfig()); err == nil {
		t.Fatal("expected error for missing decoder tensor")
	} else if !strings.Contains(err.Error(), "decoder") {
		t.Fatalf("error %v should mention the decoder", err)
	}
}

func TestLoadFailsOnWrongShape(t *testing.T) {
	tensors := tinyTensors()
	for i := range tensors {
		if tensors[i].Name == "bert_proj.weight" {
			tensors[i].Shape = []int64{4, 8}
			tensors[i].Data = make([]float32, 32)
		}
	}

	data, err := safetensors.EncodeTensors(tensors)
	if err != nil {
		t.Fatalf("encode store: %v", err)
	}

	store, err := safetensors.OpenStoreFromBytes(data)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}

	if _, err := LoadFromStore(store, tinyConfig()); err == nil {
		t.Fatal("expected error for wrong bert_proj shape")
	}
}

func TestDefaultConfigHop(t *testing.T) {
	cfg := DefaultConfig()
	if got := cfg.HopLength(); got != 600 {
		t.Fatalf("hop = %d, want 600", got)
	}
	if cfg.SampleRate != 24000 {
		t.Fatalf("sample rate = %d, want 24000", cfg.SampleRate)
	}
	if err := cfg.validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestConfigValidation(t *testing.T) {
	bad := tinyConfig()
	bad.BertHeads = 3 // does not divide BertDim 8
	if err := bad.validate(); err == nil {
		t.Fatal("expected error for indivisible head count")
	}

	bad = tinyConfig()
	bad.DecoderChannels = []int64{6}
	if err := bad.validate(); err == nil {
		t.Fatal("expected error for channel/upsample mismatch")
	}
}
