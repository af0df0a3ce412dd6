// Package tts orchestrates the synthesis pipeline: text through the
// grapheme-to-phoneme front-end, the tokenizer, the neural sub-models, and
// out as 24 kHz samples with optional word timestamps.
package tts

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/example/go-kokoro-tts/internal/g2p"
	"github.com/example/go-kokoro-tts/internal/runtime/tensor"
	"github.com/example/go-kokoro-tts/internal/tokenizer"
)

const DefaultSpeed = 1.0

var (
	ErrNoModel = errors.New("tts: engine has no model")
	ErrNoVoice = errors.New("tts: no voice selected")
)

// Model is the sub-model surface the engine drives. *model.Model satisfies
// it; tests substitute doubles.
type Model interface {
	ContextEncode(ids, attentionMask []int64) (*tensor.Tensor, error)
	EncodeDuration(hidden, style *tensor.Tensor) (*tensor.Tensor, error)
	PredictDuration(encoded *tensor.Tensor) (*tensor.Tensor, error)
	EncodeText(ids, validityMask []int64) (*tensor.Tensor, error)
	PredictProsody(frames, style *tensor.Tensor) (f0, energy *tensor.Tensor, err error)
	Decode(aligned, f0, energy, style *tensor.Tensor) ([]float32, error)
	SampleRate() int
	HopLength() int
}

// TokenEncoder maps a phoneme string to model token ids.
type TokenEncoder interface {
	Encode(phonemes string) ([]int64, error)
	Units(phonemes string) int
}

// VoiceLoader resolves a voice name to its style profile.
type VoiceLoader interface {
	Load(name string) (*VoiceProfile, error)
}

// GenerateOptions tune one synthesis call. A zero Speed means DefaultSpeed.
type GenerateOptions struct {
	Speed             float64
	IncludeTimestamps bool
}

// Result is one synthesized utterance.
type Result struct {
	Samples    []float32
	SampleRate int
	FrameCount int64
	Phonemes   string
	Tokens     []g2p.Token
}

// Duration is the audible length of the result.
func (r *Result) Duration() time.Duration {
	if r.SampleRate <= 0 {
		return 0
	}

	return time.Duration(float64(len(r.Samples)) / float64(r.SampleRate) * float64(time.Second))
}

// Engine runs the synthesis pipeline. It caches the loaded voice profile
// and the front-end language so consecutive calls with the same settings
// skip the reload; both caches update only after the new setting has been
// applied successfully. An Engine serializes its calls.
type Engine struct {
	mu sync.Mutex

	model   Model
	proc    g2p.Processor
	encoder TokenEncoder
	voices  VoiceLoader
	log     *slog.Logger

	voiceName string
	profile   *VoiceProfile
	language  string
}

func NewEngine(model Model, proc g2p.Processor, encoder TokenEncoder, voices VoiceLoader, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}

	return &Engine{
		model:   model,
		proc:    proc,
		encoder: encoder,
		voices:  voices,
		log:     logger,
	}
}

// Generate synthesizes text with the named voice and front-end language.
func (e *Engine) Generate(voice, language, text string, opts GenerateOptions) (*Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.model == nil {
		return nil, ErrNoModel
	}

	if voice == "" {
		return nil, ErrNoVoice
	}

	speed := opts.Speed
	if speed == 0 {
		speed = DefaultSpeed
	}

	if speed <= 0 {
		return nil, fmt.Errorf("tts: speed must be positive, got %g", speed)
	}

	started := time.Now()

	if err := e.ensureLanguage(language); err != nil {
		return nil, err
	}

	phonemes, words, err := e.phonemize(text, opts.IncludeTimestamps)
	if err != nil {
		return nil, err
	}

	ids, err := e.encoder.Encode(phonemes)
	if err != nil {
		return nil, err
	}

	if len(ids) == 0 {
		return nil, fmt.Errorf("tts: text %q produced no tokens", text)
	}

	profile, err := e.ensureVoice(voice)
	if err != nil {
		return nil, err
	}

	decoderStyle, prosodyStyle, err := profile.StyleFor(len(ids))
	if err != nil {
		return nil, err
	}

	padded := tokenizer.PadBoundaries(ids)
	validity := ValidityMask(len(padded))
	attention := AttentionMask(validity)

	hidden, err := e.model.ContextEncode(padded, attention)
	if err != nil {
		return nil, err
	}

	encoded, err := e.model.EncodeDuration(hidden, prosodyStyle)
	if err != nil {
		return nil, err
	}

	logits, err := e.model.PredictDuration(encoded)
	if err != nil {
		return nil, err
	}

	durations, err := FrameDurations(logits, speed)
	if err != nil {
		return nil, err
	}

	alignment, err := BuildAlignment(durations)
	if err != nil {
		return nil, err
	}

	encodedT, err := encoded.Transpose(0, 1)
	if err != nil {
		return nil, err
	}

	durFrames, err := ExpandToFrames(encodedT, alignment)
	if err != nil {
		return nil, err
	}

	f0, energy, err := e.model.PredictProsody(durFrames, prosodyStyle)
	if err != nil {
		return nil, err
	}

	text2, err := e.model.EncodeText(padded, validity)
	if err != nil {
		return nil, err
	}

	aligned, err := ExpandToFrames(text2, alignment)
	if err != nil {
		return nil, err
	}

	samples, err := e.model.Decode(aligned, f0, energy, decoderStyle)
	if err != nil {
		return nil, err
	}

	frames, err := alignment.Dim(1)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Samples:    samples,
		SampleRate: e.model.SampleRate(),
		FrameCount: frames,
		Phonemes:   phonemes,
	}

	if opts.IncludeTimestamps {
		unitCounts := make([]int, len(words))
		for i, w := range words {
			unitCounts[i] = e.encoder.Units(w.Phonemes)
		}

		if err := assignTimestamps(words, unitCounts, durations, e.model.HopLength(), result.SampleRate); err != nil {
			return nil, err
		}

		result.Tokens = words
	}

	e.log.Debug("synthesis complete",
		"voice", voice,
		"tokens", len(ids),
		"frames", frames,
		"samples", len(samples),
		"elapsed", time.Since(started),
	)

	return result, nil
}

// ensureLanguage reconfigures the front-end when the language changes. The
// cached language advances only after Configure succeeds, so a failed switch
// leaves the previous front-end intact.
func (e *Engine) ensureLanguage(language string) error {
	if language == "" || language == e.language {
		return nil
	}

	if e.proc == nil {
		return g2p.ErrProcessorNotInitialized
	}

	if err := e.proc.Configure(language); err != nil {
		return err
	}

	e.language = language

	return nil
}

// ensureVoice returns the cached profile, loading it only when the voice
// name changed since the previous call.
func (e *Engine) ensureVoice(voice string) (*VoiceProfile, error) {
	if e.profile != nil && e.voiceName == voice {
		return e.profile, nil
	}

	if e.voices == nil {
		return nil, fmt.Errorf("%w: no voice loader", ErrVoiceNotFound)
	}

	profile, err := e.voices.Load(voice)
	if err != nil {
		return nil, err
	}

	e.voiceName = voice
	e.profile = profile

	return profile, nil
}

func (e *Engine) phonemize(text string, withTokens bool) (string, []g2p.Token, error) {
	if e.proc == nil {
		return "", nil, g2p.ErrProcessorNotInitialized
	}

	if withTokens {
		_, tokens, err := e.proc.ProcessWithTokens(text)
		if err != nil {
			return "", nil, err
		}

		return joinTokenPhonemes(tokens), tokens, nil
	}

	phonemes, err := e.proc.Process(text)
	if err != nil {
		return "", nil, err
	}

	return phonemes, nil, nil
}

func joinTokenPhonemes(tokens []g2p.Token) string {
	out := ""
	for i, tok := range tokens {
		if i > 0 {
			out += " "
		}

		out += tok.Phonemes
	}

	return out
}
