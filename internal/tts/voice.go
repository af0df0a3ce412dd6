package tts

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/example/go-kokoro-tts/internal/runtime/tensor"
	"github.com/example/go-kokoro-tts/internal/safetensors"
)

var ErrVoiceNotFound = errors.New("tts: voice not found")

// VoiceInfo is one manifest entry. The manifest file voices.json sits next
// to the voice style files and maps voice names to their packs.
type VoiceInfo struct {
	Name     string `json:"name"`
	Language string `json:"language"`
	File     string `json:"file"`
}

type voiceManifest struct {
	Voices []VoiceInfo `json:"voices"`
}

// VoiceProfile holds a voice's style matrix. Each row is the style vector
// for one token-count bucket: a sequence of n tokens uses row n-1. The
// first half of a row conditions the decoder, the second half conditions
// duration and prosody prediction.
type VoiceProfile struct {
	Name   string
	styles *tensor.Tensor
	half   int64
}

// NewVoiceProfile wraps a style matrix [buckets, width]; width must be even.
func NewVoiceProfile(name string, styles *tensor.Tensor) (*VoiceProfile, error) {
	shape := styles.Shape()
	if len(shape) != 2 || shape[1]%2 != 0 {
		return nil, fmt.Errorf("tts: voice %q style matrix must be [buckets, even width], got %v", name, shape)
	}

	return &VoiceProfile{Name: name, styles: styles, half: shape[1] / 2}, nil
}

// StyleFor selects the style row for a token count and splits it into the
// decoder half and the duration/prosody half.
func (p *VoiceProfile) StyleFor(tokenCount int) (decoderStyle, prosodyStyle *tensor.Tensor, err error) {
	buckets := p.styles.Shape()[0]

	if tokenCount < 1 || int64(tokenCount) > buckets {
		return nil, nil, fmt.Errorf("tts: voice %q has no style for %d tokens (buckets: %d)", p.Name, tokenCount, buckets)
	}

	row, err := p.styles.Narrow(0, int64(tokenCount-1), 1)
	if err != nil {
		return nil, nil, err
	}

	dec, err := row.Narrow(1, 0, p.half)
	if err != nil {
		return nil, nil, err
	}

	pros, err := row.Narrow(1, p.half, p.half)
	if err != nil {
		return nil, nil, err
	}

	if decoderStyle, err = dec.Reshape([]int64{p.half}); err != nil {
		return nil, nil, err
	}

	if prosodyStyle, err = pros.Reshape([]int64{p.half}); err != nil {
		return nil, nil, err
	}

	return decoderStyle, prosodyStyle, nil
}

// VoiceManager resolves voice names against a voices directory. When a
// voices.json manifest is present it is authoritative; otherwise every
// *.safetensors file in the directory is offered under its base name.
type VoiceManager struct {
	dir string

	mu       sync.Mutex
	manifest []VoiceInfo
}

func NewVoiceManager(dir string) *VoiceManager {
	return &VoiceManager{dir: dir}
}

// List returns the available voices sorted by name.
func (vm *VoiceManager) List() ([]VoiceInfo, error) {
	infos, err := vm.entries()
	if err != nil {
		return nil, err
	}

	out := make([]VoiceInfo, len(infos))
	copy(out, infos)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })

	return out, nil
}

// Load reads the style matrix for the named voice.
func (vm *VoiceManager) Load(name string) (*VoiceProfile, error) {
	infos, err := vm.entries()
	if err != nil {
		return nil, err
	}

	for _, info := range infos {
		if info.Name != name {
			continue
		}

		return loadVoiceFile(name, filepath.Join(vm.dir, info.File))
	}

	return nil, fmt.Errorf("%w: %q in %s", ErrVoiceNotFound, name, vm.dir)
}

func (vm *VoiceManager) entries() ([]VoiceInfo, error) {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	if vm.manifest != nil {
		return vm.manifest, nil
	}

	manifestPath := filepath.Join(vm.dir, "voices.json")

	raw, err := os.ReadFile(manifestPath)
	switch {
	case err == nil:
		var m voiceManifest
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, fmt.Errorf("tts: parse %s: %w", manifestPath, err)
		}

		vm.manifest = m.Voices

	case os.IsNotExist(err):
		vm.manifest, err = scanVoiceDir(vm.dir)
		if err != nil {
			return nil, err
		}

	default:
		return nil, fmt.Errorf("tts: read %s: %w", manifestPath, err)
	}

	return vm.manifest, nil
}

func scanVoiceDir(dir string) ([]VoiceInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("tts: read voices dir: %w", err)
	}

	var infos []VoiceInfo

	for _, ent := range entries {
		if ent.IsDir() || !strings.HasSuffix(ent.Name(), ".safetensors") {
			continue
		}

		infos = append(infos, VoiceInfo{
			Name: strings.TrimSuffix(ent.Name(), ".safetensors"),
			File: ent.Name(),
		})
	}

	if infos == nil {
		infos = []VoiceInfo{}
	}

	return infos, nil
}

func loadVoiceFile(name, path string) (*VoiceProfile, error) {
	store, err := safetensors.OpenStore(path)
	if err != nil {
		return nil, fmt.Errorf("tts: open voice %q: %w", name, err)
	}
	defer store.Close()

	names := store.Names()
	if len(names) != 1 {
		return nil, fmt.Errorf("tts: voice file %s must hold exactly one tensor, has %d", path, len(names))
	}

	st, err := store.Tensor(names[0])
	if err != nil {
		return nil, err
	}

	shape := st.Shape

	// Some exporters keep a singleton middle axis: [buckets, 1, width].
	if len(shape) == 3 && shape[1] == 1 {
		shape = []int64{shape[0], shape[2]}
	}

	styles, err := tensor.New(st.Data, shape)
	if err != nil {
		return nil, fmt.Errorf("tts: voice %q styles: %w", name, err)
	}

	return NewVoiceProfile(name, styles)
}
