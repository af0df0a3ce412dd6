package safetensors

import (
	"encoding/binary"
	"encoding/json"
	"math"
	"path/filepath"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	in := []Tensor{
		{Name: "b.weight", Shape: []int64{2, 2}, Data: []float32{1, 2, 3, 4}},
		{Name: "a.bias", Shape: []int64{3}, Data: []float32{-1, 0, 1}},
	}

	data, err := EncodeTensors(in)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	store, err := OpenStoreFromBytes(data)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer store.Close()

	names := store.Names()
	if len(names) != 2 || names[0] != "a.bias" || names[1] != "b.weight" {
		t.Fatalf("names = %v, want sorted [a.bias b.weight]", names)
	}

	got, err := store.Tensor("b.weight")
	if err != nil {
		t.Fatalf("tensor: %v", err)
	}
	if !equalShape(got.Shape, []int64{2, 2}) {
		t.Fatalf("shape = %v", got.Shape)
	}
	for i, want := range []float32{1, 2, 3, 4} {
		if got.Data[i] != want {
			t.Fatalf("data[%d] = %v, want %v", i, got.Data[i], want)
		}
	}
}

func TestEncodeIsDeterministic(t *testing.T) {
	in := []Tensor{
		{Name: "z", Shape: []int64{1}, Data: []float32{1}},
		{Name: "a", Shape: []int64{1}, Data: []float32{2}},
	}

	first, err := EncodeTensors(in)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	// Reversed input order must produce identical bytes.
	second, err := EncodeTensors([]Tensor{in[1], in[0]})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	if string(first) != string(second) {
		t.Fatal("encoding is order-dependent")
	}
}

func TestEncodeRejectsBadInput(t *testing.T) {
	if _, err := EncodeTensors(nil); err == nil {
		t.Fatal("expected error for empty tensor list")
	}

	if _, err := EncodeTensors([]Tensor{{Name: "", Shape: []int64{1}, Data: []float32{1}}}); err == nil {
		t.Fatal("expected error for empty name")
	}

	if _, err := EncodeTensors([]Tensor{{Name: "x", Shape: []int64{2}, Data: []float32{1}}}); err == nil {
		t.Fatal("expected error for shape/data mismatch")
	}

	dupe := []Tensor{
		{Name: "x", Shape: []int64{1}, Data: []float32{1}},
		{Name: "x", Shape: []int64{1}, Data: []float32{2}},
	}
	if _, err := EncodeTensors(dupe); err == nil {
		t.Fatal("expected error for duplicate names")
	}
}

func TestWriteFileAndOpenStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weights.safetensors")

	err := WriteFile(path, []Tensor{{Name: "w", Shape: []int64{2}, Data: []float32{5, 6}}})
	if err != nil {
		t.Fatalf("write: %v", err)
	}

	store, err := OpenStore(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer store.Close()

	if !store.Has("w") {
		t.Fatal("store should contain tensor w")
	}

	got, err := store.TensorWithShape("w", []int64{2})
	if err != nil {
		t.Fatalf("tensor: %v", err)
	}
	if got.Data[0] != 5 || got.Data[1] != 6 {
		t.Fatalf("data = %v", got.Data)
	}

	if _, err := store.TensorWithShape("w", []int64{3}); err == nil {
		t.Fatal("expected shape mismatch error")
	}

	if _, err := store.Tensor("missing"); err == nil {
		t.Fatal("expected error for unknown tensor")
	}
}

// buildContainer assembles a raw safetensors byte stream with an arbitrary
// dtype, for decode paths the writer does not produce.
func buildContainer(t *testing.T, dtype string, shape []int64, payload []byte) []byte {
	t.Helper()

	header := map[string]storeHeaderEntry{
		"x": {DType: dtype, Shape: shape, Offsets: [2]int{0, len(payload)}},
	}
	headerJSON, err := json.Marshal(header)
	if err != nil {
		t.Fatalf("marshal header: %v", err)
	}

	out := make([]byte, 8, 8+len(headerJSON)+len(payload))
	binary.LittleEndian.PutUint64(out, uint64(len(headerJSON)))
	out = append(out, headerJSON...)
	out = append(out, payload...)

	return out
}

func TestDecodeF16(t *testing.T) {
	// 1.5 in IEEE half precision.
	payload := make([]byte, 2)
	binary.LittleEndian.PutUint16(payload, 0x3E00)

	store, err := OpenStoreFromBytes(buildContainer(t, dtypeF16, []int64{1}, payload))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer store.Close()

	got, err := store.Tensor("x")
	if err != nil {
		t.Fatalf("tensor: %v", err)
	}
	if math.Abs(float64(got.Data[0])-1.5) > 1e-6 {
		t.Fatalf("f16 decode = %v, want 1.5", got.Data[0])
	}
}

func TestDecodeBF16(t *testing.T) {
	// bfloat16 keeps the top 16 bits of the float32 pattern: 1.5 = 0x3FC0.
	payload := make([]byte, 2)
	binary.LittleEndian.PutUint16(payload, 0x3FC0)

	store, err := OpenStoreFromBytes(buildContainer(t, dtypeBF16, []int64{1}, payload))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer store.Close()

	got, err := store.Tensor("x")
	if err != nil {
		t.Fatalf("tensor: %v", err)
	}
	if math.Abs(float64(got.Data[0])-1.5) > 1e-6 {
		t.Fatalf("bf16 decode = %v, want 1.5", got.Data[0])
	}
}

func TestOpenStoreRejectsCorruptHeader(t *testing.T) {
	if _, err := OpenStoreFromBytes(nil); err == nil {
		t.Fatal("expected error for empty input")
	}

	if _, err := OpenStoreFromBytes([]byte{1, 2, 3}); err == nil {
		t.Fatal("expected error for truncated length prefix")
	}

	// Valid prefix, garbage JSON.
	data := make([]byte, 8, 12)
	binary.LittleEndian.PutUint64(data, 4)
	data = append(data, []byte("{{{{")...)
	if _, err := OpenStoreFromBytes(data); err == nil {
		t.Fatal("expected error for invalid header JSON")
	}
}

func TestOpenStoreRejectsUnsupportedDtype(t *testing.T) {
	payload := make([]byte, 8)
	if _, err := OpenStoreFromBytes(buildContainer(t, "I64", []int64{1}, payload)); err == nil {
		t.Fatal("expected error for unsupported dtype")
	}
}
