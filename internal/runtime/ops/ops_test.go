package ops

import (
	"math"
	"testing"

	"github.com/example/go-kokoro-tts/internal/runtime/tensor"
)

func TestEmbeddingLookup(t *testing.T) {
	table, _ := tensor.New([]float32{
		0, 0,
		1, 2,
		3, 4,
	}, []int64{3, 2})

	out, err := Embedding(table, []int64{2, 0, 1})
	if err != nil {
		t.Fatalf("embedding: %v", err)
	}
	if got := out.Shape(); got[0] != 3 || got[1] != 2 {
		t.Fatalf("shape = %v, want [3 2]", got)
	}
	want := []float32{3, 4, 0, 0, 1, 2}
	if got := out.Data(); !equalApprox(got, want, 0) {
		t.Fatalf("data = %v, want %v", got, want)
	}
}

func TestEmbeddingRejectsOutOfRange(t *testing.T) {
	table, _ := tensor.New([]float32{1, 2}, []int64{1, 2})
	if _, err := Embedding(table, []int64{1}); err == nil {
		t.Fatal("expected error for out-of-range id")
	}
	if _, err := Embedding(table, []int64{-1}); err == nil {
		t.Fatal("expected error for negative id")
	}
}

func TestUpsampleNearestRepeatsColumns(t *testing.T) {
	x, _ := tensor.New([]float32{1, 2, 3, 4}, []int64{2, 2})
	out, err := UpsampleNearest(x, 3)
	if err != nil {
		t.Fatalf("upsample: %v", err)
	}
	if got := out.Shape(); got[0] != 2 || got[1] != 6 {
		t.Fatalf("shape = %v, want [2 6]", got)
	}
	want := []float32{1, 1, 1, 2, 2, 2, 3, 3, 3, 4, 4, 4}
	if got := out.Data(); !equalApprox(got, want, 0) {
		t.Fatalf("data = %v, want %v", got, want)
	}
}

func TestConv1DIdentityKernel(t *testing.T) {
	x, _ := tensor.New([]float32{1, 2, 3, 4}, []int64{1, 4})
	// Kernel [1,1,1] with value 1 is the identity for padding 0.
	k, _ := tensor.New([]float32{1}, []int64{1, 1, 1})

	out, err := Conv1D(x, k, nil, 0)
	if err != nil {
		t.Fatalf("conv1d: %v", err)
	}
	if got := out.Data(); !equalApprox(got, []float32{1, 2, 3, 4}, 1e-6) {
		t.Fatalf("data = %v", got)
	}
}

func TestConv1DMovingSumWithPadding(t *testing.T) {
	x, _ := tensor.New([]float32{1, 2, 3}, []int64{1, 3})
	k, _ := tensor.New([]float32{1, 1, 1}, []int64{1, 1, 3})

	out, err := Conv1D(x, k, nil, 1)
	if err != nil {
		t.Fatalf("conv1d: %v", err)
	}
	if got := out.Shape(); got[1] != 3 {
		t.Fatalf("padding 1 should preserve length, got shape %v", out.Shape())
	}
	want := []float32{3, 6, 5}
	if got := out.Data(); !equalApprox(got, want, 1e-6) {
		t.Fatalf("data = %v, want %v", got, want)
	}
}

func TestConv1DBiasAndChannels(t *testing.T) {
	x, _ := tensor.New([]float32{
		1, 2,
		3, 4,
	}, []int64{2, 2})
	// Two output channels: first sums both input channels, second negates
	// the first input channel.
	k, _ := tensor.New([]float32{
		1, 1,
		-1, 0,
	}, []int64{2, 2, 1})
	bias, _ := tensor.New([]float32{0, 10}, []int64{2})

	out, err := Conv1D(x, k, bias, 0)
	if err != nil {
		t.Fatalf("conv1d: %v", err)
	}
	want := []float32{4, 6, 9, 8}
	if got := out.Data(); !equalApprox(got, want, 1e-6) {
		t.Fatalf("data = %v, want %v", got, want)
	}
}

func zeroLSTMParams(in, hidden int64) LSTMParams {
	wih, _ := tensor.Zeros([]int64{4 * hidden, in})
	whh, _ := tensor.Zeros([]int64{4 * hidden, hidden})
	bih, _ := tensor.Zeros([]int64{4 * hidden})
	bhh, _ := tensor.Zeros([]int64{4 * hidden})
	return LSTMParams{WIH: wih, WHH: whh, BIH: bih, BHH: bhh}
}

func TestLSTMZeroWeightsYieldZeroHidden(t *testing.T) {
	// With all-zero weights the cell input gate g is tanh(0) = 0, so the
	// cell state and the hidden output stay zero for every timestep.
	x, _ := tensor.New([]float32{1, -2, 3, 4, 0, 1}, []int64{3, 2})
	out, err := LSTM(x, zeroLSTMParams(2, 4), false)
	if err != nil {
		t.Fatalf("lstm: %v", err)
	}
	if got := out.Shape(); got[0] != 3 || got[1] != 4 {
		t.Fatalf("shape = %v, want [3 4]", got)
	}
	for i, v := range out.Data() {
		if v != 0 {
			t.Fatalf("hidden[%d] = %v, want 0", i, v)
		}
	}
}

func TestLSTMForgetBiasAccumulates(t *testing.T) {
	// A large input-gate and cell bias pushes each step toward
	// h = sigmoid(0) * tanh(c), making the output strictly nonzero.
	p := zeroLSTMParams(1, 1)
	bih := p.BIH.RawData()
	bih[0] = 100 // input gate saturated open
	bih[2] = 100 // cell candidate saturated to tanh(100) ~ 1

	x, _ := tensor.New([]float32{0, 0}, []int64{2, 1})
	out, err := LSTM(x, p, false)
	if err != nil {
		t.Fatalf("lstm: %v", err)
	}

	data := out.Data()
	// c1 = 1, c2 = f*c1 + 1 = 1.5, h = 0.5*tanh(c).
	want0 := 0.5 * math.Tanh(1)
	want1 := 0.5 * math.Tanh(1.5)
	if math.Abs(float64(data[0])-want0) > 1e-4 {
		t.Fatalf("h[0] = %v, want %v", data[0], want0)
	}
	if math.Abs(float64(data[1])-want1) > 1e-4 {
		t.Fatalf("h[1] = %v, want %v", data[1], want1)
	}
}

func TestBiLSTMConcatenatesDirections(t *testing.T) {
	x, _ := tensor.New([]float32{1, 2, 3}, []int64{3, 1})
	out, err := BiLSTM(x, zeroLSTMParams(1, 2), zeroLSTMParams(1, 2))
	if err != nil {
		t.Fatalf("bilstm: %v", err)
	}
	if got := out.Shape(); got[0] != 3 || got[1] != 4 {
		t.Fatalf("shape = %v, want [3 4]", got)
	}
}

func TestLSTMReverseProcessesImpulseLast(t *testing.T) {
	p := zeroLSTMParams(1, 1)
	wih := p.WIH.RawData()
	wih[0] = 100 // input gate follows x
	wih[2] = 100 // cell candidate follows x

	x, _ := tensor.New([]float32{1, 0, 0}, []int64{3, 1})

	fwd, err := LSTM(x, p, false)
	if err != nil {
		t.Fatalf("lstm fwd: %v", err)
	}
	rev, err := LSTM(x, p, true)
	if err != nil {
		t.Fatalf("lstm rev: %v", err)
	}

	f := fwd.Data()
	r := rev.Data()

	// The forward pass meets the impulse on its first step with a zero
	// state. The reverse pass walks t=2,1,0, where the zero inputs leave
	// the cell state at zero, so its final step at t=0 sees the impulse
	// from a zero state as well. Both stored outputs at t=0 must agree.
	if math.Abs(float64(f[0]-r[0])) > 1e-5 {
		t.Fatalf("fwd[0] = %v, rev[0] = %v, want equal", f[0], r[0])
	}

	// The reverse pass's first visited steps carry zero input, so their
	// stored hidden values differ from the forward pass's accumulating
	// tail. The outputs are not globally identical.
	if equalApprox(f, r, 1e-7) {
		t.Fatal("forward and reverse outputs should differ beyond t=0")
	}
}

func equalApprox(got, want []float32, tol float64) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if math.Abs(float64(got[i]-want[i])) > tol {
			return false
		}
	}
	return true
}
