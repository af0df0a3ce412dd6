package model

import (
	"fmt"
	"math"

	"github.com/example/go-kokoro-tts/internal/runtime/ops"
	"github.com/example/go-kokoro-tts/internal/runtime/tensor"
)

const layerNormEps = 1e-5

// bertEncoder is the duration-relevant contextual encoder: word and position
// embeddings followed by a small stack of self-attention layers. The
// attention mask uses the "1 excludes" convention: a position whose mask
// entry is 1 receives no attention from any query.
type bertEncoder struct {
	cfg Config

	wordEmb *tensor.Tensor
	posEmb  *tensor.Tensor
	embNorm *normParams

	layers []*bertLayer
}

type bertLayer struct {
	query, key, value, output *linearParams
	attnNorm                  *normParams
	ffnIn, ffnOut             *linearParams
	ffnNorm                   *normParams
}

type linearParams struct {
	weight *tensor.Tensor
	bias   *tensor.Tensor
}

type normParams struct {
	weight *tensor.Tensor
	bias   *tensor.Tensor
}

func (p *linearParams) apply(x *tensor.Tensor) (*tensor.Tensor, error) {
	return tensor.Linear(x, p.weight, p.bias)
}

func (p *normParams) apply(x *tensor.Tensor) (*tensor.Tensor, error) {
	return tensor.LayerNorm(x, p.weight, p.bias, layerNormEps)
}

func loadLinear(vb *VarBuilder, out, in int64) (*linearParams, error) {
	weight, err := vb.Tensor("weight", out, in)
	if err != nil {
		return nil, err
	}

	bias, _, err := vb.TensorMaybe("bias", out)
	if err != nil {
		return nil, err
	}

	return &linearParams{weight: weight, bias: bias}, nil
}

func loadNorm(vb *VarBuilder, dim int64) (*normParams, error) {
	weight, err := vb.Tensor("weight", dim)
	if err != nil {
		return nil, err
	}

	bias, err := vb.Tensor("bias", dim)
	if err != nil {
		return nil, err
	}

	return &normParams{weight: weight, bias: bias}, nil
}

func loadBERT(vb *VarBuilder, cfg Config) (*bertEncoder, error) {
	wordEmb, err := vb.Tensor("embeddings.word.weight", cfg.VocabSize, cfg.BertDim)
	if err != nil {
		return nil, err
	}

	posEmb, err := vb.Tensor("embeddings.position.weight", cfg.MaxPositions, cfg.BertDim)
	if err != nil {
		return nil, err
	}

	embNorm, err := loadNorm(vb.Path("embeddings", "norm"), cfg.BertDim)
	if err != nil {
		return nil, err
	}

	enc := &bertEncoder{
		cfg:     cfg,
		wordEmb: wordEmb,
		posEmb:  posEmb,
		embNorm: embNorm,
		layers:  make([]*bertLayer, cfg.BertLayers),
	}

	for i := range cfg.BertLayers {
		layerVB := vb.Path("layers", fmt.Sprintf("%d", i))

		layer := &bertLayer{}

		layer.query, err = loadLinear(layerVB.Path("attention", "query"), cfg.BertDim, cfg.BertDim)
		if err != nil {
			return nil, err
		}

		layer.key, err = loadLinear(layerVB.Path("attention", "key"), cfg.BertDim, cfg.BertDim)
		if err != nil {
			return nil, err
		}

		layer.value, err = loadLinear(layerVB.Path("attention", "value"), cfg.BertDim, cfg.BertDim)
		if err != nil {
			return nil, err
		}

		layer.output, err = loadLinear(layerVB.Path("attention", "output"), cfg.BertDim, cfg.BertDim)
		if err != nil {
			return nil, err
		}

		layer.attnNorm, err = loadNorm(layerVB.Path("attention", "norm"), cfg.BertDim)
		if err != nil {
			return nil, err
		}

		layer.ffnIn, err = loadLinear(layerVB.Path("ffn", "intermediate"), cfg.BertFFDim, cfg.BertDim)
		if err != nil {
			return nil, err
		}

		layer.ffnOut, err = loadLinear(layerVB.Path("ffn", "output"), cfg.BertDim, cfg.BertFFDim)
		if err != nil {
			return nil, err
		}

		layer.ffnNorm, err = loadNorm(layerVB.Path("ffn", "norm"), cfg.BertDim)
		if err != nil {
			return nil, err
		}

		enc.layers[i] = layer
	}

	return enc, nil
}

// forward encodes padded token ids into [seq, BertDim].
func (e *bertEncoder) forward(ids []int64, attentionMask []int64) (*tensor.Tensor, error) {
	seq := int64(len(ids))
	if seq == 0 {
		return nil, fmt.Errorf("model: bert requires at least one token")
	}

	if seq > e.cfg.MaxPositions {
		return nil, fmt.Errorf("model: sequence length %d exceeds positions %d", seq, e.cfg.MaxPositions)
	}

	if int64(len(attentionMask)) != seq {
		return nil, fmt.Errorf("model: attention mask length %d does not match sequence %d", len(attentionMask), seq)
	}

	x, err := ops.Embedding(e.wordEmb, ids)
	if err != nil {
		return nil, err
	}

	positions := make([]int64, seq)
	for i := range positions {
		positions[i] = int64(i)
	}

	pos, err := ops.Embedding(e.posEmb, positions)
	if err != nil {
		return nil, err
	}

	x, err = tensor.Add(x, pos)
	if err != nil {
		return nil, err
	}

	x, err = e.embNorm.apply(x)
	if err != nil {
		return nil, err
	}

	for _, layer := range e.layers {
		x, err = layer.forward(x, attentionMask, e.cfg.BertHeads)
		if err != nil {
			return nil, err
		}
	}

	return x, nil
}

func (l *bertLayer) forward(x *tensor.Tensor, attentionMask []int64, heads int64) (*tensor.Tensor, error) {
	attn, err := l.selfAttention(x, attentionMask, heads)
	if err != nil {
		return nil, err
	}

	res, err := tensor.Add(x, attn)
	if err != nil {
		return nil, err
	}

	res, err = l.attnNorm.apply(res)
	if err != nil {
		return nil, err
	}

	hidden, err := l.ffnIn.apply(res)
	if err != nil {
		return nil, err
	}

	hidden = gelu(hidden)

	hidden, err = l.ffnOut.apply(hidden)
	if err != nil {
		return nil, err
	}

	out, err := tensor.Add(res, hidden)
	if err != nil {
		return nil, err
	}

	return l.ffnNorm.apply(out)
}

func (l *bertLayer) selfAttention(x *tensor.Tensor, attentionMask []int64, heads int64) (*tensor.Tensor, error) {
	q, err := l.query.apply(x)
	if err != nil {
		return nil, err
	}

	k, err := l.key.apply(x)
	if err != nil {
		return nil, err
	}

	v, err := l.value.apply(x)
	if err != nil {
		return nil, err
	}

	dim, err := x.Dim(1)
	if err != nil {
		return nil, err
	}

	headDim := dim / heads
	scale := float32(1.0 / math.Sqrt(float64(headDim)))

	headOuts := make([]*tensor.Tensor, 0, heads)

	for h := range heads {
		qh, err := q.Narrow(1, h*headDim, headDim)
		if err != nil {
			return nil, err
		}

		kh, err := k.Narrow(1, h*headDim, headDim)
		if err != nil {
			return nil, err
		}

		vh, err := v.Narrow(1, h*headDim, headDim)
		if err != nil {
			return nil, err
		}

		khT, err := kh.Transpose(0, 1)
		if err != nil {
			return nil, err
		}

		scores, err := tensor.MatMul(qh, khT)
		if err != nil {
			return nil, err
		}

		scores, err = tensor.Scale(scores, scale)
		if err != nil {
			return nil, err
		}

		scores, err = applyAttentionMask(scores, attentionMask)
		if err != nil {
			return nil, err
		}

		probs, err := tensor.Softmax(scores, 1)
		if err != nil {
			return nil, err
		}

		ctx, err := tensor.MatMul(probs, vh)
		if err != nil {
			return nil, err
		}

		headOuts = append(headOuts, ctx)
	}

	merged, err := tensor.Concat(headOuts, 1)
	if err != nil {
		return nil, err
	}

	return l.output.apply(merged)
}

// applyAttentionMask pushes scores toward -inf on every key column whose
// mask entry is 1, so those positions vanish after softmax.
func applyAttentionMask(scores *tensor.Tensor, attentionMask []int64) (*tensor.Tensor, error) {
	shape := scores.Shape()
	if len(shape) != 2 || shape[1] != int64(len(attentionMask)) {
		return nil, fmt.Errorf("model: attention mask length %d does not match scores %v", len(attentionMask), shape)
	}

	out := scores.Clone()
	data := out.RawData()
	cols := int(shape[1])

	const veryNegative = float32(-1e9)

	for i := range data {
		if attentionMask[i%cols] != 0 {
			data[i] = veryNegative
		}
	}

	return out, nil
}

func gelu(x *tensor.Tensor) *tensor.Tensor {
	out := x.Clone()
	data := out.RawData()

	const c = 0.7978845608028654 // sqrt(2/pi)

	for i, v := range data {
		f := float64(v)
		data[i] = float32(0.5 * f * (1.0 + math.Tanh(c*(f+0.044715*f*f*f))))
	}

	return out
}
