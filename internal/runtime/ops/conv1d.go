package ops

import (
	"fmt"

	"github.com/example/go-kokoro-tts/internal/runtime/tensor"
)

// Conv1D applies a 1-D convolution over a [inCh, length] input with a
// [outCh, inCh, kSize] kernel and optional [outCh] bias. Stride is fixed to 1;
// zero padding is applied symmetrically, so padding = kSize/2 preserves the
// input length for odd kernels.
func Conv1D(x, kernel, bias *tensor.Tensor, padding int64) (*tensor.Tensor, error) {
	if x == nil || kernel == nil {
		return nil, fmt.Errorf("ops: conv1d requires non-nil input and kernel")
	}

	if padding < 0 {
		return nil, fmt.Errorf("ops: conv1d padding must be >= 0, got %d", padding)
	}

	xShape := x.Shape()
	if len(xShape) != 2 {
		return nil, fmt.Errorf("ops: conv1d input must be [channels, length], got %v", xShape)
	}

	kShape := kernel.Shape()
	if len(kShape) != 3 {
		return nil, fmt.Errorf("ops: conv1d kernel must be [out, in, k], got %v", kShape)
	}

	inCh := xShape[0]
	length := xShape[1]
	outCh := kShape[0]
	kSize := kShape[2]

	if kShape[1] != inCh {
		return nil, fmt.Errorf("ops: conv1d channel mismatch: input %d, kernel %d", inCh, kShape[1])
	}

	if bias != nil {
		bShape := bias.Shape()
		if len(bShape) != 1 || bShape[0] != outCh {
			return nil, fmt.Errorf("ops: conv1d bias shape %v does not match out channels %d", bShape, outCh)
		}
	}

	outLen := length + 2*padding - kSize + 1
	if outLen <= 0 {
		return nil, fmt.Errorf("ops: conv1d kernel size %d too large for length %d with padding %d", kSize, length, padding)
	}

	xData := x.RawData()
	kData := kernel.RawData()
	outData := make([]float32, outCh*outLen)

	inChI := int(inCh)
	lenI := int(length)
	kSizeI := int(kSize)
	outLenI := int(outLen)

	var bData []float32
	if bias != nil {
		bData = bias.RawData()
	}

	for oc := range int(outCh) {
		kBase := oc * inChI * kSizeI
		outRow := outData[oc*outLenI : (oc+1)*outLenI]

		biasVal := float32(0)
		if bData != nil {
			biasVal = bData[oc]
		}

		for ox := range outLenI {
			sum := biasVal

			for ic := range inChI {
				inRow := xData[ic*lenI : (ic+1)*lenI]
				kRow := kData[kBase+ic*kSizeI : kBase+(ic+1)*kSizeI]

				for kx := range kSizeI {
					inPos := ox - int(padding) + kx
					if inPos >= 0 && inPos < lenI {
						sum += kRow[kx] * inRow[inPos]
					}
				}
			}

			outRow[ox] = sum
		}
	}

	t, err := tensor.New(outData, []int64{outCh, outLen})
	if err != nil {
		return nil, fmt.Errorf("ops: conv1d output: %w", err)
	}

	return t, nil
}
