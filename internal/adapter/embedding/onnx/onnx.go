// Package onnx runs a local sentence-transformer export (MiniLM-style) for
// embeddings. The model directory must contain the exported graph plus
// tokenizer.json; nothing is downloaded at runtime.
package onnx

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sugarme/tokenizer"
	"github.com/sugarme/tokenizer/pretrained"
	ort "github.com/yalue/onnxruntime_go"

	"github.com/takshd15/elite-signup/internal/adapter/observability"
	"github.com/takshd15/elite-signup/internal/domain"
)

// maxSeqLen caps tokenized inputs, matching the export's training length.
const maxSeqLen = 256

// Config locates the model and bounds runtime threading.
type Config struct {
	ModelDir       string
	ONNXFile       string
	SharedLibPath  string
	IntraOpThreads int
	InterOpThreads int
}

var ortInit struct {
	once sync.Once
	err  error
}

// initRuntime initializes the process-global onnxruntime environment once.
func initRuntime(sharedLibPath string) error {
	ortInit.once.Do(func() {
		if sharedLibPath != "" {
			ort.SetSharedLibraryPath(sharedLibPath)
		}
		ortInit.err = ort.InitializeEnvironment()
	})
	return ortInit.err
}

// Encoder implements domain.Embedder over a local ONNX session. Run is
// serialized: the dynamic session is not safe for concurrent calls.
type Encoder struct {
	mu      sync.Mutex
	session *ort.DynamicAdvancedSession
	tk      *tokenizer.Tokenizer
}

// New loads the tokenizer and opens an inference session. It fails fast when
// the model files are missing so the resolver can fall through to the next
// backend.
func New(cfg Config) (*Encoder, error) {
	if cfg.ONNXFile == "" {
		cfg.ONNXFile = "model.onnx"
	}
	modelPath := filepath.Join(cfg.ModelDir, cfg.ONNXFile)
	tokPath := filepath.Join(cfg.ModelDir, "tokenizer.json")
	for _, p := range []string{modelPath, tokPath} {
		if _, err := os.Stat(p); err != nil {
			return nil, fmt.Errorf("%w: onnx backend: %s: %v", domain.ErrUnavailable, p, err)
		}
	}

	if err := initRuntime(cfg.SharedLibPath); err != nil {
		return nil, fmt.Errorf("%w: onnxruntime init: %v", domain.ErrUnavailable, err)
	}

	tk, err := pretrained.FromFile(tokPath)
	if err != nil {
		return nil, fmt.Errorf("%w: load tokenizer: %v", domain.ErrUnavailable, err)
	}

	opts, err := ort.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("%w: session options: %v", domain.ErrUnavailable, err)
	}
	defer func() { _ = opts.Destroy() }()
	if cfg.IntraOpThreads > 0 {
		if err := opts.SetIntraOpNumThreads(cfg.IntraOpThreads); err != nil {
			return nil, fmt.Errorf("%w: set intra op threads: %v", domain.ErrUnavailable, err)
		}
	}
	if cfg.InterOpThreads > 0 {
		if err := opts.SetInterOpNumThreads(cfg.InterOpThreads); err != nil {
			return nil, fmt.Errorf("%w: set inter op threads: %v", domain.ErrUnavailable, err)
		}
	}

	session, err := ort.NewDynamicAdvancedSession(modelPath,
		[]string{"input_ids", "attention_mask"},
		[]string{"last_hidden_state"},
		opts,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: open session %s: %v", domain.ErrUnavailable, modelPath, err)
	}

	slog.Info("onnx embeddings backend ready",
		slog.String("model", modelPath),
		slog.Int("max_seq_len", maxSeqLen))
	return &Encoder{session: session, tk: tk}, nil
}

// Name identifies the backend in logs and metrics.
func (e *Encoder) Name() string { return "onnx" }

// Close releases the session.
func (e *Encoder) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session == nil {
		return nil
	}
	err := e.session.Destroy()
	e.session = nil
	return err
}

// Embed tokenizes the batch, runs the model, mean-pools over the attention
// mask, and L2-normalizes, following the sentence-transformers convention.
func (e *Encoder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ids, mask, seqLen, err := e.tokenize(texts)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session == nil {
		return nil, fmt.Errorf("%w: onnx session closed", domain.ErrUnavailable)
	}

	start := time.Now()
	batch := int64(len(texts))
	shape := ort.NewShape(batch, int64(seqLen))
	idsTensor, err := ort.NewTensor(shape, ids)
	if err != nil {
		return nil, fmt.Errorf("input_ids tensor: %w", err)
	}
	defer func() { _ = idsTensor.Destroy() }()
	maskTensor, err := ort.NewTensor(shape, mask)
	if err != nil {
		return nil, fmt.Errorf("attention_mask tensor: %w", err)
	}
	defer func() { _ = maskTensor.Destroy() }()

	outputs := []ort.Value{nil}
	if err := e.session.Run([]ort.Value{idsTensor, maskTensor}, outputs); err != nil {
		return nil, fmt.Errorf("onnx run: %w", err)
	}
	defer func() { _ = outputs[0].Destroy() }()
	observability.EmbedRequestsTotal.WithLabelValues("onnx").Inc()
	observability.EmbedRequestDuration.WithLabelValues("onnx").Observe(time.Since(start).Seconds())

	hidden, ok := outputs[0].(*ort.Tensor[float32])
	if !ok {
		return nil, fmt.Errorf("%w: unexpected output tensor type %T", domain.ErrInternal, outputs[0])
	}
	outShape := hidden.GetShape()
	if len(outShape) != 3 {
		return nil, fmt.Errorf("%w: unexpected output rank %d", domain.ErrInternal, len(outShape))
	}
	hiddenDim := int(outShape[2])

	return meanPool(hidden.GetData(), mask, len(texts), seqLen, hiddenDim), nil
}

// tokenize encodes each text, truncates to maxSeqLen, and pads the batch to
// its longest sequence. Returns flattened input_ids and attention_mask.
func (e *Encoder) tokenize(texts []string) (ids, mask []int64, seqLen int, err error) {
	encs := make([]*tokenizer.Encoding, len(texts))
	for i, t := range texts {
		enc, err := e.tk.EncodeSingle(t, true)
		if err != nil {
			return nil, nil, 0, fmt.Errorf("tokenize: %w", err)
		}
		encs[i] = enc
		n := len(enc.Ids)
		if n > maxSeqLen {
			n = maxSeqLen
		}
		if n > seqLen {
			seqLen = n
		}
	}
	if seqLen == 0 {
		seqLen = 1
	}

	ids = make([]int64, len(texts)*seqLen)
	mask = make([]int64, len(texts)*seqLen)
	for i, enc := range encs {
		row := i * seqLen
		n := len(enc.Ids)
		if n > seqLen {
			n = seqLen
		}
		for j := 0; j < n; j++ {
			ids[row+j] = int64(enc.Ids[j])
			mask[row+j] = int64(enc.AttentionMask[j])
		}
	}
	return ids, mask, seqLen, nil
}

func meanPool(hidden []float32, mask []int64, batch, seqLen, hiddenDim int) [][]float32 {
	out := make([][]float32, batch)
	for b := 0; b < batch; b++ {
		vec := make([]float64, hiddenDim)
		var count float64
		for t := 0; t < seqLen; t++ {
			if mask[b*seqLen+t] == 0 {
				continue
			}
			count++
			base := (b*seqLen + t) * hiddenDim
			for h := 0; h < hiddenDim; h++ {
				vec[h] += float64(hidden[base+h])
			}
		}
		if count < 1 {
			count = 1
		}
		var norm float64
		for h := range vec {
			vec[h] /= count
			norm += vec[h] * vec[h]
		}
		norm = math.Sqrt(norm)
		if norm < 1e-9 {
			norm = 1e-9
		}
		row := make([]float32, hiddenDim)
		for h := range vec {
			row[h] = float32(vec[h] / norm)
		}
		out[b] = row
	}
	return out
}
