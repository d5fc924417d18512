package knowledge

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"strings"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/iWorld-y/visionary/app/visionary/pkg/config"
)

// embedBatchSize 单次请求的最大文本数
const embedBatchSize = 64

// Embedder 文本向量化
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	Model() string
}

// OpenAIEmbedder 使用 OpenAI 兼容的 embeddings 接口
type OpenAIEmbedder struct {
	client *goopenai.Client
	model  string
}

// NewOpenAIEmbedder 根据配置创建
func NewOpenAIEmbedder(cfg config.EmbeddingConfig) *OpenAIEmbedder {
	c := goopenai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		c.BaseURL = cfg.BaseURL
	}
	return &OpenAIEmbedder{client: goopenai.NewClientWithConfig(c), model: cfg.Model}
}

// Model 模型标识
func (e *OpenAIEmbedder) Model() string { return e.model }

// Embed 分批请求向量，结果顺序与输入一致
func (e *OpenAIEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += embedBatchSize {
		end := min(start+embedBatchSize, len(texts))
		batch := texts[start:end]

		resp, err := e.client.CreateEmbeddings(ctx, goopenai.EmbeddingRequest{
			Input: batch,
			Model: goopenai.EmbeddingModel(e.model),
		})
		if err != nil {
			return nil, fmt.Errorf("create embeddings: %w", err)
		}
		if len(resp.Data) != len(batch) {
			return nil, fmt.Errorf("create embeddings: got %d vectors for %d inputs", len(resp.Data), len(batch))
		}

		vecs := make([][]float32, len(batch))
		for _, d := range resp.Data {
			if d.Index < 0 || d.Index >= len(batch) {
				return nil, fmt.Errorf("create embeddings: index %d out of range", d.Index)
			}
			vecs[d.Index] = d.Embedding
		}
		out = append(out, vecs...)
	}
	return out, nil
}

// HashEmbedder 基于词哈希的本地向量化，用于测试和离线运行
type HashEmbedder struct {
	Dim int
}

// Model 模型标识
func (h HashEmbedder) Model() string { return "hash" }

// Embed 词频哈希到固定维度
func (h HashEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	dim := h.Dim
	if dim <= 0 {
		dim = 64
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v := make([]float32, dim)
		for _, w := range strings.Fields(strings.ToLower(t)) {
			w = strings.Trim(w, ".,;:!?\"'()[]")
			if w == "" {
				continue
			}
			f := fnv.New32a()
			_, _ = f.Write([]byte(w))
			v[f.Sum32()%uint32(dim)]++
		}
		out[i] = normalize(v)
	}
	return out, nil
}

func normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return v
	}
	n := float32(math.Sqrt(sum))
	for i := range v {
		v[i] /= n
	}
	return v
}
