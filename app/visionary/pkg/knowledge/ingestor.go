// Package knowledge 文档知识库：解析、切片、向量化并写入本地索引，供后续检索。
package knowledge

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tmc/langchaingo/textsplitter"

	"github.com/iWorld-y/visionary/app/visionary/pkg/docparse"
	"github.com/iWorld-y/visionary/app/visionary/pkg/logger"
)

// maxDocumentBytes 远程文档最大下载字节数
const maxDocumentBytes = 64 << 20

// DocumentSource 待入库的文档，Path 与 URL 二选一
type DocumentSource struct {
	Path string
	URL  string
	// Name 入库时的来源名，为空时取文件名
	Name string
}

// IngestResult 入库结果
type IngestResult struct {
	DocumentID string
	Source     string
	Chunks     int
}

// Ingestor 文档入库与检索
type Ingestor struct {
	store      *Store
	embedder   Embedder
	splitter   textsplitter.TextSplitter
	uploadDir  string
	httpClient *http.Client
}

// NewIngestor 创建 Ingestor
func NewIngestor(store *Store, embedder Embedder, uploadDir string, chunkSize, chunkOverlap int) *Ingestor {
	return &Ingestor{
		store:    store,
		embedder: embedder,
		splitter: textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(chunkSize),
			textsplitter.WithChunkOverlap(chunkOverlap),
			textsplitter.WithSeparators([]string{"\n\n", "\n", " ", ""}),
		),
		uploadDir:  uploadDir,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// SaveUpload 把上传的文件保存到上传目录，返回保存路径
func (in *Ingestor) SaveUpload(name string, data []byte) (string, error) {
	base := filepath.Base(filepath.Clean("/" + name))
	if base == "/" || base == "." {
		return "", fmt.Errorf("invalid file name %q", name)
	}
	if err := os.MkdirAll(in.uploadDir, 0755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}
	p := filepath.Join(in.uploadDir, base)
	if err := os.WriteFile(p, data, 0644); err != nil {
		return "", fmt.Errorf("save upload: %w", err)
	}
	return p, nil
}

// Ingest 解析文档并追加到索引，同一文档重复入库会产生新的切片
func (in *Ingestor) Ingest(ctx context.Context, src DocumentSource) (*IngestResult, error) {
	name, data, err := in.load(ctx, src)
	if err != nil {
		return nil, err
	}
	log := logger.Stage("ingest").WithField("source", name)

	text, err := docparse.Parse(name, data)
	if err != nil {
		return nil, err
	}

	parts, err := in.splitter.SplitText(text)
	if err != nil {
		return nil, fmt.Errorf("split text: %w", err)
	}
	parts = nonEmpty(parts)
	if len(parts) == 0 {
		return nil, fmt.Errorf("%w: %s", docparse.ErrEmptyDocument, name)
	}

	vecs, err := in.embedder.Embed(ctx, parts)
	if err != nil {
		return nil, err
	}

	docID := uuid.NewString()
	chunks := make([]Chunk, len(parts))
	for i, p := range parts {
		chunks[i] = Chunk{
			ID:         uuid.NewString(),
			DocumentID: docID,
			Source:     name,
			Content:    p,
			Index:      i,
			Embedding:  vecs[i],
			Model:      in.embedder.Model(),
		}
	}
	if err := in.store.Add(ctx, chunks); err != nil {
		return nil, err
	}

	log.WithField("chunks", len(chunks)).Info("文档已入库")
	return &IngestResult{DocumentID: docID, Source: name, Chunks: len(chunks)}, nil
}

// Query 检索与问题最相关的切片
func (in *Ingestor) Query(ctx context.Context, question string, filter Filter, topK int) ([]Result, error) {
	vecs, err := in.embedder.Embed(ctx, []string{question})
	if err != nil {
		return nil, err
	}
	if len(vecs) == 0 {
		return nil, fmt.Errorf("no embedding for query")
	}
	return in.store.Search(ctx, vecs[0], filter, topK)
}

// Count 索引中的切片总数
func (in *Ingestor) Count(ctx context.Context) (int, error) {
	return in.store.Count(ctx)
}

func (in *Ingestor) load(ctx context.Context, src DocumentSource) (string, []byte, error) {
	switch {
	case src.Path != "":
		data, err := os.ReadFile(src.Path)
		if err != nil {
			return "", nil, fmt.Errorf("read document: %w", err)
		}
		name := src.Name
		if name == "" {
			name = filepath.Base(src.Path)
		}
		return name, data, nil

	case src.URL != "":
		u, err := url.Parse(src.URL)
		if err != nil || u.Host == "" {
			return "", nil, fmt.Errorf("invalid document url %q", src.URL)
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
		if err != nil {
			return "", nil, err
		}
		resp, err := in.httpClient.Do(req)
		if err != nil {
			return "", nil, fmt.Errorf("download document: %w", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return "", nil, fmt.Errorf("download document: status %d", resp.StatusCode)
		}
		data, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentBytes))
		if err != nil {
			return "", nil, fmt.Errorf("download document: %w", err)
		}
		name := src.Name
		if name == "" {
			name = path.Base(u.Path)
		}
		return name, data, nil
	}
	return "", nil, fmt.Errorf("document source has neither path nor url")
}

// JoinResults 把检索结果拼成提示词上下文
func JoinResults(results []Result) string {
	var sb strings.Builder
	for i, r := range results {
		fmt.Fprintf(&sb, "[%d] (%s #%d)\n%s\n\n", i+1, r.Chunk.Source, r.Chunk.Index, r.Chunk.Content)
	}
	return strings.TrimSpace(sb.String())
}

func nonEmpty(parts []string) []string {
	out := parts[:0]
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return out
}
