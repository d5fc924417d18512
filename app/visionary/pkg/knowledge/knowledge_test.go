package knowledge

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/visionary/app/visionary/pkg/docparse"
	"github.com/iWorld-y/visionary/app/visionary/pkg/logger"
)

func newTestIngestor(t *testing.T) *Ingestor {
	t.Helper()
	dir := t.TempDir()
	store, err := OpenStore(filepath.Join(dir, "lancedb"), "company_docs")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return NewIngestor(store, HashEmbedder{Dim: 128}, filepath.Join(dir, "uploads"), 200, 20)
}

const acmeDoc = `Acme Solar designs rooftop solar panels for homes.

Acme uses machine learning to forecast energy production and schedule maintenance.

Revenue grew 40 percent last year driven by battery storage bundles.`

func TestIngestor_IngestAndQuery(t *testing.T) {
	in := newTestIngestor(t)
	ctx := context.Background()

	p, err := in.SaveUpload("acme.txt", []byte(acmeDoc))
	require.NoError(t, err)

	res, err := in.Ingest(ctx, DocumentSource{Path: p})
	require.NoError(t, err)
	assert.Equal(t, "acme.txt", res.Source)
	assert.Positive(t, res.Chunks)

	hits, err := in.Query(ctx, "machine learning maintenance forecast", Filter{Source: "acme.txt"}, 1)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Contains(t, hits[0].Chunk.Content, "machine learning")
	assert.Equal(t, "hash", hits[0].Chunk.Model)
}

func TestIngestor_ReingestNeverShrinks(t *testing.T) {
	in := newTestIngestor(t)
	ctx := context.Background()

	p, err := in.SaveUpload("acme.md", []byte(acmeDoc))
	require.NoError(t, err)

	prev := 0
	for i := 0; i < 3; i++ {
		_, err := in.Ingest(ctx, DocumentSource{Path: p})
		require.NoError(t, err)
		n, err := in.Count(ctx)
		require.NoError(t, err)
		assert.Greater(t, n, prev)
		prev = n
	}
}

func TestIngestor_FilterBySource(t *testing.T) {
	in := newTestIngestor(t)
	ctx := context.Background()

	a, _ := in.SaveUpload("a.txt", []byte("alpha report on logistics"))
	b, _ := in.SaveUpload("b.txt", []byte("beta report on logistics"))
	_, err := in.Ingest(ctx, DocumentSource{Path: a})
	require.NoError(t, err)
	_, err = in.Ingest(ctx, DocumentSource{Path: b})
	require.NoError(t, err)

	hits, err := in.Query(ctx, "report on logistics", Filter{Source: "b.txt"}, 10)
	require.NoError(t, err)
	require.NotEmpty(t, hits)
	for _, h := range hits {
		assert.Equal(t, "b.txt", h.Chunk.Source)
	}
}

func TestIngestor_EmptyDocument(t *testing.T) {
	in := newTestIngestor(t)
	p, err := in.SaveUpload("empty.pdf", nil)
	require.NoError(t, err)

	_, err = in.Ingest(context.Background(), DocumentSource{Path: p})
	assert.ErrorIs(t, err, docparse.ErrEmptyDocument)

	n, err := in.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestIngestor_FromURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(acmeDoc))
	}))
	defer srv.Close()

	in := newTestIngestor(t)
	res, err := in.Ingest(context.Background(), DocumentSource{URL: srv.URL + "/docs/acme.txt"})
	require.NoError(t, err)
	assert.Equal(t, "acme.txt", res.Source)
}

func TestSaveUpload_StripsDirectories(t *testing.T) {
	in := newTestIngestor(t)
	p, err := in.SaveUpload("../../etc/passwd.txt", []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, in.uploadDir, filepath.Dir(p))

	_, err = os.Stat(p)
	assert.NoError(t, err)
}

func TestOpenStore_RejectsBadTable(t *testing.T) {
	_, err := OpenStore(t.TempDir(), "docs; DROP TABLE x")
	assert.Error(t, err)
}

func TestJoinResults(t *testing.T) {
	out := JoinResults([]Result{
		{Chunk: Chunk{Source: "deck.pptx", Index: 2, Content: "AI roadmap"}},
	})
	assert.True(t, strings.HasPrefix(out, "[1] (deck.pptx #2)\nAI roadmap"))
}

func TestStore_SearchLogsCorruptEmbedding(t *testing.T) {
	store, err := OpenStore(t.TempDir(), "company_docs")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	ctx := context.Background()
	require.NoError(t, store.Add(ctx, []Chunk{
		{ID: "good", DocumentID: "d", Source: "a.txt", Content: "ok", Embedding: []float32{1, 0}, Model: "hash"},
		{ID: "bad", DocumentID: "d", Source: "a.txt", Content: "broken", Embedding: []float32{0, 1}, Model: "hash"},
	}))
	_, err = store.db.Exec(`UPDATE company_docs SET embedding = 'not json' WHERE id = 'bad'`)
	require.NoError(t, err)

	hook := test.NewLocal(logger.Log)
	t.Cleanup(hook.Reset)

	results, err := store.Search(ctx, []float32{1, 0}, Filter{}, 5)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "good", results[0].Chunk.ID)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.WarnLevel, entry.Level)
	assert.Equal(t, "bad", entry.Data["chunk_id"])
}
