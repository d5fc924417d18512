package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/visionary/app/visionary/pkg/model"
)

func record(i int) model.SessionRecord {
	return model.SessionRecord{
		Name:                 fmt.Sprintf("User %d", i),
		Email:                fmt.Sprintf("u%d@example.com", i),
		Mobile:               "+1 555 0100",
		CompanyName:          "Acme, Inc.",
		CompanyData:          "Line one\nLine \"two\"",
		Industry:             "Energy",
		Competitor:           "Globex",
		AIStrategy:           "strategy",
		AIIntegration:        "integration",
		RevenueOpportunities: "revenue",
	}
}

func TestMulti_CSVAndJSONLStayInStep(t *testing.T) {
	dir := t.TempDir()
	csvRec := NewCSVRecorder(filepath.Join(dir, "user_data.csv"))
	jsonRec := NewJSONLRecorder(filepath.Join(dir, "user_data.jsonl"))
	m := Multi{csvRec, jsonRec}

	const n = 5
	for i := 0; i < n; i++ {
		require.NoError(t, m.Record(context.Background(), record(i)))
	}

	raw, err := os.ReadFile(filepath.Join(dir, "user_data.csv"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), strings.Join(model.SessionColumns, ",")+"\n"))

	rows, err := csvRec.Rows()
	require.NoError(t, err)
	require.Len(t, rows, n)

	recs, err := jsonRec.Records()
	require.NoError(t, err)
	require.Len(t, recs, n)

	for i := 0; i < n; i++ {
		assert.Equal(t, rows[i], recs[i].Row(), "record %d", i)
		assert.NotEmpty(t, recs[i].ID)
		assert.False(t, recs[i].CreatedAt.IsZero())
	}
	assert.Equal(t, "Line one\nLine \"two\"", rows[0][4])
}

func TestRecorders_ConcurrentWriters(t *testing.T) {
	dir := t.TempDir()
	csvRec := NewCSVRecorder(filepath.Join(dir, "data", "user_data.csv"))
	jsonRec := NewJSONLRecorder(filepath.Join(dir, "data", "user_data.jsonl"))
	m := Multi{csvRec, jsonRec}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, m.Record(context.Background(), record(i)))
		}(i)
	}
	wg.Wait()

	rows, err := csvRec.Rows()
	require.NoError(t, err)
	assert.Len(t, rows, 20)

	recs, err := jsonRec.Records()
	require.NoError(t, err)
	assert.Len(t, recs, 20)
}

func TestRecords_MissingFile(t *testing.T) {
	recs, err := NewJSONLRecorder(filepath.Join(t.TempDir(), "none.jsonl")).Records()
	require.NoError(t, err)
	assert.Empty(t, recs)

	rows, err := NewCSVRecorder(filepath.Join(t.TempDir(), "none.csv")).Rows()
	require.NoError(t, err)
	assert.Empty(t, rows)
}

type failingRecorder struct{ calls int }

func (f *failingRecorder) Record(context.Context, model.SessionRecord) error {
	f.calls++
	return errors.New("disk full")
}

func TestMulti_StopsOnError(t *testing.T) {
	first := &failingRecorder{}
	second := &failingRecorder{}
	err := Multi{first, second}.Record(context.Background(), record(1))
	assert.EqualError(t, err, "disk full")
	assert.Equal(t, 1, first.calls)
	assert.Zero(t, second.calls)
}

func TestStamp_KeepsExisting(t *testing.T) {
	id := "5f0c2b9e-8a57-4d0e-9d1c-2f4b8f3a6c11"
	rec := Stamp(model.SessionRecord{ID: id})
	assert.Equal(t, id, rec.ID)
	assert.False(t, rec.CreatedAt.IsZero())
}

func TestStamp_ReplacesInvalidID(t *testing.T) {
	rec := Stamp(model.SessionRecord{ID: "not-a-uuid"})
	assert.NotEqual(t, "not-a-uuid", rec.ID)
	_, err := uuid.Parse(rec.ID)
	assert.NoError(t, err)
}
