// Package session 持久化用户会话记录：CSV 与 JSON Lines 两份平面文件，可选镜像到 Postgres。
//
// 记录只追加不修改。进程内用互斥锁串行写入，不支持多进程同时写同一文件。
package session

import (
	"bufio"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/iWorld-y/visionary/app/visionary/pkg/model"
)

// Recorder 会话记录器
type Recorder interface {
	Record(ctx context.Context, rec model.SessionRecord) error
}

// Stamp 补齐记录的 ID 和创建时间，非 UUID 的 ID 会被替换
func Stamp(rec model.SessionRecord) model.SessionRecord {
	if _, err := uuid.Parse(rec.ID); err != nil {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	return rec
}

// CSVRecorder 追加写入 CSV，首次写入时输出表头
type CSVRecorder struct {
	mu   sync.Mutex
	path string
}

// NewCSVRecorder 创建 CSV 记录器
func NewCSVRecorder(path string) *CSVRecorder {
	return &CSVRecorder{path: path}
}

// Record implements Recorder
func (r *CSVRecorder) Record(_ context.Context, rec model.SessionRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, err := openAppend(r.path)
	if err != nil {
		return fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat csv: %w", err)
	}

	w := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := w.Write(model.SessionColumns); err != nil {
			return fmt.Errorf("write csv header: %w", err)
		}
	}
	if err := w.Write(rec.Row()); err != nil {
		return fmt.Errorf("write csv row: %w", err)
	}
	w.Flush()
	return w.Error()
}

// Rows 读取全部数据行（不含表头）
func (r *CSVRecorder) Rows() ([][]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, err := os.Open(r.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[1:], nil
}

// JSONLRecorder 每条记录一行 JSON，追加写入
type JSONLRecorder struct {
	mu   sync.Mutex
	path string
}

// NewJSONLRecorder 创建 JSON Lines 记录器
func NewJSONLRecorder(path string) *JSONLRecorder {
	return &JSONLRecorder{path: path}
}

// Record implements Recorder
func (r *JSONLRecorder) Record(_ context.Context, rec model.SessionRecord) error {
	line, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	f, err := openAppend(r.path)
	if err != nil {
		return fmt.Errorf("open jsonl: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("write jsonl: %w", err)
	}
	return nil
}

// Records 按写入顺序读回全部记录
func (r *JSONLRecorder) Records() ([]model.SessionRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, err := os.Open(r.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return decodeRecords(f)
}

func decodeRecords(rd io.Reader) ([]model.SessionRecord, error) {
	var out []model.SessionRecord
	sc := bufio.NewScanner(rd)
	sc.Buffer(make([]byte, 0, 64*1024), 16<<20)
	for n := 1; sc.Scan(); n++ {
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		var rec model.SessionRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			return nil, fmt.Errorf("decode line %d: %w", n, err)
		}
		out = append(out, rec)
	}
	return out, sc.Err()
}

// Multi 依次写入多个记录器，遇到错误立即返回
type Multi []Recorder

// Record implements Recorder
func (m Multi) Record(ctx context.Context, rec model.SessionRecord) error {
	rec = Stamp(rec)
	for _, r := range m {
		if err := r.Record(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}

func openAppend(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}
	return os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
}
