package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/iWorld-y/visionary/app/visionary/pkg/config"
	"github.com/iWorld-y/visionary/app/visionary/pkg/model"
)

// Storage 会话记录的 Postgres 镜像
type Storage struct {
	db *sql.DB
}

// DSN 拼接连接串
func DSN(cfg config.DBConfig) string {
	port := cfg.Port
	if port == 0 {
		port = 5432
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, port, cfg.User, cfg.Password, cfg.Name)
}

// NewStorage 连接数据库并建表
func NewStorage(cfg config.DBConfig) (*Storage, error) {
	db, err := sql.Open("postgres", DSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &Storage{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) initSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS session_records (
		id UUID PRIMARY KEY,
		name TEXT,
		email TEXT,
		mobile TEXT,
		company_name TEXT,
		company_data TEXT,
		industry TEXT,
		competitor TEXT,
		ai_strategy TEXT,
		ai_integration TEXT,
		revenue_opportunities TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`)
	return err
}

// Record 写入一条会话记录，记录需已带 ID 和创建时间
func (s *Storage) Record(ctx context.Context, rec model.SessionRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO session_records (id, name, email, mobile, company_name, company_data,
			industry, competitor, ai_strategy, ai_integration, revenue_opportunities, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		rec.ID, rec.Name, rec.Email, rec.Mobile, rec.CompanyName, rec.CompanyData,
		rec.Industry, rec.Competitor, rec.AIStrategy, rec.AIIntegration, rec.RevenueOpportunities, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert session record: %w", err)
	}
	return nil
}

// Recent 按时间倒序返回最近的记录
func (s *Storage) Recent(ctx context.Context, limit int) ([]model.SessionRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, email, mobile, company_name, company_data, industry, competitor,
			ai_strategy, ai_integration, revenue_opportunities, created_at
		FROM session_records ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.SessionRecord
	for rows.Next() {
		var r model.SessionRecord
		if err := rows.Scan(&r.ID, &r.Name, &r.Email, &r.Mobile, &r.CompanyName, &r.CompanyData,
			&r.Industry, &r.Competitor, &r.AIStrategy, &r.AIIntegration, &r.RevenueOpportunities, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
