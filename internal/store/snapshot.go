package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"projectintel/internal/parser"
)

// ErrNoSnapshot 尚未缓存任何表格
var ErrNoSnapshot = errors.New("no cached snapshot")

// Snapshot 缓存的表格及来源
type Snapshot struct {
	DatasetID string
	FileName  string
	Source    string
	SheetName string
	Table     *parser.Table
	SavedAt   time.Time
}

// SaveSnapshot 覆盖保存最近一次成功解析的表格
func (s *Store) SaveSnapshot(snap Snapshot) error {
	if snap.Table == nil {
		return errors.New("snapshot without table")
	}
	headers, err := json.Marshal(snap.Table.Headers)
	if err != nil {
		return fmt.Errorf("encode headers: %w", err)
	}
	rows, err := json.Marshal(snap.Table.Rows)
	if err != nil {
		return fmt.Errorf("encode rows: %w", err)
	}
	_, err = s.db.Exec(`
		INSERT INTO snapshots (id, dataset_id, file_name, source, sheet_name, headers_json, rows_json, saved_at)
		VALUES (1, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			dataset_id = excluded.dataset_id,
			file_name = excluded.file_name,
			source = excluded.source,
			sheet_name = excluded.sheet_name,
			headers_json = excluded.headers_json,
			rows_json = excluded.rows_json,
			saved_at = CURRENT_TIMESTAMP
	`, snap.DatasetID, snap.FileName, snap.Source, snap.SheetName, string(headers), string(rows))
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot 读取缓存的表格
func (s *Store) LoadSnapshot() (*Snapshot, error) {
	var (
		snap          Snapshot
		headers, rows string
	)
	err := s.db.QueryRow(`
		SELECT dataset_id, file_name, source, sheet_name, headers_json, rows_json, saved_at
		FROM snapshots WHERE id = 1
	`).Scan(&snap.DatasetID, &snap.FileName, &snap.Source, &snap.SheetName, &headers, &rows, &snap.SavedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	snap.Table = &parser.Table{}
	if err := json.Unmarshal([]byte(headers), &snap.Table.Headers); err != nil {
		return nil, fmt.Errorf("decode headers: %w", err)
	}
	var raw [][]any
	if err := json.Unmarshal([]byte(rows), &raw); err != nil {
		return nil, fmt.Errorf("decode rows: %w", err)
	}
	snap.Table.Rows = make([]parser.Row, len(raw))
	for i, r := range raw {
		snap.Table.Rows[i] = parser.Row(r)
	}
	return &snap, nil
}

// ClearSnapshot 清除缓存
func (s *Store) ClearSnapshot() error {
	if _, err := s.db.Exec(`DELETE FROM snapshots`); err != nil {
		return fmt.Errorf("failed to clear snapshot: %w", err)
	}
	return nil
}
