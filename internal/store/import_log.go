package store

import (
	"database/sql"
	"fmt"
	"time"
)

// ImportLog 导入日志
type ImportLog struct {
	ID           int64      `json:"id"`
	DatasetID    string     `json:"datasetId"`
	Filename     string     `json:"filename"`
	Source       string     `json:"source"`
	Status       string     `json:"status"`
	Projects     int        `json:"projects"`
	TotalRows    int        `json:"totalRows"`
	ErrorMessage string     `json:"errorMessage,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
}

// CreateImportLog 创建导入日志，返回 import_log_id
func (s *Store) CreateImportLog(datasetID, filename, source string) (int64, error) {
	res, err := s.db.Exec(`
		INSERT INTO import_logs (dataset_id, filename, source, status)
		VALUES (?, ?, ?, 'processing')
	`, datasetID, filename, source)
	if err != nil {
		return 0, fmt.Errorf("failed to create import log: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get import log id: %w", err)
	}
	return id, nil
}

// FinishImportLog 完成导入日志更新
func (s *Store) FinishImportLog(id int64, status string, projects, totalRows int, errorMessage string) error {
	_, err := s.db.Exec(`
		UPDATE import_logs SET
			status = ?,
			projects = ?,
			total_rows = ?,
			error_message = ?,
			completed_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, status, projects, totalRows, errorMessage, id)
	if err != nil {
		return fmt.Errorf("failed to update import log: %w", err)
	}
	return nil
}

// ListImportLogs 最近的导入日志（新的在前）
func (s *Store) ListImportLogs(limit int) ([]ImportLog, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(`
		SELECT id, dataset_id, filename, source, status, projects, total_rows, error_message, created_at, completed_at
		FROM import_logs ORDER BY id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list import logs: %w", err)
	}
	defer rows.Close()

	var out []ImportLog
	for rows.Next() {
		var (
			l         ImportLog
			completed sql.NullTime
		)
		if err := rows.Scan(&l.ID, &l.DatasetID, &l.Filename, &l.Source, &l.Status, &l.Projects, &l.TotalRows, &l.ErrorMessage, &l.CreatedAt, &completed); err != nil {
			return nil, fmt.Errorf("failed to scan import log: %w", err)
		}
		if completed.Valid {
			t := completed.Time
			l.CompletedAt = &t
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
