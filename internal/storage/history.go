package storage

import (
	"context"
	"database/sql"
	"time"

	"auditgo/internal/models"
)

// History records uploads and completed audits. It is an observability aid:
// write failures are reported to the caller but must never fail a request.
type History struct {
	db *sql.DB
}

// NewHistory wraps an open database handle.
func NewHistory(db *sql.DB) *History {
	return &History{db: db}
}

// RecordUpload inserts metadata for a stored upload.
func (h *History) RecordUpload(ctx context.Context, f *models.UploadedFile) error {
	_, err := h.db.ExecContext(ctx, `
		INSERT INTO uploads (id, file_name, stored_path, mime_type, size, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		f.ID, f.FileName, f.StoredPath, f.MimeType, f.Size, f.CreatedAt.UTC())
	return err
}

// RecordAudit inserts one completed audit.
func (h *History) RecordAudit(ctx context.Context, rec *models.AuditRecord) error {
	res, err := h.db.ExecContext(ctx, `
		INSERT INTO audits (website, kind, model, bytes, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		rec.Website, rec.Kind, rec.Model, rec.Bytes, rec.CreatedAt.UTC())
	if err != nil {
		return err
	}
	if id, err := res.LastInsertId(); err == nil {
		rec.ID = id
	}
	return nil
}

// ListAudits returns the most recent audits, newest first.
func (h *History) ListAudits(ctx context.Context, limit int) ([]*models.AuditRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := h.db.QueryContext(ctx, `
		SELECT id, website, kind, model, bytes, created_at
		FROM audits ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*models.AuditRecord
	for rows.Next() {
		rec := &models.AuditRecord{}
		var createdAt time.Time
		if err := rows.Scan(&rec.ID, &rec.Website, &rec.Kind, &rec.Model, &rec.Bytes, &createdAt); err != nil {
			return nil, err
		}
		rec.CreatedAt = createdAt
		records = append(records, rec)
	}
	return records, rows.Err()
}
