package documents

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/docudefense/internal/client/models"
	"github.com/dmitrijs2005/docudefense/internal/dbx"
	"github.com/google/uuid"
)

const timeLayout = time.RFC3339Nano

type SQLiteRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db, now: time.Now}
}

func (r *SQLiteRepository) ReplaceOwner(ctx context.Context, ownerID string, records []models.FileRecord) error {
	cachedAt := r.now().UTC().Format(timeLayout)

	err := dbx.WithTx(ctx, r.db, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM documents WHERE owner_id = ?`, ownerID); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO document_listings (owner_id, cached_at) VALUES (?, ?)
			ON CONFLICT(owner_id) DO UPDATE SET cached_at = excluded.cached_at
		`, ownerID, cachedAt); err != nil {
			return err
		}

		for _, rec := range records {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO documents (id, remote_id, owner_id, filename, version, previous_version_id, upload_date, cached_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				uuid.NewString(), rec.ID, ownerID, rec.Filename, rec.Version, rec.PreviousVersionID,
				rec.UploadDate.UTC().Format(timeLayout), cachedAt)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to replace documents of %s: %w", ownerID, err)
	}
	return nil
}

func (r *SQLiteRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.FileRecord, time.Time, error) {
	var cachedStr string
	err := r.db.QueryRowContext(ctx, `SELECT cached_at FROM document_listings WHERE owner_id = ?`, ownerID).Scan(&cachedStr)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, time.Time{}, nil
	}
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to list documents of %s: %w", ownerID, err)
	}
	cachedAt, err := time.Parse(timeLayout, cachedStr)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("bad cached_at %q: %w", cachedStr, err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT remote_id, filename, version, previous_version_id, upload_date
		FROM documents
		WHERE owner_id = ?
		ORDER BY filename, version DESC`, ownerID)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to list documents of %s: %w", ownerID, err)
	}
	defer rows.Close()

	result := []models.FileRecord{}
	for rows.Next() {
		var (
			rec        models.FileRecord
			uploadDate string
		)
		if err := rows.Scan(&rec.ID, &rec.Filename, &rec.Version, &rec.PreviousVersionID, &uploadDate); err != nil {
			return nil, time.Time{}, fmt.Errorf("failed to scan document row: %w", err)
		}
		if rec.UploadDate, err = time.Parse(timeLayout, uploadDate); err != nil {
			return nil, time.Time{}, fmt.Errorf("bad upload_date %q: %w", uploadDate, err)
		}
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to iterate document rows: %w", err)
	}

	return result, cachedAt, nil
}

func (r *SQLiteRepository) DeleteFilename(ctx context.Context, ownerID, filename string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM documents WHERE owner_id = ? AND filename = ?`, ownerID, filename)
	if err != nil {
		return fmt.Errorf("failed to delete document %s: %w", filename, err)
	}
	return nil
}

func (r *SQLiteRepository) ClearOwner(ctx context.Context, ownerID string) error {
	err := dbx.WithTx(ctx, r.db, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM documents WHERE owner_id = ?`, ownerID); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `DELETE FROM document_listings WHERE owner_id = ?`, ownerID)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to clear documents of %s: %w", ownerID, err)
	}
	return nil
}
