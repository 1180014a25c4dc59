package files

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mkarulin/filevault/internal/common"
	"github.com/mkarulin/filevault/internal/dbx"
	"github.com/mkarulin/filevault/internal/server/models"
)

// PostgresRepository implements file metadata storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const metadataColumns = `id, filename, content_type, size, original_size, upload_date, storage_path, owner_id`

func (r *PostgresRepository) Create(ctx context.Context, file *models.FileMetadata) error {
	query := `
		INSERT INTO file_metadata (id, filename, content_type, size, original_size, upload_date, storage_path, owner_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, query,
		file.ID, file.Filename, file.ContentType, file.Size, file.OriginalSize,
		file.UploadDate, file.StoragePath, file.OwnerID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.FileMetadata, error) {
	query := `SELECT ` + metadataColumns + ` FROM file_metadata WHERE id = $1`

	item := &models.FileMetadata{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&item.ID, &item.Filename, &item.ContentType, &item.Size, &item.OriginalSize,
		&item.UploadDate, &item.StoragePath, &item.OwnerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return item, nil
}

// ListAccessible returns every file userID owns plus every file shared with
// them at any access level, without duplicates.
func (r *PostgresRepository) ListAccessible(ctx context.Context, userID string) ([]*models.FileMetadata, error) {
	query := `
		SELECT DISTINCT f.id, f.filename, f.content_type, f.size, f.original_size, f.upload_date, f.storage_path, f.owner_id
		FROM file_metadata f
		LEFT JOIN file_permissions p ON p.file_id = f.id
		WHERE f.owner_id = $1 OR p.user_id = $1
		ORDER BY f.upload_date
	`
	return r.selectMany(ctx, query, userID)
}

func (r *PostgresRepository) ListAll(ctx context.Context) ([]*models.FileMetadata, error) {
	query := `SELECT ` + metadataColumns + ` FROM file_metadata ORDER BY upload_date`
	return r.selectMany(ctx, query)
}

func (r *PostgresRepository) ListLargerThan(ctx context.Context, size int64) ([]*models.FileMetadata, error) {
	query := `SELECT ` + metadataColumns + ` FROM file_metadata WHERE size > $1 ORDER BY size DESC`
	return r.selectMany(ctx, query, size)
}

func (r *PostgresRepository) selectMany(ctx context.Context, query string, args ...any) ([]*models.FileMetadata, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.FileMetadata
	for rows.Next() {
		var item models.FileMetadata
		if err := rows.Scan(&item.ID, &item.Filename, &item.ContentType, &item.Size,
			&item.OriginalSize, &item.UploadDate, &item.StoragePath, &item.OwnerID); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateFilename renames the record. Exactly one row must be affected;
// zero means the file does not exist.
func (r *PostgresRepository) UpdateFilename(ctx context.Context, id string, filename string) error {
	query := `UPDATE file_metadata SET filename = $2 WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id, filename)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	ra, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM file_metadata WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	ra, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra == 0 {
		return common.ErrNotFound
	}
	return nil
}

// SumSizeByOwner reports the stored bytes charged to ownerID. Shared files
// count only against their owner.
func (r *PostgresRepository) SumSizeByOwner(ctx context.Context, ownerID string) (int64, error) {
	query := `SELECT COALESCE(SUM(size), 0) FROM file_metadata WHERE owner_id = $1`

	var total int64
	if err := r.db.QueryRowContext(ctx, query, ownerID).Scan(&total); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return total, nil
}

func (r *PostgresRepository) SumSizeAll(ctx context.Context) (int64, error) {
	query := `SELECT COALESCE(SUM(size), 0) FROM file_metadata`

	var total int64
	if err := r.db.QueryRowContext(ctx, query).Scan(&total); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return total, nil
}
