package permissions

import (
	"context"
	"fmt"

	"github.com/mkarulin/filevault/internal/dbx"
	"github.com/mkarulin/filevault/internal/server/models"
)

// PostgresRepository stores delegated access grants. Duplicate grants for
// the same (file, user, level) are allowed; the EXISTS predicates make them
// harmless.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, perm *models.FilePermission) error {
	query := `
		INSERT INTO file_permissions (id, file_id, user_id, access_level)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.db.ExecContext(ctx, query, perm.ID, perm.FileID, perm.UserID, perm.AccessLevel)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// HasGrant reports whether userID holds any grant on fileID.
func (r *PostgresRepository) HasGrant(ctx context.Context, fileID string, userID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM file_permissions WHERE file_id = $1 AND user_id = $2
		)
	`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, fileID, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

// HasGrantAtLevel reports whether userID holds a grant of exactly the given
// level on fileID.
func (r *PostgresRepository) HasGrantAtLevel(ctx context.Context, fileID string, userID string, level models.AccessLevel) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM file_permissions WHERE file_id = $1 AND user_id = $2 AND access_level = $3
		)
	`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, fileID, userID, level).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

// DeleteByFile removes every grant on fileID. Zero rows is fine, the file
// may never have been shared.
func (r *PostgresRepository) DeleteByFile(ctx context.Context, fileID string) error {
	query := `DELETE FROM file_permissions WHERE file_id = $1`
	if _, err := r.db.ExecContext(ctx, query, fileID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
