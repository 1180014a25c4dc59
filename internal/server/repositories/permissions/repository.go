package permissions

import (
	"context"

	"github.com/mkarulin/filevault/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, perm *models.FilePermission) error
	HasGrant(ctx context.Context, fileID string, userID string) (bool, error)
	HasGrantAtLevel(ctx context.Context, fileID string, userID string, level models.AccessLevel) (bool, error)
	DeleteByFile(ctx context.Context, fileID string) error
}
