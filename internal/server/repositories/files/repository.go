package files

import (
	"context"

	"github.com/mkarulin/filevault/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, file *models.FileMetadata) error
	GetByID(ctx context.Context, id string) (*models.FileMetadata, error)
	ListAccessible(ctx context.Context, userID string) ([]*models.FileMetadata, error)
	ListAll(ctx context.Context) ([]*models.FileMetadata, error)
	ListLargerThan(ctx context.Context, size int64) ([]*models.FileMetadata, error)
	UpdateFilename(ctx context.Context, id string, filename string) error
	Delete(ctx context.Context, id string) error
	SumSizeByOwner(ctx context.Context, ownerID string) (int64, error)
	SumSizeAll(ctx context.Context) (int64, error)
}
