package services

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mkarulin/filevault/internal/common"
	"github.com/mkarulin/filevault/internal/compressx"
	"github.com/mkarulin/filevault/internal/cryptox"
	"github.com/mkarulin/filevault/internal/dbx"
	"github.com/mkarulin/filevault/internal/filex"
	"github.com/mkarulin/filevault/internal/logging"
	"github.com/mkarulin/filevault/internal/server/models"
	"github.com/mkarulin/filevault/internal/server/repositories/repomanager"
)

// BlobStore is the backing byte store the engine writes encrypted blobs to.
// Implemented by blobstore.Store.
type BlobStore interface {
	Write(name string, iv []byte, data []byte) (int64, error)
	Read(name string) (iv []byte, data []byte, err error)
	Delete(name string) error
	Cleanup(name string) error
}

// DownloadResult carries the decrypted content plus the recorded filename
// and content type for the caller to attach as response headers.
type DownloadResult struct {
	Content     []byte
	Filename    string
	ContentType string
}

// FileService orchestrates the storage pipeline and the file lifecycle:
// validate, quota-check, encrypt, compress, persist, and the inverse read
// path, plus rename, delete, share and the admin reports.
type FileService struct {
	db        *sql.DB
	rm        repomanager.RepositoryManager
	validator *Validator
	quota     *QuotaEnforcer
	perms     *PermissionService
	encryptor *cryptox.Encryptor
	blobs     BlobStore
	log       logging.Logger
}

func NewFileService(db *sql.DB, rm repomanager.RepositoryManager, validator *Validator,
	quota *QuotaEnforcer, perms *PermissionService, encryptor *cryptox.Encryptor,
	blobs BlobStore, log logging.Logger) *FileService {
	return &FileService{
		db:        db,
		rm:        rm,
		validator: validator,
		quota:     quota,
		perms:     perms,
		encryptor: encryptor,
		blobs:     blobs,
		log:       log,
	}
}

// Upload runs the full pipeline for one file owned by ownerID and returns
// the persisted metadata.
//
// The per-owner quota lock is held from the quota check until the metadata
// row is committed, so two concurrent uploads by one owner cannot both pass
// the check and overshoot the ceiling.
func (s *FileService) Upload(ctx context.Context, content []byte, filename string, ownerID string) (*models.FileMetadata, error) {
	contentType, err := s.validator.Validate(content, filename)
	if err != nil {
		return nil, err
	}

	unlock := s.quota.Lock(ownerID)
	defer unlock()

	if err := s.quota.Check(ctx, ownerID, int64(len(content))); err != nil {
		return nil, err
	}

	id := uuid.NewString()
	sanitized := filex.SanitizeFilename(filename)
	meta := &models.FileMetadata{
		ID:           id,
		Filename:     sanitized,
		ContentType:  contentType,
		OriginalSize: int64(len(content)),
		UploadDate:   time.Now().UTC(),
		StoragePath:  fmt.Sprintf("%s_%s", id, sanitized),
		OwnerID:      ownerID,
	}

	ciphertext, iv, err := s.encryptor.EncryptStream(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}

	compressed, err := compressx.Compress(ciphertext)
	if err != nil {
		return nil, err
	}

	stored, err := s.blobs.Write(meta.StoragePath, iv, compressed)
	if err != nil {
		return nil, err
	}
	meta.Size = stored

	if err := s.rm.Files(s.db).Create(ctx, meta); err != nil {
		if cerr := s.blobs.Cleanup(meta.StoragePath); cerr != nil {
			s.log.Error(ctx, "failed to clean up blob after metadata error",
				"path", meta.StoragePath, "error", cerr)
		}
		return nil, err
	}

	s.log.Info(ctx, "stored file", "id", meta.ID, "owner", ownerID,
		"size", meta.Size, "original_size", meta.OriginalSize)
	return meta, nil
}

// Download returns the decrypted content of the file together with its
// recorded filename and content type. The requester must be the owner or
// hold a grant at any level.
func (s *FileService) Download(ctx context.Context, fileID string, requesterID string) (*DownloadResult, error) {
	meta, err := s.authorizeRead(ctx, fileID, requesterID)
	if err != nil {
		return nil, err
	}

	iv, compressed, err := s.blobs.Read(meta.StoragePath)
	if err != nil {
		return nil, err
	}

	ciphertext, err := compressx.Decompress(compressed)
	if err != nil {
		return nil, err
	}

	plaintext, err := s.encryptor.Decrypt(ciphertext, iv)
	if err != nil {
		return nil, err
	}

	return &DownloadResult{
		Content:     plaintext,
		Filename:    meta.Filename,
		ContentType: meta.ContentType,
	}, nil
}

// GetMetadata returns the metadata record, subject to the same access rule
// as Download.
func (s *FileService) GetMetadata(ctx context.Context, fileID string, requesterID string) (*models.FileMetadata, error) {
	return s.authorizeRead(ctx, fileID, requesterID)
}

// ListAccessible returns every file the user owns or has a grant on.
func (s *FileService) ListAccessible(ctx context.Context, userID string) ([]*models.FileMetadata, error) {
	return s.rm.Files(s.db).ListAccessible(ctx, userID)
}

// Rename updates the display filename only. The storage path and the bytes
// on disk are untouched, so the blob never moves. Requires owner-equivalent
// rights.
func (s *FileService) Rename(ctx context.Context, fileID string, newName string, requesterID string) (*models.FileMetadata, error) {
	if newName == "" {
		return nil, fmt.Errorf("%w: empty filename", common.ErrInvalidFile)
	}

	meta, err := s.authorizeOwner(ctx, fileID, requesterID)
	if err != nil {
		return nil, err
	}

	if err := s.rm.Files(s.db).UpdateFilename(ctx, fileID, newName); err != nil {
		return nil, err
	}
	meta.Filename = newName
	return meta, nil
}

// Delete removes the backing bytes, then the grants and the metadata row in
// one transaction. Byte deletion failure aborts the whole operation so a
// metadata row never points at nothing; the reverse inconsistency (bytes
// gone, metadata commit failed) is logged and accepted.
func (s *FileService) Delete(ctx context.Context, fileID string, requesterID string) error {
	meta, err := s.authorizeOwner(ctx, fileID, requesterID)
	if err != nil {
		return err
	}

	if err := s.blobs.Delete(meta.StoragePath); err != nil {
		return err
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.rm.Permissions(tx).DeleteByFile(ctx, fileID); err != nil {
			return err
		}
		return s.rm.Files(tx).Delete(ctx, fileID)
	})
	if err != nil {
		s.log.Error(ctx, "blob removed but metadata delete failed",
			"id", fileID, "path", meta.StoragePath, "error", err)
		return err
	}

	s.log.Info(ctx, "deleted file", "id", fileID, "owner", meta.OwnerID)
	return nil
}

// Share grants granteeUsername access to the file: VIEW when readOnly,
// OWNER otherwise. Requires owner-equivalent rights.
func (s *FileService) Share(ctx context.Context, fileID string, granteeUsername string, readOnly bool, requesterID string) error {
	meta, err := s.authorizeOwner(ctx, fileID, requesterID)
	if err != nil {
		return err
	}
	return s.perms.Share(ctx, meta, granteeUsername, readOnly)
}

// TotalStorageUsed reports stored bytes across all users. Admin report; the
// caller gate lives in the outer layer.
func (s *FileService) TotalStorageUsed(ctx context.Context) (int64, error) {
	return s.rm.Files(s.db).SumSizeAll(ctx)
}

// FilesLargerThan lists every file whose stored size exceeds size bytes,
// largest first. Admin report.
func (s *FileService) FilesLargerThan(ctx context.Context, size int64) ([]*models.FileMetadata, error) {
	return s.rm.Files(s.db).ListLargerThan(ctx, size)
}

// ListAll returns every metadata record. Admin report.
func (s *FileService) ListAll(ctx context.Context) ([]*models.FileMetadata, error) {
	return s.rm.Files(s.db).ListAll(ctx)
}

func (s *FileService) authorizeRead(ctx context.Context, fileID string, requesterID string) (*models.FileMetadata, error) {
	meta, err := s.rm.Files(s.db).GetByID(ctx, fileID)
	if err != nil {
		return nil, err
	}
	if err := s.perms.AuthorizeRead(ctx, meta, requesterID); err != nil {
		return nil, err
	}
	return meta, nil
}

func (s *FileService) authorizeOwner(ctx context.Context, fileID string, requesterID string) (*models.FileMetadata, error) {
	meta, err := s.rm.Files(s.db).GetByID(ctx, fileID)
	if err != nil {
		return nil, err
	}
	if err := s.perms.AuthorizeOwner(ctx, meta, requesterID); err != nil {
		return nil, err
	}
	return meta, nil
}
