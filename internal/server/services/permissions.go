package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/mkarulin/filevault/internal/common"
	"github.com/mkarulin/filevault/internal/server/models"
	"github.com/mkarulin/filevault/internal/server/repositories/permissions"
	"github.com/mkarulin/filevault/internal/server/repositories/users"
)

// PermissionService answers authorization queries over the sharing ACL and
// creates new grants.
type PermissionService struct {
	perms permissions.Repository
	users users.Repository
}

func NewPermissionService(perms permissions.Repository, users users.Repository) *PermissionService {
	return &PermissionService{perms: perms, users: users}
}

// IsOwnerEquivalent reports whether userID is the primary owner of file or
// holds an OWNER-level grant on it. Required for rename, delete and share.
func (s *PermissionService) IsOwnerEquivalent(ctx context.Context, file *models.FileMetadata, userID string) (bool, error) {
	if file.OwnerID == userID {
		return true, nil
	}
	return s.perms.HasGrantAtLevel(ctx, file.ID, userID, models.AccessOwner)
}

// HasAnyAccess reports whether userID is the owner of file or holds a grant
// at any level. Required for download and metadata reads.
func (s *PermissionService) HasAnyAccess(ctx context.Context, file *models.FileMetadata, userID string) (bool, error) {
	if file.OwnerID == userID {
		return true, nil
	}
	return s.perms.HasGrant(ctx, file.ID, userID)
}

// AuthorizeOwner fails unless requesterID has owner-equivalent rights.
// A requester with no relation to the file at all gets ErrNotFound so that
// probing ids does not reveal which ones exist; a VIEW grantee gets
// ErrAccessDenied.
func (s *PermissionService) AuthorizeOwner(ctx context.Context, file *models.FileMetadata, requesterID string) error {
	ok, err := s.IsOwnerEquivalent(ctx, file, requesterID)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}

	any, err := s.perms.HasGrant(ctx, file.ID, requesterID)
	if err != nil {
		return err
	}
	if any {
		return common.ErrAccessDenied
	}
	return common.ErrNotFound
}

// AuthorizeRead fails with ErrNotFound unless requesterID has access at any
// level. There is no lower level to distinguish, so AccessDenied never
// surfaces here.
func (s *PermissionService) AuthorizeRead(ctx context.Context, file *models.FileMetadata, requesterID string) error {
	ok, err := s.HasAnyAccess(ctx, file, requesterID)
	if err != nil {
		return err
	}
	if !ok {
		return common.ErrNotFound
	}
	return nil
}

// Share grants access on file to the user named granteeUsername: VIEW when
// readOnly, OWNER otherwise. Sharing with a grantee again adds another
// grant rather than updating the first one.
func (s *PermissionService) Share(ctx context.Context, file *models.FileMetadata, granteeUsername string, readOnly bool) error {
	grantee, err := s.users.GetByUsername(ctx, granteeUsername)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return fmt.Errorf("%w: %s", common.ErrUserNotFound, granteeUsername)
		}
		return err
	}

	level := models.AccessOwner
	if readOnly {
		level = models.AccessView
	}

	perm := &models.FilePermission{
		ID:          uuid.NewString(),
		FileID:      file.ID,
		UserID:      grantee.ID,
		AccessLevel: level,
	}
	return s.perms.Create(ctx, perm)
}
