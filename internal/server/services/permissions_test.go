package services

import (
	"context"
	"errors"
	"testing"

	"github.com/mkarulin/filevault/internal/common"
	"github.com/mkarulin/filevault/internal/server/models"
)

func newPermEnv() (*PermissionService, *fakePermsRepo, *fakeUsersRepo) {
	perms := &fakePermsRepo{}
	users := &fakeUsersRepo{byUsername: make(map[string]*models.User)}
	return NewPermissionService(perms, users), perms, users
}

func testFile() *models.FileMetadata {
	return &models.FileMetadata{ID: "f-1", OwnerID: "u-owner"}
}

func TestIsOwnerEquivalent_PrimaryOwner(t *testing.T) {
	s, _, _ := newPermEnv()

	ok, err := s.IsOwnerEquivalent(context.Background(), testFile(), "u-owner")
	if err != nil {
		t.Fatalf("IsOwnerEquivalent error: %v", err)
	}
	if !ok {
		t.Fatal("primary owner must be owner-equivalent")
	}
}

func TestIsOwnerEquivalent_OwnerGrant(t *testing.T) {
	s, perms, _ := newPermEnv()
	perms.grants = append(perms.grants,
		&models.FilePermission{ID: "p-1", FileID: "f-1", UserID: "u-editor", AccessLevel: models.AccessOwner})

	ok, err := s.IsOwnerEquivalent(context.Background(), testFile(), "u-editor")
	if err != nil {
		t.Fatalf("IsOwnerEquivalent error: %v", err)
	}
	if !ok {
		t.Fatal("OWNER grantee must be owner-equivalent")
	}
}

func TestIsOwnerEquivalent_ViewGrantIsNot(t *testing.T) {
	s, perms, _ := newPermEnv()
	perms.grants = append(perms.grants,
		&models.FilePermission{ID: "p-1", FileID: "f-1", UserID: "u-viewer", AccessLevel: models.AccessView})

	ok, err := s.IsOwnerEquivalent(context.Background(), testFile(), "u-viewer")
	if err != nil {
		t.Fatalf("IsOwnerEquivalent error: %v", err)
	}
	if ok {
		t.Fatal("VIEW grantee must not be owner-equivalent")
	}
}

func TestHasAnyAccess(t *testing.T) {
	s, perms, _ := newPermEnv()
	perms.grants = append(perms.grants,
		&models.FilePermission{ID: "p-1", FileID: "f-1", UserID: "u-viewer", AccessLevel: models.AccessView})

	cases := []struct {
		user string
		want bool
	}{
		{"u-owner", true},
		{"u-viewer", true},
		{"u-stranger", false},
	}
	for _, c := range cases {
		got, err := s.HasAnyAccess(context.Background(), testFile(), c.user)
		if err != nil {
			t.Fatalf("HasAnyAccess(%s) error: %v", c.user, err)
		}
		if got != c.want {
			t.Fatalf("HasAnyAccess(%s) = %v, want %v", c.user, got, c.want)
		}
	}
}

func TestAuthorizeOwner_StrangerGetsNotFound(t *testing.T) {
	s, _, _ := newPermEnv()

	err := s.AuthorizeOwner(context.Background(), testFile(), "u-stranger")
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want common.ErrNotFound, got %v", err)
	}
}

func TestAuthorizeOwner_ViewerGetsAccessDenied(t *testing.T) {
	s, perms, _ := newPermEnv()
	perms.grants = append(perms.grants,
		&models.FilePermission{ID: "p-1", FileID: "f-1", UserID: "u-viewer", AccessLevel: models.AccessView})

	err := s.AuthorizeOwner(context.Background(), testFile(), "u-viewer")
	if !errors.Is(err, common.ErrAccessDenied) {
		t.Fatalf("want common.ErrAccessDenied, got %v", err)
	}
}

func TestAuthorizeRead_StrangerGetsNotFound(t *testing.T) {
	s, _, _ := newPermEnv()

	err := s.AuthorizeRead(context.Background(), testFile(), "u-stranger")
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want common.ErrNotFound, got %v", err)
	}
}

func TestShare_CreatesViewGrant(t *testing.T) {
	s, perms, users := newPermEnv()
	users.byUsername["viewer"] = &models.User{ID: "u-viewer", Username: "viewer"}

	if err := s.Share(context.Background(), testFile(), "viewer", true); err != nil {
		t.Fatalf("Share error: %v", err)
	}
	if len(perms.grants) != 1 {
		t.Fatalf("expected 1 grant, got %d", len(perms.grants))
	}
	g := perms.grants[0]
	if g.FileID != "f-1" || g.UserID != "u-viewer" || g.AccessLevel != models.AccessView {
		t.Fatalf("unexpected grant: %+v", g)
	}
	if g.ID == "" {
		t.Fatal("grant id must be assigned")
	}
}

func TestShare_CreatesOwnerGrant(t *testing.T) {
	s, perms, users := newPermEnv()
	users.byUsername["editor"] = &models.User{ID: "u-editor", Username: "editor"}

	if err := s.Share(context.Background(), testFile(), "editor", false); err != nil {
		t.Fatalf("Share error: %v", err)
	}
	if perms.grants[0].AccessLevel != models.AccessOwner {
		t.Fatalf("unexpected level: %v", perms.grants[0].AccessLevel)
	}
}

func TestShare_UnknownUser(t *testing.T) {
	s, _, _ := newPermEnv()

	err := s.Share(context.Background(), testFile(), "nobody", true)
	if !errors.Is(err, common.ErrUserNotFound) {
		t.Fatalf("want common.ErrUserNotFound, got %v", err)
	}
}
