package repomanager

import (
	"context"
	"database/sql"

	"github.com/mkarulin/filevault/internal/dbx"
	"github.com/mkarulin/filevault/internal/server/repositories/files"
	"github.com/mkarulin/filevault/internal/server/repositories/permissions"
	"github.com/mkarulin/filevault/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Files(db dbx.DBTX) files.Repository
	Permissions(db dbx.DBTX) permissions.Repository
}
