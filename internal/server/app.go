// Package server initializes and runs the storage engine: it opens the
// database, runs migrations, loads the encryption key, bootstraps the admin
// account and wires the file service, then waits for shutdown signals.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mkarulin/filevault/internal/common"
	"github.com/mkarulin/filevault/internal/cryptox"
	"github.com/mkarulin/filevault/internal/logging"
	"github.com/mkarulin/filevault/internal/server/blobstore"
	"github.com/mkarulin/filevault/internal/server/config"
	"github.com/mkarulin/filevault/internal/server/models"
	"github.com/mkarulin/filevault/internal/server/repositories/repomanager"
	"github.com/mkarulin/filevault/internal/server/services"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	key    []byte
	files  *services.FileService
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	rm, err := repomanager.NewPostgresRepositoryManager(db)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	key, err := cryptox.LoadOrCreateKey(cfg.KeyFilePath)
	if err != nil {
		return nil, fmt.Errorf("key init error: %w", err)
	}

	encryptor, err := cryptox.NewEncryptor(key)
	if err != nil {
		return nil, err
	}

	blobs, err := blobstore.New(cfg.StorageRoot)
	if err != nil {
		return nil, fmt.Errorf("blob store init error: %w", err)
	}

	validator := services.NewValidator(cfg.MaxFileSize, cfg.AllowedTypes)
	quota := services.NewQuotaEnforcer(rm.Files(db), cfg.MaxStoragePerUser)
	perms := services.NewPermissionService(rm.Permissions(db), rm.Users(db))
	files := services.NewFileService(db, rm, validator, quota, perms, encryptor, blobs, logger)

	app := &App{config: cfg, logger: logger, db: db, key: key, files: files}

	if err := app.ensureAdminUser(ctx, rm); err != nil {
		return nil, fmt.Errorf("admin bootstrap error: %w", err)
	}

	return app, nil
}

// Files exposes the storage engine to the transport layer.
func (app *App) Files() *services.FileService {
	return app.files
}

// ensureAdminUser creates the bootstrap administrator account on first run.
func (app *App) ensureAdminUser(ctx context.Context, rm repomanager.RepositoryManager) error {
	repo := rm.Users(app.db)

	_, err := repo.GetByUsername(ctx, app.config.AdminUsername)
	if err == nil {
		return nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return err
	}

	admin := &models.User{
		Username:     app.config.AdminUsername,
		PasswordHash: cryptox.HashPassword(app.config.AdminPassword),
		Role:         models.RoleAdmin,
		Enabled:      true,
	}
	if _, err := repo.Create(ctx, admin); err != nil {
		return err
	}

	app.logger.Info(ctx, "created bootstrap admin user", "username", admin.Username)
	return nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	<-ctx.Done()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}

	// the encryptor shares this backing array, so the key leaves memory too
	common.WipeByteArray(app.key)

	app.logger.Info(ctx, "Stopped")
}
