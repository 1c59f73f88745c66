// Package wire provides dependency injection for the parkwise application.
// It creates singleton services with lazy initialization.
package wire

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"sync"

	"go.uber.org/zap"

	cliadapter "github.com/example/parkwise/internal/adapters/cli"
	"github.com/example/parkwise/internal/adapters/memory"
	"github.com/example/parkwise/internal/adapters/sqlite"
	"github.com/example/parkwise/internal/adapters/zaplog"
	"github.com/example/parkwise/internal/app"
	"github.com/example/parkwise/internal/config"
	"github.com/example/parkwise/internal/ctxutil"
	"github.com/example/parkwise/internal/db"
	"github.com/example/parkwise/internal/logging"
	"github.com/example/parkwise/internal/ports/primary"
)

var (
	settings        = config.Default()
	conveyorService primary.ConveyorService
	logger          = zap.NewNop()
	database        *sql.DB
	initErr         error
	initialized     bool
	once            sync.Once
)

// Configure sets the configuration used when services are first built.
// It has no effect once any service has been requested.
func Configure(cfg *config.Config) {
	if cfg != nil && !initialized {
		settings = cfg
	}
}

// ConveyorService returns the singleton ConveyorService instance.
func ConveyorService() (primary.ConveyorService, error) {
	once.Do(initServices)
	return conveyorService, initErr
}

// ConveyorAdapter returns a new ConveyorAdapter writing to stdout.
// Each call creates a new adapter (adapters are stateless translators).
func ConveyorAdapter() (*cliadapter.ConveyorAdapter, error) {
	return ConveyorAdapterWithOutput(os.Stdout)
}

// ConveyorAdapterWithOutput returns a new ConveyorAdapter writing to the given output.
// This variant allows testing or alternate output destinations.
func ConveyorAdapterWithOutput(out io.Writer) (*cliadapter.ConveyorAdapter, error) {
	svc, err := ConveyorService()
	if err != nil {
		return nil, err
	}
	return cliadapter.NewConveyorAdapter(svc, out), nil
}

// Context returns a background context carrying the configured operator.
func Context() context.Context {
	return ctxutil.WithOperator(context.Background(), settings.Operator)
}

// Logger returns the application logger, or a no-op logger before services exist.
func Logger() *zap.Logger {
	return logger
}

// Close flushes the logger and releases the store.
func Close() error {
	_ = logger.Sync()
	if database == nil {
		return nil
	}
	return database.Close()
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	initialized = true

	l, err := logging.New(settings.Log.Level, settings.Log.Format, "parkwise")
	if err != nil {
		initErr = fmt.Errorf("failed to build logger: %w", err)
		return
	}
	logger = l

	// Get database connection
	database, err = db.Open(settings.Database.Path)
	if err != nil {
		initErr = fmt.Errorf("failed to initialize database: %w", err)
		return
	}

	cols, err := db.ResolveConveyorColumns(database)
	if err != nil {
		initErr = fmt.Errorf("failed to map conveyor columns: %w", err)
		return
	}
	logger.Debug("store ready",
		zap.String("path", settings.Database.Path),
		zap.String("max_weight_column", cols.MaxWeight),
		zap.String("active_column", cols.IsActive),
	)

	// Create adapters (secondary ports)
	conveyorRepo := sqlite.NewConveyorRepository(database, cols)
	scratch := memory.NewScratchStore()
	auditWriter := zaplog.NewLogWriter(logger)

	// Create services (primary ports implementation)
	conveyorService = app.NewConveyorService(conveyorRepo, scratch, auditWriter, logger)
}
