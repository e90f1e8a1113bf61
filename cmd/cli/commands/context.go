package commands

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/seat-allotment/internal/config"
	"github.com/jakechorley/seat-allotment/pkg/clients/sheetsclient"
	"github.com/jakechorley/seat-allotment/pkg/db"
	"github.com/jakechorley/seat-allotment/pkg/postgres"
)

// AppContext holds the application dependencies shared across all commands.
// The sheets client and database are created on first use so that purely local
// runs never need credentials.
type AppContext struct {
	Env    string
	Cfg    *config.Config
	Logger *zap.Logger
	Ctx    context.Context

	sheetsClient *sheetsclient.Client
	database     *postgres.DB
}

// HasDatabase reports whether a database connection string is configured
func (app *AppContext) HasDatabase() bool {
	return app.database != nil || app.Cfg.DatabaseURL() != ""
}

// Database connects to PostgreSQL and applies pending migrations on first use
func (app *AppContext) Database() (db.Database, error) {
	if app.database != nil {
		return app.database, nil
	}

	connString := app.Cfg.DatabaseURL()
	if connString == "" {
		return nil, fmt.Errorf("no database configured: set %s", databaseURLEnvName(app.Cfg))
	}

	app.Logger.Info("Connecting to database")
	database, err := postgres.NewDB(app.Ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := database.RunMigrations(app.Ctx); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	app.Logger.Debug("Database initialized successfully")

	app.database = database
	return database, nil
}

// SheetsClient authenticates with Google on first use
func (app *AppContext) SheetsClient() (*sheetsclient.Client, error) {
	if app.sheetsClient != nil {
		return app.sheetsClient, nil
	}

	app.Logger.Info("Loading OAuth client configuration")
	oauthCfg, err := config.LoadOAuthClientWithEnv(app.Env)
	if err != nil {
		return nil, fmt.Errorf("failed to load OAuth client config: %w", err)
	}

	app.Logger.Info("Initializing sheets client")
	client, err := sheetsclient.NewClient(app.Ctx, oauthCfg, app.Env, app.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets client: %w", err)
	}
	app.Logger.Debug("Sheets client initialized successfully")

	app.sheetsClient = client
	return client, nil
}

// Close releases the database connection, if one was opened
func (app *AppContext) Close() {
	if app.database != nil {
		app.database.Close()
		app.database = nil
	}
}

func databaseURLEnvName(cfg *config.Config) string {
	if cfg.DatabaseURLEnv != "" {
		return cfg.DatabaseURLEnv
	}
	return config.DefaultDatabaseURLEnv
}
