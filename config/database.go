package config

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var db *gorm.DB

// InitDatabase opens the SQLite store at the configured path. The returned
// handle is pooled: every request checks out a connection lazily on its
// first statement and returns it when the statement finishes, so no request
// holds a connection longer than it needs one.
func InitDatabase() *gorm.DB {
	if db != nil {
		return db
	}

	cfg := Get()

	// Ensure the instance directory exists before SQLite tries to create the file.
	if dir := filepath.Dir(cfg.DatabasePath); dir != "" && dir != "." {
		_ = os.MkdirAll(dir, 0o755)
	}

	gLogger := logger.New(
		log.New(os.Stdout, "", log.LstdFlags),
		logger.Config{
			SlowThreshold:             2 * time.Second,
			LogLevel:                  toGormLogLevel(cfg.LogLevel),
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	var err error
	db, err = gorm.Open(sqlite.Open(sqliteDSN(cfg.DatabasePath)), &gorm.Config{Logger: gLogger})
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get sql.DB: %v", err)
	}

	// SQLite serializes writes on a single file; a small pool is plenty.
	sqlDB.SetMaxIdleConns(2)
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		log.Fatalf("database ping failed: %v", err)
	}

	return db
}

// sqliteDSN appends the foreign-key pragma to the store path. SQLite scopes
// PRAGMA foreign_keys to a single connection, so it has to ride the DSN to
// cover every connection the pool opens.
func sqliteDSN(path string) string {
	if strings.Contains(path, "?") {
		return path + "&_foreign_keys=on"
	}
	return path + "?_foreign_keys=on"
}

// ResetSchema destructively recreates the tables for the given models,
// dropping any existing tables of the same name first. This is an
// administrative operation invoked out-of-band (the -init-db flag), never
// from the request path.
func ResetSchema(db *gorm.DB, modelDefs ...interface{}) error {
	for _, model := range modelDefs {
		if db.Migrator().HasTable(model) {
			if err := db.Migrator().DropTable(model); err != nil {
				return err
			}
		}
	}
	return db.AutoMigrate(modelDefs...)
}

// toGormLogLevel maps application LogLevel to GORM's logger level.
func toGormLogLevel(level string) logger.LogLevel {
	switch level {
	case "debug":
		// GORM 'Info' shows SQL; use with caution
		return logger.Info
	case "error":
		return logger.Error
	case "silent":
		return logger.Silent
	default:
		return logger.Warn
	}
}

// DB provides access to the initialized gorm DB instance.
func DB() *gorm.DB {
	if db == nil {
		log.Fatal("database not initialized, call InitDatabase first")
	}
	return db
}
