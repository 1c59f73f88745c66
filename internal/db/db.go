package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// busyTimeoutMS bounds how long a statement waits on a locked store file.
const busyTimeoutMS = 5000

// Open resolves path against the working directory, opens the SQLite store
// and brings its schema up to date. The store is single-writer, so the pool
// is capped at one connection.
func Open(path string) (*sql.DB, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	resolved := ResolvePath(path, cwd)

	// Ensure parent directory exists
	if dir := filepath.Dir(resolved); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
	}

	database, err := sql.Open("sqlite3", fmt.Sprintf("%s?_busy_timeout=%d", resolved, busyTimeoutMS))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	database.SetMaxOpenConns(1)

	if err := database.Ping(); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to open database at %s: %w", resolved, err)
	}

	if err := InitSchema(database); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return database, nil
}

// ResolvePath makes a store path stable regardless of where the binary is
// started from. Lookup order: absolute path as given, cwd/path, then
// parent(cwd)/path. If none exists the path is returned unchanged and the
// store is created relative to the working directory.
func ResolvePath(path, cwd string) string {
	if filepath.IsAbs(path) {
		return path
	}

	runDir := filepath.Join(cwd, path)
	if fileExists(runDir) {
		return runDir
	}

	// Running from a bin/ or build subdirectory
	if parent := filepath.Dir(cwd); parent != cwd {
		rootTry := filepath.Join(parent, path)
		if fileExists(rootTry) {
			return rootTry
		}
	}

	return path
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
