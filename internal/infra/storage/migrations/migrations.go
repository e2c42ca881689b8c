package migrations

import (
	"context"
	"embed"
	"fmt"
	"sort"
	"strings"

	"github.com/m04kA/SMC-ReservationService/pkg/dbmetrics"
)

//go:embed *.sql
var fs embed.FS

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
}

// Files возвращает имена миграций в порядке применения
func Files() ([]string, error) {
	entries, err := fs.ReadDir(".")
	if err != nil {
		return nil, err
	}

	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		files = append(files, e.Name())
	}
	sort.Strings(files)

	return files, nil
}

// Up применяет еще не примененные миграции
// Примененные версии хранятся в schema_migrations
func Up(ctx context.Context, db dbmetrics.DBExecutor, logger Logger) (int, error) {
	files, err := Files()
	if err != nil {
		return 0, fmt.Errorf("migrations: read embedded files: %w", err)
	}

	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (version TEXT PRIMARY KEY, applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW())`); err != nil {
		return 0, fmt.Errorf("migrations: create schema_migrations: %w", err)
	}

	applied := 0
	for _, f := range files {
		var exists bool
		if err := db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)`, f).Scan(&exists); err != nil {
			return applied, fmt.Errorf("migrations: check %s: %w", f, err)
		}
		if exists {
			continue
		}

		body, err := fs.ReadFile(f)
		if err != nil {
			return applied, fmt.Errorf("migrations: read %s: %w", f, err)
		}

		if _, err := db.ExecContext(ctx, string(body)); err != nil {
			return applied, fmt.Errorf("migrations: apply %s: %w", f, err)
		}
		if _, err := db.ExecContext(ctx, `INSERT INTO schema_migrations (version) VALUES ($1)`, f); err != nil {
			return applied, fmt.Errorf("migrations: record %s: %w", f, err)
		}

		logger.Info("migrations: applied %s", f)
		applied++
	}

	return applied, nil
}
