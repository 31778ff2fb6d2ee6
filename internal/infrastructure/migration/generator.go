package migration

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"time"

	"github.com/pressly/goose/v3"

	"github.com/memberhub/memberhub/internal/shared/logger"
)

var migrationNamePattern = regexp.MustCompile(`^[a-z0-9_]+$`)

// Generator handles creation of new migration files in the source tree.
type Generator struct {
	scriptsPath string
	logger      logger.Interface
}

// NewGenerator creates a generator rooted at the scripts directory that
// holds the goose/ and migrate/ subdirectories.
func NewGenerator(scriptsPath string) *Generator {
	return &Generator{
		scriptsPath: scriptsPath,
		logger:      logger.WithComponent("migration.generator"),
	}
}

// CreateMigration writes a goose script and the matching golang-migrate
// pair under the next sequential version.
func (g *Generator) CreateMigration(name string) error {
	if !migrationNamePattern.MatchString(name) {
		return fmt.Errorf("migration name must be snake_case: %q", name)
	}

	gooseDir := filepath.Join(g.scriptsPath, "goose")
	migrateDir := filepath.Join(g.scriptsPath, "migrate")
	for _, dir := range []string{gooseDir, migrateDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create scripts directory: %w", err)
		}
	}

	goose.SetBaseFS(nil)
	goose.SetSequential(true)
	if err := goose.Create(nil, gooseDir, name, "sql"); err != nil {
		return fmt.Errorf("failed to create goose migration: %w", err)
	}

	version, err := g.nextVersion(migrateDir)
	if err != nil {
		return err
	}

	upFilePath := filepath.Join(migrateDir, fmt.Sprintf("%06d_%s.up.sql", version, name))
	downFilePath := filepath.Join(migrateDir, fmt.Sprintf("%06d_%s.down.sql", version, name))
	created := time.Now().Format("2006-01-02 15:04:05")

	if err := os.WriteFile(upFilePath, []byte(fmt.Sprintf("-- Migration: %s\n-- Created: %s\n\n", name, created)), 0o644); err != nil {
		return fmt.Errorf("failed to create up migration file: %w", err)
	}
	if err := os.WriteFile(downFilePath, []byte(fmt.Sprintf("-- Rollback Migration: %s\n-- Created: %s\n\n", name, created)), 0o644); err != nil {
		return fmt.Errorf("failed to create down migration file: %w", err)
	}

	g.logger.Infow("migration files created successfully",
		"up_file", upFilePath,
		"down_file", downFilePath)
	return nil
}

func (g *Generator) nextVersion(dir string) (int, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.up.sql"))
	if err != nil {
		return 0, fmt.Errorf("failed to list migrations: %w", err)
	}

	versions := make([]int, 0, len(matches))
	for _, m := range matches {
		base := filepath.Base(m)
		if len(base) < 6 {
			continue
		}
		if v, err := strconv.Atoi(base[:6]); err == nil {
			versions = append(versions, v)
		}
	}
	if len(versions) == 0 {
		return 1, nil
	}
	sort.Ints(versions)
	return versions[len(versions)-1] + 1, nil
}
