package migration

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/memberhub/memberhub/internal/shared/logger"
)

// Manager handles database migrations with different strategies
type Manager struct {
	strategy Strategy
	logger   logger.Interface
}

// NewManager picks the strategy for a database driver. SQLite always uses
// auto migration because the versioned scripts are MySQL dialect.
func NewManager(driver, strategyName string) (*Manager, error) {
	if driver == "sqlite" {
		return NewManagerWithStrategy(NewGormAutoMigrateStrategy()), nil
	}

	name, err := ParseStrategyName(strategyName)
	if err != nil {
		return nil, err
	}

	var strategy Strategy
	switch name {
	case "golang_migrate":
		strategy = NewGolangMigrateStrategy()
	case "gorm_auto_migrate":
		strategy = NewGormAutoMigrateStrategy()
	default:
		strategy = NewGooseStrategy()
	}
	return NewManagerWithStrategy(strategy), nil
}

// NewManagerWithStrategy creates a new migration manager with a specific strategy
func NewManagerWithStrategy(strategy Strategy) *Manager {
	return &Manager{
		strategy: strategy,
		logger:   logger.WithComponent("migration.manager"),
	}
}

// Migrate executes the configured migration strategy
func (m *Manager) Migrate(db *gorm.DB) error {
	m.logger.Infow("starting database migration", "strategy", m.strategy.GetName())

	if err := m.strategy.Migrate(db); err != nil {
		m.logger.Errorw("migration failed", "strategy", m.strategy.GetName(), "error", err)
		return fmt.Errorf("migration failed with strategy %s: %w", m.strategy.GetName(), err)
	}

	m.logger.Infow("database migration completed successfully", "strategy", m.strategy.GetName())
	return nil
}

func (m *Manager) Rollback(db *gorm.DB, steps int) error {
	if steps < 1 {
		return fmt.Errorf("steps must be at least 1")
	}
	return m.strategy.MigrateDown(db, steps)
}

func (m *Manager) Status(db *gorm.DB) (string, error) {
	return m.strategy.Status(db)
}

// GetStrategy returns the current migration strategy
func (m *Manager) GetStrategy() Strategy {
	return m.strategy
}
