package migration

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/memberhub/memberhub/internal/infrastructure/persistence/models"
	"github.com/memberhub/memberhub/internal/shared/logger"
)

func AutoMigrateModels() []interface{} {
	return []interface{}{
		&models.UserModel{},
		&models.PlanModel{},
		&models.SubscriptionModel{},
		&models.SubscriptionPaymentModel{},
		&models.TransactionModel{},
		&models.IDCardModel{},
	}
}

// GormAutoMigrateStrategy derives the schema from the models. It serves
// SQLite and local development; MySQL deployments run versioned scripts.
type GormAutoMigrateStrategy struct {
	logger logger.Interface
}

func NewGormAutoMigrateStrategy() *GormAutoMigrateStrategy {
	return &GormAutoMigrateStrategy{
		logger: logger.WithComponent("migration.gorm"),
	}
}

func (s *GormAutoMigrateStrategy) Migrate(db *gorm.DB) error {
	models := AutoMigrateModels()
	s.logger.Infow("starting gorm auto migration", "models_count", len(models))

	if err := db.AutoMigrate(models...); err != nil {
		s.logger.Errorw("auto migration failed", "error", err)
		return fmt.Errorf("failed to auto migrate: %w", err)
	}
	return nil
}

func (s *GormAutoMigrateStrategy) MigrateDown(db *gorm.DB, steps int) error {
	return fmt.Errorf("%s does not support down migrations", s.GetName())
}

func (s *GormAutoMigrateStrategy) Status(db *gorm.DB) (string, error) {
	var missing []string
	for _, m := range AutoMigrateModels() {
		if !db.Migrator().HasTable(m) {
			stmt := &gorm.Statement{DB: db}
			if err := stmt.Parse(m); err == nil {
				missing = append(missing, stmt.Schema.Table)
			}
		}
	}
	if len(missing) == 0 {
		return "all tables present", nil
	}
	return fmt.Sprintf("missing tables: %v", missing), nil
}

func (s *GormAutoMigrateStrategy) GetName() string {
	return "gorm_auto_migrate"
}
