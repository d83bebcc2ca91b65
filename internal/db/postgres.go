package db

import (
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yungbote/studentrisk-backend/internal/logger"
	"github.com/yungbote/studentrisk-backend/internal/types"
	"github.com/yungbote/studentrisk-backend/internal/utils"
)

type DatabaseService struct {
	db     *gorm.DB
	driver string
	log    *logger.Logger
}

// NewDatabaseService connects to Postgres by default; DB_DRIVER=sqlite keeps
// the single-file deployment option for local and demo setups.
func NewDatabaseService(log *logger.Logger) (*DatabaseService, error) {
	serviceLog := log.With("service", "DatabaseService")

	driver := strings.ToLower(utils.GetEnv("DB_DRIVER", "postgres", log))

	var (
		db  *gorm.DB
		err error
	)
	switch driver {
	case "sqlite":
		path := utils.GetEnv("SQLITE_PATH", "database.db", log)
		log.Info("Connecting to SQLite...", "path", path)
		db, err = gorm.Open(sqlite.Open(path), &gorm.Config{})
		if err != nil {
			log.Error("Failed to open SQLite database", "error", err)
			return nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
	default:
		driver = "postgres"
		host := utils.GetEnv("POSTGRES_HOST", "localhost", log)
		port := utils.GetEnv("POSTGRES_PORT", "5432", log)
		user := utils.GetEnv("POSTGRES_USER", "postgres", log)
		password := utils.GetEnv("POSTGRES_PASSWORD", "", log)
		name := utils.GetEnv("POSTGRES_NAME", "studentrisk", log)

		dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, password, host, port, name)

		log.Info("Connecting to Postgres...")
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
			DisableForeignKeyConstraintWhenMigrating: true,
		})
		if err != nil {
			log.Error("Failed to connect to Postgres", "error", err)
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}

		if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
			log.Error("Failed to enable uuid-ossp extension", "error", err)
			return nil, fmt.Errorf("failed to enable uuid-ossp extension: %w", err)
		}
	}

	return &DatabaseService{db: db, driver: driver, log: serviceLog}, nil
}

func (s *DatabaseService) AutoMigrateAll() error {
	s.log.Info("Auto migrating tables...")
	err := s.db.AutoMigrate(
		&types.Prediction{},
		&types.AssessmentInput{},
		&types.RiskFactor{},
		&types.Recommendation{},
	)
	if err != nil {
		s.log.Error("Auto migration failed", "error", err)
		return err
	}

	if s.driver != "postgres" {
		return nil
	}

	s.log.Info("Configuring cascade foreign keys...")
	for _, stmt := range []struct {
		name string
		sql  string
	}{
		{
			name: "fk_assessment_input_prediction_id",
			sql: `
				ALTER TABLE "assessment_input"
				ADD CONSTRAINT "fk_assessment_input_prediction_id"
				FOREIGN KEY ("prediction_id")
				REFERENCES "prediction"("id")
				ON DELETE CASCADE
			`,
		},
		{
			name: "fk_risk_factor_prediction_id",
			sql: `
				ALTER TABLE "risk_factor"
				ADD CONSTRAINT "fk_risk_factor_prediction_id"
				FOREIGN KEY ("prediction_id")
				REFERENCES "prediction"("id")
				ON DELETE CASCADE
			`,
		},
		{
			name: "fk_recommendation_prediction_id",
			sql: `
				ALTER TABLE "recommendation"
				ADD CONSTRAINT "fk_recommendation_prediction_id"
				FOREIGN KEY ("prediction_id")
				REFERENCES "prediction"("id")
				ON DELETE CASCADE
			`,
		},
	} {
		if err := s.db.Exec(fmt.Sprintf(`
			DO $$ BEGIN
				IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = '%s') THEN
					%s;
				END IF;
			END $$;
		`, stmt.name, stmt.sql)).Error; err != nil {
			return fmt.Errorf("failed to add %s: %w", stmt.name, err)
		}
	}
	return nil
}

func (s *DatabaseService) DB() *gorm.DB {
	return s.db
}
