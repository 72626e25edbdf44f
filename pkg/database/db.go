package database

import (
	"os"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// APIKey represents the api_keys table.
type APIKey struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	Key        string     `gorm:"unique;not null" json:"key"`
	Name       string     `gorm:"not null" json:"name"`
	KeyPreview string     `json:"key_preview"`
	RateLimit  int        `gorm:"default:10000" json:"rate_limit"`
	CreatedAt  time.Time  `json:"created_at"`
	LastUsed   *time.Time `json:"last_used"`
}

// APIUsage represents the api_usage table: one row per key per day.
type APIUsage struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	KeyID        uint   `gorm:"uniqueIndex:idx_key_date;not null" json:"key_id"`
	Date         string `gorm:"uniqueIndex:idx_key_date;not null" json:"date"`
	RequestCount int    `gorm:"default:0" json:"request_count"`
	TotalPeople  int    `gorm:"default:0" json:"total_people"`
	TotalCohorts int    `gorm:"default:0" json:"total_cohorts"`
}

// MasterUser represents the master_users table for admin login.
type MasterUser struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"unique;not null" json:"username"`
	PasswordHash string    `gorm:"not null" json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

// ScheduleRun records one scheduling invocation for auditing.
type ScheduleRun struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	RunID          string    `gorm:"uniqueIndex;not null" json:"run_id"`
	KeyID          uint      `gorm:"index" json:"key_id"`
	Courses        int       `json:"courses"`
	TotalPeople    int       `json:"total_people"`
	TotalScheduled int       `json:"total_scheduled"`
	TotalCohorts   int       `json:"total_cohorts"`
	BalanceMoves   int       `json:"balance_moves"`
	DurationMS     int64     `json:"duration_ms"`
	CreatedAt      time.Time `json:"created_at"`
}

// InitDB opens the database connection and migrates the schema. DATABASE_URL
// selects Postgres; otherwise a local SQLite file at DATA_PATH is used.
func InitDB(log *zap.Logger) *gorm.DB {
	var db *gorm.DB
	var err error

	dsn := os.Getenv("DATABASE_URL")
	if dsn != "" {
		db, err = gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), &gorm.Config{
			PrepareStmt: false,
		})
	} else {
		dbPath := os.Getenv("DATA_PATH")
		if dbPath == "" {
			dbPath = "cohort_api.db"
		}
		db, err = gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	}

	if err != nil {
		log.Fatal("failed to connect database", zap.Error(err))
	}

	if err := db.AutoMigrate(&APIKey{}, &APIUsage{}, &MasterUser{}, &ScheduleRun{}); err != nil {
		log.Fatal("failed to migrate schema", zap.Error(err))
	}

	return db
}
