// Package testsupport builds throwaway databases for repository and integration tests.
package testsupport

import (
	"github.com/jmoiron/sqlx"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	commentDatamodel "github.com/frahmantamala/civic-issue-tracker/internal/core/datamodel/comment"
	issueDatamodel "github.com/frahmantamala/civic-issue-tracker/internal/core/datamodel/issue"
	paymentDatamodel "github.com/frahmantamala/civic-issue-tracker/internal/core/datamodel/payment"
	timelineDatamodel "github.com/frahmantamala/civic-issue-tracker/internal/core/datamodel/timeline"
	userDatamodel "github.com/frahmantamala/civic-issue-tracker/internal/core/datamodel/user"
)

// NewSQLite opens an in-memory database with every table migrated. The pool is pinned to one
// connection because each sqlite :memory: connection is its own database.
func NewSQLite() (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&userDatamodel.User{},
		&issueDatamodel.Issue{},
		&issueDatamodel.Upvote{},
		&timelineDatamodel.Entry{},
		&commentDatamodel.Comment{},
		&paymentDatamodel.Payment{},
	); err != nil {
		return nil, err
	}
	return db, nil
}

// SQLX wraps the connection behind db for the raw-SQL repositories.
func SQLX(db *gorm.DB) (*sqlx.DB, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	return sqlx.NewDb(sqlDB, "sqlite3"), nil
}
