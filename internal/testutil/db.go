// Package testutil provides database helpers for package tests. Tests run
// against an in-memory SQLite database with a hand-written schema that
// mirrors the goose migrations, so no external PostgreSQL is needed.
package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/iyfinance/leads-api/internal/domain"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// The production schema lives in goose migrations and uses Postgres
// features (uuid defaults, text[], jsonb). SQLite stores those columns as
// plain text; the driver.Valuer implementations on the models handle the
// round trip.
var schema = []string{
	`CREATE TABLE users (
		id TEXT PRIMARY KEY,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		username TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL,
		full_name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		active BOOLEAN NOT NULL DEFAULT 1
	)`,
	`CREATE TABLE leads (
		id TEXT PRIMARY KEY,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		lead_number TEXT NOT NULL UNIQUE,
		full_name TEXT NOT NULL,
		id_number TEXT NOT NULL,
		cell_number TEXT NOT NULL,
		email TEXT,
		residential_address TEXT,
		source TEXT NOT NULL,
		services_interested TEXT,
		notes TEXT,
		status TEXT NOT NULL,
		priority TEXT NOT NULL,
		captured_by TEXT NOT NULL,
		assigned_to TEXT NOT NULL,
		converted_at DATETIME,
		next_follow_up DATETIME,
		call_history TEXT NOT NULL DEFAULT '[]'
	)`,
	`CREATE TABLE bank_details (
		id TEXT PRIMARY KEY,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		lead_id TEXT NOT NULL UNIQUE,
		bank_name TEXT NOT NULL,
		account_number TEXT NOT NULL,
		branch_code TEXT NOT NULL,
		account_type TEXT NOT NULL,
		captured_by TEXT NOT NULL
	)`,
	`CREATE TABLE lead_sequences (
		year INTEGER PRIMARY KEY,
		last_sequence INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE notifications (
		id TEXT PRIMARY KEY,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		user_id TEXT NOT NULL,
		type TEXT NOT NULL,
		title TEXT NOT NULL,
		message TEXT,
		read BOOLEAN NOT NULL DEFAULT 0,
		read_at DATETIME,
		lead_id TEXT
	)`,
}

// SetupTestDB opens an in-memory SQLite database with the full schema.
// The connection pool is pinned to a single connection because each
// in-memory connection would otherwise see its own empty database.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	for _, stmt := range schema {
		require.NoError(t, db.Exec(stmt).Error)
	}

	return db
}

// CreateTestUser inserts an active account. The password is always
// "password123"; bcrypt.MinCost keeps test runs fast.
func CreateTestUser(t *testing.T, db *gorm.DB, username string, role domain.UserRole) *domain.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &domain.User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
		FullName:     "Test " + username,
		Email:        username + "@example.com",
		Active:       true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateTestLead inserts a lead with valid defaults, captured and assigned
// to the given agent.
func CreateTestLead(t *testing.T, db *gorm.DB, leadNumber string, agentID uuid.UUID) *domain.Lead {
	t.Helper()

	lead := &domain.Lead{
		LeadNumber:         leadNumber,
		FullName:           "Thabo Mokoena",
		IDNumber:           "8503155800084",
		CellNumber:         "0821234567",
		Email:              "thabo@example.com",
		ResidentialAddress: "12 Church Street, Pretoria",
		Source:             domain.LeadSourceWalkIn,
		ServicesInterested: []string{"judgement"},
		Status:             domain.LeadStatusNew,
		Priority:           domain.LeadPriorityMedium,
		CapturedBy:         agentID,
		AssignedTo:         agentID,
		CallHistory:        domain.CallHistory{},
	}
	require.NoError(t, db.Create(lead).Error)
	return lead
}

// UniqueUsername returns a username that will not collide across tests
// sharing a database.
func UniqueUsername(prefix string) string {
	return fmt.Sprintf("%s%d", prefix, time.Now().UnixNano()%1000000000)
}
