package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// dryRunDB opens a gorm session that renders SQL without touching a real
// database and captures the last rendered query.
func dryRunDB(t *testing.T) (*gorm.DB, *string) {
	t.Helper()

	db, err := gorm.Open(mysql.New(mysql.Config{
		DSN:                       "user:password@tcp(127.0.0.1:3306)/shoplist?charset=utf8mb4&parseTime=True&loc=Local",
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
	})
	if err != nil {
		t.Fatalf("open dry-run session: %v", err)
	}

	var lastSQL string
	err = db.Callback().Query().After("gorm:query").Register("capture_sql", func(tx *gorm.DB) {
		lastSQL = tx.Statement.SQL.String()
	})
	if err != nil {
		t.Fatalf("register capture callback: %v", err)
	}
	return db, &lastSQL
}

func TestCountOwnersForUpdateTakesRowLocks(t *testing.T) {
	db, lastSQL := dryRunDB(t)
	repo := NewMembershipRepository(db)

	_, err := repo.CountOwnersForUpdate(context.Background(), uuid.New())

	assert.NoError(t, err)
	assert.Contains(t, *lastSQL, "FOR UPDATE",
		"owner count must lock the owner rows so concurrent demotions serialize")
}

func TestSoleOwnershipsTakesRowLocks(t *testing.T) {
	db, lastSQL := dryRunDB(t)
	repo := NewUserRepository(db)

	_, err := repo.SoleOwnerships(context.Background(), uuid.New())

	assert.NoError(t, err)
	assert.Contains(t, *lastSQL, "FOR UPDATE",
		"sole-ownership check must lock the user's owner rows")
}
