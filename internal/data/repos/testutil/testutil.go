package testutil

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/yungbote/ngooning-backend/internal/data/db"
	types "github.com/yungbote/ngooning-backend/internal/domain"
	"github.com/yungbote/ngooning-backend/internal/platform/logger"
)

func Logger(tb testing.TB) *logger.Logger {
	tb.Helper()
	return logger.Nop()
}

// DB opens a fresh in-memory SQLite database with every model migrated.
// Each call gets its own database so tests never share rows.
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(tb.Name())
	dsn := fmt.Sprintf("file:%s_%s?mode=memory&cache=shared", name, uuid.NewString()[:8])
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		tb.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		tb.Fatalf("sqlite handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	tb.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrateAll(gdb); err != nil {
		tb.Fatalf("migrate: %v", err)
	}
	return gdb
}

func SeedUser(tb testing.TB, tx *gorm.DB, email string) *types.User {
	tb.Helper()
	u := &types.User{ID: uuid.New(), Email: email, FullName: "Test User"}
	if err := tx.Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedGroup(tb testing.TB, tx *gorm.DB, ownerID uuid.UUID, name string) *types.Group {
	tb.Helper()
	g := &types.Group{ID: uuid.New(), Name: name, CreatedByID: ownerID}
	if err := tx.Create(g).Error; err != nil {
		tb.Fatalf("seed group: %v", err)
	}
	SeedMembership(tb, tx, g.ID, ownerID, types.GroupRoleOwner)
	return g
}

func SeedMembership(tb testing.TB, tx *gorm.DB, groupID, userID uuid.UUID, role string) *types.GroupMembership {
	tb.Helper()
	m := &types.GroupMembership{GroupID: groupID, UserID: userID, Role: role}
	if err := tx.Create(m).Error; err != nil {
		tb.Fatalf("seed membership: %v", err)
	}
	return m
}

func SeedEvent(tb testing.TB, tx *gorm.DB, creatorID uuid.UUID, groupID *uuid.UUID, title string, start time.Time) *types.Event {
	tb.Helper()
	e := &types.Event{Title: title, StartTime: start.UTC(), CreatedByID: creatorID, GroupID: groupID}
	if err := tx.Create(e).Error; err != nil {
		tb.Fatalf("seed event: %v", err)
	}
	return e
}

func SeedHabit(tb testing.TB, tx *gorm.DB, userID uuid.UUID, title string) *types.Habit {
	tb.Helper()
	h := &types.Habit{UserID: userID, Title: title}
	if err := tx.Create(h).Error; err != nil {
		tb.Fatalf("seed habit: %v", err)
	}
	return h
}
