package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"catalog/internal/models"
	"catalog/internal/repositories"
	"catalog/internal/services"
	"catalog/pkg/clock"
	"catalog/pkg/database"
)

// Now is the fixed time test clocks start at.
var Now = time.Date(2026, time.January, 15, 12, 0, 0, 0, time.UTC)

// NewClock returns a mock clock set to Now.
func NewClock() *clock.MockClock {
	return clock.NewMock(Now)
}

// NewDB opens a private in-memory SQLite database with the catalog schema.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := database.Open(database.Config{Driver: "sqlite", DSN: dsn, LogLevel: "silent"})
	require.NoError(t, err)
	require.NoError(t, repositories.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// SeedBrand stores a brand and returns it.
func SeedBrand(t *testing.T, db *gorm.DB, name, countryCode string) models.Brand {
	t.Helper()
	brand := models.Brand{Name: name, CountryCode: countryCode}
	require.NoError(t, repositories.NewGORMBrandRepository(db).Create(&brand))
	return brand
}

// MockPublisher is a testify mock of services.EventPublisher.
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishProductEvent(ev services.ProductEvent) error {
	args := m.Called(ev)
	return args.Error(0)
}

// EventOfType matches a ProductEvent by type.
func EventOfType(eventType string) interface{} {
	return mock.MatchedBy(func(ev services.ProductEvent) bool {
		return ev.Type == eventType
	})
}
