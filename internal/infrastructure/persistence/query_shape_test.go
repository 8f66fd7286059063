package persistence

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/channelsync/backend/internal/domain/integration"
)

// newMockDB opens a GORM connection backed by sqlmock so tests can assert
// the SQL the repositories emit against postgres.
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return gormDB, mock, mockDB
}

func TestGormIntegrationRepository_ActiveByPlatformQuery(t *testing.T) {
	gormDB, mock, mockDB := newMockDB(t)
	defer mockDB.Close()

	repo := NewGormIntegrationRepository(gormDB)

	id := uuid.New()
	merchant := uuid.New()
	rows := sqlmock.NewRows([]string{"uuid", "merchant_uuid", "name", "platform", "status", "site_url"}).
		AddRow(id, merchant, "apilo shop", "Apilo", "active", "")

	mock.ExpectQuery(`SELECT \* FROM "integrations" WHERE platform = \$1 AND status = \$2`).
		WithArgs("Apilo", "active").
		WillReturnRows(rows)

	found, err := repo.ActiveByPlatform(context.Background(), integration.PlatformApilo)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, id, found[0].UUID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormOrderRepository_ExistsPropagatesDBError(t *testing.T) {
	gormDB, mock, mockDB := newMockDB(t)
	defer mockDB.Close()

	repo := NewGormOrderRepository(gormDB)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "orders"`).
		WillReturnError(errors.New("connection reset"))

	_, err := repo.OrderExists(context.Background(), uuid.New(), "9001")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
}
