package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"intellibiz-backend/apperrors"
	"intellibiz-backend/models"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return NewGormStore(db), mock
}

func TestGormFindByID(t *testing.T) {
	store, mock := newMockStore(t)
	id := uuid.New()

	rows := sqlmock.NewRows([]string{"id", "name", "status"}).
		AddRow(id.String(), "Corner Barber", "approved")
	mock.ExpectQuery(`SELECT \* FROM "businesses" WHERE id = \$1`).WillReturnRows(rows)

	b, err := store.Businesses.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, b.ID)
	assert.Equal(t, "Corner Barber", b.Name)
	assert.Equal(t, models.BusinessApproved, b.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormFindByIDNotFound(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT \* FROM "appointments" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := store.Appointments.FindByID(context.Background(), uuid.New())
	assert.True(t, apperrors.Is(err, apperrors.ErrorTypeNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormListAppliesFilter(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT \* FROM "businesses" WHERE status = \$1 AND LOWER\(category\) = \$2 AND LOWER\(name\) LIKE \$3 ORDER BY created_at DESC`).
		WithArgs("approved", "salon", "%cut%").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(uuid.NewString(), "Quick Cut"))

	list, err := store.Businesses.List(context.Background(), BusinessFilter{
		Status:   models.BusinessApproved,
		Category: "Salon",
		Query:    "CUT",
	})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Quick Cut", list[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormCountFlaggedReviews(t *testing.T) {
	store, mock := newMockStore(t)
	flagged := true

	mock.ExpectQuery(`SELECT count\(\*\) FROM "reviews" WHERE is_flagged = \$1`).
		WithArgs(true).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	n, err := store.Reviews.Count(context.Background(), ReviewFilter{Flagged: &flagged})
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormDeleteMissingRow(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(`DELETE FROM "reviews" WHERE id = \$1`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.Reviews.Delete(context.Background(), uuid.New())
	assert.True(t, apperrors.Is(err, apperrors.ErrorTypeNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}
