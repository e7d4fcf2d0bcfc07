package address

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func setupAddressMock(t *testing.T) (Repository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repo := NewRepository(sqlxDB)

	closer := func() { sqlxDB.Close() }
	return repo, mock, closer
}

var addressCols = []string{
	"id", "user_id", "name", "phone", "line1", "line2",
	"city", "state", "pincode", "is_default", "created_at", "updated_at",
}

func sampleRequest(isDefault bool) SaveRequest {
	return SaveRequest{
		Name:      "Arjun",
		Phone:     "9999999999",
		Line1:     "12 MG Road",
		City:      "Bengaluru",
		State:     "Karnataka",
		Pincode:   "560001",
		IsDefault: isDefault,
	}
}

func TestCreate_DefaultClearsPreviousDefault(t *testing.T) {
	repo, mock, close := setupAddressMock(t)
	defer close()

	mock.ExpectBegin()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE addresses SET is_default = FALSE WHERE user_id = $1 AND is_default")).
		WithArgs(20).
		WillReturnResult(sqlmock.NewResult(0, 1))

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO addresses")).
		WithArgs(20, "Arjun", "9999999999", "12 MG Road", nil, "Bengaluru", "Karnataka", "560001", true).
		WillReturnRows(sqlmock.NewRows(addressCols).
			AddRow(3, 20, "Arjun", "9999999999", "12 MG Road", nil, "Bengaluru", "Karnataka", "560001", true, time.Now(), time.Now()))

	mock.ExpectCommit()

	a, err := repo.Create(context.Background(), 20, sampleRequest(true))
	require.NoError(t, err)
	require.True(t, a.IsDefault)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_NonDefaultSkipsClear(t *testing.T) {
	repo, mock, close := setupAddressMock(t)
	defer close()

	mock.ExpectBegin()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO addresses")).
		WithArgs(20, "Arjun", "9999999999", "12 MG Road", nil, "Bengaluru", "Karnataka", "560001", false).
		WillReturnRows(sqlmock.NewRows(addressCols).
			AddRow(4, 20, "Arjun", "9999999999", "12 MG Road", nil, "Bengaluru", "Karnataka", "560001", false, time.Now(), time.Now()))

	mock.ExpectCommit()

	a, err := repo.Create(context.Background(), 20, sampleRequest(false))
	require.NoError(t, err)
	require.False(t, a.IsDefault)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate_NotOwned(t *testing.T) {
	repo, mock, close := setupAddressMock(t)
	defer close()

	mock.ExpectBegin()

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE addresses")).
		WillReturnRows(sqlmock.NewRows(addressCols))

	mock.ExpectRollback()

	_, err := repo.Update(context.Background(), 99, 3, sampleRequest(false))
	require.ErrorIs(t, err, ErrAddressNotFound)
}

func TestDelete_NotFound(t *testing.T) {
	repo, mock, close := setupAddressMock(t)
	defer close()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM addresses WHERE id = $1 AND user_id = $2")).
		WithArgs(3, 99).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), 99, 3)
	require.ErrorIs(t, err, ErrAddressNotFound)
}

func TestList_DefaultFirst(t *testing.T) {
	repo, mock, close := setupAddressMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM addresses")).
		WithArgs(20).
		WillReturnRows(sqlmock.NewRows(addressCols).
			AddRow(3, 20, "Arjun", "9999999999", "12 MG Road", nil, "Bengaluru", "Karnataka", "560001", true, time.Now(), time.Now()).
			AddRow(4, 20, "Office", "8888888888", "1 Residency Rd", nil, "Bengaluru", "Karnataka", "560025", false, time.Now(), time.Now()))

	addresses, err := repo.List(context.Background(), 20)
	require.NoError(t, err)
	require.Len(t, addresses, 2)
	require.True(t, addresses[0].IsDefault)
}
