package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/invoicing/backend/internal/domain/partner"
	"github.com/invoicing/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockClientRepository creates a GormClientRepository with a mocked SQL connection
func newMockClientRepository(t *testing.T) (*GormClientRepository, sqlmock.Sqlmock, *sql.DB) {
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

	return NewGormClientRepository(gormDB), mock, mockDB
}

func TestNewGormClientRepository(t *testing.T) {
	t.Run("creates repository with valid DB", func(t *testing.T) {
		repo, _, mockDB := newMockClientRepository(t)
		defer mockDB.Close()

		assert.NotNil(t, repo)
		assert.NotNil(t, repo.db)
	})
}

func TestGormClientRepository_FindByID(t *testing.T) {
	t.Run("finds existing client", func(t *testing.T) {
		repo, mock, mockDB := newMockClientRepository(t)
		defer mockDB.Close()

		clientID := uuid.New()
		userID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "user_id", "name", "email", "payment_preference"}).
			AddRow(clientID, userID, "Acme Corp", "billing@acme.test", "TRANSFER")

		mock.ExpectQuery(`SELECT \* FROM "clients" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(clientID, 1).
			WillReturnRows(rows)

		client, err := repo.FindByID(context.Background(), clientID)

		assert.NoError(t, err)
		assert.NotNil(t, client)
		assert.Equal(t, clientID, client.ID)
		assert.Equal(t, "Acme Corp", client.Name)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns error for non-existent client", func(t *testing.T) {
		repo, mock, mockDB := newMockClientRepository(t)
		defer mockDB.Close()

		clientID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "clients" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(clientID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		client, err := repo.FindByID(context.Background(), clientID)

		assert.Error(t, err)
		assert.Nil(t, client)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormClientRepository_FindByIDForUser(t *testing.T) {
	t.Run("finds client owned by user", func(t *testing.T) {
		repo, mock, mockDB := newMockClientRepository(t)
		defer mockDB.Close()

		clientID := uuid.New()
		userID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "user_id", "name", "payment_preference"}).
			AddRow(clientID, userID, "Acme Corp", "TRANSFER")

		mock.ExpectQuery(`SELECT \* FROM "clients" WHERE user_id = \$1 AND id = \$2 ORDER BY .* LIMIT .*`).
			WithArgs(userID, clientID, 1).
			WillReturnRows(rows)

		client, err := repo.FindByIDForUser(context.Background(), userID, clientID)

		assert.NoError(t, err)
		assert.NotNil(t, client)
		assert.Equal(t, userID, client.UserID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("hides clients of other users", func(t *testing.T) {
		repo, mock, mockDB := newMockClientRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "clients" WHERE user_id = \$1 AND id = \$2 ORDER BY .* LIMIT .*`).
			WillReturnError(gorm.ErrRecordNotFound)

		client, err := repo.FindByIDForUser(context.Background(), uuid.New(), uuid.New())

		assert.Nil(t, client)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormClientRepository_FindAllForUser(t *testing.T) {
	t.Run("excludes soft-deleted clients by default", func(t *testing.T) {
		repo, mock, mockDB := newMockClientRepository(t)
		defer mockDB.Close()

		userID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "user_id", "name", "payment_preference"}).
			AddRow(uuid.New(), userID, "Acme Corp", "TRANSFER").
			AddRow(uuid.New(), userID, "Beta Ltd", "CASH")

		mock.ExpectQuery(`SELECT \* FROM "clients" WHERE user_id = \$1 AND deleted_at IS NULL ORDER BY name ASC`).
			WithArgs(userID).
			WillReturnRows(rows)

		clients, err := repo.FindAllForUser(context.Background(), userID, partner.ClientFilter{})

		assert.NoError(t, err)
		assert.Len(t, clients, 2)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("includes soft-deleted clients when requested", func(t *testing.T) {
		repo, mock, mockDB := newMockClientRepository(t)
		defer mockDB.Close()

		userID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "user_id", "name", "payment_preference"}).
			AddRow(uuid.New(), userID, "Acme Corp", "TRANSFER")

		mock.ExpectQuery(`SELECT \* FROM "clients" WHERE user_id = \$1 ORDER BY name ASC`).
			WithArgs(userID).
			WillReturnRows(rows)

		clients, err := repo.FindAllForUser(context.Background(), userID, partner.ClientFilter{IncludeDeleted: true})

		assert.NoError(t, err)
		assert.Len(t, clients, 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("applies search filter", func(t *testing.T) {
		repo, mock, mockDB := newMockClientRepository(t)
		defer mockDB.Close()

		userID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "user_id", "name", "payment_preference"}).
			AddRow(uuid.New(), userID, "Acme Corp", "TRANSFER")

		mock.ExpectQuery(`SELECT \* FROM "clients" WHERE user_id = \$1 AND deleted_at IS NULL AND \(name ILIKE \$2 OR email ILIKE \$3 OR phone ILIKE \$4\)`).
			WithArgs(userID, "%acme%", "%acme%", "%acme%").
			WillReturnRows(rows)

		clients, err := repo.FindAllForUser(context.Background(), userID, partner.ClientFilter{Filter: shared.Filter{Search: "acme"}})

		assert.NoError(t, err)
		assert.Len(t, clients, 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormClientRepository_Save(t *testing.T) {
	t.Run("saves client", func(t *testing.T) {
		repo, mock, mockDB := newMockClientRepository(t)
		defer mockDB.Close()

		client, err := partner.NewClient(uuid.New(), "Acme Corp", "billing@acme.test", "", "", partner.PaymentPreferenceTransfer, "")
		require.NoError(t, err)

		mock.ExpectExec(`UPDATE "clients" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err = repo.Save(context.Background(), client)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormClientRepository_CountForUser(t *testing.T) {
	t.Run("counts active clients", func(t *testing.T) {
		repo, mock, mockDB := newMockClientRepository(t)
		defer mockDB.Close()

		userID := uuid.New()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "clients" WHERE user_id = \$1 AND deleted_at IS NULL`).
			WithArgs(userID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

		count, err := repo.CountForUser(context.Background(), userID, partner.ClientFilter{})

		assert.NoError(t, err)
		assert.Equal(t, int64(3), count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormClientRepository_ExistsByEmail(t *testing.T) {
	t.Run("returns true when email in use", func(t *testing.T) {
		repo, mock, mockDB := newMockClientRepository(t)
		defer mockDB.Close()

		userID := uuid.New()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "clients" WHERE user_id = \$1 AND email = \$2 AND deleted_at IS NULL`).
			WithArgs(userID, "billing@acme.test").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		exists, err := repo.ExistsByEmail(context.Background(), userID, "Billing@Acme.test")

		assert.NoError(t, err)
		assert.True(t, exists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns false for empty email without querying", func(t *testing.T) {
		repo, _, mockDB := newMockClientRepository(t)
		defer mockDB.Close()

		exists, err := repo.ExistsByEmail(context.Background(), uuid.New(), "")

		assert.NoError(t, err)
		assert.False(t, exists)
	})
}
