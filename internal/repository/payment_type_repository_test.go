package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/ZerkerEOD/paytypes-backend/internal/models"
	"github.com/ZerkerEOD/paytypes-backend/pkg/debug"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockRepository(t *testing.T) (*PaymentTypeRepository, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return NewPaymentTypeRepository(db), mock
}

func TestPaymentTypeRepository_List(t *testing.T) {
	tests := []struct {
		name     string
		rows     *sqlmock.Rows
		queryErr error
		expected []models.PaymentTypeSummary
		wantErr  bool
	}{
		{
			name:     "empty table",
			rows:     sqlmock.NewRows([]string{"name", "image"}),
			expected: []models.PaymentTypeSummary{},
		},
		{
			name: "rows in insertion order",
			rows: sqlmock.NewRows([]string{"name", "image"}).
				AddRow("Visa", "image/visa-1a2b3c4d.png").
				AddRow("Momo", "image/momo-5e6f7a8b.jpg"),
			expected: []models.PaymentTypeSummary{
				{Name: "Visa", Image: "image/visa-1a2b3c4d.png"},
				{Name: "Momo", Image: "image/momo-5e6f7a8b.jpg"},
			},
		},
		{
			name:     "query failure",
			queryErr: errors.New("connection reset"),
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMockRepository(t)

			expect := mock.ExpectQuery(`SELECT (.+) FROM "payment_types" ORDER BY id ASC`)
			if tt.queryErr != nil {
				expect.WillReturnError(tt.queryErr)
			} else {
				expect.WillReturnRows(tt.rows)
			}

			got, err := repo.List(context.Background())
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, got)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expected, got)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPaymentTypeRepository_Create(t *testing.T) {
	tests := []struct {
		name      string
		insertErr error
		wantErr   bool
	}{
		{
			name: "success",
		},
		{
			name:      "database failure",
			insertErr: errors.New("disk full"),
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMockRepository(t)
			paymentType := &models.PaymentType{Name: "Visa", Image: "image/visa-1a2b3c4d.png"}

			expect := mock.ExpectQuery(`INSERT INTO "payment_types"`).
				WithArgs("Visa", "image/visa-1a2b3c4d.png", sqlmock.AnyArg(), sqlmock.AnyArg())
			if tt.insertErr != nil {
				expect.WillReturnError(tt.insertErr)
			} else {
				expect.WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
			}

			err := repo.Create(context.Background(), paymentType)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.insertErr), "got %v", err)
				assert.Contains(t, err.Error(), "failed to create payment type")
			} else {
				require.NoError(t, err)
				assert.Equal(t, uint(7), paymentType.ID)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPaymentTypeRepository_ErrorsAreReturnedNotLogged(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	debug.SetLogger(zap.New(core))
	t.Cleanup(debug.Reinitialize)

	repo, mock := newMockRepository(t)
	mock.ExpectQuery(`SELECT (.+) FROM "payment_types"`).WillReturnError(errors.New("connection reset"))
	mock.ExpectQuery(`INSERT INTO "payment_types"`).WillReturnError(errors.New("connection reset"))

	_, err := repo.List(context.Background())
	require.Error(t, err)
	require.Error(t, repo.Create(context.Background(), &models.PaymentType{Name: "Visa"}))

	assert.Zero(t, logs.Len())
	assert.NoError(t, mock.ExpectationsWereMet())
}
