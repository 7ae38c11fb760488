package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"ellarises/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func TestEventRepository_Create(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		event   *domain.Event
		mock    func(mock sqlmock.Sqlmock)
		wantID  int64
		wantErr bool
	}{
		{
			name: "success",
			event: &domain.Event{
				Name:              "Coding Workshop",
				EventType:         "workshop",
				RecurrencePattern: domain.RecurrenceWeekly,
				DefaultCapacity:   30,
				CreatedAt:         now,
				UpdatedAt:         now,
			},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO events \(name, event_type, description, recurrence_pattern, default_capacity, created_at, updated_at\)`).
					WithArgs("Coding Workshop", "workshop", "", "Weekly", 30, now, now).
					WillReturnRows(sqlmock.NewRows([]string{"event_id"}).AddRow(int64(1)))
			},
			wantID: 1,
		},
		{
			name: "db error",
			event: &domain.Event{
				Name:              "Coding Workshop",
				RecurrencePattern: domain.RecurrenceNone,
				CreatedAt:         now,
				UpdatedAt:         now,
			},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO events`).
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewEventRepository(db)
			err = repo.Create(ctx, tt.event)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantID, tt.event.ID)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEventRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT event_id, name, event_type, description, recurrence_pattern, default_capacity, created_at, updated_at`).
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"event_id", "name", "event_type", "description", "recurrence_pattern", "default_capacity", "created_at", "updated_at"}).
				AddRow(int64(1), "Coding Workshop", "workshop", "", "Weekly", 30, now, now))

		repo := NewEventRepository(db)
		event, err := repo.GetByID(ctx, 1)
		require.NoError(t, err)
		require.Equal(t, domain.RecurrenceWeekly, event.RecurrencePattern)
		require.Equal(t, "Coding Workshop", event.Name)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT event_id, name, event_type, description, recurrence_pattern, default_capacity, created_at, updated_at`).
			WithArgs(int64(99)).
			WillReturnError(sql.ErrNoRows)

		repo := NewEventRepository(db)
		_, err = repo.GetByID(ctx, 99)
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestOccurrenceRepository_CreateBatch(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	occs := []*domain.Occurrence{
		{EventID: 1, StartDate: now, EndDate: now, StartTime: "10:00", EndTime: "12:00", DeadlineDate: now, DeadlineTime: "23:59", CreatedAt: now},
		{EventID: 1, StartDate: now.AddDate(0, 0, 7), EndDate: now.AddDate(0, 0, 7), StartTime: "10:00", EndTime: "12:00", DeadlineDate: now.AddDate(0, 0, 7), DeadlineTime: "23:59", CreatedAt: now},
	}

	mock.ExpectQuery(`INSERT INTO event_occurrences`).
		WillReturnRows(sqlmock.NewRows([]string{"occurrence_id"}).AddRow(int64(10)).AddRow(int64(11)))

	repo := NewOccurrenceRepository(db)
	require.NoError(t, repo.CreateBatch(ctx, occs))
	require.Equal(t, int64(10), occs[0].ID)
	require.Equal(t, int64(11), occs[1].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}
