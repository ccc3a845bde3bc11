package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/edvin/clinicguard/internal/model"
)

func TestSecurityActionService_Record_FillsIDAndTimestamp(t *testing.T) {
	db := &mockDB{}
	svc := NewSecurityActionService(db)
	ctx := context.Background()

	db.On("Exec", ctx, mock.AnythingOfType("string"), mock.Anything).
		Return(pgconn.NewCommandTag("INSERT 0 1"), nil)

	a := &model.SecurityAction{
		UserID:   "user-1",
		DeviceID: "dev-1",
		Action:   model.SecurityActionIsolate,
		Status:   model.SecurityActionStatusCompleted,
	}
	require.NoError(t, svc.Record(ctx, a))

	assert.NotEmpty(t, a.ID)
	assert.False(t, a.CreatedAt.IsZero())

	args := db.Calls[0].Arguments.Get(2).([]any)
	assert.Equal(t, a.ID, args[0])
	assert.Equal(t, "dev-1", args[2])
	assert.Equal(t, "isolate", args[3])
	assert.Equal(t, "completed", args[5])
}

func TestSecurityActionService_Record_DBError(t *testing.T) {
	db := &mockDB{}
	svc := NewSecurityActionService(db)
	ctx := context.Background()

	db.On("Exec", ctx, mock.AnythingOfType("string"), mock.Anything).
		Return(pgconn.CommandTag{}, errors.New("db error"))

	err := svc.Record(ctx, &model.SecurityAction{UserID: "u", DeviceID: "d"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "record security action")
}

func TestSecurityActionService_ListByDevice(t *testing.T) {
	db := &mockDB{}
	svc := NewSecurityActionService(db)
	ctx := context.Background()

	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rows := newMockRows(func(dest ...any) error {
		*(dest[0].(*string)) = "act-1"
		*(dest[1].(*string)) = "user-1"
		*(dest[2].(*string)) = "dev-1"
		*(dest[3].(*string)) = "restore"
		*(dest[5].(*string)) = "completed"
		*(dest[7].(*time.Time)) = created
		return nil
	})
	db.On("Query", ctx, mock.AnythingOfType("string"), []any{"user-1", "dev-1", 20}).Return(rows, nil)

	actions, err := svc.ListByDevice(ctx, "user-1", "dev-1", 20)
	require.NoError(t, err)
	require.Len(t, actions, 1)
	assert.Equal(t, "act-1", actions[0].ID)
	assert.Equal(t, "restore", actions[0].Action)
	assert.Equal(t, created, actions[0].CreatedAt)
}

func TestSecurityActionService_ListByDevice_RowsError(t *testing.T) {
	db := &mockDB{}
	svc := NewSecurityActionService(db)
	ctx := context.Background()

	rows := newMockRows()
	rows.err = errors.New("iteration failed")
	db.On("Query", ctx, mock.AnythingOfType("string"), mock.Anything).Return(rows, nil)

	_, err := svc.ListByDevice(ctx, "user-1", "dev-1", 20)
	assert.EqualError(t, err, "iteration failed")
}
