package testutil

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMockDB(t *testing.T) {
	db := NewMockDB(t)
	db.Mock.ExpectQuery("SELECT 1").WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(1))

	var n int
	require.NoError(t, db.DB.Raw("SELECT 1").Scan(&n).Error)
	assert.Equal(t, 1, n)
	db.ExpectationsWereMet(t)
}

func TestNewRedis(t *testing.T) {
	client, mr := NewRedis(t)
	ctx := ContextWithTimeout(t, time.Second)

	require.NoError(t, client.HSet(ctx, "carts_1", "7", 2).Err())
	assert.Equal(t, "2", mr.HGet("carts_1", "7"))
}

func TestRecordingEventHandler(t *testing.T) {
	h := NewRecordingEventHandler("OrderPlaced")
	assert.Equal(t, []string{"OrderPlaced"}, h.EventTypes())

	require.NoError(t, h.Handle(context.Background(), NewTestEvent("OrderPlaced", "o-1")))
	require.NoError(t, h.Handle(context.Background(), NewTestEvent("OrderPaid", "o-1")))
	assert.Equal(t, 1, h.Count("OrderPlaced"))
	assert.Len(t, h.Handled(), 2)

	boom := errors.New("boom")
	h.SetError(boom)
	assert.ErrorIs(t, h.Handle(context.Background(), NewTestEvent("OrderPlaced", "o-2")), boom)
	assert.Equal(t, "o-2", h.Handled()[2].AggregateID())
}

func TestRequireEventually(t *testing.T) {
	start := time.Now()
	RequireEventually(t, func() bool { return time.Since(start) > 20*time.Millisecond }, time.Second, 5*time.Millisecond)
}
