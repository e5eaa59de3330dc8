package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"intellibiz-backend/apperrors"
	"intellibiz-backend/models"
)

func TestMemoryRepositoryCRUD(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	first := models.Business{ID: uuid.New(), Name: "Alpha Dental", Status: models.BusinessPending}
	second := models.Business{ID: uuid.New(), Name: "Beta Bakery", Status: models.BusinessApproved}
	require.NoError(t, store.Businesses.Create(ctx, &first))
	require.NoError(t, store.Businesses.Create(ctx, &second))

	err := store.Businesses.Create(ctx, &first)
	assert.True(t, apperrors.Is(err, apperrors.ErrorTypeConflict))

	list, err := store.Businesses.List(ctx, BusinessFilter{})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Beta Bakery", list[0].Name, "newest first")

	approved, err := store.Businesses.List(ctx, BusinessFilter{Status: models.BusinessApproved})
	require.NoError(t, err)
	require.Len(t, approved, 1)

	found, err := store.Businesses.FindByID(ctx, first.ID)
	require.NoError(t, err)
	found.Name = "changed"
	again, _ := store.Businesses.FindByID(ctx, first.ID)
	assert.Equal(t, "Alpha Dental", again.Name, "returned rows are copies")

	require.NoError(t, store.Businesses.Delete(ctx, first.ID))
	_, err = store.Businesses.FindByID(ctx, first.ID)
	assert.True(t, apperrors.Is(err, apperrors.ErrorTypeNotFound))
	assert.True(t, apperrors.Is(store.Businesses.Delete(ctx, first.ID), apperrors.ErrorTypeNotFound))
}

func TestMemoryAppointmentBusinessScope(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	biz := uuid.New()

	require.NoError(t, store.Appointments.Create(ctx, &models.Appointment{ID: uuid.New(), BusinessID: biz}))
	require.NoError(t, store.Appointments.Create(ctx, &models.Appointment{ID: uuid.New(), BusinessID: uuid.New()}))

	n, err := store.Appointments.Count(ctx, AppointmentFilter{BusinessIDs: []uuid.UUID{biz}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = store.Appointments.Count(ctx, AppointmentFilter{BusinessIDs: []uuid.UUID{}})
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = store.Appointments.Count(ctx, AppointmentFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestMemoryConversationFilter(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	a, b, c := uuid.New(), uuid.New(), uuid.New()

	require.NoError(t, store.Messages.Create(ctx, &models.Message{ID: uuid.New(), SenderID: a, ReceiverID: b}))
	require.NoError(t, store.Messages.Create(ctx, &models.Message{ID: uuid.New(), SenderID: b, ReceiverID: a}))
	require.NoError(t, store.Messages.Create(ctx, &models.Message{ID: uuid.New(), SenderID: a, ReceiverID: c}))

	conv, err := store.Messages.List(ctx, MessageFilter{Between: []uuid.UUID{a, b}})
	require.NoError(t, err)
	assert.Len(t, conv, 2)
}

func TestMemorySettingsDefaults(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	s, err := store.Settings.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "IntelliBiz", s.SiteName)

	s.SiteName = "Local Finds"
	require.NoError(t, store.Settings.Save(ctx, s))
	s, _ = store.Settings.Get(ctx)
	assert.Equal(t, "Local Finds", s.SiteName)
	assert.Equal(t, models.SettingsID, s.ID)
}
