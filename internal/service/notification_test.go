package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fagaru/fagaru/backend/internal/heat"
	"github.com/fagaru/fagaru/backend/internal/models"
	"github.com/fagaru/fagaru/backend/internal/service"
	"github.com/fagaru/fagaru/backend/internal/testhelpers"
)

func TestFanOutTargetsPushEnabledUsersInCity(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	inDakar := testhelpers.CreateUser(t, env.db, "fatou", "Dakar Plateau", true)
	inMatam := testhelpers.CreateUser(t, env.db, "ibrahima", "matam", true)
	testhelpers.CreateUser(t, env.db, "ousmane", "Dakar", false)
	testhelpers.CreateUser(t, env.db, "aminata", "Ziguinchor", true)

	alert := testhelpers.CreateAlert(t, env.db, heat.Red, []string{"Dakar", "Matam", "dakar"}, testNow, nil, true)

	sent, err := env.notifications.FanOut(ctx, alert)
	require.NoError(t, err)
	assert.Equal(t, 2, sent)

	var notifications []models.AlertNotification
	require.NoError(t, env.db.Find(&notifications).Error)
	require.Len(t, notifications, 2)

	var users []uuid.UUID
	for _, n := range notifications {
		assert.Equal(t, alert.ID, n.AlertID)
		assert.Equal(t, models.ChannelPush, n.SentVia)
		assert.False(t, n.IsRead)
		users = append(users, n.UserID)
	}
	assert.ElementsMatch(t, []uuid.UUID{inDakar.ID, inMatam.ID}, users)
}

func TestFanOutNationwideAlertNotifiesNobody(t *testing.T) {
	env := newTestEnv(t)
	testhelpers.CreateUser(t, env.db, "fatou", "Dakar", true)
	alert := testhelpers.CreateAlert(t, env.db, heat.Yellow, nil, testNow, nil, true)

	sent, err := env.notifications.FanOut(context.Background(), alert)
	require.NoError(t, err)
	assert.Zero(t, sent)
}

func TestNotificationInbox(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user := testhelpers.CreateUser(t, env.db, "fatou", "Dakar", true)
	other := testhelpers.CreateUser(t, env.db, "modou", "Dakar", true)

	first := testhelpers.CreateAlert(t, env.db, heat.Yellow, []string{"Dakar"}, testNow, nil, true)
	_, err := env.notifications.FanOut(ctx, first)
	require.NoError(t, err)

	env.clock.Advance(time.Hour)
	second := testhelpers.CreateAlert(t, env.db, heat.Orange, []string{"Dakar"}, testNow, nil, true)
	_, err = env.notifications.FanOut(ctx, second)
	require.NoError(t, err)

	list, total, err := env.notifications.List(ctx, user.ID, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, list, 2)
	require.NotNil(t, list[0].Alert)
	assert.Equal(t, second.ID, list[0].Alert.ID)
	assert.Equal(t, heat.Orange, list[0].Alert.Severity)

	// Another user cannot mark it read.
	err = env.notifications.MarkRead(ctx, other.ID, list[0].ID)
	assert.ErrorIs(t, err, service.ErrNotificationNotFound)

	require.NoError(t, env.notifications.MarkRead(ctx, user.ID, list[0].ID))

	stats, err := env.profiles.Stats(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.NotificationsReceived)
	assert.Equal(t, int64(1), stats.UnreadNotifications)

	paged, total, err := env.notifications.List(ctx, user.ID, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, paged, 1)
	assert.Equal(t, first.ID, paged[0].AlertID)
}
