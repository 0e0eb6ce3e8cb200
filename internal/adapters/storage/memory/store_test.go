package memory_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saralabs/sara-agent/internal/adapters/storage/memory"
	"github.com/saralabs/sara-agent/internal/domain"
)

func TestMessageHistoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := memory.NewMessageStore()
	userID := domain.UserID("web-s1")

	var batch []*domain.Message
	for i := 0; i < 5; i++ {
		batch = append(batch, &domain.Message{
			ID:        domain.MessageID(fmt.Sprintf("m%d", i)),
			UserID:    userID,
			Direction: domain.DirectionUser,
			Text:      fmt.Sprintf("message %d", i),
			CreatedAt: time.Now(),
		})
	}
	require.NoError(t, store.AppendMessages(ctx, userID, batch[:3]))
	require.NoError(t, store.AppendMessages(ctx, userID, batch[3:]))

	got, err := store.GetMessagesForUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, got, 5)
	for i, m := range got {
		assert.Equal(t, domain.MessageID(fmt.Sprintf("m%d", i)), m.ID, "append order must be preserved")
		assert.Equal(t, fmt.Sprintf("message %d", i), m.Text)
	}

	other, err := store.GetMessagesForUser(ctx, "web-s2")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestReportStoreScopesByUser(t *testing.T) {
	ctx := context.Background()
	store := memory.NewReportStore()

	report := &domain.DamageReport{
		ID:     "r1",
		UserID: "web-s1",
		Status: domain.ReportPending,
	}
	require.NoError(t, store.SaveReport(ctx, report))

	_, err := store.GetReportByID(ctx, "web-s2", "r1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	got, err := store.GetReportByID(ctx, "web-s1", "r1")
	require.NoError(t, err)
	assert.Equal(t, domain.ReportPending, got.Status)

	mine, err := store.GetUserReports(ctx, "web-s1")
	require.NoError(t, err)
	assert.Len(t, mine, 1)
	theirs, err := store.GetUserReports(ctx, "web-s2")
	require.NoError(t, err)
	assert.Empty(t, theirs)
}

func TestReportStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := memory.NewReportStore()

	require.NoError(t, store.SaveReport(ctx, &domain.DamageReport{
		ID:     "r1",
		UserID: "web-s1",
		Status: domain.ReportPending,
	}))

	got, err := store.GetReportByID(ctx, "web-s1", "r1")
	require.NoError(t, err)
	got.Status = domain.ReportResolved

	again, err := store.GetReportByID(ctx, "web-s1", "r1")
	require.NoError(t, err)
	assert.Equal(t, domain.ReportPending, again.Status, "mutating a returned report must not change the stored record")
}

func TestUserStoreChannelKeying(t *testing.T) {
	ctx := context.Background()
	store := memory.NewUserStore()

	user := &domain.UserProfile{
		ID:            "web-s1",
		Channel:       domain.ChannelWeb,
		ChannelUserID: "s1",
		Name:          "Ana",
	}
	require.NoError(t, store.UpsertUser(ctx, user))

	byChannel, err := store.GetUserByChannelID(ctx, domain.ChannelWeb, "s1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byChannel.ID)

	byID, err := store.GetUserByID(ctx, "web-s1")
	require.NoError(t, err)
	assert.Equal(t, "Ana", byID.Name)

	_, err = store.GetUserByChannelID(ctx, domain.ChannelMessenger, "s1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDemoStoreSeedMarker(t *testing.T) {
	ctx := context.Background()
	store := memory.NewDemoStore()

	seeded, err := store.GetSeedMarker(ctx)
	require.NoError(t, err)
	assert.False(t, seeded)

	require.NoError(t, store.SetSeedMarker(ctx, domain.ModeDemo))

	seeded, err = store.GetSeedMarker(ctx)
	require.NoError(t, err)
	assert.True(t, seeded)
}
