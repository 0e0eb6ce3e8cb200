package demo_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saralabs/sara-agent/internal/adapters/storage/memory"
	"github.com/saralabs/sara-agent/internal/app/demo"
	"github.com/saralabs/sara-agent/internal/domain"
)

func newTestManager() (*demo.Manager, *memory.DemoStore, *memory.UserStore) {
	demoStore := memory.NewDemoStore()
	userStore := memory.NewUserStore()
	mgr := demo.NewManager(demoStore, userStore, demoStore, "https://sara.example.com")
	return mgr, demoStore, userStore
}

func TestAssignRoleMirrorsOntoProfile(t *testing.T) {
	ctx := context.Background()
	mgr, _, userStore := newTestManager()

	user := &domain.UserProfile{
		ID:            "web-s1",
		Channel:       domain.ChannelWeb,
		ChannelUserID: "s1",
	}
	require.NoError(t, userStore.UpsertUser(ctx, user))

	info, err := mgr.AssignRole(ctx, user.ID, domain.RoleContractor)
	require.NoError(t, err)
	assert.Equal(t, "John Smith", info.CanonicalName)
	assert.Equal(t, domain.ReportID("report-john-doe-home"), info.PrimaryDemoReportID)

	stored, err := userStore.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleContractor, stored.DemoRole)
	assert.Equal(t, "John Smith", stored.DemoCanonicalName)

	require.NoError(t, mgr.ClearRole(ctx, user.ID))

	_, err = mgr.RoleInfo(ctx, user.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	stored, err = userStore.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.DemoRole)
}

func TestIssueSessionLinkRequiresRole(t *testing.T) {
	ctx := context.Background()
	mgr, _, _ := newTestManager()

	_, err := mgr.IssueSessionLink(ctx, "web-s1", 1)
	assert.ErrorIs(t, err, domain.ErrNoRoleAssigned)
}

func TestIssueAndValidateSession(t *testing.T) {
	ctx := context.Background()
	mgr, _, _ := newTestManager()

	_, err := mgr.AssignRole(ctx, "web-s1", domain.RoleCity)
	require.NoError(t, err)

	link, err := mgr.IssueSessionLink(ctx, "web-s1", 2)
	require.NoError(t, err)
	assert.Contains(t, link.URL, "https://sara.example.com/demo-map?token=")
	assert.Equal(t, domain.RoleCity, link.Role)

	session, err := mgr.ValidateSession(ctx, link.Token)
	require.NoError(t, err)
	assert.Equal(t, domain.UserID("web-s1"), session.UserID)
	assert.Equal(t, domain.RoleCity, session.Role)

	_, err = mgr.ValidateSession(ctx, "no-such-token")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestValidateSessionExpired(t *testing.T) {
	ctx := context.Background()
	mgr, demoStore, _ := newTestManager()

	expired := &domain.DemoSession{
		Token:     "expired-token",
		UserID:    "web-s1",
		Role:      domain.RoleResident,
		CreatedAt: time.Now().Add(-2 * time.Hour),
		ExpiresAt: time.Now().Add(-time.Hour),
	}
	require.NoError(t, demoStore.SaveDemoSession(ctx, expired))

	_, err := mgr.ValidateSession(ctx, "expired-token")
	assert.ErrorIs(t, err, domain.ErrExpired)
}
