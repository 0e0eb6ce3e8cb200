package users_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saralabs/sara-agent/internal/adapters/storage/memory"
	"github.com/saralabs/sara-agent/internal/app/users"
	"github.com/saralabs/sara-agent/internal/domain"
)

func TestResolveOrCreateIsIdempotent(t *testing.T) {
	ctx := context.Background()
	resolver := users.NewResolver(memory.NewUserStore())

	first, err := resolver.ResolveOrCreate(ctx, domain.ChannelWeb, "s1", "Ana")
	require.NoError(t, err)
	assert.Equal(t, domain.UserID("web-s1"), first.ID)
	assert.Equal(t, "Ana", first.Name)

	second, err := resolver.ResolveOrCreate(ctx, domain.ChannelWeb, "s1", "")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Ana", second.Name, "second resolve must return the stored profile, not recreate it")
}

func TestResolveOrCreateSeparatesChannels(t *testing.T) {
	ctx := context.Background()
	resolver := users.NewResolver(memory.NewUserStore())

	web, err := resolver.ResolveOrCreate(ctx, domain.ChannelWeb, "42", "")
	require.NoError(t, err)
	fb, err := resolver.ResolveOrCreate(ctx, domain.ChannelMessenger, "42", "")
	require.NoError(t, err)

	assert.NotEqual(t, web.ID, fb.ID)
}

func TestProjectForModelDemoFields(t *testing.T) {
	user := &domain.UserProfile{
		ID:      "web-s1",
		Channel: domain.ChannelWeb,
		Name:    "Ana",
	}
	reports := []*domain.DamageReport{
		{ID: "r1", UserID: user.ID, Status: domain.ReportPending, Address: "123 Main St"},
	}
	roleInfo := &domain.DemoRoleInfo{
		UserID:              user.ID,
		Role:                domain.RoleResident,
		CanonicalName:       "John Doe",
		PrimaryDemoReportID: "report-john-doe-home",
	}

	live := users.ProjectForModel(user, reports, nil, domain.ModeLive)
	assert.Empty(t, live.DemoRole)
	assert.Empty(t, live.PrimaryDemoReportID)
	require.Len(t, live.Reports, 1)
	assert.Equal(t, "pending", live.Reports[0].Status)

	demoProfile := users.ProjectForModel(user, reports, roleInfo, domain.ModeDemo)
	assert.Equal(t, domain.RoleResident, demoProfile.DemoRole)
	assert.Equal(t, "John Doe", demoProfile.DemoCanonicalName)
	assert.Equal(t, "report-john-doe-home", demoProfile.PrimaryDemoReportID)
}
