package demo_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saralabs/sara-agent/internal/adapters/storage/memory"
	"github.com/saralabs/sara-agent/internal/app/demo"
	"github.com/saralabs/sara-agent/internal/domain"
)

func TestSeedIfNeededIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := memory.NewDemoStore()
	seeder := demo.NewSeeder(store, store, store, store, domain.ModeDemo)

	require.NoError(t, seeder.SeedIfNeeded(ctx))

	reports, err := store.ListDemoReports(ctx)
	require.NoError(t, err)
	require.Len(t, reports, 3)
	projects, err := store.ListDemoProjects(ctx)
	require.NoError(t, err)
	require.Len(t, projects, 3)

	// Mutate a seeded report the way a tool call would.
	report, err := store.GetDemoReport(ctx, "report-john-doe-home")
	require.NoError(t, err)
	report.HelpRequested = "Second opinion on the roof estimate"
	require.NoError(t, store.SaveDemoReport(ctx, report))

	require.NoError(t, seeder.SeedIfNeeded(ctx))

	reports, err = store.ListDemoReports(ctx)
	require.NoError(t, err)
	assert.Len(t, reports, 3, "reseeding must not duplicate records")

	report, err = store.GetDemoReport(ctx, "report-john-doe-home")
	require.NoError(t, err)
	assert.Equal(t, "Second opinion on the roof estimate", report.HelpRequested,
		"reseeding must not reset later mutations")
}

func TestSeedIfNeededSkipsLiveMode(t *testing.T) {
	ctx := context.Background()
	store := memory.NewDemoStore()
	seeder := demo.NewSeeder(store, store, store, store, domain.ModeLive)

	require.NoError(t, seeder.SeedIfNeeded(ctx))

	reports, err := store.ListDemoReports(ctx)
	require.NoError(t, err)
	assert.Empty(t, reports)
}
