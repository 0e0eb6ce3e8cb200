package tools_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saralabs/sara-agent/internal/adapters/storage/memory"
	"github.com/saralabs/sara-agent/internal/app/demo"
	"github.com/saralabs/sara-agent/internal/app/tools"
	"github.com/saralabs/sara-agent/internal/domain"
)

type testEnv struct {
	dispatcher *tools.Dispatcher
	reports    *memory.ReportStore
	demoStore  *memory.DemoStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	reports := memory.NewReportStore()
	demoStore := memory.NewDemoStore()
	userStore := memory.NewUserStore()
	mgr := demo.NewManager(demoStore, userStore, demoStore, "https://sara.example.com")

	return &testEnv{
		dispatcher: tools.NewDispatcher(reports, reports, demoStore, demoStore, mgr, "https://sara.example.com"),
		reports:    reports,
		demoStore:  demoStore,
	}
}

func (e *testEnv) seedDemo(t *testing.T) {
	t.Helper()
	seeder := demo.NewSeeder(e.demoStore, e.demoStore, e.demoStore, e.demoStore, domain.ModeDemo)
	require.NoError(t, seeder.SeedIfNeeded(context.Background()))
}

// asMap round-trips a tool result through JSON so tests can inspect the
// exact shape the model receives.
func asMap(t *testing.T, result any) map[string]any {
	t.Helper()
	b, err := json.Marshal(result)
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	return m
}

func liveCtx(userID string) tools.Context {
	return tools.Context{UserID: domain.UserID(userID), Mode: domain.ModeLive}
}

func demoCtx(userID string, role domain.DemoRole) tools.Context {
	return tools.Context{UserID: domain.UserID(userID), Mode: domain.ModeDemo, Role: role}
}

func startReport(t *testing.T, env *testEnv, tctx tools.Context, address string) string {
	t.Helper()
	result, err := env.dispatcher.Execute(context.Background(), "start_damage_report",
		fmt.Sprintf(`{"address":%q}`, address), tctx)
	require.NoError(t, err)
	id, ok := asMap(t, result)["id"].(string)
	require.True(t, ok)
	require.NotEmpty(t, id)
	return id
}

func TestStartAndGetReport(t *testing.T) {
	env := newTestEnv(t)
	tctx := liveCtx("web-s1")

	id := startReport(t, env, tctx, "123 Main St")

	result, err := env.dispatcher.Execute(context.Background(), "get_report_details",
		fmt.Sprintf(`{"reportId":%q}`, id), tctx)
	require.NoError(t, err)
	m := asMap(t, result)
	assert.Equal(t, "123 Main St", m["address"])
	assert.Equal(t, "pending", m["status"])
	assert.Equal(t, []any{}, m["photoUrls"], "photo list must serialize as an empty array, not null")
}

func TestReportOwnershipIsScopedByUser(t *testing.T) {
	env := newTestEnv(t)

	id := startReport(t, env, liveCtx("web-s1"), "123 Main St")

	_, err := env.dispatcher.Execute(context.Background(), "get_report_details",
		fmt.Sprintf(`{"reportId":%q}`, id), liveCtx("web-s2"))
	assert.ErrorIs(t, err, domain.ErrNotFound, "another user's report must look nonexistent")
}

func TestDeleteReportOnlyWhilePending(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	tctx := liveCtx("web-s1")

	id := startReport(t, env, tctx, "123 Main St")

	_, err := env.dispatcher.Execute(ctx, "update_damage_report_section",
		fmt.Sprintf(`{"reportId":%q,"status":"completed"}`, id), tctx)
	require.NoError(t, err)

	_, err = env.dispatcher.Execute(ctx, "delete_report",
		fmt.Sprintf(`{"reportId":%q}`, id), tctx)
	assert.ErrorIs(t, err, domain.ErrInvariant)

	report, err := env.reports.GetReportByID(ctx, "web-s1", domain.ReportID(id))
	require.NoError(t, err)
	assert.Equal(t, domain.ReportCompleted, report.Status, "failed delete must leave the record unchanged")

	pendingID := startReport(t, env, tctx, "456 Oak Ave")
	result, err := env.dispatcher.Execute(ctx, "delete_report",
		fmt.Sprintf(`{"reportId":%q}`, pendingID), tctx)
	require.NoError(t, err)
	assert.Equal(t, true, asMap(t, result)["deleted"])
}

func TestStrictArgumentDecoding(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.dispatcher.Execute(context.Background(), "start_damage_report",
		`{"address":"123 Main St","bogus":true}`, liveCtx("web-s1"))
	require.Error(t, err, "unknown argument fields must be rejected")
}

func TestUnknownToolName(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.dispatcher.Execute(context.Background(), "launch_rocket", `{}`, liveCtx("web-s1"))
	assert.ErrorIs(t, err, domain.ErrUnknownTool)
}

func TestDemoToolsRequireDemoMode(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.dispatcher.Execute(context.Background(), "set_demo_role",
		`{"role":"resident"}`, liveCtx("web-s1"))
	assert.ErrorIs(t, err, domain.ErrWrongMode)
}

func TestCreateReportLinkPathDependsOnMode(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	liveID := startReport(t, env, liveCtx("web-s1"), "123 Main St")
	result, err := env.dispatcher.Execute(ctx, "create_time_limited_report_link",
		fmt.Sprintf(`{"reportId":%q}`, liveID), liveCtx("web-s1"))
	require.NoError(t, err)
	assert.Contains(t, asMap(t, result)["url"], "/report/")

	demoID := startReport(t, env, demoCtx("web-s1", ""), "123 Main St")
	result, err = env.dispatcher.Execute(ctx, "create_time_limited_report_link",
		fmt.Sprintf(`{"reportId":%q}`, demoID), demoCtx("web-s1", ""))
	require.NoError(t, err)
	assert.Contains(t, asMap(t, result)["url"], "/demo-report/")
}

func TestListDemoReportsForCityRequiresCityRole(t *testing.T) {
	env := newTestEnv(t)
	env.seedDemo(t)

	_, err := env.dispatcher.Execute(context.Background(), "list_demo_reports_for_city",
		`{"status":"any"}`, demoCtx("web-s1", domain.RoleResident))
	assert.ErrorIs(t, err, domain.ErrForbiddenRole)
}

func TestListDemoReportsForCityFilters(t *testing.T) {
	env := newTestEnv(t)
	env.seedDemo(t)
	ctx := context.Background()
	tctx := demoCtx("web-city", domain.RoleCity)

	result, err := env.dispatcher.Execute(ctx, "list_demo_reports_for_city", `{"status":"any"}`, tctx)
	require.NoError(t, err)
	assert.Equal(t, float64(3), asMap(t, result)["total"])

	// Seeded set: two in_progress reports and one completed, all assigned.
	result, err = env.dispatcher.Execute(ctx, "list_demo_reports_for_city", `{"status":"assigned"}`, tctx)
	require.NoError(t, err)
	assert.Equal(t, float64(2), asMap(t, result)["total"])

	result, err = env.dispatcher.Execute(ctx, "list_demo_reports_for_city", `{"status":"completed"}`, tctx)
	require.NoError(t, err)
	assert.Equal(t, float64(1), asMap(t, result)["total"])

	result, err = env.dispatcher.Execute(ctx, "list_demo_reports_for_city", `{"status":"unassigned"}`, tctx)
	require.NoError(t, err)
	assert.Equal(t, float64(0), asMap(t, result)["total"])
}

func TestDemoMapSummaryByRole(t *testing.T) {
	env := newTestEnv(t)
	env.seedDemo(t)
	ctx := context.Background()
	args := `{"viewport":{"centerLat":29.5,"centerLng":-90.75,"radiusKm":10}}`

	result, err := env.dispatcher.Execute(ctx, "get_demo_map_summary", args,
		demoCtx("web-s1", domain.RoleResident))
	require.NoError(t, err)
	m := asMap(t, result)
	totals, ok := m["totals"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(3), totals["totalReports"])
	assert.Equal(t, float64(3), totals["assignedCount"])
	assert.Equal(t, float64(2), totals["inProgressCount"])
	assert.Equal(t, float64(1), totals["completedCount"])

	result, err = env.dispatcher.Execute(ctx, "get_demo_map_summary", args,
		demoCtx("web-city", domain.RoleCity))
	require.NoError(t, err)
	cityReports, ok := asMap(t, result)["reports"].([]any)
	require.True(t, ok)
	assert.Len(t, cityReports, 3)

	result, err = env.dispatcher.Execute(ctx, "get_demo_map_summary", args,
		demoCtx("web-con", domain.RoleContractor))
	require.NoError(t, err)
	conProjects, ok := asMap(t, result)["projects"].([]any)
	require.True(t, ok)
	assert.Len(t, conProjects, 3)

	result, err = env.dispatcher.Execute(ctx, "get_demo_map_summary", args,
		demoCtx("web-anon", ""))
	require.NoError(t, err)
	assert.NotEmpty(t, asMap(t, result)["message"])
}

func TestSetRoleAndOverview(t *testing.T) {
	env := newTestEnv(t)
	env.seedDemo(t)
	ctx := context.Background()

	result, err := env.dispatcher.Execute(ctx, "get_demo_overview_for_current_role", `{}`,
		demoCtx("web-s1", ""))
	require.NoError(t, err)
	assert.Nil(t, asMap(t, result)["role"], "overview before role selection must invite the user to pick one")

	result, err = env.dispatcher.Execute(ctx, "set_demo_role", `{"role":"resident"}`,
		demoCtx("web-s1", ""))
	require.NoError(t, err)
	assert.Equal(t, "John Doe", asMap(t, result)["canonicalName"])

	result, err = env.dispatcher.Execute(ctx, "get_demo_overview_for_current_role", `{}`,
		demoCtx("web-s1", domain.RoleResident))
	require.NoError(t, err)
	m := asMap(t, result)
	assert.Equal(t, "resident", m["role"])
	assert.NotEmpty(t, m["summary"])
}

func TestContractorStatsRequireContractorRole(t *testing.T) {
	env := newTestEnv(t)
	env.seedDemo(t)
	ctx := context.Background()

	_, err := env.dispatcher.Execute(ctx, "get_demo_stats_for_contractor",
		`{"lookbackDays":30}`, demoCtx("web-s1", domain.RoleResident))
	assert.ErrorIs(t, err, domain.ErrForbiddenRole)

	_, err = env.dispatcher.Execute(ctx, "set_demo_role", `{"role":"contractor"}`,
		demoCtx("web-con", ""))
	require.NoError(t, err)

	result, err := env.dispatcher.Execute(ctx, "get_demo_stats_for_contractor",
		`{"lookbackDays":30}`, demoCtx("web-con", domain.RoleContractor))
	require.NoError(t, err)
	m := asMap(t, result)
	assert.Equal(t, demo.ContractorJohnSmithID, m["contractorId"])
	assert.Equal(t, float64(3), m["totalJobs"])
	assert.Equal(t, float64(1), m["completedJobs"])
}

func TestUpdateDemoProjectStatus(t *testing.T) {
	env := newTestEnv(t)
	env.seedDemo(t)
	ctx := context.Background()

	result, err := env.dispatcher.Execute(ctx, "update_demo_project_status",
		`{"projectId":"project-john-doe-roof","status":"completed","note":"Roof replaced."}`,
		demoCtx("web-con", domain.RoleContractor))
	require.NoError(t, err)
	m := asMap(t, result)
	assert.Equal(t, "completed", m["status"])
	assert.Equal(t, "Roof replaced.", m["notes"])
}
