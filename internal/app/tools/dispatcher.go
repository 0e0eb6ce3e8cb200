package tools

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/saralabs/sara-agent/internal/app/demo"
	"github.com/saralabs/sara-agent/internal/domain"
)

// Context carries per-call metadata into a tool handler: who is calling,
// in which mode, and under which demo persona.
type Context struct {
	UserID domain.UserID
	Mode   domain.Mode
	Role   domain.DemoRole
}

// Dispatcher routes model-issued tool calls to their handlers. Report
// tools are authorized purely by key scoping (a report fetched under the
// wrong user id is not found); demo tools are gated on mode and persona.
type Dispatcher struct {
	reports      domain.ReportStore
	reportTokens domain.ReportTokenStore
	demoReports  domain.DemoReportStore
	demoProjects domain.DemoProjectStore
	demoMgr      *demo.Manager

	siteURL  string
	now      func() time.Time
	newID    func() string
	newToken func() string
}

func NewDispatcher(
	reports domain.ReportStore,
	reportTokens domain.ReportTokenStore,
	demoReports domain.DemoReportStore,
	demoProjects domain.DemoProjectStore,
	demoMgr *demo.Manager,
	siteURL string,
) *Dispatcher {
	return &Dispatcher{
		reports:      reports,
		reportTokens: reportTokens,
		demoReports:  demoReports,
		demoProjects: demoProjects,
		demoMgr:      demoMgr,
		siteURL:      siteURL,
		now:          time.Now,
		newID:        uuid.NewString,
		newToken:     uuid.NewString,
	}
}

// Execute runs one tool call. The result is always JSON-serializable; any
// error is meant to be folded back into the model conversation as text,
// never to abort the turn.
func (d *Dispatcher) Execute(ctx context.Context, toolName, argsJSON string, tctx Context) (any, error) {
	switch toolName {
	case "start_damage_report":
		return d.startDamageReport(ctx, argsJSON, tctx)
	case "update_damage_report_section":
		return d.updateDamageReportSection(ctx, argsJSON, tctx)
	case "get_report_details":
		return d.getReportDetails(ctx, argsJSON, tctx)
	case "list_user_reports":
		return d.listUserReports(ctx, tctx)
	case "update_report_address":
		return d.updateReportAddress(ctx, argsJSON, tctx)
	case "update_report_photos":
		return d.updateReportPhotos(ctx, argsJSON, tctx)
	case "delete_report":
		return d.deleteReport(ctx, argsJSON, tctx)
	case "mark_report_resolved":
		return d.markReportResolved(ctx, argsJSON, tctx)
	case "create_time_limited_report_link":
		return d.createReportLink(ctx, argsJSON, tctx)
	case "set_demo_role":
		return d.setDemoRole(ctx, argsJSON, tctx)
	case "get_demo_overview_for_current_role":
		return d.getDemoOverview(ctx, tctx)
	case "get_demo_report_for_current_role":
		return d.getDemoReportForRole(ctx, tctx)
	case "update_demo_report_fields":
		return d.updateDemoReportFields(ctx, argsJSON, tctx)
	case "update_demo_project_status":
		return d.updateDemoProjectStatus(ctx, argsJSON, tctx)
	case "list_demo_reports_for_city":
		return d.listDemoReportsForCity(ctx, argsJSON, tctx)
	case "get_demo_map_summary":
		return d.getDemoMapSummary(ctx, argsJSON, tctx)
	case "get_demo_stats_for_contractor":
		return d.getDemoStatsForContractor(ctx, argsJSON, tctx)
	case "create_demo_map_session_link":
		return d.createDemoMapSessionLink(ctx, argsJSON, tctx)
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownTool, toolName)
	}
}

// requireDemoMode gates the demo tool family.
func requireDemoMode(toolName string, tctx Context) error {
	if tctx.Mode != domain.ModeDemo {
		return fmt.Errorf("%s is only available in demo mode: %w", toolName, domain.ErrWrongMode)
	}
	return nil
}
