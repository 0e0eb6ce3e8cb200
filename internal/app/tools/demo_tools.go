package tools

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/saralabs/sara-agent/internal/app/demo"
	"github.com/saralabs/sara-agent/internal/domain"
)

func (d *Dispatcher) setDemoRole(ctx context.Context, argsJSON string, tctx Context) (any, error) {
	if err := requireDemoMode("set_demo_role", tctx); err != nil {
		return nil, err
	}

	var args setDemoRoleArgs
	if err := decodeArgs(argsJSON, &args); err != nil {
		return nil, err
	}

	info, err := d.demoMgr.AssignRole(ctx, tctx.UserID, domain.DemoRole(args.Role))
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"userId":              string(info.UserID),
		"role":                string(info.Role),
		"canonicalName":       info.CanonicalName,
		"primaryDemoReportId": string(info.PrimaryDemoReportID),
	}, nil
}

var roleSummaries = map[domain.DemoRole]string{
	domain.RoleResident:   "You are John Doe, a Saraville resident whose home was damaged by Hurricane Santa. Your roof and parts of the interior were impacted, and you are working with Sara to confirm your location, document damage, and understand next steps.",
	domain.RoleCity:       "You are Jane Smith from Saraville Emergency Management. You are using Sara to understand citywide damage after Hurricane Santa, prioritize unassigned reports, and coordinate response work across neighborhoods.",
	domain.RoleContractor: "You are John Smith, a local contractor in Saraville. You are using Sara to see your assigned jobs, update progress on bids and repairs, and understand how much work you have in the pipeline after Hurricane Santa.",
}

func (d *Dispatcher) getDemoOverview(ctx context.Context, tctx Context) (any, error) {
	if tctx.Mode != domain.ModeDemo {
		return map[string]any{"role": nil, "summary": "Not in demo mode."}, nil
	}

	info, err := d.demoMgr.RoleInfo(ctx, tctx.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return map[string]any{
				"role":    nil,
				"summary": "The user has not selected a demo role yet. Invite them to choose resident, city worker, or contractor.",
			}, nil
		}
		return nil, err
	}

	return map[string]any{
		"role":                string(info.Role),
		"canonicalName":       info.CanonicalName,
		"primaryDemoReportId": string(info.PrimaryDemoReportID),
		"summary":             roleSummaries[info.Role],
	}, nil
}

func (d *Dispatcher) getDemoReportForRole(ctx context.Context, tctx Context) (any, error) {
	if err := requireDemoMode("get_demo_report_for_current_role", tctx); err != nil {
		return nil, err
	}

	info, err := d.demoMgr.RoleInfo(ctx, tctx.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("no demo role found for this user: %w", domain.ErrNoRoleAssigned)
		}
		return nil, err
	}

	reports, err := d.demoReports.ListDemoReports(ctx)
	if err != nil {
		return nil, err
	}

	primaryID := info.PrimaryDemoReportID
	if primaryID == "" {
		primaryID = demo.DefaultReportIDForRole(info.Role)
	}

	var report *domain.DemoDamageReport
	for _, r := range reports {
		if r.ID == primaryID {
			report = r
			break
		}
	}
	if report == nil && len(reports) > 0 {
		report = reports[0]
	}

	result := map[string]any{
		"role":    string(info.Role),
		"report":  nil,
		"project": nil,
	}
	if report == nil {
		return result, nil
	}
	result["report"] = report

	projects, err := d.demoProjects.ListDemoProjects(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range projects {
		if p.ReportID == report.ID {
			result["project"] = p
			break
		}
	}
	return result, nil
}

func (d *Dispatcher) updateDemoReportFields(ctx context.Context, argsJSON string, tctx Context) (any, error) {
	if err := requireDemoMode("update_demo_report_fields", tctx); err != nil {
		return nil, err
	}

	var args updateDemoReportFieldsArgs
	if err := decodeArgs(argsJSON, &args); err != nil {
		return nil, err
	}

	report, err := d.demoReports.GetDemoReport(ctx, domain.ReportID(args.ReportID))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("demo report not found: %w", err)
		}
		return nil, err
	}

	if args.Address != nil {
		report.Address = *args.Address
	}
	if args.DamageType != nil {
		report.DamageType = *args.DamageType
	}
	if args.InsuranceInfo != nil {
		report.InsuranceInfo = *args.InsuranceInfo
	}
	if args.HelpRequested != nil {
		report.HelpRequested = *args.HelpRequested
	}
	report.UpdatedAt = d.now()

	if err := d.demoReports.SaveDemoReport(ctx, report); err != nil {
		return nil, err
	}
	return report, nil
}

func (d *Dispatcher) updateDemoProjectStatus(ctx context.Context, argsJSON string, tctx Context) (any, error) {
	if err := requireDemoMode("update_demo_project_status", tctx); err != nil {
		return nil, err
	}

	var args updateDemoProjectStatusArgs
	if err := decodeArgs(argsJSON, &args); err != nil {
		return nil, err
	}

	project, err := d.demoProjects.GetDemoProject(ctx, args.ProjectID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("demo project not found: %w", err)
		}
		return nil, err
	}

	project.Status = domain.ProjectStatus(args.Status)
	if args.Note != nil {
		project.Notes = *args.Note
	}
	project.UpdatedAt = d.now()

	if err := d.demoProjects.SaveDemoProject(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

func (d *Dispatcher) listDemoReportsForCity(ctx context.Context, argsJSON string, tctx Context) (any, error) {
	if err := requireDemoMode("list_demo_reports_for_city", tctx); err != nil {
		return nil, err
	}
	if tctx.Role != domain.RoleCity {
		return nil, fmt.Errorf("only the city demo role can list all demo reports: %w", domain.ErrForbiddenRole)
	}

	var args listDemoReportsForCityArgs
	if err := decodeArgs(argsJSON, &args); err != nil {
		return nil, err
	}

	reports, err := d.demoReports.ListDemoReports(ctx)
	if err != nil {
		return nil, err
	}

	filtered := make([]*domain.DemoDamageReport, 0, len(reports))
	for _, r := range reports {
		switch args.Status {
		case "unassigned":
			if r.AssignedContractorID == "" {
				filtered = append(filtered, r)
			}
		case "assigned":
			if r.AssignedContractorID != "" && r.Status != domain.DemoReportCompleted {
				filtered = append(filtered, r)
			}
		case "completed":
			if r.Status == domain.DemoReportCompleted || r.Status == domain.DemoReportResolved {
				filtered = append(filtered, r)
			}
		default:
			filtered = append(filtered, r)
		}
	}

	return map[string]any{
		"statusFilter": args.Status,
		"areaQuery":    args.AreaQuery,
		"total":        len(filtered),
		"reports":      filtered,
	}, nil
}

type contractorJobCount struct {
	ContractorID string `json:"contractorId"`
	JobCount     int    `json:"jobCount"`
}

// topContractorsByJobCount ranks contractors by number of projects. Job
// count is the only sort key; ties keep a stable id order.
func topContractorsByJobCount(projects []*domain.DemoProject, limit int) []contractorJobCount {
	counts := make(map[string]int)
	for _, p := range projects {
		counts[p.ContractorID]++
	}

	out := make([]contractorJobCount, 0, len(counts))
	for id, n := range counts {
		out = append(out, contractorJobCount{ContractorID: id, JobCount: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ContractorID < out[j].ContractorID })
	sort.SliceStable(out, func(i, j int) bool { return out[i].JobCount > out[j].JobCount })

	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (d *Dispatcher) getDemoMapSummary(ctx context.Context, argsJSON string, tctx Context) (any, error) {
	if err := requireDemoMode("get_demo_map_summary", tctx); err != nil {
		return nil, err
	}

	var args demoMapSummaryArgs
	if err := decodeArgs(argsJSON, &args); err != nil {
		return nil, err
	}

	reports, err := d.demoReports.ListDemoReports(ctx)
	if err != nil {
		return nil, err
	}
	projects, err := d.demoProjects.ListDemoProjects(ctx)
	if err != nil {
		return nil, err
	}

	switch tctx.Role {
	case domain.RoleResident:
		var assigned, completed, inProgress int
		for _, r := range reports {
			if r.AssignedContractorID != "" {
				assigned++
			}
			switch r.Status {
			case domain.DemoReportCompleted, domain.DemoReportResolved:
				completed++
			case domain.DemoReportInProgress:
				inProgress++
			}
		}
		return map[string]any{
			"role":     "resident",
			"viewport": args.Viewport,
			"areaId":   args.AreaID,
			"totals": map[string]int{
				"totalReports":    len(reports),
				"assignedCount":   assigned,
				"inProgressCount": inProgress,
				"completedCount":  completed,
			},
			"topContractorsByJobCount": topContractorsByJobCount(projects, 5),
		}, nil

	case domain.RoleCity:
		return map[string]any{
			"role":     "city",
			"viewport": args.Viewport,
			"areaId":   args.AreaID,
			"reports":  reports,
		}, nil

	case domain.RoleContractor:
		ownProjects, ownReports := contractorSubset(reports, projects, demo.ContractorJohnSmithID)
		return map[string]any{
			"role":     "contractor",
			"viewport": args.Viewport,
			"areaId":   args.AreaID,
			"projects": ownProjects,
			"reports":  ownReports,
		}, nil

	default:
		return map[string]any{
			"role":     nil,
			"viewport": args.Viewport,
			"areaId":   args.AreaID,
			"message":  "No demo role set; map summary is not scoped.",
		}, nil
	}
}

// contractorSubset returns the contractor's projects and the reports they
// reference.
func contractorSubset(reports []*domain.DemoDamageReport, projects []*domain.DemoProject, contractorID string) ([]*domain.DemoProject, []*domain.DemoDamageReport) {
	own := make([]*domain.DemoProject, 0, len(projects))
	referenced := make(map[domain.ReportID]bool)
	for _, p := range projects {
		if p.ContractorID == contractorID {
			own = append(own, p)
			referenced[p.ReportID] = true
		}
	}

	ownReports := make([]*domain.DemoDamageReport, 0, len(reports))
	for _, r := range reports {
		if referenced[r.ID] {
			ownReports = append(ownReports, r)
		}
	}
	return own, ownReports
}

func (d *Dispatcher) getDemoStatsForContractor(ctx context.Context, argsJSON string, tctx Context) (any, error) {
	if err := requireDemoMode("get_demo_stats_for_contractor", tctx); err != nil {
		return nil, err
	}

	var args contractorStatsArgs
	if err := decodeArgs(argsJSON, &args); err != nil {
		return nil, err
	}

	info, err := d.demoMgr.RoleInfo(ctx, tctx.UserID)
	if err != nil || info.Role != domain.RoleContractor {
		return nil, fmt.Errorf("contractor stats are only available for the contractor demo role: %w", domain.ErrForbiddenRole)
	}

	projects, err := d.demoProjects.ListDemoProjects(ctx)
	if err != nil {
		return nil, err
	}

	var total, completed int
	for _, p := range projects {
		if p.ContractorID != demo.ContractorJohnSmithID {
			continue
		}
		total++
		if p.Status == domain.ProjectCompleted {
			completed++
		}
	}

	return map[string]any{
		"contractorId":  demo.ContractorJohnSmithID,
		"lookbackDays":  args.LookbackDays,
		"totalJobs":     total,
		"completedJobs": completed,
	}, nil
}

func (d *Dispatcher) createDemoMapSessionLink(ctx context.Context, argsJSON string, tctx Context) (any, error) {
	if err := requireDemoMode("create_demo_map_session_link", tctx); err != nil {
		return nil, err
	}

	var args sessionLinkArgs
	if err := decodeArgs(argsJSON, &args); err != nil {
		return nil, err
	}

	ttlHours := 1.0
	if args.TTLHours != nil && *args.TTLHours > 0 {
		ttlHours = *args.TTLHours
	}

	link, err := d.demoMgr.IssueSessionLink(ctx, tctx.UserID, ttlHours)
	if err != nil {
		if errors.Is(err, domain.ErrNoRoleAssigned) {
			return nil, fmt.Errorf("no demo role is set for this user; ask them to choose resident, city worker, or contractor first: %w", err)
		}
		return nil, err
	}

	return map[string]any{
		"url":       link.URL,
		"token":     link.Token,
		"expiresAt": link.ExpiresAt,
		"role":      string(link.Role),
	}, nil
}
