package tools

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/saralabs/sara-agent/internal/domain"
)

// reportPayload is the JSON shape of a report inside tool results.
type reportPayload struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Address   string    `json:"address,omitempty"`
	Status    string    `json:"status"`
	PhotoURLs []string  `json:"photoUrls"`
	Latitude  *float64  `json:"latitude,omitempty"`
	Longitude *float64  `json:"longitude,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toReportPayload(r *domain.DamageReport) reportPayload {
	photos := r.PhotoURLs
	if photos == nil {
		photos = []string{}
	}
	return reportPayload{
		ID:        string(r.ID),
		UserID:    string(r.UserID),
		Address:   r.Address,
		Status:    string(r.Status),
		PhotoURLs: photos,
		Latitude:  r.Latitude,
		Longitude: r.Longitude,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// ensureOwnedReport is the sole authorization mechanism for report tools:
// the lookup is scoped to the calling user's key space, so another user's
// report fails with NotFound rather than leaking.
func (d *Dispatcher) ensureOwnedReport(ctx context.Context, userID domain.UserID, reportID string) (*domain.DamageReport, error) {
	report, err := d.reports.GetReportByID(ctx, userID, domain.ReportID(reportID))
	if err != nil {
		return nil, fmt.Errorf("report not found for this user: %w", err)
	}
	return report, nil
}

func (d *Dispatcher) startDamageReport(ctx context.Context, argsJSON string, tctx Context) (any, error) {
	var args startDamageReportArgs
	if err := decodeArgs(argsJSON, &args); err != nil {
		return nil, err
	}
	if args.Address == "" {
		return nil, fmt.Errorf("address is required")
	}

	now := d.now()
	report := &domain.DamageReport{
		ID:        domain.ReportID(d.newID()),
		UserID:    tctx.UserID,
		Address:   args.Address,
		Status:    domain.ReportPending,
		PhotoURLs: []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := d.reports.SaveReport(ctx, report); err != nil {
		return nil, err
	}
	return toReportPayload(report), nil
}

func (d *Dispatcher) updateDamageReportSection(ctx context.Context, argsJSON string, tctx Context) (any, error) {
	var args updateDamageReportSectionArgs
	if err := decodeArgs(argsJSON, &args); err != nil {
		return nil, err
	}

	report, err := d.ensureOwnedReport(ctx, tctx.UserID, args.ReportID)
	if err != nil {
		return nil, err
	}

	if args.Address != nil {
		report.Address = *args.Address
	}
	if args.Status != nil {
		report.Status = domain.ReportStatus(*args.Status)
	}
	if args.PhotoURLs != nil {
		report.PhotoURLs = *args.PhotoURLs
	}
	report.UpdatedAt = d.now()

	if err := d.reports.SaveReport(ctx, report); err != nil {
		return nil, err
	}
	return toReportPayload(report), nil
}

func (d *Dispatcher) getReportDetails(ctx context.Context, argsJSON string, tctx Context) (any, error) {
	var args reportIDArgs
	if err := decodeArgs(argsJSON, &args); err != nil {
		return nil, err
	}

	report, err := d.ensureOwnedReport(ctx, tctx.UserID, args.ReportID)
	if err != nil {
		return nil, err
	}
	return toReportPayload(report), nil
}

func (d *Dispatcher) listUserReports(ctx context.Context, tctx Context) (any, error) {
	reports, err := d.reports.GetUserReports(ctx, tctx.UserID)
	if err != nil {
		return nil, err
	}

	out := make([]domain.ReportSummary, 0, len(reports))
	for _, r := range reports {
		out = append(out, domain.ReportSummary{
			ID:      r.ID,
			Status:  string(r.Status),
			Address: r.Address,
		})
	}
	return out, nil
}

func (d *Dispatcher) updateReportAddress(ctx context.Context, argsJSON string, tctx Context) (any, error) {
	var args updateReportAddressArgs
	if err := decodeArgs(argsJSON, &args); err != nil {
		return nil, err
	}

	report, err := d.ensureOwnedReport(ctx, tctx.UserID, args.ReportID)
	if err != nil {
		return nil, err
	}

	report.Address = args.Address
	report.UpdatedAt = d.now()
	if err := d.reports.SaveReport(ctx, report); err != nil {
		return nil, err
	}
	return toReportPayload(report), nil
}

func (d *Dispatcher) updateReportPhotos(ctx context.Context, argsJSON string, tctx Context) (any, error) {
	var args updateReportPhotosArgs
	if err := decodeArgs(argsJSON, &args); err != nil {
		return nil, err
	}

	report, err := d.ensureOwnedReport(ctx, tctx.UserID, args.ReportID)
	if err != nil {
		return nil, err
	}

	report.PhotoURLs = args.PhotoURLs
	report.UpdatedAt = d.now()
	if err := d.reports.SaveReport(ctx, report); err != nil {
		return nil, err
	}
	return toReportPayload(report), nil
}

func (d *Dispatcher) deleteReport(ctx context.Context, argsJSON string, tctx Context) (any, error) {
	var args reportIDArgs
	if err := decodeArgs(argsJSON, &args); err != nil {
		return nil, err
	}

	report, err := d.ensureOwnedReport(ctx, tctx.UserID, args.ReportID)
	if err != nil {
		return nil, err
	}
	if report.Status != domain.ReportPending {
		return nil, fmt.Errorf("only pending reports can be deleted: %w", domain.ErrInvariant)
	}

	if err := d.reports.DeleteReport(ctx, tctx.UserID, report.ID); err != nil {
		return nil, err
	}
	return map[string]any{"deleted": true}, nil
}

func (d *Dispatcher) markReportResolved(ctx context.Context, argsJSON string, tctx Context) (any, error) {
	var args reportIDArgs
	if err := decodeArgs(argsJSON, &args); err != nil {
		return nil, err
	}

	report, err := d.ensureOwnedReport(ctx, tctx.UserID, args.ReportID)
	if err != nil {
		return nil, err
	}

	report.Status = domain.ReportResolved
	report.UpdatedAt = d.now()
	if err := d.reports.SaveReport(ctx, report); err != nil {
		return nil, err
	}
	return toReportPayload(report), nil
}

func (d *Dispatcher) createReportLink(ctx context.Context, argsJSON string, tctx Context) (any, error) {
	var args createReportLinkArgs
	if err := decodeArgs(argsJSON, &args); err != nil {
		return nil, err
	}

	report, err := d.ensureOwnedReport(ctx, tctx.UserID, args.ReportID)
	if err != nil {
		return nil, err
	}

	ttlHours := 24.0
	if args.TTLHours != nil && *args.TTLHours > 0 {
		ttlHours = *args.TTLHours
	}

	now := d.now()
	token := &domain.ReportToken{
		ReportID:  report.ID,
		Token:     d.newToken(),
		ExpiresAt: now.Add(time.Duration(ttlHours * float64(time.Hour))),
		CreatedAt: now,
	}
	if err := d.reportTokens.SaveReportToken(ctx, token); err != nil {
		return nil, err
	}

	path := "/report/" + url.PathEscape(string(report.ID))
	if tctx.Mode == domain.ModeDemo {
		path = "/demo-report/" + url.PathEscape(string(report.ID))
	}

	return map[string]any{
		"url":       d.siteURL + path + "?token=" + url.QueryEscape(token.Token),
		"token":     token.Token,
		"expiresAt": token.ExpiresAt,
	}, nil
}
