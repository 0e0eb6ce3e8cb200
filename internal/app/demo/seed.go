package demo

import (
	"context"
	"fmt"
	"time"

	"github.com/saralabs/sara-agent/internal/domain"
	"github.com/saralabs/sara-agent/internal/observability"
)

// Seeder writes the canonical Hurricane Santa data set on first demo
// access. Seeding is gated by a persisted marker; the writes themselves are
// idempotent upserts, so a cold-start race that seeds twice produces
// consistent records, just redundant work.
type Seeder struct {
	reports domain.DemoReportStore
	projects domain.DemoProjectStore
	stats   domain.DemoStatsStore
	marker  domain.SeedMarkerStore

	mode domain.Mode
	now  func() time.Time
}

func NewSeeder(reports domain.DemoReportStore, projects domain.DemoProjectStore, stats domain.DemoStatsStore, marker domain.SeedMarkerStore, mode domain.Mode) *Seeder {
	return &Seeder{
		reports:  reports,
		projects: projects,
		stats:    stats,
		marker:   marker,
		mode:     mode,
		now:      time.Now,
	}
}

// SeedIfNeeded is a no-op outside demo mode and after the first successful
// seed. It never resets fields a later tool call has already modified.
func (s *Seeder) SeedIfNeeded(ctx context.Context) error {
	if s.mode != domain.ModeDemo {
		return nil
	}

	seeded, err := s.marker.GetSeedMarker(ctx)
	if err != nil {
		return fmt.Errorf("reading seed marker: %w", err)
	}
	if seeded {
		return nil
	}

	now := s.now()
	for _, report := range seedReports(now) {
		if err := s.reports.SaveDemoReport(ctx, report); err != nil {
			return fmt.Errorf("seeding demo report %s: %w", report.ID, err)
		}
	}
	for _, project := range seedProjects(now) {
		if err := s.projects.SaveDemoProject(ctx, project); err != nil {
			return fmt.Errorf("seeding demo project %s: %w", project.ID, err)
		}
	}
	if err := s.stats.SaveDemoAreaStats(ctx, seedAreaStats()); err != nil {
		return fmt.Errorf("seeding area stats: %w", err)
	}
	if err := s.stats.SaveDemoContractorStats(ctx, seedContractorStats()); err != nil {
		return fmt.Errorf("seeding contractor stats: %w", err)
	}

	if err := s.marker.SetSeedMarker(ctx, s.mode); err != nil {
		return fmt.Errorf("writing seed marker: %w", err)
	}

	observability.LoggerFromContext(ctx).Info("seeded demo data")
	return nil
}

func geo(lat, lng float64) *domain.GeoPoint {
	return &domain.GeoPoint{Lat: lat, Lng: lng}
}

// Canonical fictional data for Hurricane Santa in Saraville.
func seedReports(now time.Time) []*domain.DemoDamageReport {
	return []*domain.DemoDamageReport{
		{
			ID:                   "report-john-doe-home",
			ResidentName:         "John Doe",
			Address:              "123 Bayview Lane, Saraville",
			Geo:                  geo(29.501, -90.751),
			DamageType:           "Roof damage and minor interior flooding",
			InsuranceInfo:        "Homeowners policy with 2% hurricane deductible",
			HelpRequested:        "Tarping, debris removal, and inspection for hidden water damage",
			Status:               domain.DemoReportInProgress,
			AssignedContractorID: ContractorJohnSmithID,
			CreatedAt:            now,
			UpdatedAt:            now,
			IsDemo:               true,
		},
		{
			ID:                   "report-high-school-gym",
			ResidentName:         "Saraville High School",
			Address:              "1 Wildcat Way, Saraville",
			Geo:                  geo(29.505, -90.748),
			DamageType:           "Roof damage and blown-out windows at gym",
			InsuranceInfo:        "City facilities coverage",
			HelpRequested:        "Temporary roofing, board-up, and electrical inspection",
			Status:               domain.DemoReportInProgress,
			AssignedContractorID: ContractorJohnSmithID,
			CreatedAt:            now,
			UpdatedAt:            now,
			IsDemo:               true,
		},
		{
			ID:                   "report-riverside-apartments",
			ResidentName:         "Riverside Apartments",
			Address:              "400 Riverfront Drive, Saraville",
			Geo:                  geo(29.498, -90.745),
			DamageType:           "Flooding in ground-floor units, damaged HVAC",
			InsuranceInfo:        "Mixed flood and property coverage; some tenants uninsured",
			HelpRequested:        "Pumping out water, mold inspection, temporary housing coordination",
			Status:               domain.DemoReportCompleted,
			AssignedContractorID: ContractorJohnSmithID,
			CreatedAt:            now,
			UpdatedAt:            now,
			IsDemo:               true,
		},
	}
}

func seedProjects(now time.Time) []*domain.DemoProject {
	return []*domain.DemoProject{
		{
			ID:           "project-john-doe-roof",
			ContractorID: ContractorJohnSmithID,
			ReportID:     "report-john-doe-home",
			Status:       domain.ProjectInProgress,
			Notes:        "Initial walkthrough completed, temporary tarp installed, and full roof replacement scheduled.",
			CreatedAt:    now,
			UpdatedAt:    now,
			IsDemo:       true,
		},
		{
			ID:           "project-high-school-gym",
			ContractorID: ContractorJohnSmithID,
			ReportID:     "report-high-school-gym",
			Status:       domain.ProjectInProgress,
			Notes:        "Temporary roof in place, window board-up underway.",
			CreatedAt:    now,
			UpdatedAt:    now,
			IsDemo:       true,
		},
		{
			ID:           "project-riverside-apartments",
			ContractorID: ContractorJohnSmithID,
			ReportID:     "report-riverside-apartments",
			Status:       domain.ProjectCompleted,
			Notes:        "Dry-out completed, final walkthrough with property manager done.",
			CreatedAt:    now,
			UpdatedAt:    now,
			IsDemo:       true,
		},
	}
}

func seedAreaStats() []*domain.DemoAreaStats {
	return []*domain.DemoAreaStats{
		{
			ID:              "saraville-core",
			Name:            "Central Saraville",
			TotalReports:    42,
			AssignedCount:   30,
			InProgressCount: 8,
			CompletedCount:  4,
		},
		{
			ID:              "saraville-riverfront",
			Name:            "Riverfront District",
			TotalReports:    27,
			AssignedCount:   18,
			InProgressCount: 5,
			CompletedCount:  4,
		},
	}
}

func seedContractorStats() []*domain.DemoContractorStats {
	return []*domain.DemoContractorStats{
		{
			ContractorID:          ContractorJohnSmithID,
			ContractorName:        "John Smith Roofing & Restoration",
			TotalJobs:             25,
			CompletedJobs:         12,
			PositiveFeedbackCount: 21,
		},
	}
}
