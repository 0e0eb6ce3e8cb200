package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"github.com/saralabs/sara-agent/internal/domain"
)

type demoReportDoc struct {
	ID                   string    `firestore:"id"`
	ResidentName         string    `firestore:"resident_name"`
	Address              string    `firestore:"address"`
	GeoLat               *float64  `firestore:"geo_lat"`
	GeoLng               *float64  `firestore:"geo_lng"`
	DamageType           string    `firestore:"damage_type"`
	InsuranceInfo        string    `firestore:"insurance_info"`
	HelpRequested        string    `firestore:"help_requested"`
	Status               string    `firestore:"status"`
	AssignedContractorID string    `firestore:"assigned_contractor_id"`
	CreatedAt            time.Time `firestore:"created_at"`
	UpdatedAt            time.Time `firestore:"updated_at"`
	IsDemo               bool      `firestore:"is_demo"`
}

type demoProjectDoc struct {
	ID           string    `firestore:"id"`
	ContractorID string    `firestore:"contractor_id"`
	ReportID     string    `firestore:"report_id"`
	Status       string    `firestore:"status"`
	Notes        string    `firestore:"notes"`
	CreatedAt    time.Time `firestore:"created_at"`
	UpdatedAt    time.Time `firestore:"updated_at"`
	IsDemo       bool      `firestore:"is_demo"`
}

type demoRoleDoc struct {
	UserID              string `firestore:"user_id"`
	Role                string `firestore:"role"`
	CanonicalName       string `firestore:"canonical_name"`
	PrimaryDemoReportID string `firestore:"primary_demo_report_id"`
}

type demoSessionDoc struct {
	Token           string    `firestore:"token"`
	UserID          string    `firestore:"user_id"`
	Role            string    `firestore:"role"`
	PrimaryReportID string    `firestore:"primary_report_id"`
	CreatedAt       time.Time `firestore:"created_at"`
	ExpiresAt       time.Time `firestore:"expires_at"`
}

type seedMarkerDoc struct {
	Seeded       bool      `firestore:"seeded"`
	Mode         string    `firestore:"mode"`
	LastSeededAt time.Time `firestore:"last_seeded_at"`
}

func (s *Store) demoReportsCol() *firestore.CollectionRef {
	return s.client.Collection("demo_reports")
}

func (s *Store) demoProjectsCol() *firestore.CollectionRef {
	return s.client.Collection("demo_projects")
}

func toDemoReport(doc demoReportDoc) *domain.DemoDamageReport {
	var geo *domain.GeoPoint
	if doc.GeoLat != nil && doc.GeoLng != nil {
		geo = &domain.GeoPoint{Lat: *doc.GeoLat, Lng: *doc.GeoLng}
	}
	return &domain.DemoDamageReport{
		ID:                   domain.ReportID(doc.ID),
		ResidentName:         doc.ResidentName,
		Address:              doc.Address,
		Geo:                  geo,
		DamageType:           doc.DamageType,
		InsuranceInfo:        doc.InsuranceInfo,
		HelpRequested:        doc.HelpRequested,
		Status:               domain.DemoReportStatus(doc.Status),
		AssignedContractorID: doc.AssignedContractorID,
		CreatedAt:            doc.CreatedAt,
		UpdatedAt:            doc.UpdatedAt,
		IsDemo:               doc.IsDemo,
	}
}

func (s *Store) ListDemoReports(ctx context.Context) ([]*domain.DemoDamageReport, error) {
	iter := s.demoReportsCol().OrderBy("id", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	var out []*domain.DemoDamageReport
	for {
		snap, err := iter.Next()
		if err != nil {
			if err == iterator.Done {
				break
			}
			return nil, fmt.Errorf("firestore ListDemoReports: %w", err)
		}

		var doc demoReportDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("decode demoReportDoc: %w", err)
		}
		out = append(out, toDemoReport(doc))
	}
	return out, nil
}

func (s *Store) GetDemoReport(ctx context.Context, id domain.ReportID) (*domain.DemoDamageReport, error) {
	snap, err := s.demoReportsCol().Doc(string(id)).Get(ctx)
	if err != nil {
		if notFound(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("firestore GetDemoReport: %w", err)
	}

	var doc demoReportDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("decode demoReportDoc: %w", err)
	}
	return toDemoReport(doc), nil
}

func (s *Store) SaveDemoReport(ctx context.Context, report *domain.DemoDamageReport) error {
	doc := demoReportDoc{
		ID:                   string(report.ID),
		ResidentName:         report.ResidentName,
		Address:              report.Address,
		DamageType:           report.DamageType,
		InsuranceInfo:        report.InsuranceInfo,
		HelpRequested:        report.HelpRequested,
		Status:               string(report.Status),
		AssignedContractorID: report.AssignedContractorID,
		CreatedAt:            report.CreatedAt,
		UpdatedAt:            report.UpdatedAt,
		IsDemo:               report.IsDemo,
	}
	if report.Geo != nil {
		doc.GeoLat = &report.Geo.Lat
		doc.GeoLng = &report.Geo.Lng
	}

	if _, err := s.demoReportsCol().Doc(string(report.ID)).Set(ctx, doc); err != nil {
		return fmt.Errorf("firestore SaveDemoReport: %w", err)
	}
	return nil
}

func (s *Store) ListDemoProjects(ctx context.Context) ([]*domain.DemoProject, error) {
	iter := s.demoProjectsCol().OrderBy("id", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	var out []*domain.DemoProject
	for {
		snap, err := iter.Next()
		if err != nil {
			if err == iterator.Done {
				break
			}
			return nil, fmt.Errorf("firestore ListDemoProjects: %w", err)
		}

		var doc demoProjectDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("decode demoProjectDoc: %w", err)
		}
		out = append(out, &domain.DemoProject{
			ID:           doc.ID,
			ContractorID: doc.ContractorID,
			ReportID:     domain.ReportID(doc.ReportID),
			Status:       domain.ProjectStatus(doc.Status),
			Notes:        doc.Notes,
			CreatedAt:    doc.CreatedAt,
			UpdatedAt:    doc.UpdatedAt,
			IsDemo:       doc.IsDemo,
		})
	}
	return out, nil
}

func (s *Store) GetDemoProject(ctx context.Context, id string) (*domain.DemoProject, error) {
	snap, err := s.demoProjectsCol().Doc(id).Get(ctx)
	if err != nil {
		if notFound(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("firestore GetDemoProject: %w", err)
	}

	var doc demoProjectDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("decode demoProjectDoc: %w", err)
	}
	return &domain.DemoProject{
		ID:           doc.ID,
		ContractorID: doc.ContractorID,
		ReportID:     domain.ReportID(doc.ReportID),
		Status:       domain.ProjectStatus(doc.Status),
		Notes:        doc.Notes,
		CreatedAt:    doc.CreatedAt,
		UpdatedAt:    doc.UpdatedAt,
		IsDemo:       doc.IsDemo,
	}, nil
}

func (s *Store) SaveDemoProject(ctx context.Context, project *domain.DemoProject) error {
	doc := demoProjectDoc{
		ID:           project.ID,
		ContractorID: project.ContractorID,
		ReportID:     string(project.ReportID),
		Status:       string(project.Status),
		Notes:        project.Notes,
		CreatedAt:    project.CreatedAt,
		UpdatedAt:    project.UpdatedAt,
		IsDemo:       project.IsDemo,
	}

	if _, err := s.demoProjectsCol().Doc(project.ID).Set(ctx, doc); err != nil {
		return fmt.Errorf("firestore SaveDemoProject: %w", err)
	}
	return nil
}

func (s *Store) GetDemoRole(ctx context.Context, userID domain.UserID) (*domain.DemoRoleInfo, error) {
	snap, err := s.client.Collection("demo_roles").Doc(string(userID)).Get(ctx)
	if err != nil {
		if notFound(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("firestore GetDemoRole: %w", err)
	}

	var doc demoRoleDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("decode demoRoleDoc: %w", err)
	}
	return &domain.DemoRoleInfo{
		UserID:              domain.UserID(doc.UserID),
		Role:                domain.DemoRole(doc.Role),
		CanonicalName:       doc.CanonicalName,
		PrimaryDemoReportID: domain.ReportID(doc.PrimaryDemoReportID),
	}, nil
}

func (s *Store) SaveDemoRole(ctx context.Context, info *domain.DemoRoleInfo) error {
	doc := demoRoleDoc{
		UserID:              string(info.UserID),
		Role:                string(info.Role),
		CanonicalName:       info.CanonicalName,
		PrimaryDemoReportID: string(info.PrimaryDemoReportID),
	}

	if _, err := s.client.Collection("demo_roles").Doc(string(info.UserID)).Set(ctx, doc); err != nil {
		return fmt.Errorf("firestore SaveDemoRole: %w", err)
	}
	return nil
}

func (s *Store) DeleteDemoRole(ctx context.Context, userID domain.UserID) error {
	if _, err := s.client.Collection("demo_roles").Doc(string(userID)).Delete(ctx); err != nil {
		return fmt.Errorf("firestore DeleteDemoRole: %w", err)
	}
	return nil
}

func (s *Store) GetDemoSession(ctx context.Context, token string) (*domain.DemoSession, error) {
	snap, err := s.client.Collection("demo_sessions").Doc(token).Get(ctx)
	if err != nil {
		if notFound(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("firestore GetDemoSession: %w", err)
	}

	var doc demoSessionDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("decode demoSessionDoc: %w", err)
	}
	return &domain.DemoSession{
		Token:           doc.Token,
		UserID:          domain.UserID(doc.UserID),
		Role:            domain.DemoRole(doc.Role),
		PrimaryReportID: domain.ReportID(doc.PrimaryReportID),
		CreatedAt:       doc.CreatedAt,
		ExpiresAt:       doc.ExpiresAt,
	}, nil
}

func (s *Store) SaveDemoSession(ctx context.Context, session *domain.DemoSession) error {
	doc := demoSessionDoc{
		Token:           session.Token,
		UserID:          string(session.UserID),
		Role:            string(session.Role),
		PrimaryReportID: string(session.PrimaryReportID),
		CreatedAt:       session.CreatedAt,
		ExpiresAt:       session.ExpiresAt,
	}

	if _, err := s.client.Collection("demo_sessions").Doc(session.Token).Set(ctx, doc); err != nil {
		return fmt.Errorf("firestore SaveDemoSession: %w", err)
	}
	return nil
}

func (s *Store) SaveDemoAreaStats(ctx context.Context, stats []*domain.DemoAreaStats) error {
	for _, st := range stats {
		doc := map[string]interface{}{
			"id":                st.ID,
			"name":              st.Name,
			"total_reports":     st.TotalReports,
			"assigned_count":    st.AssignedCount,
			"in_progress_count": st.InProgressCount,
			"completed_count":   st.CompletedCount,
		}
		if _, err := s.client.Collection("demo_area_stats").Doc(st.ID).Set(ctx, doc); err != nil {
			return fmt.Errorf("firestore SaveDemoAreaStats: %w", err)
		}
	}
	return nil
}

func (s *Store) SaveDemoContractorStats(ctx context.Context, stats []*domain.DemoContractorStats) error {
	for _, st := range stats {
		doc := map[string]interface{}{
			"contractor_id":           st.ContractorID,
			"contractor_name":         st.ContractorName,
			"total_jobs":              st.TotalJobs,
			"completed_jobs":          st.CompletedJobs,
			"positive_feedback_count": st.PositiveFeedbackCount,
		}
		if _, err := s.client.Collection("demo_contractor_stats").Doc(st.ContractorID).Set(ctx, doc); err != nil {
			return fmt.Errorf("firestore SaveDemoContractorStats: %w", err)
		}
	}
	return nil
}

func (s *Store) GetSeedMarker(ctx context.Context) (bool, error) {
	snap, err := s.client.Collection("demo_meta").Doc("seeded").Get(ctx)
	if err != nil {
		if notFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("firestore GetSeedMarker: %w", err)
	}

	var doc seedMarkerDoc
	if err := snap.DataTo(&doc); err != nil {
		return false, fmt.Errorf("decode seedMarkerDoc: %w", err)
	}
	return doc.Seeded, nil
}

func (s *Store) SetSeedMarker(ctx context.Context, mode domain.Mode) error {
	doc := seedMarkerDoc{
		Seeded:       true,
		Mode:         string(mode),
		LastSeededAt: time.Now(),
	}

	if _, err := s.client.Collection("demo_meta").Doc("seeded").Set(ctx, doc); err != nil {
		return fmt.Errorf("firestore SetSeedMarker: %w", err)
	}
	return nil
}
