package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"github.com/saralabs/sara-agent/internal/domain"
)

type reportDoc struct {
	ID        string    `firestore:"id"`
	UserID    string    `firestore:"user_id"`
	Address   string    `firestore:"address"`
	Status    string    `firestore:"status"`
	PhotoURLs []string  `firestore:"photo_urls"`
	Latitude  *float64  `firestore:"latitude"`
	Longitude *float64  `firestore:"longitude"`
	CreatedAt time.Time `firestore:"created_at"`
	UpdatedAt time.Time `firestore:"updated_at"`
}

type reportTokenDoc struct {
	ReportID  string    `firestore:"report_id"`
	Token     string    `firestore:"token"`
	ExpiresAt time.Time `firestore:"expires_at"`
	CreatedAt time.Time `firestore:"created_at"`
}

func (s *Store) reportsCol() *firestore.CollectionRef {
	return s.client.Collection("damage_reports")
}

func (s *Store) reportTokensCol() *firestore.CollectionRef {
	return s.client.Collection("report_tokens")
}

// reportKey scopes every report doc to its owner. Ownership checks reduce
// to key construction: a report looked up under the wrong user id simply
// does not exist.
func reportKey(userID domain.UserID, reportID domain.ReportID) string {
	return string(userID) + ":" + string(reportID)
}

func toReport(doc reportDoc) *domain.DamageReport {
	return &domain.DamageReport{
		ID:        domain.ReportID(doc.ID),
		UserID:    domain.UserID(doc.UserID),
		Address:   doc.Address,
		Status:    domain.ReportStatus(doc.Status),
		PhotoURLs: doc.PhotoURLs,
		Latitude:  doc.Latitude,
		Longitude: doc.Longitude,
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}
}

func (s *Store) GetUserReports(ctx context.Context, userID domain.UserID) ([]*domain.DamageReport, error) {
	q := s.reportsCol().Where("user_id", "==", string(userID)).OrderBy("created_at", firestore.Asc)

	iter := q.Documents(ctx)
	defer iter.Stop()

	var out []*domain.DamageReport
	for {
		snap, err := iter.Next()
		if err != nil {
			if err == iterator.Done {
				break
			}
			return nil, fmt.Errorf("firestore GetUserReports: %w", err)
		}

		var doc reportDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("decode reportDoc: %w", err)
		}
		out = append(out, toReport(doc))
	}
	return out, nil
}

func (s *Store) GetReportByID(ctx context.Context, userID domain.UserID, reportID domain.ReportID) (*domain.DamageReport, error) {
	snap, err := s.reportsCol().Doc(reportKey(userID, reportID)).Get(ctx)
	if err != nil {
		if notFound(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("firestore GetReportByID: %w", err)
	}

	var doc reportDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("decode reportDoc: %w", err)
	}
	return toReport(doc), nil
}

func (s *Store) SaveReport(ctx context.Context, report *domain.DamageReport) error {
	doc := reportDoc{
		ID:        string(report.ID),
		UserID:    string(report.UserID),
		Address:   report.Address,
		Status:    string(report.Status),
		PhotoURLs: report.PhotoURLs,
		Latitude:  report.Latitude,
		Longitude: report.Longitude,
		CreatedAt: report.CreatedAt,
		UpdatedAt: report.UpdatedAt,
	}

	_, err := s.reportsCol().Doc(reportKey(report.UserID, report.ID)).Set(ctx, doc)
	if err != nil {
		return fmt.Errorf("firestore SaveReport: %w", err)
	}
	return nil
}

func (s *Store) DeleteReport(ctx context.Context, userID domain.UserID, reportID domain.ReportID) error {
	_, err := s.reportsCol().Doc(reportKey(userID, reportID)).Delete(ctx)
	if err != nil {
		return fmt.Errorf("firestore DeleteReport: %w", err)
	}
	return nil
}

func (s *Store) SaveReportToken(ctx context.Context, token *domain.ReportToken) error {
	doc := reportTokenDoc{
		ReportID:  string(token.ReportID),
		Token:     token.Token,
		ExpiresAt: token.ExpiresAt,
		CreatedAt: token.CreatedAt,
	}

	key := string(token.ReportID) + ":" + token.Token
	if _, err := s.reportTokensCol().Doc(key).Set(ctx, doc); err != nil {
		return fmt.Errorf("firestore SaveReportToken: %w", err)
	}
	return nil
}

func (s *Store) GetReportToken(ctx context.Context, reportID domain.ReportID, token string) (*domain.ReportToken, error) {
	snap, err := s.reportTokensCol().Doc(string(reportID) + ":" + token).Get(ctx)
	if err != nil {
		if notFound(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("firestore GetReportToken: %w", err)
	}

	var doc reportTokenDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("decode reportTokenDoc: %w", err)
	}

	return &domain.ReportToken{
		ReportID:  domain.ReportID(doc.ReportID),
		Token:     doc.Token,
		ExpiresAt: doc.ExpiresAt,
		CreatedAt: doc.CreatedAt,
	}, nil
}
