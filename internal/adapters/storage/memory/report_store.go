package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/saralabs/sara-agent/internal/domain"
)

type ReportStore struct {
	mu      sync.RWMutex
	reports map[string]*domain.DamageReport // keyed by "{userId}/{reportId}"
	tokens  map[string]*domain.ReportToken  // keyed by "{reportId}/{token}"
}

func NewReportStore() *ReportStore {
	return &ReportStore{
		reports: make(map[string]*domain.DamageReport),
		tokens:  make(map[string]*domain.ReportToken),
	}
}

func reportKey(userID domain.UserID, reportID domain.ReportID) string {
	return string(userID) + "/" + string(reportID)
}

func (s *ReportStore) GetUserReports(ctx context.Context, userID domain.UserID) ([]*domain.DamageReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.DamageReport
	for _, r := range s.reports {
		if r.UserID == userID {
			cp := *r
			out = append(out, &cp)
		}
	}
	// Map iteration is random; keep list output stable.
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *ReportStore) GetReportByID(ctx context.Context, userID domain.UserID, reportID domain.ReportID) (*domain.DamageReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.reports[reportKey(userID, reportID)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (s *ReportStore) SaveReport(ctx context.Context, report *domain.DamageReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *report
	s.reports[reportKey(report.UserID, report.ID)] = &cp
	return nil
}

func (s *ReportStore) DeleteReport(ctx context.Context, userID domain.UserID, reportID domain.ReportID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.reports, reportKey(userID, reportID))
	return nil
}

func tokenKey(reportID domain.ReportID, token string) string {
	return string(reportID) + "/" + token
}

func (s *ReportStore) SaveReportToken(ctx context.Context, token *domain.ReportToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *token
	s.tokens[tokenKey(token.ReportID, token.Token)] = &cp
	return nil
}

func (s *ReportStore) GetReportToken(ctx context.Context, reportID domain.ReportID, token string) (*domain.ReportToken, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tokens[tokenKey(reportID, token)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *t
	return &cp, nil
}
