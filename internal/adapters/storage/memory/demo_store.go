package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/saralabs/sara-agent/internal/domain"
)

// DemoStore holds every demo-mode collection: shared reports, contractor
// projects, per-user roles, session tokens, aggregate stats, and the seed
// marker. One store, several domain interfaces.
type DemoStore struct {
	mu              sync.RWMutex
	reports         map[domain.ReportID]*domain.DemoDamageReport
	projects        map[string]*domain.DemoProject
	roles           map[domain.UserID]*domain.DemoRoleInfo
	sessions        map[string]*domain.DemoSession
	areaStats       map[string]*domain.DemoAreaStats
	contractorStats map[string]*domain.DemoContractorStats
	seeded          bool
}

func NewDemoStore() *DemoStore {
	return &DemoStore{
		reports:         make(map[domain.ReportID]*domain.DemoDamageReport),
		projects:        make(map[string]*domain.DemoProject),
		roles:           make(map[domain.UserID]*domain.DemoRoleInfo),
		sessions:        make(map[string]*domain.DemoSession),
		areaStats:       make(map[string]*domain.DemoAreaStats),
		contractorStats: make(map[string]*domain.DemoContractorStats),
	}
}

func (s *DemoStore) ListDemoReports(ctx context.Context) ([]*domain.DemoDamageReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.DemoDamageReport, 0, len(s.reports))
	for _, r := range s.reports {
		cp := *r
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *DemoStore) GetDemoReport(ctx context.Context, id domain.ReportID) (*domain.DemoDamageReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.reports[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (s *DemoStore) SaveDemoReport(ctx context.Context, report *domain.DemoDamageReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *report
	s.reports[report.ID] = &cp
	return nil
}

func (s *DemoStore) ListDemoProjects(ctx context.Context) ([]*domain.DemoProject, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.DemoProject, 0, len(s.projects))
	for _, p := range s.projects {
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *DemoStore) GetDemoProject(ctx context.Context, id string) (*domain.DemoProject, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.projects[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *DemoStore) SaveDemoProject(ctx context.Context, project *domain.DemoProject) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *project
	s.projects[project.ID] = &cp
	return nil
}

func (s *DemoStore) GetDemoRole(ctx context.Context, userID domain.UserID) (*domain.DemoRoleInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	info, ok := s.roles[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *info
	return &cp, nil
}

func (s *DemoStore) SaveDemoRole(ctx context.Context, info *domain.DemoRoleInfo) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *info
	s.roles[info.UserID] = &cp
	return nil
}

func (s *DemoStore) DeleteDemoRole(ctx context.Context, userID domain.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.roles, userID)
	return nil
}

func (s *DemoStore) GetDemoSession(ctx context.Context, token string) (*domain.DemoSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[token]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *sess
	return &cp, nil
}

func (s *DemoStore) SaveDemoSession(ctx context.Context, session *domain.DemoSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *session
	s.sessions[session.Token] = &cp
	return nil
}

func (s *DemoStore) SaveDemoAreaStats(ctx context.Context, stats []*domain.DemoAreaStats) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, st := range stats {
		cp := *st
		s.areaStats[st.ID] = &cp
	}
	return nil
}

func (s *DemoStore) SaveDemoContractorStats(ctx context.Context, stats []*domain.DemoContractorStats) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, st := range stats {
		cp := *st
		s.contractorStats[st.ContractorID] = &cp
	}
	return nil
}

func (s *DemoStore) GetSeedMarker(ctx context.Context) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.seeded, nil
}

func (s *DemoStore) SetSeedMarker(ctx context.Context, mode domain.Mode) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seeded = true
	return nil
}
