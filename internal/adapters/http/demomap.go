package httpadapter

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/saralabs/sara-agent/internal/app/demo"
	"github.com/saralabs/sara-agent/internal/app/users"
	"github.com/saralabs/sara-agent/internal/domain"
)

type messagePayload struct {
	ID        string    `json:"id"`
	Direction string    `json:"direction"`
	Text      string    `json:"text"`
	MediaURLs []string  `json:"mediaUrls"`
	CreatedAt time.Time `json:"createdAt"`
}

func toMessagePayloads(msgs []*domain.Message) []messagePayload {
	out := make([]messagePayload, 0, len(msgs))
	for _, m := range msgs {
		media := m.MediaURLs
		if media == nil {
			media = []string{}
		}
		out = append(out, messagePayload{
			ID:        string(m.ID),
			Direction: string(m.Direction),
			Text:      m.Text,
			MediaURLs: media,
			CreatedAt: m.CreatedAt,
		})
	}
	return out
}

type demoMapSessionResponse struct {
	SimulationNotice string                 `json:"simulationNotice"`
	Token            *string                `json:"token"`
	UserID           *string                `json:"userId"`
	Role             *string                `json:"role"`
	UserProfile      *domain.LLMUserProfile `json:"userProfile"`
	PrimaryReport    any                    `json:"primaryReport"`
	PrimaryProject   any                    `json:"primaryProject"`
	MapCenter        *domain.GeoPoint       `json:"mapCenter"`
	MapData          any                    `json:"mapData"`
	Messages         []messagePayload       `json:"messages"`
}

// requireDemo rejects demo map endpoints outside demo mode and runs the
// lazy seeder. It reports whether the caller may proceed.
func (s *Server) requireDemo(w http.ResponseWriter, r *http.Request, what string) bool {
	if s.mode != domain.ModeDemo {
		http.Error(w, what+" is only available in demo mode", http.StatusBadRequest)
		return false
	}
	if err := s.seeder.SeedIfNeeded(r.Context()); err != nil {
		internalError(w, err)
		return false
	}
	return true
}

// resolveSession validates a map session token and writes the failure
// response itself: 404 for unknown tokens, 410 for expired ones.
func (s *Server) resolveSession(w http.ResponseWriter, r *http.Request, token string) *domain.DemoSession {
	session, err := s.demoMgr.ValidateSession(r.Context(), token)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrExpired):
			http.Error(w, "Demo session expired", http.StatusGone)
		case errors.Is(err, domain.ErrNotFound):
			http.Error(w, "Session not found", http.StatusNotFound)
		default:
			internalError(w, err)
		}
		return nil
	}
	return session
}

func findDemoReport(reports []*domain.DemoDamageReport, id domain.ReportID) *domain.DemoDamageReport {
	for _, r := range reports {
		if r.ID == id {
			return r
		}
	}
	return nil
}

func findProjectForReport(projects []*domain.DemoProject, reportID domain.ReportID) *domain.DemoProject {
	for _, p := range projects {
		if p.ReportID == reportID {
			return p
		}
	}
	return nil
}

// mapCenterFor picks the map center: the primary report's location when it
// has one, otherwise the first located report in the set.
func mapCenterFor(primary *domain.DemoDamageReport, all []*domain.DemoDamageReport) *domain.GeoPoint {
	if primary != nil && primary.Geo != nil {
		return primary.Geo
	}
	for _, r := range all {
		if r.Geo != nil {
			return r.Geo
		}
	}
	return nil
}

func (s *Server) handleDemoMapSession(w http.ResponseWriter, r *http.Request) {
	if !s.requireDemo(w, r, "Demo map session") {
		return
	}
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	ctx := r.Context()

	allReports, err := s.demoReports.ListDemoReports(ctx)
	if err != nil {
		internalError(w, err)
		return
	}
	allProjects, err := s.demoProjects.ListDemoProjects(ctx)
	if err != nil {
		internalError(w, err)
		return
	}

	token := r.URL.Query().Get("token")

	// Without a token this is the public demo entrypoint: an anonymous
	// Saraville view not bound to any user or role.
	if token == "" {
		primary := findDemoReport(allReports, demo.DefaultReportIDForRole(domain.RoleResident))
		if primary == nil {
			for _, candidate := range allReports {
				if candidate.Geo != nil {
					primary = candidate
					break
				}
			}
		}
		if primary == nil && len(allReports) > 0 {
			primary = allReports[0]
		}

		center := mapCenterFor(primary, allReports)
		if center == nil {
			center = &domain.GeoPoint{Lat: 29.5, Lng: -90.75}
		}

		resp := demoMapSessionResponse{
			SimulationNotice: simulationNotice,
			MapCenter:        center,
			MapData:          map[string]any{"reports": allReports},
			Messages:         []messagePayload{},
		}
		if primary != nil {
			resp.PrimaryReport = primary
			if project := findProjectForReport(allProjects, primary.ID); project != nil {
				resp.PrimaryProject = project
			}
		}
		writeJSON(w, http.StatusOK, resp)
		return
	}

	session := s.resolveSession(w, r, token)
	if session == nil {
		return
	}

	user, err := s.users.GetUserByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.Error(w, "User not found for session", http.StatusNotFound)
			return
		}
		internalError(w, err)
		return
	}

	history, err := s.messages.GetMessagesForUser(ctx, user.ID)
	if err != nil {
		internalError(w, err)
		return
	}
	roleInfo, err := s.demoMgr.RoleInfo(ctx, user.ID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		internalError(w, err)
		return
	}

	profile := users.ProjectForModel(user, nil, roleInfo, s.mode)

	primaryID := session.PrimaryReportID
	if primaryID == "" && roleInfo != nil {
		primaryID = roleInfo.PrimaryDemoReportID
	}
	primary := findDemoReport(allReports, primaryID)

	userID := string(user.ID)
	role := string(session.Role)
	resp := demoMapSessionResponse{
		SimulationNotice: simulationNotice,
		Token:            &token,
		UserID:           &userID,
		Role:             &role,
		UserProfile:      &profile,
		MapCenter:        mapCenterFor(primary, allReports),
		MapData:          roleMapPayload(session.Role, allReports, allProjects),
		Messages:         toMessagePayloads(history),
	}
	if primary != nil {
		resp.PrimaryReport = primary
		if project := findProjectForReport(allProjects, primary.ID); project != nil {
			resp.PrimaryProject = project
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// roleMapPayload is the role-scoped slice of the demo map: residents see
// aggregates, the city sees everything, contractors see their own jobs.
func roleMapPayload(role domain.DemoRole, reports []*domain.DemoDamageReport, projects []*domain.DemoProject) any {
	switch role {
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

		counts := make(map[string]int)
		for _, p := range projects {
			counts[p.ContractorID]++
		}
		type contractorCount struct {
			ContractorID string `json:"contractorId"`
			JobCount     int    `json:"jobCount"`
		}
		top := make([]contractorCount, 0, len(counts))
		for id, n := range counts {
			top = append(top, contractorCount{ContractorID: id, JobCount: n})
		}
		sort.Slice(top, func(i, j int) bool { return top[i].ContractorID < top[j].ContractorID })
		sort.SliceStable(top, func(i, j int) bool { return top[i].JobCount > top[j].JobCount })
		if len(top) > 5 {
			top = top[:5]
		}

		return map[string]any{
			"totals": map[string]int{
				"totalReports":    len(reports),
				"assignedCount":   assigned,
				"inProgressCount": inProgress,
				"completedCount":  completed,
			},
			"topContractors": top,
		}

	case domain.RoleCity:
		return map[string]any{"reports": reports}

	case domain.RoleContractor:
		own := make([]*domain.DemoProject, 0, len(projects))
		referenced := make(map[domain.ReportID]bool)
		for _, p := range projects {
			if p.ContractorID == demo.ContractorJohnSmithID {
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
		return map[string]any{"projects": own, "reports": ownReports}

	default:
		return map[string]any{"message": "No demo role set for this session."}
	}
}

type demoMapChatRequest struct {
	Token string `json:"token"`
	Text  string `json:"text"`
}

func (s *Server) handleDemoMapChat(w http.ResponseWriter, r *http.Request) {
	if !s.requireDemo(w, r, "Demo map chat") {
		return
	}
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var req demoMapChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Token) == "" || strings.TrimSpace(req.Text) == "" {
		badRequest(w, "token and text are required")
		return
	}

	session := s.resolveSession(w, r, req.Token)
	if session == nil {
		return
	}

	replyText, err := s.svc.ProcessForUser(r.Context(), session.UserID, req.Text)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.Error(w, "User not found for session", http.StatusNotFound)
			return
		}
		internalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{ReplyText: replyText})
}

func (s *Server) handleDemoReportDownload(w http.ResponseWriter, r *http.Request) {
	if !s.requireDemo(w, r, "Demo download") {
		return
	}
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	token := r.URL.Query().Get("token")
	reportID := r.URL.Query().Get("reportId")
	if token == "" || reportID == "" {
		http.Error(w, "token and reportId are required", http.StatusBadRequest)
		return
	}

	if s.resolveSession(w, r, token) == nil {
		return
	}

	report, err := s.demoReports.GetDemoReport(r.Context(), domain.ReportID(reportID))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.Error(w, "Report not found", http.StatusNotFound)
			return
		}
		internalError(w, err)
		return
	}

	payload := map[string]any{
		"demo":             true,
		"simulationNotice": "DEMO ONLY: This report is part of a fictional Hurricane Santa simulation in Saraville.",
		"report":           report,
	}
	body, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		internalError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="demo-report-`+url.PathEscape(string(report.ID))+`.json"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func (s *Server) handleDemoCityExport(w http.ResponseWriter, r *http.Request) {
	if !s.requireDemo(w, r, "Demo export") {
		return
	}
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "token is required", http.StatusBadRequest)
		return
	}

	session := s.resolveSession(w, r, token)
	if session == nil {
		return
	}
	if session.Role != domain.RoleCity {
		http.Error(w, "Only the city demo role can export aggregated reports", http.StatusForbidden)
		return
	}

	reports, err := s.demoReports.ListDemoReports(r.Context())
	if err != nil {
		internalError(w, err)
		return
	}

	// Every cell is JSON-string-encoded so commas and quotes inside values
	// stay safely quoted.
	lines := []string{
		"# DEMO ONLY: Fictional data for Hurricane Santa in Saraville",
		"report_id,resident_name,address,damage_type,status,assigned_contractor_id",
	}
	for _, report := range reports {
		cells := []string{
			string(report.ID),
			report.ResidentName,
			report.Address,
			report.DamageType,
			string(report.Status),
			report.AssignedContractorID,
		}
		quoted := make([]string, len(cells))
		for i, cell := range cells {
			b, _ := json.Marshal(cell)
			quoted[i] = string(b)
		}
		lines = append(lines, strings.Join(quoted, ","))
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="demo-city-export.csv"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(strings.Join(lines, "\n")))
}
