package httpadapter

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/saralabs/sara-agent/internal/app/conversation"
	"github.com/saralabs/sara-agent/internal/app/demo"
	"github.com/saralabs/sara-agent/internal/domain"
)

// MessageSender delivers outbound replies on the Messenger channel.
type MessageSender interface {
	SendText(ctx context.Context, recipientID, text string) error
}

// simulationNotice is attached to every demo map payload so no consumer
// can mistake the fictional data for a real reporting channel.
const simulationNotice = "This is a DEMO simulation of Hurricane Santa in the fictional town of Saraville. It is not an official damage reporting channel."

type Server struct {
	svc          *conversation.Service
	demoMgr      *demo.Manager
	seeder       *demo.Seeder
	users        domain.UserStore
	messages     domain.MessageStore
	demoReports  domain.DemoReportStore
	demoProjects domain.DemoProjectStore
	sender       MessageSender

	mode        domain.Mode
	verifyToken string
}

func NewServer(
	svc *conversation.Service,
	demoMgr *demo.Manager,
	seeder *demo.Seeder,
	users domain.UserStore,
	messages domain.MessageStore,
	demoReports domain.DemoReportStore,
	demoProjects domain.DemoProjectStore,
	sender MessageSender,
	mode domain.Mode,
	verifyToken string,
) http.Handler {
	s := &Server{
		svc:          svc,
		demoMgr:      demoMgr,
		seeder:       seeder,
		users:        users,
		messages:     messages,
		demoReports:  demoReports,
		demoProjects: demoProjects,
		sender:       sender,
		mode:         mode,
		verifyToken:  verifyToken,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealthz)
	mux.HandleFunc("/api/chat", s.handleWebChat)
	mux.HandleFunc("/webhooks/messenger", s.handleMessengerWebhook)
	mux.HandleFunc("/api/demo-map/session", s.handleDemoMapSession)
	mux.HandleFunc("/api/demo-map/chat", s.handleDemoMapChat)
	mux.HandleFunc("/api/demo-map/report", s.handleDemoReportDownload)
	mux.HandleFunc("/api/demo-map/export", s.handleDemoCityExport)

	return chainMiddlewares(mux, withCORS, withLogging, withRequestID)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ─────────────────────────────────────────────
// HTTP Helpers
// ─────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{
		"error": msg,
	})
}

func internalError(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusInternalServerError, map[string]string{
		"error": "internal server error",
	})
}

func methodNotAllowed(w http.ResponseWriter) {
	writeJSON(w, http.StatusMethodNotAllowed, map[string]string{
		"error": "method not allowed",
	})
}
