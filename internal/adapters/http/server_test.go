package httpadapter_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpadapter "github.com/saralabs/sara-agent/internal/adapters/http"
	"github.com/saralabs/sara-agent/internal/adapters/llm"
	"github.com/saralabs/sara-agent/internal/adapters/storage/memory"
	"github.com/saralabs/sara-agent/internal/app/conversation"
	"github.com/saralabs/sara-agent/internal/app/demo"
	"github.com/saralabs/sara-agent/internal/app/tools"
	"github.com/saralabs/sara-agent/internal/app/users"
	"github.com/saralabs/sara-agent/internal/domain"
)

type sentMessage struct {
	RecipientID string
	Text        string
}

type stubSender struct {
	sent []sentMessage
}

func (s *stubSender) SendText(ctx context.Context, recipientID, text string) error {
	s.sent = append(s.sent, sentMessage{RecipientID: recipientID, Text: text})
	return nil
}

type serverFixture struct {
	handler   http.Handler
	mock      *llm.Mock
	users     *memory.UserStore
	demoStore *memory.DemoStore
	mgr       *demo.Manager
	sender    *stubSender
}

func newServerFixture(t *testing.T, mode domain.Mode) *serverFixture {
	t.Helper()

	mock := llm.NewMock()
	userStore := memory.NewUserStore()
	messageStore := memory.NewMessageStore()
	reportStore := memory.NewReportStore()
	demoStore := memory.NewDemoStore()

	mgr := demo.NewManager(demoStore, userStore, demoStore, "https://sara.example.com")
	seeder := demo.NewSeeder(demoStore, demoStore, demoStore, demoStore, mode)
	dispatcher := tools.NewDispatcher(reportStore, reportStore, demoStore, demoStore, mgr, "https://sara.example.com")
	orchestrator := conversation.NewOrchestrator(mock, dispatcher)
	resolver := users.NewResolver(userStore)
	svc := conversation.NewService(resolver, userStore, messageStore, reportStore, mgr, orchestrator, mode)

	sender := &stubSender{}
	handler := httpadapter.NewServer(
		svc, mgr, seeder,
		userStore, messageStore, demoStore, demoStore,
		sender, mode, "verify-secret",
	)

	return &serverFixture{
		handler:   handler,
		mock:      mock,
		users:     userStore,
		demoStore: demoStore,
		mgr:       mgr,
		sender:    sender,
	}
}

func (f *serverFixture) do(method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	w := httptest.NewRecorder()
	f.handler.ServeHTTP(w, req)
	return w
}

// session assigns the given role and returns a valid session token.
func (f *serverFixture) session(t *testing.T, userID string, role domain.DemoRole) string {
	t.Helper()
	ctx := context.Background()
	_, err := f.mgr.AssignRole(ctx, domain.UserID(userID), role)
	require.NoError(t, err)
	link, err := f.mgr.IssueSessionLink(ctx, domain.UserID(userID), 1)
	require.NoError(t, err)
	return link.Token
}

func TestHealthz(t *testing.T) {
	f := newServerFixture(t, domain.ModeDemo)
	w := f.do(http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCORSPreflight(t *testing.T) {
	f := newServerFixture(t, domain.ModeDemo)
	w := f.do(http.MethodOptions, "/api/chat", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestWebChatEndToEnd(t *testing.T) {
	f := newServerFixture(t, domain.ModeDemo)
	f.mock.Enqueue(&domain.Completion{Text: "Hello from Sara."})

	w := f.do(http.MethodPost, "/api/chat", `{"sessionId":"s1","text":"hello"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		ReplyText string `json:"replyText"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Hello from Sara.", resp.ReplyText)

	user, err := f.users.GetUserByID(context.Background(), "web-s1")
	require.NoError(t, err)
	assert.Equal(t, domain.ChannelWeb, user.Channel)
}

func TestWebChatValidation(t *testing.T) {
	f := newServerFixture(t, domain.ModeDemo)

	w := f.do(http.MethodPost, "/api/chat", `{"text":"hello"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(http.MethodPost, "/api/chat", `not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(http.MethodGet, "/api/chat", "")
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestMessengerVerifyHandshake(t *testing.T) {
	f := newServerFixture(t, domain.ModeDemo)

	w := f.do(http.MethodGet, "/webhooks/messenger?hub.mode=subscribe&hub.verify_token=verify-secret&hub.challenge=12345", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "12345", w.Body.String())

	w = f.do(http.MethodGet, "/webhooks/messenger?hub.mode=subscribe&hub.verify_token=wrong&hub.challenge=12345", "")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestMessengerEventDelivery(t *testing.T) {
	f := newServerFixture(t, domain.ModeDemo)
	f.mock.Enqueue(&domain.Completion{Text: "Got your photo."})

	body := `{"entry":[{"messaging":[{"sender":{"id":"fb-123"},"timestamp":1756400000000,` +
		`"message":{"text":"roof damage","attachments":[{"type":"image","payload":{"url":"https://cdn.example.com/1.jpg"}}]}}]}]}`
	w := f.do(http.MethodPost, "/webhooks/messenger", body)
	require.Equal(t, http.StatusOK, w.Code)

	require.Len(t, f.sender.sent, 1)
	assert.Equal(t, "fb-123", f.sender.sent[0].RecipientID)
	assert.Equal(t, "Got your photo.", f.sender.sent[0].Text)

	_, err := f.users.GetUserByID(context.Background(), "messenger-fb-123")
	require.NoError(t, err)
}

func TestMessengerEventWithoutUsableContent(t *testing.T) {
	f := newServerFixture(t, domain.ModeDemo)

	w := f.do(http.MethodPost, "/webhooks/messenger", `{"entry":[{"messaging":[{"sender":{"id":"fb-123"},"message":{}}]}]}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "No usable message", w.Body.String())
	assert.Empty(t, f.sender.sent)
}

func TestDemoMapSessionWithoutToken(t *testing.T) {
	f := newServerFixture(t, domain.ModeDemo)

	w := f.do(http.MethodGet, "/api/demo-map/session", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		SimulationNotice string `json:"simulationNotice"`
		Role             *string
		MapCenter        struct {
			Lat float64 `json:"lat"`
			Lng float64 `json:"lng"`
		} `json:"mapCenter"`
		PrimaryReport map[string]any `json:"primaryReport"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.SimulationNotice, "DEMO simulation")
	assert.Nil(t, resp.Role)
	assert.InDelta(t, 29.501, resp.MapCenter.Lat, 1e-9, "center must come from the canonical report")
	assert.InDelta(t, -90.751, resp.MapCenter.Lng, 1e-9)
	assert.Equal(t, "report-john-doe-home", resp.PrimaryReport["id"])
}

func TestDemoMapSessionTokenErrors(t *testing.T) {
	f := newServerFixture(t, domain.ModeDemo)

	w := f.do(http.MethodGet, "/api/demo-map/session?token=nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	expired := &domain.DemoSession{
		Token:     "expired-token",
		UserID:    "web-s1",
		Role:      domain.RoleCity,
		CreatedAt: time.Now().Add(-2 * time.Hour),
		ExpiresAt: time.Now().Add(-time.Hour),
	}
	require.NoError(t, f.demoStore.SaveDemoSession(context.Background(), expired))

	w = f.do(http.MethodGet, "/api/demo-map/session?token=expired-token", "")
	assert.Equal(t, http.StatusGone, w.Code)
}

func TestDemoMapSessionRoleScoped(t *testing.T) {
	f := newServerFixture(t, domain.ModeDemo)
	require.NoError(t, f.users.UpsertUser(context.Background(), &domain.UserProfile{
		ID:            "web-con",
		Channel:       domain.ChannelWeb,
		ChannelUserID: "con",
	}))
	token := f.session(t, "web-con", domain.RoleContractor)

	w := f.do(http.MethodGet, "/api/demo-map/session?token="+token, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Role    *string `json:"role"`
		MapData struct {
			Projects []map[string]any `json:"projects"`
			Reports  []map[string]any `json:"reports"`
		} `json:"mapData"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Role)
	assert.Equal(t, "contractor", *resp.Role)
	assert.Len(t, resp.MapData.Projects, 3)
	assert.Len(t, resp.MapData.Reports, 3)
}

func TestDemoMapChat(t *testing.T) {
	f := newServerFixture(t, domain.ModeDemo)
	require.NoError(t, f.users.UpsertUser(context.Background(), &domain.UserProfile{
		ID:            "web-s1",
		Channel:       domain.ChannelWeb,
		ChannelUserID: "s1",
	}))
	token := f.session(t, "web-s1", domain.RoleResident)
	f.mock.Enqueue(&domain.Completion{Text: "You are John Doe in the demo."})

	w := f.do(http.MethodPost, "/api/demo-map/chat", `{"token":"`+token+`","text":"who am I?"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		ReplyText string `json:"replyText"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "You are John Doe in the demo.", resp.ReplyText)

	w = f.do(http.MethodPost, "/api/demo-map/chat", `{"token":"`+token+`"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDemoReportDownload(t *testing.T) {
	f := newServerFixture(t, domain.ModeDemo)
	token := f.session(t, "web-s1", domain.RoleResident)

	w := f.do(http.MethodGet, "/api/demo-map/report?token="+token+"&reportId=report-john-doe-home", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")

	var payload struct {
		Demo   bool           `json:"demo"`
		Report map[string]any `json:"report"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	assert.True(t, payload.Demo)
	assert.Equal(t, "report-john-doe-home", payload.Report["id"])

	w = f.do(http.MethodGet, "/api/demo-map/report?token="+token+"&reportId=no-such-report", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = f.do(http.MethodGet, "/api/demo-map/report?token="+token, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCityExportRequiresCityRole(t *testing.T) {
	f := newServerFixture(t, domain.ModeDemo)

	residentToken := f.session(t, "web-s1", domain.RoleResident)
	w := f.do(http.MethodGet, "/api/demo-map/export?token="+residentToken, "")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.NotContains(t, w.Body.String(), "report_id", "no CSV body on authorization failure")

	cityToken := f.session(t, "web-city", domain.RoleCity)
	w = f.do(http.MethodGet, "/api/demo-map/export?token="+cityToken, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))

	lines := strings.Split(w.Body.String(), "\n")
	require.GreaterOrEqual(t, len(lines), 5)
	assert.True(t, strings.HasPrefix(lines[0], "# DEMO ONLY"))
	assert.Equal(t, "report_id,resident_name,address,damage_type,status,assigned_contractor_id", lines[1])
	assert.Contains(t, lines[2], `"report-`)
}

func TestDemoEndpointsRejectLiveMode(t *testing.T) {
	f := newServerFixture(t, domain.ModeLive)

	for _, target := range []string{
		"/api/demo-map/session",
		"/api/demo-map/report?token=x&reportId=y",
		"/api/demo-map/export?token=x",
	} {
		w := f.do(http.MethodGet, target, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, target)
	}

	w := f.do(http.MethodPost, "/api/demo-map/chat", `{"token":"x","text":"hi"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
