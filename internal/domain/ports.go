package domain

import "context"

// ChatRole tags one message sent to the completion endpoint.
type ChatRole string

const (
	ChatRoleSystem    ChatRole = "system"
	ChatRoleUser      ChatRole = "user"
	ChatRoleAssistant ChatRole = "assistant"
)

// ChatMessage is one role-tagged message in a completion request.
type ChatMessage struct {
	Role    ChatRole
	Content string
}

// ToolDefinition describes one callable tool advertised to the model.
// Parameters is a JSON-schema object.
type ToolDefinition struct {
	Name        string
	Description string
	Parameters  map[string]any
}

// ToolCall is a tool invocation the model requested: a name plus a
// JSON-encoded argument string.
type ToolCall struct {
	ID        string
	Name      string
	Arguments string
}

// Completion is one response from the completion endpoint: assistant text
// plus zero or more requested tool calls.
type Completion struct {
	Text      string
	ToolCalls []ToolCall
}

// LLMClient defines how the core application talks to the hosted
// completion endpoint.
type LLMClient interface {
	Complete(ctx context.Context, messages []ChatMessage, tools []ToolDefinition) (*Completion, error)
}

// UserStore persists user profiles, keyed by (channel, channel user id).
type UserStore interface {
	GetUserByChannelID(ctx context.Context, channel Channel, channelUserID string) (*UserProfile, error)
	GetUserByID(ctx context.Context, id UserID) (*UserProfile, error)
	UpsertUser(ctx context.Context, user *UserProfile) error
}

// MessageStore persists the append-only per-user conversation log.
type MessageStore interface {
	GetMessagesForUser(ctx context.Context, userID UserID) ([]*Message, error)
	AppendMessages(ctx context.Context, userID UserID, msgs []*Message) error
}

// ReportStore persists live damage reports, keyed by (user id, report id).
type ReportStore interface {
	GetUserReports(ctx context.Context, userID UserID) ([]*DamageReport, error)
	GetReportByID(ctx context.Context, userID UserID, reportID ReportID) (*DamageReport, error)
	SaveReport(ctx context.Context, report *DamageReport) error
	DeleteReport(ctx context.Context, userID UserID, reportID ReportID) error
}

// ReportTokenStore persists time-limited report view tokens.
type ReportTokenStore interface {
	SaveReportToken(ctx context.Context, token *ReportToken) error
	GetReportToken(ctx context.Context, reportID ReportID, token string) (*ReportToken, error)
}

// DemoReportStore persists the shared fictional damage reports.
type DemoReportStore interface {
	ListDemoReports(ctx context.Context) ([]*DemoDamageReport, error)
	GetDemoReport(ctx context.Context, id ReportID) (*DemoDamageReport, error)
	SaveDemoReport(ctx context.Context, report *DemoDamageReport) error
}

// DemoProjectStore persists contractor demo projects.
type DemoProjectStore interface {
	ListDemoProjects(ctx context.Context) ([]*DemoProject, error)
	GetDemoProject(ctx context.Context, id string) (*DemoProject, error)
	SaveDemoProject(ctx context.Context, project *DemoProject) error
}

// DemoRoleStore persists the per-user persona binding.
type DemoRoleStore interface {
	GetDemoRole(ctx context.Context, userID UserID) (*DemoRoleInfo, error)
	SaveDemoRole(ctx context.Context, info *DemoRoleInfo) error
	DeleteDemoRole(ctx context.Context, userID UserID) error
}

// DemoSessionStore persists map/chat session tokens.
type DemoSessionStore interface {
	GetDemoSession(ctx context.Context, token string) (*DemoSession, error)
	SaveDemoSession(ctx context.Context, session *DemoSession) error
}

// DemoStatsStore persists the seeded aggregate batches.
type DemoStatsStore interface {
	SaveDemoAreaStats(ctx context.Context, stats []*DemoAreaStats) error
	SaveDemoContractorStats(ctx context.Context, stats []*DemoContractorStats) error
}

// SeedMarkerStore persists the once-only demo seeding marker.
type SeedMarkerStore interface {
	GetSeedMarker(ctx context.Context) (bool, error)
	SetSeedMarker(ctx context.Context, mode Mode) error
}
