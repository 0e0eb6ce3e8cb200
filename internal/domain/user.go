package domain

// UserProfile is the durable identity behind a (channel, channel user id)
// pair. It is created lazily on first contact and never deleted.
type UserProfile struct {
	ID            UserID
	Channel       Channel
	ChannelUserID string
	Name          string

	// Demo persona fields mirrored from the role record so the LLM context
	// can include them without a separate role lookup.
	DemoRole          DemoRole
	DemoCanonicalName string

	CreatedAt Timestamp
	UpdatedAt Timestamp
}

// ReportSummary is the reduced per-report view embedded in the LLM profile.
type ReportSummary struct {
	ID      ReportID `json:"id"`
	Status  string   `json:"status"`
	Address string   `json:"address,omitempty"`
}

// LLMUserProfile is the projection of a user that the model is allowed to
// see. The report summary is recomputed from the current report set on
// every turn, never cached on the user record.
type LLMUserProfile struct {
	ID      UserID  `json:"id"`
	Name    string  `json:"name,omitempty"`
	Channel Channel `json:"channel"`

	Reports []ReportSummary `json:"reportIdsWithStatus"`

	Mode                Mode     `json:"mode,omitempty"`
	DemoRole            DemoRole `json:"demoRole,omitempty"`
	DemoCanonicalName   string   `json:"demoCanonicalName,omitempty"`
	PrimaryDemoReportID string   `json:"primaryDemoReportId,omitempty"`
}
