package domain

import "time"

type UserID string
type MessageID string
type ReportID string

// Channel identifies where an inbound message came from.
type Channel string

const (
	ChannelWeb       Channel = "web"
	ChannelMessenger Channel = "messenger"
)

// Direction distinguishes user turns from assistant turns in the history.
type Direction string

const (
	DirectionUser      Direction = "user"
	DirectionAssistant Direction = "assistant"
)

// Mode is Sara's operating mode. Demo mode works only with fictional,
// pre-seeded disaster data; live mode works with real user reports.
type Mode string

const (
	ModeDemo Mode = "demo"
	ModeLive Mode = "live"
)

// DemoRole is one of the three fixed demo personas.
type DemoRole string

const (
	RoleResident   DemoRole = "resident"
	RoleCity       DemoRole = "city"
	RoleContractor DemoRole = "contractor"
)

type Timestamp = time.Time
