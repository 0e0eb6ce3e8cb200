package domain

import "time"

// ReportStatus is the lifecycle status of a live damage report.
type ReportStatus string

const (
	ReportPending   ReportStatus = "pending"
	ReportCompleted ReportStatus = "completed"
	ReportResolved  ReportStatus = "resolved"
)

// DamageReport is a user's tracked damage claim. The owning user id never
// changes once the report is created.
type DamageReport struct {
	ID        ReportID
	UserID    UserID
	Address   string
	Status    ReportStatus
	PhotoURLs []string
	Latitude  *float64
	Longitude *float64
	CreatedAt Timestamp
	UpdatedAt Timestamp
}

// ReportToken grants time-limited, possession-based read access to one
// report. It is never explicitly deleted; it simply expires.
type ReportToken struct {
	ReportID  ReportID
	Token     string
	ExpiresAt Timestamp
	CreatedAt Timestamp
}

// TokenExpired is the single expiry check used everywhere a token or
// session is validated. The boundary instant counts as expired: a token is
// valid only while now < expiresAt.
func TokenExpired(expiresAt, now time.Time) bool {
	return !now.Before(expiresAt)
}
