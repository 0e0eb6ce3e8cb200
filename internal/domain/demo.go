package domain

// GeoPoint is a latitude/longitude pair used to place demo reports on the
// map view.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// DemoReportStatus extends the live report lifecycle with in_progress,
// which only exists for the fictional demo data.
type DemoReportStatus string

const (
	DemoReportPending    DemoReportStatus = "pending"
	DemoReportInProgress DemoReportStatus = "in_progress"
	DemoReportCompleted  DemoReportStatus = "completed"
	DemoReportResolved   DemoReportStatus = "resolved"
)

// DemoDamageReport is a shared, fictional damage report. Demo reports are
// global (not scoped to a user) and are seeded exactly once per deployment.
type DemoDamageReport struct {
	ID                   ReportID         `json:"id"`
	ResidentName         string           `json:"residentName"`
	Address              string           `json:"address"`
	Geo                  *GeoPoint        `json:"geo,omitempty"`
	DamageType           string           `json:"damageType"`
	InsuranceInfo        string           `json:"insuranceInfo,omitempty"`
	HelpRequested        string           `json:"helpRequested,omitempty"`
	Status               DemoReportStatus `json:"status"`
	AssignedContractorID string           `json:"assignedContractorId,omitempty"`
	CreatedAt            Timestamp        `json:"createdAt"`
	UpdatedAt            Timestamp        `json:"updatedAt"`
	IsDemo               bool             `json:"isDemo"`
}

// ProjectStatus is the lifecycle of a contractor's demo job.
type ProjectStatus string

const (
	ProjectBid        ProjectStatus = "bid"
	ProjectInProgress ProjectStatus = "in_progress"
	ProjectCompleted  ProjectStatus = "completed"
)

// DemoProject is a contractor job tied to a demo report.
type DemoProject struct {
	ID           string        `json:"id"`
	ContractorID string        `json:"contractorId"`
	ReportID     ReportID      `json:"reportId"`
	Status       ProjectStatus `json:"status"`
	Notes        string        `json:"notes,omitempty"`
	CreatedAt    Timestamp     `json:"createdAt"`
	UpdatedAt    Timestamp     `json:"updatedAt"`
	IsDemo       bool          `json:"isDemo"`
}

// DemoRoleInfo binds a user to one simulated persona. It is overwritten on
// role change and deleted when the role is cleared.
type DemoRoleInfo struct {
	UserID              UserID
	Role                DemoRole
	CanonicalName       string
	PrimaryDemoReportID ReportID
}

// DemoSession is a capability granting a scoped map/chat view. Read-only
// after creation; it expires implicitly.
type DemoSession struct {
	Token           string
	UserID          UserID
	Role            DemoRole
	PrimaryReportID ReportID
	CreatedAt       Timestamp
	ExpiresAt       Timestamp
}

// DemoAreaStats is a seeded aggregate for one neighborhood of the
// fictional town.
type DemoAreaStats struct {
	ID              string
	Name            string
	TotalReports    int
	AssignedCount   int
	InProgressCount int
	CompletedCount  int
}

// DemoContractorStats is a seeded aggregate for one fictional contractor.
type DemoContractorStats struct {
	ContractorID          string
	ContractorName        string
	TotalJobs             int
	CompletedJobs         int
	PositiveFeedbackCount int
}
