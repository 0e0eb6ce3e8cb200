package tools

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Tool arguments arrive as JSON-encoded strings emitted by the model. Each
// tool has an explicit parameter struct, decoded strictly: unknown fields
// are rejected rather than silently ignored.
func decodeArgs(raw string, into any) error {
	if strings.TrimSpace(raw) == "" {
		raw = "{}"
	}
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(into); err != nil {
		return fmt.Errorf("invalid tool arguments: %w", err)
	}
	return nil
}

type startDamageReportArgs struct {
	Address string `json:"address"`
}

type updateDamageReportSectionArgs struct {
	ReportID  string    `json:"reportId"`
	Address   *string   `json:"address,omitempty"`
	Status    *string   `json:"status,omitempty"`
	PhotoURLs *[]string `json:"photoUrls,omitempty"`
}

type reportIDArgs struct {
	ReportID string `json:"reportId"`
}

type updateReportAddressArgs struct {
	ReportID string `json:"reportId"`
	Address  string `json:"address"`
}

type updateReportPhotosArgs struct {
	ReportID  string   `json:"reportId"`
	PhotoURLs []string `json:"photoUrls"`
}

type createReportLinkArgs struct {
	ReportID string   `json:"reportId"`
	TTLHours *float64 `json:"ttlHours,omitempty"`
}

type setDemoRoleArgs struct {
	Role string `json:"role"`
}

type updateDemoReportFieldsArgs struct {
	ReportID      string  `json:"reportId"`
	Address       *string `json:"address,omitempty"`
	DamageType    *string `json:"damageType,omitempty"`
	InsuranceInfo *string `json:"insuranceInfo,omitempty"`
	HelpRequested *string `json:"helpRequested,omitempty"`
}

type updateDemoProjectStatusArgs struct {
	ProjectID string  `json:"projectId"`
	Status    string  `json:"status"`
	Note      *string `json:"note,omitempty"`
}

type listDemoReportsForCityArgs struct {
	Status    string `json:"status"`
	AreaQuery string `json:"areaQuery,omitempty"`
}

type viewportArgs struct {
	CenterLat float64 `json:"centerLat"`
	CenterLng float64 `json:"centerLng"`
	RadiusKm  float64 `json:"radiusKm"`
}

type demoMapSummaryArgs struct {
	Viewport viewportArgs `json:"viewport"`
	AreaID   string       `json:"areaId,omitempty"`
}

type contractorStatsArgs struct {
	LookbackDays float64 `json:"lookbackDays"`
}

type sessionLinkArgs struct {
	TTLHours *float64 `json:"ttlHours,omitempty"`
}
