package tools

import "github.com/saralabs/sara-agent/internal/domain"

func objectSchema(props map[string]any, required ...string) map[string]any {
	schema := map[string]any{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

// Catalogue is the fixed set of tools advertised to the completion
// endpoint on every turn. The dispatcher rejects anything outside it.
func Catalogue() []domain.ToolDefinition {
	return []domain.ToolDefinition{
		{
			Name:        "start_damage_report",
			Description: "Start a new damage report for the current user.",
			Parameters: objectSchema(map[string]any{
				"address": map[string]any{"type": "string", "description": "Street address for the damage location."},
			}, "address"),
		},
		{
			Name:        "update_damage_report_section",
			Description: "Update one logical section of an existing damage report.",
			Parameters: objectSchema(map[string]any{
				"reportId": map[string]any{"type": "string"},
				"address":  map[string]any{"type": "string"},
				"status":   map[string]any{"type": "string", "enum": []string{"pending", "completed", "resolved"}},
				"photoUrls": map[string]any{
					"type":        "array",
					"items":       map[string]any{"type": "string"},
					"description": "Full replacement list of photo URLs.",
				},
			}, "reportId"),
		},
		{
			Name:        "get_report_details",
			Description: "Fetch details for a specific damage report.",
			Parameters: objectSchema(map[string]any{
				"reportId": map[string]any{"type": "string"},
			}, "reportId"),
		},
		{
			Name:        "list_user_reports",
			Description: "List all damage reports for the current user.",
			Parameters:  objectSchema(map[string]any{}),
		},
		{
			Name:        "update_report_address",
			Description: "Update the address on a specific damage report.",
			Parameters: objectSchema(map[string]any{
				"reportId": map[string]any{"type": "string"},
				"address":  map[string]any{"type": "string"},
			}, "reportId", "address"),
		},
		{
			Name:        "update_report_photos",
			Description: "Add or replace photo URLs on a damage report.",
			Parameters: objectSchema(map[string]any{
				"reportId":  map[string]any{"type": "string"},
				"photoUrls": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			}, "reportId", "photoUrls"),
		},
		{
			Name:        "delete_report",
			Description: "Delete a pending report after the user explicitly confirms this is what they want.",
			Parameters: objectSchema(map[string]any{
				"reportId": map[string]any{"type": "string"},
			}, "reportId"),
		},
		{
			Name:        "mark_report_resolved",
			Description: "Mark a report as resolved when downstream work is complete.",
			Parameters: objectSchema(map[string]any{
				"reportId": map[string]any{"type": "string"},
			}, "reportId"),
		},
		{
			Name:        "create_time_limited_report_link",
			Description: "Create a time-limited link to view a specific report.",
			Parameters: objectSchema(map[string]any{
				"reportId": map[string]any{"type": "string"},
				"ttlHours": map[string]any{"type": "number", "description": "Time to live in hours for the link (defaults to 24 if omitted)."},
			}, "reportId"),
		},
		{
			Name:        "set_demo_role",
			Description: "Bind the current demo user to one of the fixed personas: resident, city, or contractor.",
			Parameters: objectSchema(map[string]any{
				"role": map[string]any{"type": "string", "enum": []string{"resident", "city", "contractor"}},
			}, "role"),
		},
		{
			Name:        "get_demo_overview_for_current_role",
			Description: "Describe the current demo persona and their Hurricane Santa storyline.",
			Parameters:  objectSchema(map[string]any{}),
		},
		{
			Name:        "get_demo_report_for_current_role",
			Description: "Fetch the demo report anchoring the current persona, with any linked contractor project.",
			Parameters:  objectSchema(map[string]any{}),
		},
		{
			Name:        "update_demo_report_fields",
			Description: "Update descriptive fields on a shared demo damage report.",
			Parameters: objectSchema(map[string]any{
				"reportId":      map[string]any{"type": "string"},
				"address":       map[string]any{"type": "string"},
				"damageType":    map[string]any{"type": "string"},
				"insuranceInfo": map[string]any{"type": "string"},
				"helpRequested": map[string]any{"type": "string"},
			}, "reportId"),
		},
		{
			Name:        "update_demo_project_status",
			Description: "Move a contractor demo project through bid, in_progress, or completed.",
			Parameters: objectSchema(map[string]any{
				"projectId": map[string]any{"type": "string"},
				"status":    map[string]any{"type": "string", "enum": []string{"bid", "in_progress", "completed"}},
				"note":      map[string]any{"type": "string"},
			}, "projectId", "status"),
		},
		{
			Name:        "list_demo_reports_for_city",
			Description: "List demo reports citywide, filtered by assignment status. City persona only.",
			Parameters: objectSchema(map[string]any{
				"status":    map[string]any{"type": "string", "enum": []string{"unassigned", "assigned", "completed", "any"}},
				"areaQuery": map[string]any{"type": "string"},
			}, "status"),
		},
		{
			Name:        "get_demo_map_summary",
			Description: "Summarize demo map data for the current persona within a viewport.",
			Parameters: objectSchema(map[string]any{
				"viewport": objectSchema(map[string]any{
					"centerLat": map[string]any{"type": "number"},
					"centerLng": map[string]any{"type": "number"},
					"radiusKm":  map[string]any{"type": "number"},
				}, "centerLat", "centerLng", "radiusKm"),
				"areaId": map[string]any{"type": "string"},
			}, "viewport"),
		},
		{
			Name:        "get_demo_stats_for_contractor",
			Description: "Aggregate job stats for the contractor persona.",
			Parameters: objectSchema(map[string]any{
				"lookbackDays": map[string]any{"type": "number"},
			}, "lookbackDays"),
		},
		{
			Name:        "create_demo_map_session_link",
			Description: "Create a time-limited link to the role-scoped demo map view.",
			Parameters: objectSchema(map[string]any{
				"ttlHours": map[string]any{"type": "number", "description": "Time to live in hours (defaults to 1 if omitted)."},
			}),
		},
	}
}
