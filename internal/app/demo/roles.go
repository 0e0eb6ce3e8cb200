package demo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/saralabs/sara-agent/internal/domain"
	"github.com/saralabs/sara-agent/internal/observability"
)

// ContractorJohnSmithID is the single fictional contractor every demo
// project is assigned to.
const ContractorJohnSmithID = "contractor-john-smith"

type roleConfig struct {
	canonicalName       string
	primaryDemoReportID domain.ReportID
}

// Fixed persona table: each role maps to a canonical character in the
// Hurricane Santa scenario and the report anchoring their storyline.
var roleConfigs = map[domain.DemoRole]roleConfig{
	domain.RoleResident: {
		canonicalName:       "John Doe",
		primaryDemoReportID: "report-john-doe-home",
	},
	domain.RoleCity: {
		canonicalName:       "Jane Smith",
		primaryDemoReportID: "report-high-school-gym",
	},
	domain.RoleContractor: {
		canonicalName:       "John Smith",
		primaryDemoReportID: "report-john-doe-home",
	},
}

// DefaultReportIDForRole returns the role's anchor report id.
func DefaultReportIDForRole(role domain.DemoRole) domain.ReportID {
	return roleConfigs[role].primaryDemoReportID
}

// Manager owns persona assignment and demo map sessions.
type Manager struct {
	roles    domain.DemoRoleStore
	users    domain.UserStore
	sessions domain.DemoSessionStore

	siteURL  string
	now      func() time.Time
	newToken func() string
}

func NewManager(roles domain.DemoRoleStore, users domain.UserStore, sessions domain.DemoSessionStore, siteURL string) *Manager {
	return &Manager{
		roles:    roles,
		users:    users,
		sessions: sessions,
		siteURL:  siteURL,
		now:      time.Now,
		newToken: uuid.NewString,
	}
}

// RoleInfo returns the user's persona binding, or ErrNotFound if the user
// has not picked one yet.
func (m *Manager) RoleInfo(ctx context.Context, userID domain.UserID) (*domain.DemoRoleInfo, error) {
	return m.roles.GetDemoRole(ctx, userID)
}

// AssignRole binds the user to a persona and mirrors the persona fields
// onto the user profile, so LLM contexts built without a role lookup still
// see them.
func (m *Manager) AssignRole(ctx context.Context, userID domain.UserID, role domain.DemoRole) (*domain.DemoRoleInfo, error) {
	cfg, ok := roleConfigs[role]
	if !ok {
		return nil, fmt.Errorf("unknown demo role %q", role)
	}

	info := &domain.DemoRoleInfo{
		UserID:              userID,
		Role:                role,
		CanonicalName:       cfg.canonicalName,
		PrimaryDemoReportID: cfg.primaryDemoReportID,
	}
	if err := m.roles.SaveDemoRole(ctx, info); err != nil {
		return nil, fmt.Errorf("saving demo role: %w", err)
	}

	if err := m.mirrorRole(ctx, userID, role, cfg.canonicalName); err != nil {
		return nil, err
	}

	observability.LoggerFromContext(ctx).Info("assigned demo role",
		"user_id", userID,
		"role", role,
	)
	return info, nil
}

// ClearRole deletes the persona binding and unmirrors the profile fields.
func (m *Manager) ClearRole(ctx context.Context, userID domain.UserID) error {
	if err := m.roles.DeleteDemoRole(ctx, userID); err != nil {
		return fmt.Errorf("deleting demo role: %w", err)
	}
	return m.mirrorRole(ctx, userID, "", "")
}

func (m *Manager) mirrorRole(ctx context.Context, userID domain.UserID, role domain.DemoRole, canonicalName string) error {
	user, err := m.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Role tools can run before any profile write in odd test
			// setups; nothing to mirror onto.
			return nil
		}
		return fmt.Errorf("loading user for role mirror: %w", err)
	}

	user.DemoRole = role
	user.DemoCanonicalName = canonicalName
	user.UpdatedAt = m.now()
	if err := m.users.UpsertUser(ctx, user); err != nil {
		return fmt.Errorf("mirroring demo role onto user: %w", err)
	}
	return nil
}
