package demo

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/saralabs/sara-agent/internal/domain"
)

// SessionLink is the result of issuing a demo map session: a shareable URL
// plus the raw token and its expiry.
type SessionLink struct {
	URL       string
	Token     string
	ExpiresAt time.Time
	Role      domain.DemoRole
}

// IssueSessionLink creates an expiring map session scoped to the user's
// current persona. The user must have picked a role first.
func (m *Manager) IssueSessionLink(ctx context.Context, userID domain.UserID, ttlHours float64) (*SessionLink, error) {
	info, err := m.roles.GetDemoRole(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNoRoleAssigned
		}
		return nil, fmt.Errorf("loading demo role: %w", err)
	}

	if ttlHours <= 0 {
		ttlHours = 1
	}

	now := m.now()
	session := &domain.DemoSession{
		Token:           m.newToken(),
		UserID:          userID,
		Role:            info.Role,
		PrimaryReportID: info.PrimaryDemoReportID,
		CreatedAt:       now,
		ExpiresAt:       now.Add(time.Duration(ttlHours * float64(time.Hour))),
	}
	if err := m.sessions.SaveDemoSession(ctx, session); err != nil {
		return nil, fmt.Errorf("saving demo session: %w", err)
	}

	return &SessionLink{
		URL:       m.siteURL + "/demo-map?token=" + url.QueryEscape(session.Token),
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		Role:      session.Role,
	}, nil
}

// ValidateSession resolves a presented token. Unknown tokens fail with
// ErrNotFound; tokens at or past their expiry instant fail with ErrExpired.
func (m *Manager) ValidateSession(ctx context.Context, token string) (*domain.DemoSession, error) {
	session, err := m.sessions.GetDemoSession(ctx, token)
	if err != nil {
		return nil, err
	}
	if domain.TokenExpired(session.ExpiresAt, m.now()) {
		return nil, domain.ErrExpired
	}
	return session, nil
}
