package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/saralabs/sara-agent/internal/domain"
	"github.com/saralabs/sara-agent/internal/observability"
)

// Resolver maps a (channel, channel user id) pair to a durable user
// profile, creating one on first contact.
type Resolver struct {
	users domain.UserStore
	now   func() time.Time
}

func NewResolver(users domain.UserStore) *Resolver {
	return &Resolver{
		users: users,
		now:   time.Now,
	}
}

// ResolveOrCreate is idempotent: the same (channel, channelUserID) always
// yields the same user id. The id is derived deterministically so it can be
// recomputed from the channel identity alone.
func (r *Resolver) ResolveOrCreate(ctx context.Context, channel domain.Channel, channelUserID, nameHint string) (*domain.UserProfile, error) {
	existing, err := r.users.GetUserByChannelID(ctx, channel, channelUserID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("looking up user: %w", err)
	}

	now := r.now()
	user := &domain.UserProfile{
		ID:            domain.UserID(fmt.Sprintf("%s-%s", channel, channelUserID)),
		Channel:       channel,
		ChannelUserID: channelUserID,
		Name:          nameHint,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := r.users.UpsertUser(ctx, user); err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}

	observability.LoggerFromContext(ctx).Info("created user",
		"user_id", user.ID,
		"channel", channel,
	)
	return user, nil
}

// ProjectForModel reduces a user to the profile the model is allowed to
// see. It is pure: the report summary is always derived from the passed
// report set, never from anything cached on the user record.
func ProjectForModel(user *domain.UserProfile, reports []*domain.DamageReport, roleInfo *domain.DemoRoleInfo, mode domain.Mode) domain.LLMUserProfile {
	summaries := make([]domain.ReportSummary, 0, len(reports))
	for _, r := range reports {
		summaries = append(summaries, domain.ReportSummary{
			ID:      r.ID,
			Status:  string(r.Status),
			Address: r.Address,
		})
	}

	profile := domain.LLMUserProfile{
		ID:      user.ID,
		Name:    user.Name,
		Channel: user.Channel,
		Reports: summaries,
	}

	if mode == domain.ModeDemo {
		profile.Mode = mode
		profile.DemoRole = user.DemoRole
		profile.DemoCanonicalName = user.DemoCanonicalName
		if roleInfo != nil {
			profile.DemoRole = roleInfo.Role
			profile.DemoCanonicalName = roleInfo.CanonicalName
			profile.PrimaryDemoReportID = string(roleInfo.PrimaryDemoReportID)
		}
	}

	return profile
}
