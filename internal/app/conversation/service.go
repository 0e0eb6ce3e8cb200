package conversation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/saralabs/sara-agent/internal/app/demo"
	"github.com/saralabs/sara-agent/internal/app/tools"
	"github.com/saralabs/sara-agent/internal/app/users"
	"github.com/saralabs/sara-agent/internal/domain"
	"github.com/saralabs/sara-agent/internal/observability"
)

// Incoming is one inbound user message, already stripped of channel
// framing.
type Incoming struct {
	SenderID  string
	Text      string
	Channel   domain.Channel
	MediaURLs []string
	NameHint  string
	Timestamp time.Time
}

// Service processes inbound messages end to end: resolve the user, build
// model context, run the reply orchestrator, and persist the exchange.
type Service struct {
	resolver     *users.Resolver
	userStore    domain.UserStore
	messages     domain.MessageStore
	reports      domain.ReportStore
	demoMgr      *demo.Manager
	orchestrator *Orchestrator
	mode         domain.Mode

	now   func() time.Time
	newID func() string
}

func NewService(
	resolver *users.Resolver,
	userStore domain.UserStore,
	messages domain.MessageStore,
	reports domain.ReportStore,
	demoMgr *demo.Manager,
	orchestrator *Orchestrator,
	mode domain.Mode,
) *Service {
	return &Service{
		resolver:     resolver,
		userStore:    userStore,
		messages:     messages,
		reports:      reports,
		demoMgr:      demoMgr,
		orchestrator: orchestrator,
		mode:         mode,
		now:          time.Now,
		newID:        uuid.NewString,
	}
}

// ProcessMessage handles one channel-originated turn and returns the
// assistant's reply text.
func (s *Service) ProcessMessage(ctx context.Context, in Incoming) (string, error) {
	user, err := s.resolver.ResolveOrCreate(ctx, in.Channel, in.SenderID, in.NameHint)
	if err != nil {
		return "", err
	}
	return s.runTurn(ctx, user, in.Text, in.MediaURLs, in.Timestamp)
}

// ProcessForUser handles one turn for an already-resolved user, as reached
// through a demo map session token.
func (s *Service) ProcessForUser(ctx context.Context, userID domain.UserID, text string) (string, error) {
	user, err := s.userStore.GetUserByID(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("loading user: %w", err)
	}
	return s.runTurn(ctx, user, text, nil, time.Time{})
}

// runTurn is the shared turn pipeline. Two near-simultaneous messages from
// the same user can race on the history read-modify-write; last writer
// wins.
func (s *Service) runTurn(ctx context.Context, user *domain.UserProfile, text string, mediaURLs []string, timestamp time.Time) (string, error) {
	log := observability.LoggerFromContext(ctx).With("user_id", user.ID)

	// History and report list are independent reads.
	var (
		wg      sync.WaitGroup
		history []*domain.Message
		reports []*domain.DamageReport
		histErr error
		repErr  error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		history, histErr = s.messages.GetMessagesForUser(ctx, user.ID)
	}()
	go func() {
		defer wg.Done()
		reports, repErr = s.reports.GetUserReports(ctx, user.ID)
	}()
	wg.Wait()
	if histErr != nil {
		return "", fmt.Errorf("loading history: %w", histErr)
	}
	if repErr != nil {
		return "", fmt.Errorf("loading reports: %w", repErr)
	}

	var roleInfo *domain.DemoRoleInfo
	if s.mode == domain.ModeDemo {
		var err error
		roleInfo, err = s.demoMgr.RoleInfo(ctx, user.ID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return "", fmt.Errorf("loading demo role: %w", err)
		}
	}

	profile := users.ProjectForModel(user, reports, roleInfo, s.mode)
	tctx := tools.Context{UserID: user.ID, Mode: s.mode}
	if roleInfo != nil {
		tctx.Role = roleInfo.Role
	}

	replyText, err := s.orchestrator.GenerateReply(ctx, text, profile, history, tctx)
	if err != nil {
		log.Error("reply generation failed", "error", err)
		return "", err
	}

	userCreatedAt := timestamp
	if userCreatedAt.IsZero() {
		userCreatedAt = s.now()
	}

	exchange := []*domain.Message{
		{
			ID:        domain.MessageID(s.newID()),
			UserID:    user.ID,
			Direction: domain.DirectionUser,
			Text:      text,
			MediaURLs: mediaURLs,
			CreatedAt: userCreatedAt,
		},
		{
			ID:        domain.MessageID(s.newID()),
			UserID:    user.ID,
			Direction: domain.DirectionAssistant,
			Text:      replyText,
			CreatedAt: s.now(),
		},
	}
	if err := s.messages.AppendMessages(ctx, user.ID, exchange); err != nil {
		return "", fmt.Errorf("appending messages: %w", err)
	}

	log.Info("processed message", "history_len", len(history))
	return replyText, nil
}
