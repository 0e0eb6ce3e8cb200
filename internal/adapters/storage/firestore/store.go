package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/saralabs/sara-agent/internal/domain"
)

// Store persists every Sara collection in Firestore. String-keyed JSON
// documents are the only indexing scheme: composite keys substitute for
// secondary indexes, full-collection queries substitute for joins.
//
// Collections:
//   - "users":            one doc per user, keyed by "{channel}:{channelUserId}"
//   - "messages":         one doc per message, user_id field + created_at ordering
//   - "damage_reports":   one doc per report, keyed by "{userId}:{reportId}"
//   - "report_tokens":    one doc per link token, keyed by "{reportId}:{token}"
//   - "demo_reports", "demo_projects", "demo_roles", "demo_sessions",
//     "demo_area_stats", "demo_contractor_stats", "demo_meta"
type Store struct {
	client *firestore.Client
}

// NewStore creates a Firestore store for the given GCP project.
func NewStore(ctx context.Context, projectID string) (*Store, error) {
	if projectID == "" {
		return nil, fmt.Errorf("projectID is required for Firestore store")
	}

	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}

	return &Store{client: client}, nil
}

func notFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

// ─────────────────────────────────────────
// Users
// ─────────────────────────────────────────

type userDoc struct {
	ID                string    `firestore:"id"`
	Channel           string    `firestore:"channel"`
	ChannelUserID     string    `firestore:"channel_user_id"`
	Name              string    `firestore:"name"`
	DemoRole          string    `firestore:"demo_role"`
	DemoCanonicalName string    `firestore:"demo_canonical_name"`
	CreatedAt         time.Time `firestore:"created_at"`
	UpdatedAt         time.Time `firestore:"updated_at"`
}

func (s *Store) usersCol() *firestore.CollectionRef {
	return s.client.Collection("users")
}

func userKey(channel domain.Channel, channelUserID string) string {
	return string(channel) + ":" + channelUserID
}

func toUser(doc userDoc) *domain.UserProfile {
	return &domain.UserProfile{
		ID:                domain.UserID(doc.ID),
		Channel:           domain.Channel(doc.Channel),
		ChannelUserID:     doc.ChannelUserID,
		Name:              doc.Name,
		DemoRole:          domain.DemoRole(doc.DemoRole),
		DemoCanonicalName: doc.DemoCanonicalName,
		CreatedAt:         doc.CreatedAt,
		UpdatedAt:         doc.UpdatedAt,
	}
}

func (s *Store) GetUserByChannelID(ctx context.Context, channel domain.Channel, channelUserID string) (*domain.UserProfile, error) {
	snap, err := s.usersCol().Doc(userKey(channel, channelUserID)).Get(ctx)
	if err != nil {
		if notFound(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("firestore GetUserByChannelID: %w", err)
	}

	var doc userDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("decode userDoc: %w", err)
	}
	return toUser(doc), nil
}

func (s *Store) GetUserByID(ctx context.Context, id domain.UserID) (*domain.UserProfile, error) {
	iter := s.usersCol().Where("id", "==", string(id)).Limit(1).Documents(ctx)
	defer iter.Stop()

	snap, err := iter.Next()
	if err != nil {
		if err == iterator.Done {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("firestore GetUserByID: %w", err)
	}

	var doc userDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("decode userDoc: %w", err)
	}
	return toUser(doc), nil
}

func (s *Store) UpsertUser(ctx context.Context, user *domain.UserProfile) error {
	doc := userDoc{
		ID:                string(user.ID),
		Channel:           string(user.Channel),
		ChannelUserID:     user.ChannelUserID,
		Name:              user.Name,
		DemoRole:          string(user.DemoRole),
		DemoCanonicalName: user.DemoCanonicalName,
		CreatedAt:         user.CreatedAt,
		UpdatedAt:         user.UpdatedAt,
	}

	_, err := s.usersCol().Doc(userKey(user.Channel, user.ChannelUserID)).Set(ctx, doc)
	if err != nil {
		return fmt.Errorf("firestore UpsertUser: %w", err)
	}
	return nil
}

// ─────────────────────────────────────────
// Messages
// ─────────────────────────────────────────

type messageDoc struct {
	UserID    string    `firestore:"user_id"`
	Direction string    `firestore:"direction"`
	Text      string    `firestore:"text"`
	MediaURLs []string  `firestore:"media_urls"`
	CreatedAt time.Time `firestore:"created_at"`
}

func (s *Store) messagesCol() *firestore.CollectionRef {
	return s.client.Collection("messages")
}

func (s *Store) GetMessagesForUser(ctx context.Context, userID domain.UserID) ([]*domain.Message, error) {
	q := s.messagesCol().Where("user_id", "==", string(userID)).OrderBy("created_at", firestore.Asc)

	iter := q.Documents(ctx)
	defer iter.Stop()

	var out []*domain.Message
	for {
		snap, err := iter.Next()
		if err != nil {
			if err == iterator.Done {
				break
			}
			return nil, fmt.Errorf("firestore GetMessagesForUser: %w", err)
		}

		var doc messageDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("decode messageDoc: %w", err)
		}

		out = append(out, &domain.Message{
			ID:        domain.MessageID(snap.Ref.ID),
			UserID:    userID,
			Direction: domain.Direction(doc.Direction),
			Text:      doc.Text,
			MediaURLs: doc.MediaURLs,
			CreatedAt: doc.CreatedAt,
		})
	}
	return out, nil
}

func (s *Store) AppendMessages(ctx context.Context, userID domain.UserID, msgs []*domain.Message) error {
	for _, msg := range msgs {
		doc := messageDoc{
			UserID:    string(userID),
			Direction: string(msg.Direction),
			Text:      msg.Text,
			MediaURLs: msg.MediaURLs,
			CreatedAt: msg.CreatedAt,
		}
		if _, err := s.messagesCol().Doc(string(msg.ID)).Set(ctx, doc); err != nil {
			return fmt.Errorf("firestore AppendMessages: %w", err)
		}
	}
	return nil
}
