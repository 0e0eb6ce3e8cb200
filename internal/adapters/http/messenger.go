package httpadapter

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/saralabs/sara-agent/internal/app/conversation"
	"github.com/saralabs/sara-agent/internal/domain"
	"github.com/saralabs/sara-agent/internal/observability"
)

// messengerEnvelope is the subset of the Facebook webhook payload this
// service reads. Only the first messaging event per delivery is processed.
type messengerEnvelope struct {
	Entry []struct {
		Messaging []struct {
			Sender struct {
				ID string `json:"id"`
			} `json:"sender"`
			Timestamp int64 `json:"timestamp"`
			Message   struct {
				Text        string `json:"text"`
				Attachments []struct {
					Type    string `json:"type"`
					Payload struct {
						URL string `json:"url"`
					} `json:"payload"`
				} `json:"attachments"`
			} `json:"message"`
		} `json:"messaging"`
	} `json:"entry"`
}

func (s *Server) handleMessengerWebhook(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleMessengerVerify(w, r)
	case http.MethodPost:
		s.handleMessengerEvent(w, r)
	default:
		methodNotAllowed(w)
	}
}

// handleMessengerVerify answers the subscription handshake: echo the
// challenge when the shared verify token matches.
func (s *Server) handleMessengerVerify(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	mode := q.Get("hub.mode")
	token := q.Get("hub.verify_token")
	challenge := q.Get("hub.challenge")

	if mode == "subscribe" && token != "" && token == s.verifyToken {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(challenge))
		return
	}

	http.Error(w, "Verification failed", http.StatusForbidden)
}

func (s *Server) handleMessengerEvent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := s.seeder.SeedIfNeeded(ctx); err != nil {
		internalError(w, err)
		return
	}

	var envelope messengerEnvelope
	if err := json.NewDecoder(r.Body).Decode(&envelope); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	if len(envelope.Entry) == 0 || len(envelope.Entry[0].Messaging) == 0 {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("No usable message"))
		return
	}
	event := envelope.Entry[0].Messaging[0]

	var mediaURLs []string
	for _, att := range event.Message.Attachments {
		if att.Type == "image" && att.Payload.URL != "" {
			mediaURLs = append(mediaURLs, att.Payload.URL)
		}
	}

	if event.Sender.ID == "" || (event.Message.Text == "" && len(mediaURLs) == 0) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("No usable message"))
		return
	}

	var timestamp time.Time
	if event.Timestamp > 0 {
		timestamp = time.UnixMilli(event.Timestamp)
	}

	replyText, err := s.svc.ProcessMessage(ctx, conversation.Incoming{
		SenderID:  event.Sender.ID,
		Text:      event.Message.Text,
		Channel:   domain.ChannelMessenger,
		MediaURLs: mediaURLs,
		Timestamp: timestamp,
	})
	if err != nil {
		internalError(w, err)
		return
	}

	if err := s.sender.SendText(ctx, event.Sender.ID, replyText); err != nil {
		// The turn is already persisted; a failed delivery should not make
		// Facebook redeliver the event.
		observability.LoggerFromContext(ctx).Error("messenger send failed",
			"recipient_id", event.Sender.ID,
			"error", err,
		)
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}
