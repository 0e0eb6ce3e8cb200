package httpadapter

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/saralabs/sara-agent/internal/app/conversation"
	"github.com/saralabs/sara-agent/internal/domain"
)

type webChatRequest struct {
	SessionID string `json:"sessionId"`
	Text      string `json:"text"`
	Name      string `json:"name,omitempty"`
}

type chatResponse struct {
	ReplyText string `json:"replyText"`
}

// handleWebChat is the browser chat endpoint. The caller-chosen session id
// doubles as the channel user id, so the same browser session keeps one
// conversation history.
func (s *Server) handleWebChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var req webChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.SessionID) == "" || strings.TrimSpace(req.Text) == "" {
		badRequest(w, "sessionId and text are required")
		return
	}

	replyText, err := s.svc.ProcessMessage(r.Context(), conversation.Incoming{
		SenderID: req.SessionID,
		Text:     req.Text,
		Channel:  domain.ChannelWeb,
		NameHint: req.Name,
	})
	if err != nil {
		internalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{ReplyText: replyText})
}
