package conversation

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/saralabs/sara-agent/internal/domain"
)

const systemPrompt = `You are Sara, a calm, concise storm & damage recovery assistant.

You always:
- Speak in short, clear paragraphs.
- Ask clarifying questions when the user is vague instead of guessing.
- Help users understand and manage damage reports related to storms and severe weather.

Context you receive:
- USER_PROFILE: a small JSON object with id, optional name, channel, and a list of damage report ids with status and optional address.
- CONVERSATION_MESSAGES: an array of previous messages with:
  - direction: "user" or "assistant"
  - text: the message text
  - mediaUrls: an array of image URLs attached to that message (may be empty)
  - createdAt: ISO timestamp

Rules:
- You NEVER directly modify any database or storage. All reads and writes for damage reports go through tools only.
- When a user message has one or more image URLs in mediaUrls, treat them as photos the user has just sent and use them when calling tools like update_report_photos.
- Use tools when you need to start or update reports, fetch report details, list user reports, create links, or mark reports resolved.
- When asking the user for information, keep questions simple and focused on one step at a time.
- For new users, greet them briefly, explain what you can help with, and ask what they need.`

const demoPromptAddendum = `

Demo mode:
- Everything in this conversation is a fictional Hurricane Santa scenario in the town of Saraville. No real people, addresses, or reports are involved.
- The user role-plays one of three personas: resident (John Doe), city worker (Jane Smith), or contractor (John Smith). USER_PROFILE carries demoRole and demoCanonicalName once a role is set.
- If no role is set yet, invite the user to pick one with set_demo_role before doing persona-specific work.
- Use the demo_* tools for all scenario data; never mix in the live report tools' data.`

// fallbackReply is returned when the model produces no usable text at all.
const fallbackReply = "Sorry, I was unable to generate a response."

// buildSystemMessage returns the persona instructions, extended with the
// scenario framing when running in demo mode.
func buildSystemMessage(mode domain.Mode) domain.ChatMessage {
	prompt := systemPrompt
	if mode == domain.ModeDemo {
		prompt += demoPromptAddendum
	}
	return domain.ChatMessage{Role: domain.ChatRoleSystem, Content: prompt}
}

type historyEntry struct {
	Direction string    `json:"direction"`
	Text      string    `json:"text"`
	MediaURLs []string  `json:"mediaUrls"`
	CreatedAt time.Time `json:"createdAt"`
}

// buildContextMessage serializes the caller's profile and replayed history
// into the single user-role context message both completion passes share.
func buildContextMessage(profile domain.LLMUserProfile, history []*domain.Message) (domain.ChatMessage, error) {
	profileJSON, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		return domain.ChatMessage{}, fmt.Errorf("serializing user profile: %w", err)
	}

	entries := make([]historyEntry, 0, len(history))
	for _, m := range history {
		media := m.MediaURLs
		if media == nil {
			media = []string{}
		}
		entries = append(entries, historyEntry{
			Direction: string(m.Direction),
			Text:      m.Text,
			MediaURLs: media,
			CreatedAt: m.CreatedAt,
		})
	}
	historyJSON, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return domain.ChatMessage{}, fmt.Errorf("serializing history: %w", err)
	}

	return domain.ChatMessage{
		Role:    domain.ChatRoleUser,
		Content: "USER_PROFILE:\n" + string(profileJSON) + "\n\nCONVERSATION_MESSAGES:\n" + string(historyJSON),
	}, nil
}
