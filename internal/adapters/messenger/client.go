package messenger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/saralabs/sara-agent/internal/observability"
)

const defaultGraphURL = "https://graph.facebook.com/v17.0/me/messages"

// Client posts replies back to a user through the Facebook Graph send API.
type Client struct {
	pageAccessToken string
	graphURL        string
	httpClient      *http.Client
}

func NewClient(pageAccessToken string) *Client {
	return &Client{
		pageAccessToken: pageAccessToken,
		graphURL:        defaultGraphURL,
		httpClient:      &http.Client{Timeout: 20 * time.Second},
	}
}

type sendRequest struct {
	Recipient struct {
		ID string `json:"id"`
	} `json:"recipient"`
	Message struct {
		Text string `json:"text"`
	} `json:"message"`
}

// SendText delivers one text message to a Messenger recipient. With no
// page access token configured the send is skipped, so local development
// works without Facebook credentials.
func (c *Client) SendText(ctx context.Context, recipientID, text string) error {
	if c.pageAccessToken == "" {
		observability.LoggerFromContext(ctx).Warn("page access token not set; skipping messenger send",
			"recipient_id", recipientID,
		)
		return nil
	}

	var payload sendRequest
	payload.Recipient.ID = recipientID
	payload.Message.Text = text

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding send request: %w", err)
	}

	endpoint := c.graphURL + "?access_token=" + url.QueryEscape(c.pageAccessToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building send request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("posting to graph api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("graph api send failed: status %d: %s", resp.StatusCode, detail)
	}
	return nil
}
