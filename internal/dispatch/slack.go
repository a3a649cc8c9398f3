package dispatch

import (
	"context"
	"fmt"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/slack-go/slack"

	"github.com/danielpatrickdp/support-triage/internal/category"
)

// maxSlackContext caps the quoted email in a notification.
const maxSlackContext = 1500

// SlackNotifier posts urgent tickets to a Slack incoming webhook. Every other
// downstream action is ignored.
type SlackNotifier struct {
	NopServices

	webhookURL string
	httpClient *http.Client
}

// NewSlackNotifier creates a notifier for the given webhook URL.
func NewSlackNotifier(webhookURL string) *SlackNotifier {
	return &SlackNotifier{
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// CreateUrgentTicket posts a short summary of the ticket.
func (n *SlackNotifier) CreateUrgentTicket(ctx context.Context, emailID string, c category.Category, text string) error {
	text = truncate(text, maxSlackContext)
	header := fmt.Sprintf("Urgent %s ticket for email %s", c, emailID)
	msg := &slack.WebhookMessage{
		Text: header,
		Blocks: &slack.Blocks{
			BlockSet: []slack.Block{
				slack.NewHeaderBlock(slack.NewTextBlockObject(slack.PlainTextType, header, false, false)),
				slack.NewSectionBlock(slack.NewTextBlockObject(slack.MarkdownType, "```"+text+"```", false, false), nil, nil),
			},
		},
	}
	if err := slack.PostWebhookCustomHTTPContext(ctx, n.webhookURL, n.httpClient, msg); err != nil {
		return fmt.Errorf("slack webhook for %s: %w", emailID, err)
	}
	return nil
}

// truncate cuts s to at most limit bytes on a rune boundary and marks the cut.
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
