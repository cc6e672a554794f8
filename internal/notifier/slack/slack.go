package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/slack-go/slack"

	"github.com/cuongdevv/track/internal/metrics"
	"github.com/cuongdevv/track/internal/notifier"
)

// slackClient is an interface that contains the methods from the slack.Client
// that we use. This allows for easy mocking in tests.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

var _ notifier.Notifier = &Notifier{}

// Notifier handles sending bulk-operation summaries to Slack.
type Notifier struct {
	api       slackClient
	channelID string
	metrics   metrics.Metrics
}

// NewNotifier creates a new Notifier.
func NewNotifier(token, channelID string, metrics metrics.Metrics) *Notifier {
	api := slack.New(token)
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

// NewNotifierWithAPI creates a new Notifier with a specific slack.Client
// instance. Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api slackClient, channelID string, metrics metrics.Metrics) *Notifier {
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

func (s *Notifier) sendMessage(message slack.Message, dryRun bool) error {
	if dryRun {
		jsonMsg, _ := json.MarshalIndent(message, "", "  ")
		log.Info("[Dry Run] Would send Slack message", "channel", s.channelID, "message", string(jsonMsg))
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	channelID, timestamp, err := s.api.PostMessageContext(
		ctx,
		s.channelID,
		slack.MsgOptionBlocks(message.Blocks.BlockSet...),
		slack.MsgOptionAsUser(true),
	)

	if err != nil {
		s.metrics.IncNotifFailed()
		log.Error("Failed to send Slack message", "error", err, "channel", channelID)
		return fmt.Errorf("failed to post message: %w", err)
	}

	s.metrics.IncNotifSent()
	log.Info("Successfully sent Slack message", "channel", channelID, "timestamp", timestamp)
	return nil
}

func (s *Notifier) SendDeleteSummary(summary notifier.DeleteSummary, dryRun bool) error {
	return s.sendMessage(s.formatDeleteSummary(summary), dryRun)
}

func (s *Notifier) SendExportSummary(summary notifier.ExportSummary, dryRun bool) error {
	return s.sendMessage(s.formatExportSummary(summary), dryRun)
}

func (s *Notifier) SendImportSummary(summary notifier.ImportSummary, dryRun bool) error {
	return s.sendMessage(s.formatImportSummary(summary), dryRun)
}

// formatDeleteSummary creates the Slack message for a finished bulk delete
// using Block Kit.
func (s *Notifier) formatDeleteSummary(summary notifier.DeleteSummary) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "🗑️ Bulk delete finished", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	detailsText := fmt.Sprintf("Deleted %d of %d selected players.", summary.Deleted, summary.Requested)
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", detailsText, true, false), nil, nil))

	blocks = appendFailures(blocks, summary.Failed)
	return slack.NewBlockMessage(blocks...)
}

// formatExportSummary creates the Slack message for a finished credential
// export using Block Kit.
func (s *Notifier) formatExportSummary(summary notifier.ExportSummary) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "📦 Account export finished", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	detailsText := fmt.Sprintf("Exported %d of %d accounts.", summary.Exported, summary.Requested)
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", detailsText, true, false), nil, nil))

	blocks = appendFailures(blocks, summary.Failed)
	return slack.NewBlockMessage(blocks...)
}

// formatImportSummary creates the Slack message for a finished account import
// using Block Kit.
func (s *Notifier) formatImportSummary(summary notifier.ImportSummary) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "📥 Account import finished", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	detailsText := fmt.Sprintf("Added %d, skipped %d, failed %d.", summary.Added, summary.Skipped, summary.Failed)
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", detailsText, true, false), nil, nil))

	return slack.NewBlockMessage(blocks...)
}

func appendFailures(blocks []slack.Block, failed []string) []slack.Block {
	if len(failed) == 0 {
		return blocks
	}
	var lines []string
	for _, name := range failed {
		lines = append(lines, fmt.Sprintf("• %s", name))
	}
	failureText := "Failed:\n" + strings.Join(lines, "\n")
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", failureText, true, false), nil, nil))
	return blocks
}
