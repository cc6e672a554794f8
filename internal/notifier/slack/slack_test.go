package slack

import (
	"context"
	"errors"
	"testing"

	slackapi "github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuongdevv/track/internal/metrics"
	"github.com/cuongdevv/track/internal/notifier"
)

// mockSlackAPI is a mock implementation of the parts of the slack.Client that we use.
type mockSlackAPI struct {
	postMessageContextFunc func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error)
}

func (m *mockSlackAPI) PostMessageContext(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
	if m.postMessageContextFunc != nil {
		return m.postMessageContextFunc(ctx, channelID, options...)
	}
	return "C12345", "123456789.12345", nil
}

func TestSendMessage_DryRun(t *testing.T) {
	metricsSvc := metrics.NewMock()
	// Pass nil for the api, as it shouldn't be called in dry-run mode.
	n := NewNotifierWithAPI(nil, "C123", metricsSvc)

	err := n.sendMessage(slackapi.NewBlockMessage(), true)
	require.NoError(t, err)
	assert.Equal(t, 0, metricsSvc.NotifSent())
}

func TestSendMessage_Success(t *testing.T) {
	postMessageCalled := false
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			postMessageCalled = true
			assert.Equal(t, "C123", channelID)
			return "C123", "ts123", nil
		},
	}

	metricsSvc := metrics.NewMock()
	n := NewNotifierWithAPI(api, "C123", metricsSvc)

	err := n.SendDeleteSummary(notifier.DeleteSummary{Requested: 3, Deleted: 2, Failed: []string{"PlayerX"}}, false)

	require.NoError(t, err)
	assert.True(t, postMessageCalled, "PostMessageContext should have been called")
	assert.Equal(t, 1, metricsSvc.NotifSent())
	assert.Equal(t, 0, metricsSvc.NotifFailed())
}

func TestSendMessage_Failure(t *testing.T) {
	expectedErr := errors.New("slack API is down")
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			return "", "", expectedErr
		},
	}

	metricsSvc := metrics.NewMock()
	n := NewNotifierWithAPI(api, "C123", metricsSvc)

	err := n.SendExportSummary(notifier.ExportSummary{Requested: 1}, false)

	require.Error(t, err)
	assert.ErrorIs(t, err, expectedErr)
	assert.Equal(t, 0, metricsSvc.NotifSent())
	assert.Equal(t, 1, metricsSvc.NotifFailed())
}

func TestFormatDeleteSummary(t *testing.T) {
	n := NewNotifierWithAPI(nil, "C123", metrics.NewMock())

	msg := n.formatDeleteSummary(notifier.DeleteSummary{Requested: 5, Deleted: 4, Failed: []string{"Ghost"}})

	require.GreaterOrEqual(t, len(msg.Blocks.BlockSet), 3)
	header, ok := msg.Blocks.BlockSet[0].(*slackapi.HeaderBlock)
	require.True(t, ok)
	assert.Contains(t, header.Text.Text, "Bulk delete")
}

func TestFormatImportSummary(t *testing.T) {
	n := NewNotifierWithAPI(nil, "C123", metrics.NewMock())

	msg := n.formatImportSummary(notifier.ImportSummary{Added: 7, Skipped: 2, Failed: 1})

	require.Len(t, msg.Blocks.BlockSet, 2)
	section, ok := msg.Blocks.BlockSet[1].(*slackapi.SectionBlock)
	require.True(t, ok)
	assert.Contains(t, section.Text.Text, "Added 7")
}
