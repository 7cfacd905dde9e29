// Package line wraps the LINE Messaging API client behind a small
// interface so command handling and the scheduler can be tested
// without the platform.
package line

import (
	"context"
	"fmt"

	"github.com/line/line-bot-sdk-go/v7/linebot"
	"go.uber.org/zap"
)

// Messenger sends outbound messages.
type Messenger interface {
	Reply(ctx context.Context, replyToken, text string) error
	ReplyImage(ctx context.Context, replyToken, originalURL, previewURL string) error
	Push(ctx context.Context, to, text string) error
}

// Client is the production Messenger backed by the LINE SDK.
type Client struct {
	bot    *linebot.Client
	logger *zap.Logger
}

// NewClient creates the SDK-backed messenger.
func NewClient(channelSecret, channelToken string, logger *zap.Logger) (*Client, error) {
	bot, err := linebot.New(channelSecret, channelToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create line client: %w", err)
	}
	return &Client{bot: bot, logger: logger}, nil
}

func (c *Client) Reply(ctx context.Context, replyToken, text string) error {
	_, err := c.bot.ReplyMessage(replyToken, linebot.NewTextMessage(text)).WithContext(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to send reply: %w", err)
	}
	return nil
}

func (c *Client) ReplyImage(ctx context.Context, replyToken, originalURL, previewURL string) error {
	_, err := c.bot.ReplyMessage(replyToken, linebot.NewImageMessage(originalURL, previewURL)).WithContext(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to send image reply: %w", err)
	}
	return nil
}

func (c *Client) Push(ctx context.Context, to, text string) error {
	_, err := c.bot.PushMessage(to, linebot.NewTextMessage(text)).WithContext(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to push message: %w", err)
	}
	return nil
}
