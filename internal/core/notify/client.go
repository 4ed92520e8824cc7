package notify

import (
	"context"
	"fmt"
	"net/http"

	"onlypans/internal/infrastructure/config"

	"github.com/go-resty/resty/v2"
)

// MailClient 郵件閘道客戶端
type MailClient struct {
	cfg    config.MailConfig
	client *resty.Client
}

// NewMailClient 創建郵件閘道客戶端
func NewMailClient(cfg config.MailConfig) *MailClient {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.APIKey)).
		SetHeader("Content-Type", "application/json").
		SetTimeout(cfg.Timeout)

	return &MailClient{
		cfg:    cfg,
		client: client,
	}
}

// Send 發送單封郵件
func (c *MailClient) Send(ctx context.Context, msg *Message) error {
	req := map[string]interface{}{
		"from":    c.cfg.FromEmail,
		"to":      msg.Recipient,
		"subject": msg.Subject,
		"text":    msg.Body,
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(req).
		Post("/messages")
	if err != nil {
		return fmt.Errorf("failed to send request to mail gateway: %w", err)
	}

	if resp.StatusCode() != http.StatusOK && resp.StatusCode() != http.StatusAccepted {
		return fmt.Errorf("mail gateway returned error: %s", resp.Status())
	}
	return nil
}
