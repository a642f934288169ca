// Package line pushes notification texts through the LINE Messaging API.
package line

import (
	"context"
	"fmt"
	"imahima/domain"
	"imahima/errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
)

const (
	DefaultEndpoint = "https://api.line.me"

	defaultTimeout = 10 * time.Second
)

// Client implements contract.Transport on top of the official Messaging API
// SDK. Without a channel access token every push would be rejected, so the
// client reports itself as not ready instead.
type Client struct {
	log         *slog.Logger
	httpClient  *http.Client
	endpoint    string
	accessToken string
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

func WithEndpoint(endpoint string) Option {
	return func(c *Client) { c.endpoint = strings.TrimRight(endpoint, "/") }
}

func NewClient(log *slog.Logger, accessToken string, opts ...Option) *Client {
	c := &Client{
		log:         log,
		httpClient:  &http.Client{Timeout: defaultTimeout},
		endpoint:    DefaultEndpoint,
		accessToken: accessToken,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Ready fails when no channel access token is configured.
func (c *Client) Ready() error {
	if c.accessToken == "" {
		return fmt.Errorf("%w: LINE_CHANNEL_ACCESS_TOKEN is not set", errors.ErrTransportUnavailable)
	}
	return nil
}

// api builds one SDK client per push: its WithContext mutates the client,
// so a shared one cannot carry a context per delivery.
func (c *Client) api(ctx context.Context) (*messaging_api.MessagingApiAPI, error) {
	api, err := messaging_api.NewMessagingApiAPI(c.accessToken,
		messaging_api.WithHTTPClient(c.httpClient),
		messaging_api.WithEndpoint(c.endpoint))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrTransportUnavailable, err)
	}
	return api.WithContext(ctx), nil
}

// Deliver pushes one text message to recipient. Any non-2xx answer is a
// delivery failure carrying the status code.
func (c *Client) Deliver(ctx context.Context, recipient domain.MemberID, payload string) error {
	if err := c.Ready(); err != nil {
		return err
	}
	api, err := c.api(ctx)
	if err != nil {
		return err
	}

	response, _, err := api.PushMessageWithHttpInfo(&messaging_api.PushMessageRequest{
		To:       string(recipient),
		Messages: []messaging_api.MessageInterface{messaging_api.TextMessage{Text: payload}},
	}, "")
	if err != nil {
		if response != nil {
			c.log.Warn("LINE push rejected",
				"recipient_id", recipient,
				"status", response.StatusCode,
				"error", err)
			return fmt.Errorf("%w: LINE push returned %d", errors.ErrDeliveryFailed, response.StatusCode)
		}
		return fmt.Errorf("%w: %v", errors.ErrDeliveryFailed, err)
	}
	return nil
}
