// Package submission sends a reimbursement application to the club's form
// relay. One attempt per call: a failure is reported to the caller, who falls
// back to the PDF export.
package submission

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"clubportal/internal/config"
	"clubportal/pkg/contracts"
	"clubportal/pkg/contracts/domain"
)

// ErrRelayFailed is returned for transport errors and rejected submissions
var ErrRelayFailed = errors.New("form relay request failed")

// maxResponseBytes caps how much of a relay response is read
const maxResponseBytes = 64 << 10

// Application is the payload posted to the relay
type Application struct {
	Season      string                 `json:"season"`
	Profile     domain.ProfileRecord   `json:"profile"`
	Regattas    []domain.RegattaRecord `json:"regattas"`
	Total       decimal.Decimal        `json:"total"`
	SubmittedAt time.Time              `json:"submittedAt"`
}

// Receipt is the relay's acknowledgement
type Receipt struct {
	ID         string `json:"id,omitempty"`
	StatusCode int    `json:"statusCode"`
}

type relayResponse struct {
	Success *bool  `json:"success"`
	ID      string `json:"id"`
	Error   string `json:"error"`
}

// Client posts applications to the relay URL
type Client struct {
	relayURL   string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a client for cfg. httpClient may be nil.
func NewClient(cfg config.SubmissionConfig, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = config.DefaultSubmissionTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		relayURL:   strings.TrimSpace(cfg.RelayURL),
		httpClient: httpClient,
		logger:     logger.With(slog.String("component", "submission_client")),
	}
}

// Configured reports whether a relay URL is set
func (c *Client) Configured() bool {
	return c.relayURL != ""
}

// Submit posts app once. Any transport error, non-2xx status or a response
// with "success": false yields an error wrapping ErrRelayFailed.
func (c *Client) Submit(ctx context.Context, app Application) (Receipt, error) {
	payload, err := json.Marshal(app)
	if err != nil {
		return Receipt{}, fmt.Errorf("failed to encode application: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.relayURL, bytes.NewReader(payload))
	if err != nil {
		return Receipt{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "clubportal/"+contracts.Version)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.ErrorContext(ctx, "Relay request failed",
			slog.String("error", err.Error()),
			slog.Duration("duration", time.Since(start)))
		return Receipt{}, fmt.Errorf("%w: %v", ErrRelayFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return Receipt{}, fmt.Errorf("%w: failed to read response: %v", ErrRelayFailed, err)
	}

	receipt := Receipt{StatusCode: resp.StatusCode}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.ErrorContext(ctx, "Relay returned error status",
			slog.Int("status_code", resp.StatusCode),
			slog.String("response_body", string(body)))
		return receipt, fmt.Errorf("%w: status %d", ErrRelayFailed, resp.StatusCode)
	}

	// Relays that answer with plain text or an empty body are taken at their status code
	var parsed relayResponse
	if len(body) > 0 && json.Unmarshal(body, &parsed) == nil {
		if parsed.Success != nil && !*parsed.Success {
			msg := parsed.Error
			if msg == "" {
				msg = "rejected"
			}
			c.logger.WarnContext(ctx, "Relay rejected application", slog.String("error", msg))
			return receipt, fmt.Errorf("%w: %s", ErrRelayFailed, msg)
		}
		receipt.ID = parsed.ID
	}

	c.logger.InfoContext(ctx, "Application submitted",
		slog.String("season", app.Season),
		slog.String("receipt_id", receipt.ID),
		slog.Duration("duration", time.Since(start)))
	return receipt, nil
}
