// Package sheets appends audit rows to a spreadsheet-backed log through
// a webhook relay. The relay is an opaque append-only collaborator: the
// client sends rendered rows and never reads anything back.
package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	httpclient "github.com/appleboy/go-httpclient"

	"github.com/Nate0911/FancyKarma-Backend/internal/config"
)

// Client posts row batches to the sheet webhook
type Client struct {
	httpClient *http.Client
	webhookURL string
	sheetID    string
	sheetName  string
}

// NewClient creates a sheet webhook client. Authentication headers are
// added automatically by the HTTP client based on the configured mode.
func NewClient(cfg *config.Config) (*Client, error) {
	client, err := httpclient.NewAuthClient(
		cfg.SheetAuthMode,
		cfg.SheetAuthSecret,
		httpclient.WithTimeout(cfg.SheetTimeout),
		httpclient.WithHeaderName(cfg.SheetAuthHeader),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet webhook client: %w", err)
	}

	return &Client{
		httpClient: client,
		webhookURL: cfg.SheetWebhookURL,
		sheetID:    cfg.SheetID,
		sheetName:  cfg.SheetName,
	}, nil
}

// appendRequest is the payload sent to the webhook
type appendRequest struct {
	SheetID   string     `json:"sheet_id,omitempty"`
	SheetName string     `json:"sheet_name,omitempty"`
	Values    [][]string `json:"values"`
}

// AppendRows appends the given rows to the sheet
func (c *Client) AppendRows(ctx context.Context, rows [][]string) error {
	if len(rows) == 0 {
		return nil
	}

	payload, err := json.Marshal(appendRequest{
		SheetID:   c.sheetID,
		SheetName: c.sheetName,
		Values:    rows,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal append request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.webhookURL,
		bytes.NewBuffer(payload),
	)
	if err != nil {
		return fmt.Errorf("failed to create append request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sheet webhook request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		return fmt.Errorf("sheet webhook returned HTTP %d - %s", resp.StatusCode, string(body))
	}

	return nil
}
