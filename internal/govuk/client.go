package govuk

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"bedspace-scheduling-backend/config"
)

// Source supplies the bank-holiday dates used to build working-day
// calendars.
type Source interface {
	GetBankHolidays(ctx context.Context) ([]time.Time, error)
}

// feed models the GOV.UK bank-holidays.json document: one entry per
// division, each with a list of dated events.
type feed map[string]struct {
	Division string  `json:"division"`
	Events   []event `json:"events"`
}

type event struct {
	Title string `json:"title"`
	Date  string `json:"date"`
}

// Client fetches bank holidays from the GOV.UK feed for one division.
type Client struct {
	url      string
	division string
	client   *http.Client
}

// NewClient creates a bank-holiday client from configuration.
func NewClient(cfg *config.BankHolidaysConfig) *Client {
	return &Client{
		url:      cfg.URL,
		division: cfg.Division,
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
	}
}

// GetBankHolidays fetches and parses the feed. A failed fetch is returned to
// the caller as-is; there is no fallback to an empty holiday list.
func (c *Client) GetBankHolidays(ctx context.Context) ([]time.Time, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("bank holiday request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bank holiday feed returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read bank holiday response: %w", err)
	}

	var parsed feed
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to unmarshal bank holiday feed: %w", err)
	}

	division, ok := parsed[c.division]
	if !ok {
		return nil, fmt.Errorf("bank holiday feed has no division %q", c.division)
	}

	holidays := make([]time.Time, 0, len(division.Events))
	for _, e := range division.Events {
		d, err := time.Parse("2006-01-02", e.Date)
		if err != nil {
			return nil, fmt.Errorf("failed to parse bank holiday date %q: %w", e.Date, err)
		}
		holidays = append(holidays, d)
	}
	return holidays, nil
}
