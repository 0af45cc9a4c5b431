package fleet

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"fleetbooking/models"

	"go.uber.org/zap"
)

// Client talks JSON to the fleet REST backend.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// NewClient builds a Client with the given request timeout.
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: timeout},
		Logger:     logger,
	}
}

// ListVehicles handles GET /vehicles.
func (c *Client) ListVehicles(ctx context.Context, token string) ([]models.Vehicle, error) {
	var vehicles []models.Vehicle
	if _, err := c.doJSON(ctx, http.MethodGet, "/vehicles", token, nil, &vehicles); err != nil {
		return nil, fmt.Errorf("list vehicles: %w", err)
	}
	return vehicles, nil
}

// GetPartner handles GET /partners/{id}.
func (c *Client) GetPartner(ctx context.Context, token, partnerID string) (*models.Partner, error) {
	var partner models.Partner
	if _, err := c.doJSON(ctx, http.MethodGet, "/partners/"+url.PathEscape(partnerID), token, nil, &partner); err != nil {
		return nil, fmt.Errorf("get partner %s: %w", partnerID, err)
	}
	if partner.ID == "" {
		partner.ID = partnerID
	}
	return &partner, nil
}

// CreateBooking handles POST /partner-bookings.
func (c *Client) CreateBooking(ctx context.Context, token string, req models.BookingRequest) (*models.CreatedBooking, error) {
	var raw json.RawMessage
	if _, err := c.doJSON(ctx, http.MethodPost, "/partner-bookings", token, req, &raw); err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}

	created := &models.CreatedBooking{Raw: raw}
	var idOnly struct {
		ID string `json:"id"`
	}
	if len(raw) > 0 && json.Unmarshal(raw, &idOnly) == nil {
		created.ID = idOnly.ID
	}
	return created, nil
}

func (c *Client) doJSON(ctx context.Context, method, path, token string, reqBody any, respBody any) (int, error) {
	var buf bytes.Buffer
	if reqBody != nil {
		if err := json.NewEncoder(&buf).Encode(reqBody); err != nil {
			return 0, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, &buf)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Accept", "application/json")
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	b, readErr := io.ReadAll(resp.Body)
	if c.Logger != nil {
		c.Logger.Debug("fleet api call",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.Duration("elapsed", time.Since(start)),
		)
	}
	if readErr != nil {
		return resp.StatusCode, readErr
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Body: string(b)}
		var payload struct {
			Message string `json:"message"`
		}
		if len(b) > 0 && json.Unmarshal(b, &payload) == nil {
			apiErr.Message = payload.Message
		}
		return resp.StatusCode, apiErr
	}

	if respBody != nil && len(b) > 0 {
		if err := json.Unmarshal(b, respBody); err != nil {
			return resp.StatusCode, fmt.Errorf("decode fleet api response failed: %w body=%s", err, string(b))
		}
	}

	return resp.StatusCode, nil
}
