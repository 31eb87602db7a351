package bookingapi

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

	"easyrent/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrUnexpectedStatus = errs.New("unexpected status from booking api")

// APIError is a non-2xx answer carrying the server's error envelope.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("booking api: status %d", e.Status)
	}
	return fmt.Sprintf("booking api: status %d: %s", e.Status, e.Message)
}

// Is lets errs.Is(err, ErrUnexpectedStatus) match any APIError.
func (e *APIError) Is(target error) bool {
	return target == ErrUnexpectedStatus
}

type Slot struct {
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
}

type QuoteRequest struct {
	CarID       uuid.UUID `json:"carId"`
	PricingMode string    `json:"pricingMode"`
	StartDate   string    `json:"startDate"`
	StartTime   string    `json:"startTime"`
	EndDate     string    `json:"endDate"`
	EndTime     string    `json:"endTime"`
	WithDriver  bool      `json:"withDriver"`
}

type Quote struct {
	CarID                    uuid.UUID `json:"carId"`
	Currency                 string    `json:"currency"`
	Valid                    bool      `json:"valid"`
	PricingMode              string    `json:"pricingMode"`
	WithDriver               bool      `json:"withDriver"`
	Unit                     string    `json:"unit"`
	UnitPrice                int64     `json:"unitPrice"`
	Duration                 int64     `json:"duration"`
	DurationHours            int64     `json:"durationHours"`
	DiscountPercent          int       `json:"discountPercent"`
	EffectiveDiscountPercent float64   `json:"effectiveDiscountPercent"`
	ListPrice                int64     `json:"listPrice"`
	RentalPrice              int64     `json:"rentalPrice"`
	DriverFee                int64     `json:"driverFee"`
	TotalPrice               int64     `json:"totalPrice"`
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithToken sends token as a Bearer credential on every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// Client talks JSON to the booking backend. It satisfies probe.Checker.
type Client struct {
	http    *http.Client
	baseURL string
	token   string
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		http:    &http.Client{Timeout: 10 * time.Second},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) CheckAvailability(ctx context.Context, carID uuid.UUID, start, end time.Time) (bool, error) {
	q := url.Values{}
	q.Set("carId", carID.String())
	q.Set("startDate", start.UTC().Format(time.RFC3339))
	q.Set("endDate", end.UTC().Format(time.RFC3339))

	var out struct {
		Available bool `json:"available"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/bookings/check-availability?"+q.Encode(), nil, &out); err != nil {
		return false, errs.Wrap(err, "check availability")
	}
	return out.Available, nil
}

func (c *Client) Occupied(ctx context.Context, carID uuid.UUID) ([]Slot, error) {
	var out []Slot
	if err := c.do(ctx, http.MethodGet, "/api/bookings/car/"+carID.String()+"/occupied", nil, &out); err != nil {
		return nil, errs.Wrap(err, "occupied slots")
	}
	return out, nil
}

func (c *Client) Quote(ctx context.Context, req QuoteRequest) (*Quote, error) {
	var out Quote
	if err := c.do(ctx, http.MethodPost, "/api/quotes", req, &out); err != nil {
		return nil, errs.Wrap(err, "quote")
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeAPIError(resp)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func decodeAPIError(resp *http.Response) error {
	const max = 2048
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, max))

	var envelope struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	apiErr := &APIError{Status: resp.StatusCode}
	if json.Unmarshal(raw, &envelope) == nil && envelope.Error.Message != "" {
		apiErr.Message = envelope.Error.Message
	} else {
		apiErr.Message = strings.TrimSpace(string(raw))
	}
	return apiErr
}
