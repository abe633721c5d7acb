package counting

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/itsatony/headcount/internal/config"
	"github.com/itsatony/headcount/internal/errors"
)

const StatusSuccess = "success"

// Request asks for the counts of one camera over [StartTime, EndTime), in epoch seconds.
type Request struct {
	CameraName string `json:"camera_name"`
	CameraID   int64  `json:"camera_id"`
	StartTime  int64  `json:"start_time"`
	EndTime    int64  `json:"end_time"`
}

// Count is one observation returned by the counting service.
type Count struct {
	CameraID   int64        `json:"camera_id"`
	CameraName string       `json:"camera_name"`
	In         int64        `json:"in"`
	Out        int64        `json:"out"`
	StartTime  EpochSeconds `json:"start_time"`
	EndTime    EpochSeconds `json:"end_time"`
}

type Response struct {
	Status string  `json:"status"`
	Data   []Count `json:"data"`
}

// Succeeded reports whether the service answered with status "success".
func (r *Response) Succeeded() bool {
	return r != nil && r.Status == StatusSuccess
}

// EpochSeconds accepts a JSON number (integer or fractional) or a numeric string.
type EpochSeconds int64

func (e *EpochSeconds) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(bytes.TrimSpace(data)), `"`)
	if raw == "" || raw == "null" {
		return fmt.Errorf("empty epoch value")
	}
	if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
		*e = EpochSeconds(v)
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("invalid epoch value %q: %w", raw, err)
	}
	*e = EpochSeconds(int64(f))
	return nil
}

func (e EpochSeconds) Time() time.Time {
	return time.Unix(int64(e), 0)
}

// Client posts batches of count requests to the external counting service.
type Client struct {
	baseURL    string
	formField  string
	httpClient *http.Client
}

func NewClient(cfg config.CountingConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	field := cfg.FormField
	if field == "" {
		field = "data"
	}
	return &Client{
		baseURL:   cfg.URL,
		formField: field,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// FetchCounts sends one form-encoded POST whose single field holds the JSON array of requests.
func (c *Client) FetchCounts(ctx context.Context, batch []Request) (*Response, error) {
	payload, err := json.Marshal(batch)
	if err != nil {
		return nil, errors.NewInternalError("encoding counting request", err)
	}

	form := url.Values{}
	form.Set(c.formField, string(payload))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, errors.NewInternalError("creating counting request", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.NewUpstreamError("executing counting request", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return nil, errors.NewUpstreamError(fmt.Sprintf("unexpected status code: %d", resp.StatusCode), nil)
	}

	var out Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, errors.NewUpstreamError("decoding counting response", err)
	}
	return &out, nil
}
