package fetch

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/daehan-lim/weathervault/telemetry"
)

// ErrExhausted is returned when every fetch attempt failed. The run has no
// snapshot at that point and must be treated as a hard failure.
var ErrExhausted = errors.New("all fetch attempts failed")

// RetryPolicy bounds the fetch loop. Sleep may be replaced by tests to skip
// real delays; when nil, time.Sleep is used.
type RetryPolicy struct {
	MaxAttempts int
	Interval    time.Duration
	Sleep       func(time.Duration)
}

func (p RetryPolicy) sleep(d time.Duration) {
	if p.Sleep != nil {
		p.Sleep(d)
		return
	}
	time.Sleep(d)
}

// Query carries the forecast request parameters.
type Query struct {
	ServiceKey string
	PageNo     int
	NumOfRows  int
	BaseDate   string // YYYYMMDD
	BaseTime   string // HHMM
	Nx         int
	Ny         int
}

func (q Query) values() url.Values {
	v := url.Values{}
	v.Set("serviceKey", q.ServiceKey)
	v.Set("pageNo", strconv.Itoa(q.PageNo))
	v.Set("numOfRows", strconv.Itoa(q.NumOfRows))
	v.Set("dataType", "XML")
	v.Set("base_date", q.BaseDate)
	v.Set("base_time", q.BaseTime)
	v.Set("nx", strconv.Itoa(q.Nx))
	v.Set("ny", strconv.Itoa(q.Ny))
	return v
}

type Client struct {
	HTTPClient *http.Client
	URL        string
	Retry      RetryPolicy
	Logger     telemetry.Logger
	Metrics    telemetry.Metrics
}

func NewClient(rawURL string, retry RetryPolicy, logger telemetry.Logger, metrics telemetry.Metrics) *Client {
	if logger == nil {
		logger = telemetry.NOPLogger{}
	}
	if metrics == nil {
		metrics = telemetry.NOPMetrics{}
	}
	return &Client{
		HTTPClient: http.DefaultClient,
		URL:        rawURL,
		Retry:      retry,
		Logger:     logger,
		Metrics:    metrics,
	}
}

// Fetch issues the forecast request, retrying transient failures up to the
// policy bound with a fixed interval between attempts. A body that arrives
// but fails to decode is not retried.
func (c *Client) Fetch(ctx context.Context, q Query) (*Response, error) {
	reqURL := c.URL + "?" + q.values().Encode()

	var lastErr error
	for attempt := 1; attempt <= c.Retry.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		body, err := c.get(ctx, reqURL)
		if err == nil {
			var resp Response
			if err := xml.Unmarshal(body, &resp); err != nil {
				return nil, errors.Wrapf(ErrMalformedResponse, "decoding body: %v", err)
			}
			c.Metrics.IncrCount("fetch.success", 1)
			return &resp, nil
		}

		lastErr = err
		c.Logger.Error(fmt.Sprintf("fetch attempt %d/%d failed", attempt, c.Retry.MaxAttempts), err)
		c.Metrics.IncrCount("fetch.failure", 1)

		if attempt < c.Retry.MaxAttempts {
			c.Retry.sleep(c.Retry.Interval)
		}
	}

	return nil, errors.Wrapf(ErrExhausted, "giving up after %d attempts, last error: %v", c.Retry.MaxAttempts, lastErr)
}

// get performs one GET attempt and classifies its failure mode.
func (c *Client) get(ctx context.Context, reqURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "building request")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		var netErr net.Error
		var opErr *net.OpError
		switch {
		case errors.As(err, &netErr) && netErr.Timeout():
			return nil, errors.Wrap(err, "timeout error")
		case errors.As(err, &opErr):
			return nil, errors.Wrap(err, "connection error")
		default:
			return nil, errors.Wrap(err, "request error")
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body)
		return nil, errors.Newf("http status error: %s", resp.Status)
	}

	return io.ReadAll(resp.Body)
}
