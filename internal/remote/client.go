// Package remote talks to a Scilla debugging service over HTTP.
package remote

import (
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tliron/commonlog"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/text/unicode/norm"

	"scilla/internal/checker"
)

var log = commonlog.GetLogger("scilla.remote")

// maxResponse caps the body read from the service.
const maxResponse = 8 << 20

// Client posts contracts to <BaseURL>/debug.
type Client struct {
	BaseURL  string
	GasLimit string
	HTTP     *http.Client
}

// New returns a client with a bounded request timeout.
func New(baseURL, gasLimit string) *Client {
	return &Client{
		BaseURL:  baseURL,
		GasLimit: gasLimit,
		HTTP:     &http.Client{Timeout: 30 * time.Second},
	}
}

// StatusError is returned when the service answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return "debug service: " + http.StatusText(e.StatusCode)
	}
	return "debug service: " + http.StatusText(e.StatusCode) + ": " + e.Body
}

// Encode normalises source to NFC and base64-encodes it with '+' replaced by
// '-', which is what the service decodes.
func Encode(source string) string {
	enc := base64.StdEncoding.EncodeToString([]byte(norm.NFC.String(source)))
	return strings.ReplaceAll(enc, "+", "-")
}

// Endpoint builds the request URL for one contract.
func (c *Client) Endpoint(filename, source, gasLimit string) (string, error) {
	u, err := url.Parse(strings.TrimRight(c.BaseURL, "/") + "/debug")
	if err != nil {
		return "", errors.Errorf("remote url %q: %w", c.BaseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", errors.Errorf("remote url %q: missing scheme or host", c.BaseURL)
	}

	q := url.Values{}
	q.Set("filename", filename)
	q.Set("gas_limit", gasLimit)
	q.Set("source", Encode(source))
	q.Set("hash", uuid.NewString())
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Debug sends source to the service and decodes its report.
func (c *Client) Debug(ctx context.Context, filename, source, gasLimit string) (*checker.Report, error) {
	endpoint, err := c.Endpoint(filename, source, gasLimit)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return nil, errors.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	hc := c.HTTP
	if hc == nil {
		hc = http.DefaultClient
	}

	log.Debugf("posting %s (%d bytes) to %s", filename, len(source), c.BaseURL)
	resp, err := hc.Do(req)
	if err != nil {
		return nil, errors.Errorf("post %s: %w", filename, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponse))
	if err != nil {
		return nil, errors.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	report, err := checker.ParseReport(body)
	if err != nil {
		return nil, errors.Errorf("decode response: %w", err)
	}
	return report, nil
}

// Diagnose sends the document's in-memory text, so unsaved edits are checked.
func (c *Client) Diagnose(ctx context.Context, doc checker.Document) (*checker.Report, error) {
	return c.Debug(ctx, filepath.Base(doc.Path), doc.Text, c.GasLimit)
}
