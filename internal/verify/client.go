package verify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/egov-mobile/qr-sign-service/app/internal/sign"
)

// Config holds the oracle client settings. The struct is copied at
// construction time and never mutated afterwards.
type Config struct {
	// BaseURL is the oracle root, e.g. "http://ncanode:14579".
	BaseURL string

	// Timeout bounds a single verification request.
	Timeout time.Duration

	// RetryMaxAttempts is the total number of attempts per verification
	// call, including the first one.
	RetryMaxAttempts int

	// RetryBaseDelay is the initial backoff step.
	RetryBaseDelay time.Duration

	// RetryMaxDelay caps the backoff between attempts.
	RetryMaxDelay time.Duration
}

// Client calls the signature oracle. It is safe for concurrent use and is
// intended to be created once at startup.
type Client struct {
	baseURL    string
	httpClient *http.Client
	attempts   int
	baseDelay  time.Duration
	maxDelay   time.Duration
}

// NewClient builds an oracle client from cfg.
func NewClient(cfg Config) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
		attempts:   cfg.RetryMaxAttempts,
		baseDelay:  cfg.RetryBaseDelay,
		maxDelay:   cfg.RetryMaxDelay,
	}
}

// verifyResponse is the slice of the oracle response the service cares
// about. The pointer distinguishes a missing field from an explicit false.
type verifyResponse struct {
	Valid *bool `json:"valid"`
}

// VerifyCMS checks a CMS (PKCS#7) signature container.
func (c *Client) VerifyCMS(ctx context.Context, cmsBase64 string) (bool, error) {
	return c.verify(ctx, "/cms/verify", map[string]string{"cms": cmsBase64})
}

// VerifyXML checks an XMLDSig-signed document.
func (c *Client) VerifyXML(ctx context.Context, xml string) (bool, error) {
	return c.verify(ctx, "/xml/verify", map[string]string{"xml": xml})
}

// VerifyRaw checks a detached signature over a raw byte payload.
func (c *Client) VerifyRaw(ctx context.Context, dataBase64 string) (bool, error) {
	return c.verify(ctx, "/raw/verify", map[string]string{"data": dataBase64})
}

// verify POSTs the payload to the oracle and returns its verdict.
//
// Transport errors and 5xx/408/429 statuses are retried with capped
// exponential backoff; any other non-2xx status is final. The verdict is
// the boolean "valid" field of the response body: absent or malformed
// means not valid.
func (c *Client) verify(ctx context.Context, path string, payload map[string]string) (bool, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return false, sign.WrapInternalError(err, "marshaling oracle request")
	}

	backoff := retry.NewExponential(c.baseDelay)
	backoff = retry.WithCappedDuration(c.maxDelay, backoff)
	if c.attempts > 1 {
		backoff = retry.WithMaxRetries(uint64(c.attempts-1), backoff)
	} else {
		backoff = retry.WithMaxRetries(0, backoff)
	}

	var verdict bool
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		valid, attemptErr := c.attempt(ctx, path, body)
		if attemptErr != nil {
			return attemptErr
		}
		verdict = valid
		return nil
	})
	if err != nil {
		return false, sign.WrapVerificationError(err,
			fmt.Sprintf("oracle %s unavailable", path))
	}
	return verdict, nil
}

func (c *Client) attempt(ctx context.Context, path string, body []byte) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, retry.RetryableError(err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if isTransientStatus(resp.StatusCode) {
		// drain so the connection can be reused
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return false, retry.RetryableError(fmt.Errorf("oracle returned status %d", resp.StatusCode))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		slog.Debug("oracle rejected verification request",
			slog.String("path", path),
			slog.Int("status_code", resp.StatusCode),
		)
		// a definitive rejection, not an outage: the signature is not valid
		return false, nil
	}

	var parsed verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		slog.Debug("oracle response was not parseable",
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		return false, nil
	}
	return parsed.Valid != nil && *parsed.Valid, nil
}

// isTransientStatus reports whether the oracle status is worth retrying.
func isTransientStatus(code int) bool {
	return code >= 500 || code == http.StatusRequestTimeout || code == http.StatusTooManyRequests
}
