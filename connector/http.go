package connector

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/hupe1980/omnimesh/core"
	"github.com/tidwall/gjson"
)

// maxResponseBytes caps how much of a provider response body is read.
const maxResponseBytes = 8 << 20

// HTTPDoer is satisfied by *http.Client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// DoJSON performs one HTTP exchange with an optional JSON body and returns
// the raw response body. Non-2xx statuses are classified: 429 and 5xx are
// transient, every other status is a rejection.
func DoJSON(ctx context.Context, client HTTPDoer, method, url string, headers map[string]string, body any) ([]byte, error) {
	status, data, err := Send(ctx, client, method, url, headers, body)
	if err != nil {
		return nil, err
	}
	if err := StatusError(status, data); err != nil {
		return data, err
	}
	return data, nil
}

// Send performs one HTTP exchange and returns the status and body without
// judging the status. Transport failures are classified.
func Send(ctx context.Context, client HTTPDoer, method, url string, headers map[string]string, body any) (int, []byte, error) {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return 0, nil, core.NewProviderError("", core.KindRejected, fmt.Errorf("encode request: %w", err))
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, rdr)
	if err != nil {
		return 0, nil, core.NewProviderError("", core.KindRejected, fmt.Errorf("build request: %w", err))
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, ClassifyTransport(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return resp.StatusCode, nil, core.NewProviderError("", core.KindTransient, fmt.Errorf("read response: %w", err))
	}
	return resp.StatusCode, data, nil
}

// ClassifyTransport maps a failed round trip onto the error taxonomy.
// Caller cancellation is returned unchanged.
func ClassifyTransport(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.Canceled):
		return err
	case errors.Is(err, context.DeadlineExceeded):
		return core.NewProviderError("", core.KindTimeout, err)
	default:
		return core.NewProviderError("", core.KindTransient, err)
	}
}

// StatusError classifies a non-2xx HTTP status, or returns nil for 2xx.
func StatusError(status int, body []byte) error {
	if status/100 == 2 {
		return nil
	}
	msg := errorMessage(body)
	if msg == "" {
		msg = http.StatusText(status)
	}
	cause := fmt.Errorf("status=%d: %s", status, msg)
	if status == http.StatusTooManyRequests || status >= http.StatusInternalServerError {
		return core.NewProviderError("", core.KindTransient, cause)
	}
	return core.NewProviderError("", core.KindRejected, cause)
}

func errorMessage(body []byte) string {
	if !gjson.ValidBytes(body) {
		return string(bytes.TrimSpace(body))
	}
	for _, path := range []string{"error.message", "error", "message", "detail"} {
		if v := gjson.GetBytes(body, path); v.Type == gjson.String && v.Str != "" {
			return v.Str
		}
	}
	return ""
}
