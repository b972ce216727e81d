package httputil

import (
	"fmt"
	"net/http"
	"time"

	"github.com/matzehuels/brainlift/pkg/observability"
)

// Do executes an HTTP request with the given client, emitting observability
// events for the request, the response, and any transport error.
//
// Responses with status 429 or 5xx are wrapped in [RetryableError] so that
// callers running inside [Retry] will attempt them again. The response body
// is NOT consumed on error; callers own closing it when resp is non-nil.
func Do(client *http.Client, req *http.Request) (*http.Response, error) {
	if client == nil {
		client = http.DefaultClient
	}

	ctx := req.Context()
	host, path := req.URL.Host, req.URL.Path
	observability.HTTP().OnRequest(ctx, req.Method, host, path)

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		observability.HTTP().OnError(ctx, req.Method, host, path, err)
		return nil, &RetryableError{Err: err}
	}

	observability.HTTP().OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return resp, &RetryableError{Err: &StatusError{Code: resp.StatusCode}}
	}
	return resp, nil
}

// StatusError reports an HTTP response with a non-success status code.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d %s", e.Code, http.StatusText(e.Code))
}
