package httpclient

import (
	"context"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/fasthttp"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// StatusError is returned by GetJSON for non-200 responses.
type StatusError struct {
	URL        string
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("request to %s failed with status %d", e.URL, e.StatusCode)
}

// Get performs a GET honouring the context deadline, or timeout when ctx has none.
// The returned body is a copy safe to use after the response is released.
func Get(ctx context.Context, client *fasthttp.Client, requestURL string, timeout time.Duration) ([]byte, int, error) {
	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(requestURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	var err error
	if deadline, ok := ctx.Deadline(); ok {
		err = client.DoDeadline(req, resp, deadline)
	} else {
		err = client.DoTimeout(req, resp, timeout)
	}
	if err != nil {
		return nil, 0, fmt.Errorf("failed to execute request to %s: %w", requestURL, err)
	}

	body := append([]byte(nil), resp.Body()...)
	return body, resp.StatusCode(), nil
}

// GetJSON performs Get and decodes a 200 response into out.
func GetJSON(ctx context.Context, client *fasthttp.Client, requestURL string, timeout time.Duration, out interface{}) error {
	body, status, err := Get(ctx, client, requestURL, timeout)
	if err != nil {
		return err
	}
	if status != fasthttp.StatusOK {
		return &StatusError{URL: requestURL, StatusCode: status, Body: body}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to unmarshal response from %s: %w", requestURL, err)
	}
	return nil
}
