package checks

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"ozzus/pingdumb/internal/domain"
)

// HTTPChecker shares one pooled client across concurrent executions.
// Any response, whatever its status code, is a successful probe.
type HTTPChecker struct {
	client *http.Client
}

func NewHTTPChecker(client *http.Client) *HTTPChecker {
	if client == nil {
		client = newPooledClient()
	}

	return &HTTPChecker{client: client}
}

func (h *HTTPChecker) Run(ctx context.Context, target string, timeout time.Duration, opts Options) (interface{}, error) {
	resolvedURL, err := h.prepareURL(target)
	if err != nil {
		return nil, domain.NewConfigurationError(fmt.Sprintf("invalid url: %v", err))
	}

	method := strings.ToUpper(stringParam(opts.Parameters, "method", http.MethodGet))

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, resolvedURL, nil)
	if err != nil {
		return nil, domain.NewConfigurationError(err.Error())
	}

	for key, value := range stringMapParam(opts.Parameters, "headers") {
		req.Header.Set(key, value)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, domain.NewTransportError(unwrapURLError(err))
	}
	defer resp.Body.Close()

	n, err := io.Copy(io.Discard, resp.Body)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, domain.NewTransportError(fmt.Errorf("read body: %w", err))
	}

	headers := make(map[string]string, len(resp.Header))
	for key, values := range resp.Header {
		headers[key] = strings.Join(values, ", ")
	}

	return domain.HTTPPayload{
		StatusCode:    resp.StatusCode,
		Headers:       headers,
		ContentLength: int(n),
	}, nil
}

func (h *HTTPChecker) prepareURL(target string) (string, error) {
	target = strings.TrimSpace(target)
	if target == "" {
		return "", fmt.Errorf("empty target")
	}

	if !strings.Contains(target, "://") {
		target = "http://" + target
	}

	parsed, err := url.Parse(target)
	if err != nil {
		return "", err
	}

	if parsed.Scheme == "" {
		parsed.Scheme = "http"
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("missing host in %q", target)
	}

	return parsed.String(), nil
}

func unwrapURLError(err error) error {
	if urlErr, ok := err.(*url.Error); ok {
		return urlErr.Err
	}
	return err
}
