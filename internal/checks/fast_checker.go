package checks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/sourcegraph/conc/pool"

	"ozzus/pingdumb/internal/domain"
)

const (
	fastSiteURL = "https://fast.com"
	fastAPIURL  = "https://api.fast.com/netflix/speedtest/v2"
)

var (
	fastScriptRegexp = regexp.MustCompile(`<script src="(/app-[^"]+\.js)"`)
	fastTokenRegexp  = regexp.MustCompile(`token:"([a-zA-Z0-9]+)"`)
)

// FastChecker measures download throughput against fast.com targets.
// Upload is not measured.
type FastChecker struct {
	client   *http.Client
	siteURL  string
	apiURL   string
	urlCount int
	duration time.Duration
}

func NewFastChecker(client *http.Client, urlCount int, duration time.Duration) *FastChecker {
	if client == nil {
		client = newPooledClient()
	}
	if urlCount <= 0 {
		urlCount = 5
	}
	if duration <= 0 {
		duration = 10 * time.Second
	}

	return &FastChecker{
		client:   client,
		siteURL:  fastSiteURL,
		apiURL:   fastAPIURL,
		urlCount: urlCount,
		duration: duration,
	}
}

func (f *FastChecker) Run(ctx context.Context, _ string, _ time.Duration, opts Options) (interface{}, error) {
	urlCount := intParam(opts.Parameters, "url_count", f.urlCount)
	if urlCount <= 0 {
		urlCount = f.urlCount
	}

	testDuration := secondsParam(opts.Parameters, "duration", f.duration)

	token, err := f.fetchToken(ctx)
	if err != nil {
		return nil, err
	}

	targets, err := f.fetchTargets(ctx, token, urlCount)
	if err != nil {
		return nil, err
	}

	// leave headroom inside the engine deadline for reporting
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline) * 8 / 10; remaining < testDuration {
			testDuration = remaining
		}
	}

	dlCtx, cancel := context.WithTimeout(ctx, testDuration)
	defer cancel()

	start := time.Now()

	p := pool.NewWithResults[int64]().WithContext(dlCtx)
	for _, target := range targets {
		target := target
		p.Go(func(ctx context.Context) (int64, error) {
			return f.download(ctx, target)
		})
	}

	counts, err := p.Wait()
	elapsed := time.Since(start)

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var total int64
	for _, n := range counts {
		total += n
	}

	if total == 0 {
		if err == nil {
			err = errors.New("no data downloaded")
		}
		return nil, domain.NewTransportError(err)
	}

	prefix := token
	if len(prefix) > 8 {
		prefix = prefix[:8]
	}

	return domain.FastPayload{
		DownloadMbps:    float64(total) * 8 / elapsed.Seconds() / 1e6,
		UploadMbps:      0,
		TestDurationSec: elapsed.Seconds(),
		URLsTested:      len(targets),
		TokenPrefix:     prefix,
	}, nil
}

func (f *FastChecker) fetchToken(ctx context.Context) (string, error) {
	page, err := f.get(ctx, f.siteURL+"/")
	if err != nil {
		return "", err
	}

	script := fastScriptRegexp.FindStringSubmatch(page)
	if len(script) != 2 {
		return "", domain.NewTransportError(errors.New("fast.com: app script not found"))
	}

	body, err := f.get(ctx, strings.TrimSuffix(f.siteURL, "/")+script[1])
	if err != nil {
		return "", err
	}

	token := fastTokenRegexp.FindStringSubmatch(body)
	if len(token) != 2 {
		return "", domain.NewTransportError(errors.New("fast.com: token not found"))
	}

	return token[1], nil
}

func (f *FastChecker) fetchTargets(ctx context.Context, token string, urlCount int) ([]string, error) {
	query := url.Values{}
	query.Set("https", "true")
	query.Set("token", token)
	query.Set("urlCount", fmt.Sprintf("%d", urlCount))

	body, err := f.get(ctx, f.apiURL+"?"+query.Encode())
	if err != nil {
		return nil, err
	}

	var resp struct {
		Targets []struct {
			URL string `json:"url"`
		} `json:"targets"`
	}
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		return nil, domain.NewTransportError(fmt.Errorf("fast.com: decode targets: %w", err))
	}

	targets := make([]string, 0, len(resp.Targets))
	for _, t := range resp.Targets {
		if t.URL != "" {
			targets = append(targets, t.URL)
		}
	}
	if len(targets) == 0 {
		return nil, domain.NewTransportError(errors.New("fast.com: no download targets"))
	}

	return targets, nil
}

func (f *FastChecker) get(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", domain.NewTransportError(err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", domain.NewTransportError(unwrapURLError(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return "", domain.NewTransportError(fmt.Errorf("fast.com: unexpected status %d from %s", resp.StatusCode, req.URL.Host))
	}

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", domain.NewTransportError(err)
	}

	return string(b), nil
}

// download counts bytes until the body ends or the test window closes.
// Hitting the window is the normal way a download stops.
func (f *FastChecker) download(ctx context.Context, target string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return 0, err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return 0, nil
		}
		return 0, unwrapURLError(err)
	}
	defer resp.Body.Close()

	n, err := io.Copy(io.Discard, resp.Body)
	if err != nil && ctx.Err() == nil {
		return n, err
	}

	return n, nil
}
