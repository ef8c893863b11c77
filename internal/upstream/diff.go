package upstream

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
)

const maxDiffBytes = 64 << 20

// DiffFetcher downloads the unified diff of a pull request.
type DiffFetcher interface {
	Fetch(ctx context.Context, pr string) ([]byte, error)
}

// HTTPDiffFetcher fetches diffs from a URL template containing one %s.
type HTTPDiffFetcher struct {
	client    *retryablehttp.Client
	urlFormat string
	maxBytes  int64
}

var _ DiffFetcher = (*HTTPDiffFetcher)(nil)

// NewDiffFetcher returns a fetcher retrying transient failures.
func NewDiffFetcher(urlFormat string, log *zap.Logger) *HTTPDiffFetcher {
	if log == nil {
		log = zap.NewNop()
	}
	c := retryablehttp.NewClient()
	c.RetryMax = 4
	c.RetryWaitMin = 500 * time.Millisecond
	c.RetryWaitMax = 8 * time.Second
	c.Logger = leveledLogger{log.Sugar()}
	return &HTTPDiffFetcher{client: c, urlFormat: urlFormat, maxBytes: maxDiffBytes}
}

// URL returns the diff location for pr.
func (f *HTTPDiffFetcher) URL(pr string) string {
	return fmt.Sprintf(f.urlFormat, url.PathEscape(pr))
}

func (f *HTTPDiffFetcher) Fetch(ctx context.Context, pr string) ([]byte, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, f.URL(pr), nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch pull request %s: %w", pr, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch pull request %s: %s", pr, resp.Status)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read pull request %s: %w", pr, err)
	}
	if int64(len(body)) > f.maxBytes {
		return nil, fmt.Errorf("fetch pull request %s: diff too large (over %d bytes)", pr, f.maxBytes)
	}
	return body, nil
}

// leveledLogger routes retryablehttp messages to zap.
type leveledLogger struct{ s *zap.SugaredLogger }

func (l leveledLogger) Error(msg string, kv ...interface{}) { l.s.Errorw(msg, kv...) }
func (l leveledLogger) Info(msg string, kv ...interface{})  { l.s.Debugw(msg, kv...) }
func (l leveledLogger) Debug(msg string, kv ...interface{}) { l.s.Debugw(msg, kv...) }
func (l leveledLogger) Warn(msg string, kv ...interface{})  { l.s.Warnw(msg, kv...) }
