package httpx

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gocolly/colly/v2"
	"golang.org/x/time/rate"

	"github.com/ShreyaSuvarna1/Veerpath/internal/urlutil"
)

const (
	DefaultUserAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
	DefaultAcceptLanguage = "en-IN,en-GB;q=0.9,en-US;q=0.8,en;q=0.7"
	DefaultTimeout        = 10 * time.Second
)

type Options struct {
	UserAgent      string
	AcceptLanguage string
	// Timeout bounds each request. Sources may ask for a shorter one per call.
	Timeout       time.Duration
	RespectRobots bool
	// HostInterval is the minimum spacing between requests to one host.
	// Zero disables per-host limiting.
	HostInterval time.Duration
}

// CollyFetcher issues single, non-retried GETs through a fresh Colly collector
// with browser-like headers.
type CollyFetcher struct {
	userAgent      string
	acceptLanguage string
	timeout        time.Duration
	respectRobots  bool
	hostRate       rate.Limit

	mu    sync.Mutex
	hosts map[string]*rate.Limiter
}

type FetchError struct {
	URL    string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("fetch %s: status %d", e.URL, e.Status)
	}
	if e.Status == 0 {
		return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("fetch %s: status %d: %v", e.URL, e.Status, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func (e *FetchError) Kind() string {
	return "fetch"
}

func NewCollyFetcher(opts Options) *CollyFetcher {
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.AcceptLanguage == "" {
		opts.AcceptLanguage = DefaultAcceptLanguage
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	limit := rate.Inf
	if opts.HostInterval > 0 {
		limit = rate.Every(opts.HostInterval)
	}
	return &CollyFetcher{
		userAgent:      opts.UserAgent,
		acceptLanguage: opts.AcceptLanguage,
		timeout:        opts.Timeout,
		respectRobots:  opts.RespectRobots,
		hostRate:       limit,
		hosts:          make(map[string]*rate.Limiter),
	}
}

// Fetch performs exactly one GET and returns the body of a 2xx response.
// A timeout of zero uses the fetcher default; a longer one is clamped to it.
func (f *CollyFetcher) Fetch(ctx context.Context, rawURL string, timeout time.Duration) ([]byte, error) {
	target, err := urlutil.WithScheme(rawURL)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Err: err}
	}
	if err := f.limiterFor(urlutil.HostKey(target)).Wait(ctx); err != nil {
		return nil, &FetchError{URL: target, Err: err}
	}

	if timeout <= 0 || timeout > f.timeout {
		timeout = f.timeout
	}

	c := f.newCollector(timeout)

	var (
		body   []byte
		status int
		reqErr error
	)
	c.OnResponse(func(r *colly.Response) {
		status = r.StatusCode
		body = append([]byte(nil), r.Body...)
	})
	c.OnError(func(r *colly.Response, err error) {
		if r != nil {
			status = r.StatusCode
		}
		reqErr = err
	})

	collyCtx := colly.NewContext()
	collyCtx.Put("ctx", ctx)

	hdr := http.Header{}
	hdr.Set("User-Agent", f.userAgent)
	hdr.Set("Accept-Language", f.acceptLanguage)

	if err := c.Request(http.MethodGet, target, nil, collyCtx, hdr); err != nil {
		return nil, &FetchError{URL: target, Status: status, Err: err}
	}
	if reqErr != nil {
		return nil, &FetchError{URL: target, Status: status, Err: reqErr}
	}
	if ctx.Err() != nil {
		return nil, &FetchError{URL: target, Err: ctx.Err()}
	}
	if status < 200 || status > 299 {
		return nil, &FetchError{URL: target, Status: status}
	}
	return body, nil
}

func (f *CollyFetcher) newCollector(timeout time.Duration) *colly.Collector {
	c := colly.NewCollector(colly.UserAgent(f.userAgent))
	c.IgnoreRobotsTxt = !f.respectRobots
	// status is judged in Fetch; colly alone rejects everything from 203 up
	c.ParseHTTPErrorResponse = true
	c.SetRequestTimeout(timeout)

	c.OnRequest(func(r *colly.Request) {
		ctx := context.Background()
		if v := r.Ctx.GetAny("ctx"); v != nil {
			if reqCtx, ok := v.(context.Context); ok {
				ctx = reqCtx
			}
		}
		if ctx.Err() != nil {
			r.Abort()
			return
		}
		r.Headers.Set("Accept-Language", f.acceptLanguage)
	})

	return c
}

func (f *CollyFetcher) limiterFor(host string) *rate.Limiter {
	f.mu.Lock()
	defer f.mu.Unlock()
	if host == "" {
		host = "default"
	}
	if l, ok := f.hosts[host]; ok {
		return l
	}
	l := rate.NewLimiter(f.hostRate, 1)
	f.hosts[host] = l
	return l
}
