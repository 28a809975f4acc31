// Package feed retrieves the raw CSV text of the published sheet.
package feed

import (
	"context"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"
	"github.com/swezzy/sheetcms/config"
	"github.com/swezzy/sheetcms/log"
	"github.com/swezzy/sheetcms/pool"
)

const (
	DefaultAttempts   = 3
	DefaultTimeout    = 5 * time.Second
	DefaultRetryDelay = time.Second
)

//go:generate mockgen -package=mock_feed -destination=mock_feed/mock_feed.go github.com/swezzy/sheetcms/feed Source

// Source produces the raw text of the sheet.
type Source interface {
	FetchRaw(ctx context.Context) (string, error)
}

// HTTPClient allows injecting the client used for requests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// FetchError is returned once every attempt to reach the source has failed.
type FetchError struct {
	URL      string
	Attempts int
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching %s failed after %d attempt(s): %v", e.URL, e.Attempts, e.Err)
}

func (e *FetchError) Cause() error {
	return e.Err
}

func IsFetchError(err error) bool {
	_, ok := err.(*FetchError)
	return ok
}

type Option func(*Fetcher)

func WithHTTPClient(client HTTPClient) Option {
	return func(f *Fetcher) {
		f.client = client
	}
}

func WithAttempts(n int) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.attempts = n
		}
	}
}

// WithTimeout bounds every single attempt, body included.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		if d > 0 {
			f.timeout = d
		}
	}
}

// WithRetryDelay sets the fixed pause between two attempts.
func WithRetryDelay(d time.Duration) Option {
	return func(f *Fetcher) {
		if d >= 0 {
			f.delay = d
		}
	}
}

// Fetcher downloads the sheet from a single, fixed URL.
type Fetcher struct {
	url      string
	client   HTTPClient
	attempts int
	timeout  time.Duration
	delay    time.Duration
	log      log.Log
}

func NewFetcher(url string, log log.Log, opts ...Option) Fetcher {
	f := Fetcher{
		url:      url,
		client:   http.DefaultClient,
		attempts: DefaultAttempts,
		timeout:  DefaultTimeout,
		delay:    DefaultRetryDelay,
		log:      log,
	}

	for _, o := range opts {
		o(&f)
	}

	return f
}

// FetcherFromConfig builds a fetcher out of the [source] section.
func FetcherFromConfig(cfg config.Source, client HTTPClient, log log.Log) Fetcher {
	opts := []Option{
		WithAttempts(cfg.Attempts),
		WithTimeout(cfg.Converted.Timeout),
		WithRetryDelay(cfg.Converted.RetryDelay),
	}
	if client != nil {
		opts = append(opts, WithHTTPClient(client))
	}

	return NewFetcher(cfg.URL, log, opts...)
}

func (f Fetcher) URL() string {
	return f.url
}

// FetchRaw returns the body of the first successful attempt. Attempts are
// separated by a constant delay; when all of them fail, a *FetchError
// carrying the last cause is returned.
func (f Fetcher) FetchRaw(ctx context.Context) (string, error) {
	var (
		body     string
		attempts int
	)

	b := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(f.delay), uint64(f.attempts-1)),
		ctx,
	)

	op := func() error {
		attempts++

		s, err := f.attempt(ctx)
		if err != nil {
			return err
		}

		body = s
		return nil
	}

	notify := func(err error, wait time.Duration) {
		f.log.Infof("Attempt %d/%d to download %s failed, retrying in %s: %v", attempts, f.attempts, f.url, wait, err)
	}

	if err := backoff.RetryNotify(op, b, notify); err != nil {
		return "", &FetchError{URL: f.url, Attempts: attempts, Err: err}
	}

	f.log.Debugf("Downloaded %d bytes from %s in %d attempt(s)", len(body), f.url, attempts)

	return body, nil
}

func (f Fetcher) attempt(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequest(http.MethodGet, f.url, nil)
	if err != nil {
		return "", backoff.Permanent(errors.Wrapf(err, "creating request for %s", f.url))
	}
	req = req.WithContext(ctx)
	req.Header.Set("Accept", "text/csv")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "requesting sheet")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(ioutil.Discard, resp.Body)

		return "", errors.Errorf("HTTP Status: %d", resp.StatusCode)
	}

	buf := pool.Buffer.Get()
	defer pool.Buffer.Put(buf)

	if _, err := buf.ReadFrom(resp.Body); err != nil {
		return "", errors.Wrap(err, "reading sheet body")
	}

	return buf.String(), nil
}
