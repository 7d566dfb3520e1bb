// Package regen requests missing custom derivatives from the gallery so it
// generates them, one scan page at a time.
package regen

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/h2non/filetype"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"customderiv/internal/domain"
	"customderiv/internal/metrics"
)

// headerBytes is enough for filetype to recognise every image format it knows.
const headerBytes = 261

// Lister is the scan surface the driver pages through.
type Lister interface {
	ListMissing(ctx context.Context, req domain.ScanRequest) (domain.ScanResult, error)
}

type Options struct {
	Concurrency int
	DryRun      bool
	Client      *http.Client
	Logger      zerolog.Logger
	Metrics     metrics.MetricsSvc
	// MaxPages stops the run after that many scan pages; zero means no limit.
	MaxPages int
}

// Summary counts the outcome of a run. In dry-run mode Planned holds the URLs
// that would have been requested.
type Summary struct {
	Regenerated int
	Failed      int
	Pages       int
	Planned     []string
}

type Driver struct {
	lister  Lister
	client  *http.Client
	opts    Options
	logger  zerolog.Logger
	metrics metrics.MetricsSvc
}

func NewDriver(lister Lister, opts Options) *Driver {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 4
	}
	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: 2 * time.Minute}
	}
	m := opts.Metrics
	if m == nil {
		m = metrics.NewNoopMetricsSvc()
	}
	return &Driver{lister: lister, client: client, opts: opts, logger: opts.Logger, metrics: m}
}

// Run scans from req.Cursor until the catalog is exhausted, fetching every
// missing derivative URL. Individual fetch failures are counted, not returned;
// scan errors and context cancellation abort the run.
func (d *Driver) Run(ctx context.Context, req domain.ScanRequest) (Summary, error) {
	var sum Summary
	for {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		res, err := d.lister.ListMissing(ctx, req)
		if err != nil {
			return sum, fmt.Errorf("regen: scan from %d: %w", req.Cursor, err)
		}
		sum.Pages++

		if d.opts.DryRun {
			sum.Planned = append(sum.Planned, res.URLs...)
		} else {
			ok, failed, err := d.fetchAll(ctx, res.URLs)
			sum.Regenerated += ok
			sum.Failed += failed
			if err != nil {
				return sum, err
			}
		}
		d.logger.Info().
			Int("page", sum.Pages).
			Int("urls", len(res.URLs)).
			Int64("next", res.NextCursor).
			Msg("regen page done")

		if !res.HasMore() {
			return sum, nil
		}
		if d.opts.MaxPages > 0 && sum.Pages >= d.opts.MaxPages {
			return sum, nil
		}
		req.Cursor = res.NextCursor
	}
}

func (d *Driver) fetchAll(ctx context.Context, urls []string) (int, int, error) {
	var ok, failed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.opts.Concurrency)
	for _, u := range urls {
		g.Go(func() error {
			if err := d.fetch(gctx, u); err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				failed.Add(1)
				d.metrics.Add(gctx, metrics.RegenFailed, 1, nil)
				d.logger.Warn().Err(err).Str("url", u).Msg("derivative not regenerated")
				return nil
			}
			ok.Add(1)
			d.metrics.Add(gctx, metrics.RegenSucceeded, 1, nil)
			return nil
		})
	}
	err := g.Wait()
	return int(ok.Load()), int(failed.Load()), err
}

var errNotImage = errors.New("response is not an image")

func (d *Driver) fetch(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := d.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	head := make([]byte, headerBytes)
	n, err := io.ReadFull(resp.Body, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return err
	}
	if !filetype.IsImage(head[:n]) {
		return errNotImage
	}
	// drain so the connection can be reused
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
