// Package scan lists custom derivatives that have not been generated yet.
//
// A scan walks the catalog newest first in pages of ids below a moving
// boundary. The boundary is returned as the cursor when the URL budget runs
// out before the catalog does, so a caller can continue the same scan later.
package scan

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"customderiv/internal/domain"
	"customderiv/internal/metrics"
	"customderiv/internal/sizespec"
)

// Tuning bounds the number of catalog rows read per page. The page size is
// min(MaxPageRows, ceil(max(count/RowsPerPageDivisor, maxResults/specCount))).
type Tuning struct {
	RowsPerPageDivisor float64
	MaxPageRows        int
	DefaultMaxResults  int
}

// DefaultTuning returns the gallery's historical values.
func DefaultTuning() Tuning {
	return Tuning{
		RowsPerPageDivisor: 500,
		MaxPageRows:        5000,
		DefaultMaxResults:  domain.DefaultMaxResults,
	}
}

// Options carries the optional scanner settings.
type Options struct {
	PictureExts []string
	Tuning      Tuning
	Logger      zerolog.Logger
	Metrics     metrics.MetricsSvc
	// Now stamps the cache-busting token; defaults to time.Now.
	Now func() time.Time
}

// Scanner implements the missing-derivatives and derivative-types methods.
type Scanner struct {
	registry    domain.TypeRegistry
	catalog     domain.CatalogStore
	resolver    domain.DerivativeResolver
	files       domain.ExistenceChecker
	parser      *sizespec.Parser
	pictureExts []string
	tuning      Tuning
	logger      zerolog.Logger
	metrics     metrics.MetricsSvc
	now         func() time.Time
}

func NewScanner(registry domain.TypeRegistry, catalog domain.CatalogStore, resolver domain.DerivativeResolver, files domain.ExistenceChecker, opts Options) *Scanner {
	tuning := opts.Tuning
	def := DefaultTuning()
	if tuning.RowsPerPageDivisor <= 0 {
		tuning.RowsPerPageDivisor = def.RowsPerPageDivisor
	}
	if tuning.MaxPageRows <= 0 {
		tuning.MaxPageRows = def.MaxPageRows
	}
	if tuning.DefaultMaxResults <= 0 {
		tuning.DefaultMaxResults = def.DefaultMaxResults
	}
	exts := opts.PictureExts
	if len(exts) == 0 {
		exts = []string{"jpg", "jpeg", "png", "gif"}
	}
	m := opts.Metrics
	if m == nil {
		m = metrics.NewNoopMetricsSvc()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Scanner{
		registry:    registry,
		catalog:     catalog,
		resolver:    resolver,
		files:       files,
		parser:      sizespec.NewParser(registry.CharToFraction),
		pictureExts: exts,
		tuning:      tuning,
		logger:      opts.Logger,
		metrics:     m,
		now:         now,
	}
}

// ListTypes returns the registered identifiers that parse as custom sizes,
// in registry order.
func (s *Scanner) ListTypes(ctx context.Context) []string {
	types := []string{}
	for _, id := range s.registry.KnownTypes() {
		if _, ok := s.parser.ParseIdentifier(id); ok {
			types = append(types, id)
		}
	}
	return types
}

// ListMissing returns URLs of derivatives missing from the cache, newest
// images first. Requesting only unknown types fails with
// domain.ErrInvalidParameter; catalog failures wrap domain.ErrCatalogUnavailable.
func (s *Scanner) ListMissing(ctx context.Context, req domain.ScanRequest) (domain.ScanResult, error) {
	specs, err := s.resolveSpecs(req.Types)
	if err != nil {
		return domain.ScanResult{}, err
	}
	s.metrics.Add(ctx, metrics.ScanRequested, 1, nil)
	if len(specs) == 0 {
		s.logger.Debug().Strs("types", req.Types).Msg("no custom types recognized")
		return domain.ScanResult{URLs: []string{}}, nil
	}

	maxResults := req.MaxResults
	if maxResults <= 0 {
		maxResults = s.tuning.DefaultMaxResults
	}

	maxID, count, err := s.catalog.CountAndMaxID(ctx)
	if err != nil {
		return domain.ScanResult{}, fmt.Errorf("%w: %w", domain.ErrCatalogUnavailable, err)
	}
	if count == 0 {
		return domain.ScanResult{URLs: []string{}}, nil
	}

	start := req.Cursor
	if start <= 0 {
		start = maxID + 1
	}
	limit := s.pageLimit(count, maxResults, len(specs))
	filter := domain.CatalogFilter{Ranges: req.Filters, ImageIDs: req.ImageIDs}
	buster := "b=" + strconv.FormatInt(s.now().Unix(), 10)
	opts := domain.URLOptions{Style: domain.URLStyleScript}

	urls := []string{}
	pages, rows := 0, 0
	for len(urls) < maxResults && start != 0 {
		if err := ctx.Err(); err != nil {
			return domain.ScanResult{}, err
		}
		page, err := s.catalog.QueryPage(ctx, filter, start, limit)
		if err != nil {
			return domain.ScanResult{}, fmt.Errorf("%w: %w", domain.ErrCatalogUnavailable, err)
		}
		pages++
		rows += len(page)
		isLast := len(page) < limit

		for _, img := range page {
			start = img.ID
			if img.IsMimetype(s.pictureExts) {
				continue
			}
			for _, spec := range specs {
				d := s.resolver.Resolve(spec, img, opts)
				if d.Kind != domain.DerivativeKindCustom {
					continue
				}
				if !s.files.Exists(ctx, d.Path) {
					urls = append(urls, withQuery(d.URL, buster))
				}
			}
			// existence checks report false once ctx is done
			if err := ctx.Err(); err != nil {
				return domain.ScanResult{}, fmt.Errorf("scan below %d: %w", start, err)
			}
			if len(urls) >= maxResults && !isLast {
				break
			}
		}
		s.logger.Debug().Int("rows", len(page)).Int64("boundary", start).Bool("last", isLast).Msg("scan page")
		if isLast {
			start = 0
		}
	}

	s.metrics.Add(ctx, metrics.ScanPageRead, int64(pages), nil)
	s.metrics.Add(ctx, metrics.ScanRowsRead, int64(rows), nil)
	s.metrics.Add(ctx, metrics.MissingFound, int64(len(urls)), nil)
	s.logger.Info().
		Int("specs", len(specs)).
		Int("pages", pages).
		Int("rows", rows).
		Int("missing", len(urls)).
		Int64("next", start).
		Msg("missing derivatives scanned")

	return domain.ScanResult{URLs: urls, NextCursor: start}, nil
}

// resolveSpecs intersects the requested identifiers with the registry and
// parses the survivors. Unparseable identifiers are dropped.
func (s *Scanner) resolveSpecs(requested []string) ([]domain.SizeSpec, error) {
	ids := s.registry.KnownTypes()
	if len(requested) > 0 {
		want := make(map[string]struct{}, len(requested))
		for _, id := range requested {
			want[id] = struct{}{}
		}
		selected := make([]string, 0, len(ids))
		for _, id := range ids {
			if _, ok := want[id]; ok {
				selected = append(selected, id)
			}
		}
		if len(selected) == 0 {
			return nil, fmt.Errorf("%w: invalid types", domain.ErrInvalidParameter)
		}
		ids = selected
	}

	specs := make([]domain.SizeSpec, 0, len(ids))
	for _, id := range ids {
		if spec, ok := s.parser.ParseIdentifier(id); ok {
			specs = append(specs, spec)
		}
	}
	return specs, nil
}

func (s *Scanner) pageLimit(count int64, maxResults, specCount int) int {
	perPage := math.Max(float64(count)/s.tuning.RowsPerPageDivisor, float64(maxResults)/float64(specCount))
	limit := math.Min(float64(s.tuning.MaxPageRows), math.Ceil(perPage))
	if limit < 1 {
		return 1
	}
	return int(limit)
}

func withQuery(url, param string) string {
	if strings.Contains(url, "?") {
		return url + "&" + param
	}
	return url + "?" + param
}
