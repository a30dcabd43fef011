package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jengzang/bikeshare-backend-go/internal/analysis"
	"github.com/jengzang/bikeshare-backend-go/internal/cache"
	"github.com/jengzang/bikeshare-backend-go/internal/dataset"
	"github.com/jengzang/bikeshare-backend-go/internal/explore"
	"github.com/jengzang/bikeshare-backend-go/internal/models"
	"github.com/jengzang/bikeshare-backend-go/internal/observability"
)

// ErrUnknownChart is returned for chart names without a registered builder
var ErrUnknownChart = errors.New("unknown chart")

// Paging limits for row listings
const (
	DefaultPageSize = 50
	MaxPageSize     = 500
)

// ExploreOptions configures an ExploreService
type ExploreOptions struct {
	CacheTTL     time.Duration
	CacheEntries int
	Shared       *cache.RedisStore // optional
	Metrics      *observability.Metrics
	Logger       *slog.Logger
}

// ExploreService evaluates filter selections over the loaded dataset
type ExploreService struct {
	ds      *dataset.Dataset
	results *cache.Cache[*models.FilteredResult]
	charts  *cache.Cache[*models.Chart]
	shared  *cache.RedisStore
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewExploreService creates a new explore service
func NewExploreService(ds *dataset.Dataset, opts ExploreOptions) *ExploreService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &ExploreService{
		ds:      ds,
		results: cache.New[*models.FilteredResult](opts.CacheTTL, opts.CacheEntries, opts.Metrics),
		charts:  cache.New[*models.Chart](opts.CacheTTL, opts.CacheEntries, opts.Metrics),
		shared:  opts.Shared,
		metrics: opts.Metrics,
		logger:  logger,
	}
}

// Dataset returns the metadata of the loaded dataset
func (s *ExploreService) Dataset() models.DatasetInfo {
	return s.ds.Info()
}

// Options returns the filter domain, the default selection and the chart names
func (s *ExploreService) Options() models.FilterOptions {
	domain := s.ds.Domain()
	return models.FilterOptions{
		Domain:   domain,
		Defaults: explore.DefaultFilter(domain),
		Charts:   analysis.ChartNames(),
	}
}

// ParseFilter coerces raw selections into a validated filter
func (s *ExploreService) ParseFilter(params models.FilterParams) (models.FilterSpec, error) {
	return explore.ParseFilter(params, s.ds.Domain())
}

// Explore evaluates spec and returns the filtered rows with their summary
func (s *ExploreService) Explore(ctx context.Context, spec models.FilterSpec) (*models.FilteredResult, error) {
	spec, err := explore.Normalize(spec, s.ds.Domain())
	if err != nil {
		return nil, err
	}

	key := cache.FilterKey("result", s.ds.Fingerprint(), spec)
	if res, ok := s.results.Get(key); ok {
		return res, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	res := explore.Evaluate(s.ds.Rows(), spec)
	s.metrics.ObserveEvaluation(time.Since(start))

	s.results.Set(key, res)
	return res, nil
}

// Summary returns the KPIs of spec, consulting the shared store first
func (s *ExploreService) Summary(ctx context.Context, spec models.FilterSpec) (*models.Summary, error) {
	spec, err := explore.Normalize(spec, s.ds.Domain())
	if err != nil {
		return nil, err
	}

	key := cache.FilterKey("summary", s.ds.Fingerprint(), spec)
	if s.shared != nil {
		var cached models.Summary
		found, err := s.shared.GetJSON(ctx, key, &cached)
		if err != nil {
			s.logger.Warn("shared cache read failed", "error", err)
		} else if found {
			return &cached, nil
		}
	}

	res, err := s.Explore(ctx, spec)
	if err != nil {
		return nil, err
	}

	summary := res.Summary
	if s.shared != nil {
		if err := s.shared.SetJSON(ctx, key, summary); err != nil {
			s.logger.Warn("shared cache write failed", "error", err)
		}
	}
	return &summary, nil
}

// Rows returns one page of the filtered enriched records
func (s *ExploreService) Rows(ctx context.Context, spec models.FilterSpec, page models.PageParams) (*models.RowPage, error) {
	if page.Page == 0 {
		page.Page = 1
	}
	if page.PageSize == 0 {
		page.PageSize = DefaultPageSize
	}
	if page.Page < 1 {
		return nil, &explore.ValidationError{Field: "page", Reason: "must be at least 1"}
	}
	if page.PageSize < 1 || page.PageSize > MaxPageSize {
		return nil, &explore.ValidationError{Field: "pageSize", Reason: fmt.Sprintf("must be between 1 and %d", MaxPageSize)}
	}

	res, err := s.Explore(ctx, spec)
	if err != nil {
		return nil, err
	}

	total := len(res.Rows)
	start := (page.Page - 1) * page.PageSize
	if start > total {
		start = total
	}
	end := start + page.PageSize
	if end > total {
		end = total
	}

	return &models.RowPage{
		Page:     page.Page,
		PageSize: page.PageSize,
		Total:    total,
		Rows:     res.Rows[start:end],
	}, nil
}

// Correlation returns the Pearson matrix of the numeric columns of spec's rows
func (s *ExploreService) Correlation(ctx context.Context, spec models.FilterSpec) (*models.CorrelationMatrix, error) {
	res, err := s.Explore(ctx, spec)
	if err != nil {
		return nil, err
	}
	return explore.Correlation(res.Rows, explore.NumericColumns), nil
}

// Chart builds the named chart for spec
func (s *ExploreService) Chart(ctx context.Context, name string, spec models.FilterSpec) (*models.Chart, error) {
	builder := analysis.GetChart(name)
	if builder == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownChart, name)
	}

	res, err := s.Explore(ctx, spec)
	if err != nil {
		return nil, err
	}

	key := cache.FilterKey("chart:"+name, s.ds.Fingerprint(), res.Spec)
	if c, ok := s.charts.Get(key); ok {
		return c, nil
	}

	c := builder(res.Rows, res.Spec)
	s.charts.Set(key, c)
	return c, nil
}
