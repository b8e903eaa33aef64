package sales

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/dashcase/salesboard-backend/pkg/datewindow"
	"github.com/dashcase/salesboard-backend/pkg/db/models"
	pkgerrors "github.com/dashcase/salesboard-backend/pkg/errors"
	"github.com/dashcase/salesboard-backend/pkg/logger"
	"github.com/dashcase/salesboard-backend/pkg/metrics"
)

// ProductCatalog resolves product IDs to their catalog rows. Satisfied by
// the products repository.
type ProductCatalog interface {
	MapByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.ParentProduct, error)
}

// VendorCatalog resolves vendor IDs to their catalog rows. Satisfied by
// the vendors repository.
type VendorCatalog interface {
	MapByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Vendor, error)
}

// Cache is the slice of the redis client the service needs. A nil cache
// disables caching; every read is then computed from the database.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	CacheKey(scope string, parts ...string) string
}

// Service computes sales aggregates for the dashboard surface.
type Service interface {
	MonthlySales(ctx context.Context, start, end time.Time) ([]MonthlySalesRow, error)
	Dashboard(ctx context.Context, anchor datewindow.MonthKey, vendorID *uuid.UUID) (*DashboardResponse, error)
	Chart(ctx context.Context, anchor datewindow.MonthKey, months int, vendorID *uuid.UUID) ([]ChartPoint, error)
}

// ServiceOptions carries the service dependencies. Orders, Products,
// Vendors, Location and Logger are required; Cache and Metrics are
// optional and degrade to no-ops when absent.
type ServiceOptions struct {
	Orders         Repository
	Products       ProductCatalog
	Vendors        VendorCatalog
	Location       *time.Location
	Logger         *logger.Logger
	Cache          Cache
	CacheTTL       time.Duration
	Metrics        *metrics.AggregationMetrics
	ChartMonths    int
	ChartMaxMonths int
}

type service struct {
	orders         Repository
	products       ProductCatalog
	vendors        VendorCatalog
	loc            *time.Location
	logg           *logger.Logger
	cache          Cache
	cacheTTL       time.Duration
	metrics        *metrics.AggregationMetrics
	chartMonths    int
	chartMaxMonths int
}

// NewService constructs a sales service instance.
func NewService(opts ServiceOptions) (Service, error) {
	if opts.Orders == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if opts.Products == nil {
		return nil, fmt.Errorf("product catalog required")
	}
	if opts.Vendors == nil {
		return nil, fmt.Errorf("vendor catalog required")
	}
	if opts.Location == nil {
		return nil, fmt.Errorf("report location required")
	}
	if opts.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if opts.ChartMonths < 1 {
		opts.ChartMonths = 4
	}
	if opts.ChartMaxMonths < opts.ChartMonths {
		opts.ChartMaxMonths = opts.ChartMonths
	}
	return &service{
		orders:         opts.Orders,
		products:       opts.Products,
		vendors:        opts.Vendors,
		loc:            opts.Location,
		logg:           opts.Logger,
		cache:          opts.Cache,
		cacheTTL:       opts.CacheTTL,
		metrics:        opts.Metrics,
		chartMonths:    opts.ChartMonths,
		chartMaxMonths: opts.ChartMaxMonths,
	}, nil
}

type bucketKey struct {
	vendorID uuid.UUID
	year     int
	month    time.Month
}

type bucket struct {
	totalSales  decimal.Decimal
	totalOrders int64
}

// MonthlySales aggregates paid orders in [start, end] into one row per
// (vendor, year, month). Line items whose product no longer exists, and
// groups whose vendor no longer exists, are dropped from the result and
// surfaced through metrics instead of failing the query.
func (s *service) MonthlySales(ctx context.Context, start, end time.Time) ([]MonthlySalesRow, error) {
	if start.IsZero() || end.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "start_date and end_date are required")
	}
	if start.After(end) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "start_date must not be after end_date").
			WithDetails(map[string]string{
				"start_date": start.Format(time.RFC3339),
				"end_date":   end.Format(time.RFC3339),
			})
	}

	cacheKey := s.monthlySalesCacheKey(start, end)
	if rows, ok := s.cachedRows(ctx, cacheKey); ok {
		return rows, nil
	}

	began := time.Now()
	orders, err := s.orders.FindOrdersPaidBetween(ctx, start, end)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading orders for aggregation")
	}

	rows, err := s.aggregate(ctx, orders)
	if err != nil {
		return nil, err
	}
	s.metrics.ObserveDuration("monthly_sales", time.Since(began))

	s.storeRows(ctx, cacheKey, rows)
	return rows, nil
}

// aggregate runs the grouping pipeline over preloaded orders.
func (s *service) aggregate(ctx context.Context, orders []models.Order) ([]MonthlySalesRow, error) {
	type line struct {
		item   models.CartItem
		paidAt time.Time
	}

	lines := make([]line, 0)
	productIDs := make(map[uuid.UUID]struct{})
	for _, order := range orders {
		for _, item := range order.CartItems {
			lines = append(lines, line{item: item, paidAt: order.PaymentAt})
			productIDs[item.ProductID] = struct{}{}
		}
	}
	if len(lines) == 0 {
		return []MonthlySalesRow{}, nil
	}

	catalog, err := s.products.MapByIDs(ctx, keys(productIDs))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolving products for aggregation")
	}

	buckets := make(map[bucketKey]*bucket)
	orphanLines := 0
	for _, ln := range lines {
		product, ok := catalog[ln.item.ProductID]
		if !ok {
			orphanLines++
			continue
		}
		paid := ln.paidAt.In(s.loc)
		key := bucketKey{vendorID: product.VendorID, year: paid.Year(), month: paid.Month()}
		b, ok := buckets[key]
		if !ok {
			b = &bucket{}
			buckets[key] = b
		}
		b.totalSales = b.totalSales.Add(ln.item.COGS)
		b.totalOrders += ln.item.UnitsSold()
	}
	if orphanLines > 0 {
		s.metrics.AddOrphanLineItems(orphanLines)
		s.logg.Debug(s.logg.WithField(ctx, "orphan_line_items", orphanLines),
			"dropped line items referencing missing products")
	}

	vendorIDs := make(map[uuid.UUID]struct{}, len(buckets))
	for key := range buckets {
		vendorIDs[key.vendorID] = struct{}{}
	}
	vendorsByID, err := s.vendors.MapByIDs(ctx, keys(vendorIDs))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolving vendors for aggregation")
	}

	rows := make([]MonthlySalesRow, 0, len(buckets))
	orphanGroups := 0
	for key, b := range buckets {
		vendor, ok := vendorsByID[key.vendorID]
		if !ok {
			orphanGroups++
			continue
		}
		rows = append(rows, MonthlySalesRow{
			VendorID:    key.vendorID,
			VendorName:  vendor.Name,
			TotalSales:  b.totalSales,
			TotalOrders: b.totalOrders,
			Month:       int(key.month),
			Year:        key.year,
		})
	}
	if orphanGroups > 0 {
		s.metrics.AddOrphanVendorGroups(orphanGroups)
		s.logg.Debug(s.logg.WithField(ctx, "orphan_vendor_groups", orphanGroups),
			"dropped sales groups referencing missing vendors")
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Year != rows[j].Year {
			return rows[i].Year < rows[j].Year
		}
		if rows[i].Month != rows[j].Month {
			return rows[i].Month < rows[j].Month
		}
		return rows[i].VendorName < rows[j].VendorName
	})
	return rows, nil
}

// Dashboard summarizes the anchor month and the month before it, optionally
// narrowed to one vendor.
func (s *service) Dashboard(ctx context.Context, anchor datewindow.MonthKey, vendorID *uuid.UUID) (*DashboardResponse, error) {
	windows, err := datewindow.TrailingMonths(anchor, 2)
	if err != nil {
		return nil, err
	}

	summaries := make([]MonthSummary, len(windows))
	for i, window := range windows {
		rows, err := s.monthRows(ctx, window.Key)
		if err != nil {
			return nil, err
		}
		summaries[i] = summarize(window, rows, vendorID)
	}
	return &DashboardResponse{
		CurrentMonth:  summaries[1],
		PreviousMonth: summaries[0],
	}, nil
}

// Chart returns one point per trailing month ending at anchor. Each month is
// an independent window query, so the fan-out runs them concurrently.
func (s *service) Chart(ctx context.Context, anchor datewindow.MonthKey, months int, vendorID *uuid.UUID) ([]ChartPoint, error) {
	if months < 1 {
		months = s.chartMonths
	}
	if months > s.chartMaxMonths {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "months exceeds the chart window limit").
			WithDetails(map[string]int{"months": months, "max": s.chartMaxMonths})
	}

	windows, err := datewindow.TrailingMonths(anchor, months)
	if err != nil {
		return nil, err
	}

	points := make([]ChartPoint, len(windows))
	g, gctx := errgroup.WithContext(ctx)
	for i, window := range windows {
		g.Go(func() error {
			rows, err := s.monthRows(gctx, window.Key)
			if err != nil {
				return err
			}
			summary := summarize(window, rows, vendorID)
			points[i] = ChartPoint{
				Month:       summary.Month,
				Label:       summary.Label,
				TotalSales:  summary.TotalSales,
				TotalOrders: summary.TotalOrders,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return points, nil
}

func (s *service) monthRows(ctx context.Context, key datewindow.MonthKey) ([]MonthlySalesRow, error) {
	start, end, err := datewindow.MonthRange(key, s.loc)
	if err != nil {
		return nil, err
	}
	return s.MonthlySales(ctx, start, end)
}

func summarize(window datewindow.MonthWindow, rows []MonthlySalesRow, vendorID *uuid.UUID) MonthSummary {
	summary := MonthSummary{
		Month:      window.Key.String(),
		Label:      window.Label,
		TotalSales: decimal.Zero,
	}
	for _, row := range rows {
		if vendorID != nil && row.VendorID != *vendorID {
			continue
		}
		summary.TotalSales = summary.TotalSales.Add(row.TotalSales)
		summary.TotalOrders += row.TotalOrders
	}
	return summary
}

func (s *service) monthlySalesCacheKey(start, end time.Time) string {
	if s.cache == nil {
		return ""
	}
	return s.cache.CacheKey("monthly_sales",
		start.In(s.loc).Format("2006-01-02"),
		end.In(s.loc).Format("2006-01-02"))
}

// cachedRows returns the cached result for key, if any. Cache failures are
// treated as misses.
func (s *service) cachedRows(ctx context.Context, key string) ([]MonthlySalesRow, bool) {
	if s.cache == nil || key == "" {
		return nil, false
	}
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		s.metrics.IncCacheMiss()
		return nil, false
	}
	var rows []MonthlySalesRow
	if err := json.Unmarshal([]byte(raw), &rows); err != nil {
		s.metrics.IncCacheMiss()
		s.logg.Debug(s.logg.WithField(ctx, "cache_key", key), "discarding undecodable cache entry")
		return nil, false
	}
	s.metrics.IncCacheHit()
	return rows, true
}

// storeRows writes the result back best-effort; a failed write never fails
// the query.
func (s *service) storeRows(ctx context.Context, key string, rows []MonthlySalesRow) {
	if s.cache == nil || key == "" {
		return
	}
	payload, err := json.Marshal(rows)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, payload, s.cacheTTL); err != nil {
		s.logg.Debug(s.logg.WithField(ctx, "cache_key", key), "cache write failed")
	}
}

func keys(set map[uuid.UUID]struct{}) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	return out
}
