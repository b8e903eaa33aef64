package sales

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/dashcase/salesboard-backend/internal/products"
	"github.com/dashcase/salesboard-backend/internal/vendors"
	"github.com/dashcase/salesboard-backend/pkg/datewindow"
	"github.com/dashcase/salesboard-backend/pkg/db/models"
	"github.com/dashcase/salesboard-backend/pkg/enums"
	pkgerrors "github.com/dashcase/salesboard-backend/pkg/errors"
	"github.com/dashcase/salesboard-backend/pkg/logger"
)

func setupSalesTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	vendorsDDL := `
CREATE TABLE IF NOT EXISTS vendors (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	productsDDL := `
CREATE TABLE IF NOT EXISTS parent_products (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  vendor_id TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	ordersDDL := `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  payment_at DATETIME NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	cartItemsDDL := `
CREATE TABLE IF NOT EXISTS cart_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  variant_id TEXT NOT NULL,
  series TEXT NOT NULL,
  item_count INTEGER NOT NULL,
  quantity INTEGER NOT NULL,
  cogs NUMERIC NOT NULL,
  price NUMERIC NOT NULL,
  vendor_margin NUMERIC NOT NULL,
  order_status TEXT NOT NULL
);`
	require.NoError(t, db.Exec(vendorsDDL).Error)
	require.NoError(t, db.Exec(productsDDL).Error)
	require.NoError(t, db.Exec(ordersDDL).Error)
	require.NoError(t, db.Exec(cartItemsDDL).Error)

	// The shared-cache database outlives individual tests in this package.
	for _, table := range []string{"cart_items", "orders", "parent_products", "vendors"} {
		require.NoError(t, db.Exec("DELETE FROM "+table).Error)
	}
	return db
}

func newSalesService(t *testing.T, db *gorm.DB, opts ...func(*ServiceOptions)) Service {
	t.Helper()

	options := ServiceOptions{
		Orders:   NewRepository(db),
		Products: products.NewRepository(db),
		Vendors:  vendors.NewRepository(db),
		Location: time.UTC,
		Logger:   logger.New(logger.Options{ServiceName: "sales-test", Output: io.Discard}),
	}
	for _, opt := range opts {
		opt(&options)
	}
	svc, err := NewService(options)
	require.NoError(t, err)
	return svc
}

func newVendor(t *testing.T, db *gorm.DB, name string) *models.Vendor {
	t.Helper()

	vendor := &models.Vendor{ID: uuid.New(), Name: name}
	require.NoError(t, db.Create(vendor).Error)
	return vendor
}

func newProduct(t *testing.T, db *gorm.DB, vendor *models.Vendor, name string) *models.ParentProduct {
	t.Helper()

	product := &models.ParentProduct{ID: uuid.New(), Name: name, VendorID: vendor.ID}
	require.NoError(t, db.Create(product).Error)
	return product
}

type lineSpec struct {
	productID uuid.UUID
	itemCount int64
	quantity  int64
	cogs      string
}

func newOrder(t *testing.T, db *gorm.DB, paidAt time.Time, lines ...lineSpec) *models.Order {
	t.Helper()

	order := &models.Order{ID: uuid.New(), PaymentAt: paidAt}
	require.NoError(t, db.Create(order).Error)

	for _, line := range lines {
		item := &models.CartItem{
			ID:           uuid.New(),
			OrderID:      order.ID,
			ProductID:    line.productID,
			VariantID:    uuid.New(),
			Series:       "standard",
			ItemCount:    line.itemCount,
			Quantity:     line.quantity,
			COGS:         decimal.RequireFromString(line.cogs),
			Price:        decimal.RequireFromString(line.cogs).Mul(decimal.NewFromInt(2)),
			VendorMargin: decimal.NewFromInt(1),
			OrderStatus:  enums.OrderStatusPaid,
		}
		require.NoError(t, db.Create(item).Error)
	}
	return order
}

func january2024(t *testing.T) (time.Time, time.Time) {
	t.Helper()

	start, end, err := datewindow.MonthRange(datewindow.MonthKey{Year: 2024, Month: time.January}, time.UTC)
	require.NoError(t, err)
	return start, end
}

func TestMonthlySales_groupsOrdersIntoOneVendorRow(t *testing.T) {
	db := setupSalesTestDB(t)
	svc := newSalesService(t, db)

	vendor := newVendor(t, db, "Vendor One")
	product := newProduct(t, db, vendor, "Widget")

	newOrder(t, db, time.Date(2024, time.January, 15, 10, 0, 0, 0, time.UTC),
		lineSpec{productID: product.ID, itemCount: 2, quantity: 1, cogs: "10"})
	newOrder(t, db, time.Date(2024, time.January, 20, 18, 30, 0, 0, time.UTC),
		lineSpec{productID: product.ID, itemCount: 1, quantity: 3, cogs: "5"})

	start, end := january2024(t)
	rows, err := svc.MonthlySales(context.Background(), start, end)
	require.NoError(t, err)

	require.Len(t, rows, 1)
	assert.Equal(t, vendor.ID, rows[0].VendorID)
	assert.Equal(t, "Vendor One", rows[0].VendorName)
	assert.True(t, decimal.NewFromInt(15).Equal(rows[0].TotalSales), "total_sales = %s", rows[0].TotalSales)
	assert.Equal(t, int64(5), rows[0].TotalOrders)
	assert.Equal(t, 1, rows[0].Month)
	assert.Equal(t, 2024, rows[0].Year)
}

func TestMonthlySales_windowBoundsAreInclusiveOfTheWholeMonth(t *testing.T) {
	db := setupSalesTestDB(t)
	svc := newSalesService(t, db)

	vendor := newVendor(t, db, "Boundary Vendor")
	product := newProduct(t, db, vendor, "Widget")

	// Last instant of January stays in, first instant of February stays out.
	newOrder(t, db, time.Date(2024, time.January, 31, 23, 59, 59, 0, time.UTC),
		lineSpec{productID: product.ID, itemCount: 1, quantity: 1, cogs: "7"})
	newOrder(t, db, time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC),
		lineSpec{productID: product.ID, itemCount: 1, quantity: 1, cogs: "100"})

	start, end := january2024(t)
	rows, err := svc.MonthlySales(context.Background(), start, end)
	require.NoError(t, err)

	require.Len(t, rows, 1)
	assert.True(t, decimal.NewFromInt(7).Equal(rows[0].TotalSales), "total_sales = %s", rows[0].TotalSales)
	assert.Equal(t, int64(1), rows[0].TotalOrders)
}

func TestMonthlySales_dropsLinesReferencingMissingProducts(t *testing.T) {
	db := setupSalesTestDB(t)
	svc := newSalesService(t, db)

	vendor := newVendor(t, db, "Surviving Vendor")
	product := newProduct(t, db, vendor, "Widget")

	newOrder(t, db, time.Date(2024, time.January, 10, 12, 0, 0, 0, time.UTC),
		lineSpec{productID: product.ID, itemCount: 1, quantity: 2, cogs: "4"},
		lineSpec{productID: uuid.New(), itemCount: 9, quantity: 9, cogs: "999"})

	start, end := january2024(t)
	rows, err := svc.MonthlySales(context.Background(), start, end)
	require.NoError(t, err)

	require.Len(t, rows, 1)
	assert.True(t, decimal.NewFromInt(4).Equal(rows[0].TotalSales), "total_sales = %s", rows[0].TotalSales)
	assert.Equal(t, int64(2), rows[0].TotalOrders)
}

func TestMonthlySales_dropsGroupsReferencingMissingVendors(t *testing.T) {
	db := setupSalesTestDB(t)
	svc := newSalesService(t, db)

	vendor := newVendor(t, db, "Kept Vendor")
	kept := newProduct(t, db, vendor, "Widget")

	ghost := &models.ParentProduct{ID: uuid.New(), Name: "Ghost Product", VendorID: uuid.New()}
	require.NoError(t, db.Create(ghost).Error)

	newOrder(t, db, time.Date(2024, time.January, 8, 12, 0, 0, 0, time.UTC),
		lineSpec{productID: kept.ID, itemCount: 1, quantity: 1, cogs: "9"},
		lineSpec{productID: ghost.ID, itemCount: 5, quantity: 5, cogs: "500"})

	start, end := january2024(t)
	rows, err := svc.MonthlySales(context.Background(), start, end)
	require.NoError(t, err)

	require.Len(t, rows, 1)
	assert.Equal(t, "Kept Vendor", rows[0].VendorName)
}

func TestMonthlySales_multiVendorMonthSortsByVendorName(t *testing.T) {
	db := setupSalesTestDB(t)
	svc := newSalesService(t, db)

	zenith := newVendor(t, db, "Zenith Goods")
	acme := newVendor(t, db, "Acme Supply")
	zenithProduct := newProduct(t, db, zenith, "Gadget")
	acmeProduct := newProduct(t, db, acme, "Widget")

	newOrder(t, db, time.Date(2024, time.March, 5, 9, 0, 0, 0, time.UTC),
		lineSpec{productID: zenithProduct.ID, itemCount: 1, quantity: 1, cogs: "20"},
		lineSpec{productID: acmeProduct.ID, itemCount: 2, quantity: 2, cogs: "3"})

	start, end, err := datewindow.MonthRange(datewindow.MonthKey{Year: 2024, Month: time.March}, time.UTC)
	require.NoError(t, err)
	rows, err := svc.MonthlySales(context.Background(), start, end)
	require.NoError(t, err)

	require.Len(t, rows, 2)
	assert.Equal(t, "Acme Supply", rows[0].VendorName)
	assert.Equal(t, int64(4), rows[0].TotalOrders)
	assert.Equal(t, "Zenith Goods", rows[1].VendorName)
	assert.Equal(t, int64(1), rows[1].TotalOrders)
}

func TestMonthlySales_isIdempotentAcrossRuns(t *testing.T) {
	db := setupSalesTestDB(t)
	svc := newSalesService(t, db)

	vendor := newVendor(t, db, "Repeat Vendor")
	product := newProduct(t, db, vendor, "Widget")
	newOrder(t, db, time.Date(2024, time.January, 2, 8, 0, 0, 0, time.UTC),
		lineSpec{productID: product.ID, itemCount: 3, quantity: 2, cogs: "1.50"})

	start, end := january2024(t)
	first, err := svc.MonthlySales(context.Background(), start, end)
	require.NoError(t, err)
	second, err := svc.MonthlySales(context.Background(), start, end)
	require.NoError(t, err)

	require.Len(t, first, 1)
	require.Len(t, second, 1)
	assert.Equal(t, first[0].TotalOrders, second[0].TotalOrders)
	assert.True(t, first[0].TotalSales.Equal(second[0].TotalSales))
}

func TestMonthlySales_rejectsInvertedWindow(t *testing.T) {
	db := setupSalesTestDB(t)
	svc := newSalesService(t, db)

	start, end := january2024(t)
	_, err := svc.MonthlySales(context.Background(), end, start)
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestMonthlySales_emptyWindowReturnsEmptySlice(t *testing.T) {
	db := setupSalesTestDB(t)
	svc := newSalesService(t, db)

	start, end := january2024(t)
	rows, err := svc.MonthlySales(context.Background(), start, end)
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestDashboard_summarizesAnchorAndPreviousMonth(t *testing.T) {
	db := setupSalesTestDB(t)
	svc := newSalesService(t, db)

	vendor := newVendor(t, db, "Dash Vendor")
	product := newProduct(t, db, vendor, "Widget")

	newOrder(t, db, time.Date(2024, time.January, 12, 9, 0, 0, 0, time.UTC),
		lineSpec{productID: product.ID, itemCount: 1, quantity: 4, cogs: "10"})
	newOrder(t, db, time.Date(2024, time.February, 3, 9, 0, 0, 0, time.UTC),
		lineSpec{productID: product.ID, itemCount: 2, quantity: 1, cogs: "25"})

	resp, err := svc.Dashboard(context.Background(), datewindow.MonthKey{Year: 2024, Month: time.February}, nil)
	require.NoError(t, err)

	assert.Equal(t, "2024-02", resp.CurrentMonth.Month)
	assert.Equal(t, "Feb 2024", resp.CurrentMonth.Label)
	assert.True(t, decimal.NewFromInt(25).Equal(resp.CurrentMonth.TotalSales))
	assert.Equal(t, int64(2), resp.CurrentMonth.TotalOrders)

	assert.Equal(t, "2024-01", resp.PreviousMonth.Month)
	assert.True(t, decimal.NewFromInt(10).Equal(resp.PreviousMonth.TotalSales))
	assert.Equal(t, int64(4), resp.PreviousMonth.TotalOrders)
}

func TestDashboard_vendorFilterNarrowsTotals(t *testing.T) {
	db := setupSalesTestDB(t)
	svc := newSalesService(t, db)

	target := newVendor(t, db, "Target Vendor")
	other := newVendor(t, db, "Other Vendor")
	targetProduct := newProduct(t, db, target, "Widget")
	otherProduct := newProduct(t, db, other, "Gadget")

	newOrder(t, db, time.Date(2024, time.February, 10, 9, 0, 0, 0, time.UTC),
		lineSpec{productID: targetProduct.ID, itemCount: 1, quantity: 1, cogs: "6"},
		lineSpec{productID: otherProduct.ID, itemCount: 1, quantity: 1, cogs: "50"})

	resp, err := svc.Dashboard(context.Background(), datewindow.MonthKey{Year: 2024, Month: time.February}, &target.ID)
	require.NoError(t, err)

	assert.True(t, decimal.NewFromInt(6).Equal(resp.CurrentMonth.TotalSales), "total_sales = %s", resp.CurrentMonth.TotalSales)
	assert.Equal(t, int64(1), resp.CurrentMonth.TotalOrders)
}

func TestChart_returnsOnePointPerTrailingMonthOldestFirst(t *testing.T) {
	db := setupSalesTestDB(t)
	svc := newSalesService(t, db)

	vendor := newVendor(t, db, "Chart Vendor")
	product := newProduct(t, db, vendor, "Widget")

	// Activity in two of the four months; the quiet months still chart at zero.
	newOrder(t, db, time.Date(2023, time.November, 20, 9, 0, 0, 0, time.UTC),
		lineSpec{productID: product.ID, itemCount: 1, quantity: 2, cogs: "8"})
	newOrder(t, db, time.Date(2024, time.February, 14, 9, 0, 0, 0, time.UTC),
		lineSpec{productID: product.ID, itemCount: 3, quantity: 1, cogs: "12"})

	points, err := svc.Chart(context.Background(), datewindow.MonthKey{Year: 2024, Month: time.February}, 4, nil)
	require.NoError(t, err)

	require.Len(t, points, 4)
	assert.Equal(t, "2023-11", points[0].Month)
	assert.Equal(t, "Nov 2023", points[0].Label)
	assert.True(t, decimal.NewFromInt(8).Equal(points[0].TotalSales))
	assert.Equal(t, int64(2), points[0].TotalOrders)

	assert.Equal(t, "2023-12", points[1].Month)
	assert.True(t, points[1].TotalSales.IsZero())
	assert.Equal(t, int64(0), points[1].TotalOrders)

	assert.Equal(t, "2024-01", points[2].Month)
	assert.True(t, points[2].TotalSales.IsZero())

	assert.Equal(t, "2024-02", points[3].Month)
	assert.True(t, decimal.NewFromInt(12).Equal(points[3].TotalSales))
	assert.Equal(t, int64(3), points[3].TotalOrders)
}

func TestChart_rejectsOversizedWindow(t *testing.T) {
	db := setupSalesTestDB(t)
	svc := newSalesService(t, db, func(o *ServiceOptions) {
		o.ChartMonths = 4
		o.ChartMaxMonths = 6
	})

	_, err := svc.Chart(context.Background(), datewindow.MonthKey{Year: 2024, Month: time.February}, 7, nil)
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

type fakeCache struct {
	store map[string]string
	gets  int
	sets  int
}

func newFakeCache() *fakeCache {
	return &fakeCache{store: map[string]string{}}
}

func (f *fakeCache) Get(_ context.Context, key string) (string, error) {
	f.gets++
	value, ok := f.store[key]
	if !ok {
		return "", context.Canceled // any error reads as a miss
	}
	return value, nil
}

func (f *fakeCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	f.sets++
	switch v := value.(type) {
	case []byte:
		f.store[key] = string(v)
	case string:
		f.store[key] = v
	}
	return nil
}

func (f *fakeCache) CacheKey(scope string, parts ...string) string {
	key := "sb:cache:" + scope
	for _, part := range parts {
		key += ":" + part
	}
	return key
}

func TestMonthlySales_secondReadServedFromCache(t *testing.T) {
	db := setupSalesTestDB(t)
	cache := newFakeCache()
	svc := newSalesService(t, db, func(o *ServiceOptions) {
		o.Cache = cache
		o.CacheTTL = time.Minute
	})

	vendor := newVendor(t, db, "Cached Vendor")
	product := newProduct(t, db, vendor, "Widget")
	newOrder(t, db, time.Date(2024, time.January, 9, 9, 0, 0, 0, time.UTC),
		lineSpec{productID: product.ID, itemCount: 2, quantity: 2, cogs: "2.25"})

	start, end := january2024(t)
	first, err := svc.MonthlySales(context.Background(), start, end)
	require.NoError(t, err)
	require.Equal(t, 1, cache.sets)

	// Remove the backing rows; a cache hit must not touch the database.
	require.NoError(t, db.Exec("DELETE FROM cart_items").Error)
	require.NoError(t, db.Exec("DELETE FROM orders").Error)

	second, err := svc.MonthlySales(context.Background(), start, end)
	require.NoError(t, err)

	require.Len(t, second, 1)
	assert.Equal(t, first[0].VendorName, second[0].VendorName)
	assert.True(t, first[0].TotalSales.Equal(second[0].TotalSales))
	assert.Equal(t, first[0].TotalOrders, second[0].TotalOrders)
	assert.Equal(t, 2, cache.gets)
}
