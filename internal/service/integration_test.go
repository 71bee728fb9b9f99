package service_test

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"go-inventory-gst/internal/apperr"
	"go-inventory-gst/internal/config"
	"go-inventory-gst/internal/model"
	"go-inventory-gst/internal/repository"
	"go-inventory-gst/internal/service"
	"go-inventory-gst/pkg/database"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func integrationDB(t *testing.T) *gorm.DB {
	t.Helper()
	if strings.TrimSpace(os.Getenv("INTEGRATION_TESTS")) == "" {
		t.Skip("set INTEGRATION_TESTS=1 to run integration tests (requires postgres)")
	}
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("set DATABASE_URL to run integration tests")
	}

	db := database.Connect(dsn)
	if err := db.AutoMigrate(
		&model.User{}, &model.Privilege{}, &model.Role{},
		&model.Product{}, &model.Warehouse{}, &model.Batch{},
		&model.StockMovement{}, &model.Customer{},
		&model.SalesInvoice{}, &model.SalesInvoiceItem{}, &model.InvoiceSequence{},
		&model.Alert{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

type fixture struct {
	db        *gorm.DB
	cfg       *config.Config
	inventory service.InventoryService
	invoices  service.InvoiceService

	product   *model.Product
	warehouse *model.Warehouse
	customer  *model.Customer
}

func setupFixture(t *testing.T) *fixture {
	t.Helper()
	db := integrationDB(t)

	suffix := uuid.New().String()[:8]

	cfg := &config.Config{
		CompanyStateCode:     "27",
		DefaultWarehouseCode: "WH-TEST-" + suffix,
		LowStockThreshold:    decimal.NewFromInt(50),
		ExpiryAlertDays:      7,
		AllocationPolicy:     model.PolicyFEFO,
	}

	productRepo := repository.NewProductRepo(db)
	batchRepo := repository.NewBatchRepo(db)
	warehouseRepo := repository.NewWarehouseRepo(db, batchRepo)
	movementRepo := repository.NewMovementRepo(db)
	customerRepo := repository.NewCustomerRepo(db)
	invoiceRepo := repository.NewInvoiceRepo(db)

	inventory := service.NewInventoryService(productRepo, batchRepo, movementRepo, db, cfg, nil)
	invoices := service.NewInvoiceService(invoiceRepo, customerRepo, warehouseRepo, inventory, db, cfg, nil)

	warehouse := &model.Warehouse{Code: cfg.DefaultWarehouseCode, Name: "Test Warehouse"}
	warehouse.CreatedBy = "test"
	warehouse.UpdatedBy = "test"
	if err := db.Create(warehouse).Error; err != nil {
		t.Fatalf("create warehouse: %v", err)
	}

	product := &model.Product{
		SKU:            "SKU-" + suffix,
		Name:           "Test Product " + suffix,
		Unit:           "pcs",
		DefaultTaxRate: decimal.NewFromInt(18),
		CostPrice:      decimal.NewFromInt(60),
		SellingPrice:   decimal.NewFromInt(100),
	}
	product.CreatedBy = "test"
	product.UpdatedBy = "test"
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}

	customer := &model.Customer{
		Name:      "Test Customer " + suffix,
		State:     "Maharashtra",
		StateCode: "27",
	}
	customer.CreatedBy = "test"
	customer.UpdatedBy = "test"
	if err := db.Create(customer).Error; err != nil {
		t.Fatalf("create customer: %v", err)
	}

	return &fixture{
		db:        db,
		cfg:       cfg,
		inventory: inventory,
		invoices:  invoices,
		product:   product,
		warehouse: warehouse,
		customer:  customer,
	}
}

func (f *fixture) receiveBatch(t *testing.T, qty string) *model.Batch {
	t.Helper()
	expiry := time.Now().AddDate(1, 0, 0)
	batch, err := f.inventory.ReceiveBatch(service.ReceiveBatchInput{
		ProductID:   f.product.ID,
		WarehouseID: f.warehouse.ID,
		BatchNo:     "B-" + uuid.New().String()[:8],
		ExpiryDate:  &expiry,
		QtyReceived: decimal.RequireFromString(qty),
	}, "test", "Tester")
	if err != nil {
		t.Fatalf("receive batch: %v", err)
	}
	return batch
}

func (f *fixture) availability(t *testing.T, batchID uuid.UUID) decimal.Decimal {
	t.Helper()
	var batch model.Batch
	if err := f.db.First(&batch, "id = ?", batchID).Error; err != nil {
		t.Fatalf("load batch: %v", err)
	}
	return batch.QtyAvailable
}

func TestDebitRefusedBeyondAvailability(t *testing.T) {
	f := setupFixture(t)
	batch := f.receiveBatch(t, "50")

	if got := f.availability(t, batch.ID); !got.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("after receipt availability = %s, want 50", got)
	}

	out := func(qty string) error {
		_, err := f.inventory.RecordMovement(service.RecordMovementInput{
			Type:      model.MovementOut,
			ProductID: f.product.ID,
			Qty:       decimal.RequireFromString(qty),
			BatchID:   &batch.ID,
		}, "test", "Tester", "tester@local")
		return err
	}

	if err := out("30"); err != nil {
		t.Fatalf("first OUT failed: %v", err)
	}
	if got := f.availability(t, batch.ID); !got.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("after first OUT availability = %s, want 20", got)
	}

	err := out("30")
	if err == nil {
		t.Fatal("second OUT should have failed")
	}
	if !errors.Is(err, apperr.ErrInsufficientStock) {
		t.Fatalf("expected insufficient stock, got %v", err)
	}
	msg := err.Error()
	if !strings.Contains(msg, "20") || !strings.Contains(msg, "30") {
		t.Fatalf("error %q should carry available and requested quantities", msg)
	}

	// The failed debit must not have touched the batch.
	if got := f.availability(t, batch.ID); !got.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("after failed OUT availability = %s, want 20", got)
	}
}

func TestBatchNumberReusableAfterDelete(t *testing.T) {
	f := setupFixture(t)

	batchNo := "B-REUSE-" + uuid.New().String()[:8]
	receive := func() (*model.Batch, error) {
		return f.inventory.ReceiveBatch(service.ReceiveBatchInput{
			ProductID:   f.product.ID,
			WarehouseID: f.warehouse.ID,
			BatchNo:     batchNo,
			QtyReceived: decimal.NewFromInt(10),
		}, "test", "Tester")
	}

	first, err := receive()
	if err != nil {
		t.Fatalf("first receipt: %v", err)
	}

	if _, err := receive(); !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("duplicate receipt returned %v, want conflict", err)
	}

	// Drain the batch first; delete refuses while stock remains.
	if _, err := f.inventory.RecordMovement(service.RecordMovementInput{
		Type:      model.MovementOut,
		ProductID: f.product.ID,
		Qty:       decimal.NewFromInt(10),
		BatchID:   &first.ID,
	}, "test", "Tester", "tester@local"); err != nil {
		t.Fatalf("drain batch: %v", err)
	}
	if err := f.inventory.DeleteBatch(first.ID, "test"); err != nil {
		t.Fatalf("delete batch: %v", err)
	}

	// The soft-deleted row no longer occupies the batch number.
	if _, err := receive(); err != nil {
		t.Fatalf("receipt after delete: %v", err)
	}
}

func TestWarehouseLookupByMissingCode(t *testing.T) {
	db := integrationDB(t)

	batchRepo := repository.NewBatchRepo(db)
	warehouseRepo := repository.NewWarehouseRepo(db, batchRepo)

	_, err := warehouseRepo.FindByCode("WH-MISSING-" + uuid.New().String()[:8])
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not-found, got %v", err)
	}
}

func TestConcurrentDebitsCannotOverdraw(t *testing.T) {
	f := setupFixture(t)
	batch := f.receiveBatch(t, "50")

	const workers = 4

	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.inventory.RecordMovement(service.RecordMovementInput{
				Type:      model.MovementOut,
				ProductID: f.product.ID,
				Qty:       decimal.RequireFromString("30"),
				BatchID:   &batch.ID,
			}, "test", "Tester", "tester@local")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		if !errors.Is(err, apperr.ErrInsufficientStock) {
			t.Fatalf("refused debit returned %v, want insufficient stock", err)
		}
	}
	// 50 on hand covers exactly one debit of 30.
	if succeeded != 1 {
		t.Fatalf("%d of %d debits of 30 against 50 on hand succeeded, want 1", succeeded, workers)
	}
	if got := f.availability(t, batch.ID); !got.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("availability = %s, want 20", got)
	}
}

func TestConcurrentInvoiceNumbersAreDistinct(t *testing.T) {
	f := setupFixture(t)
	f.receiveBatch(t, "1000")

	const workers = 8

	var wg sync.WaitGroup
	results := make(chan string, workers)
	errs := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			invoice, err := f.invoices.CreateInvoice(service.CreateInvoiceInput{
				CustomerID: f.customer.ID,
				Items: []service.InvoiceItemInput{{
					ProductID: f.product.ID,
					Qty:       decimal.NewFromInt(1),
					UnitPrice: decimal.NewFromInt(100),
				}},
			}, "test", "Tester")
			if err != nil {
				errs <- err
				return
			}
			results <- invoice.InvoiceNumber
		}()
	}
	wg.Wait()
	close(results)
	close(errs)

	for err := range errs {
		t.Fatalf("concurrent invoice creation failed: %v", err)
	}

	seen := map[string]bool{}
	for number := range results {
		if seen[number] {
			t.Fatalf("duplicate invoice number %s", number)
		}
		seen[number] = true
	}
	if len(seen) != workers {
		t.Fatalf("expected %d distinct numbers, got %d", workers, len(seen))
	}

	year := fmt.Sprintf("INV-%d-", time.Now().Year())
	for number := range seen {
		if !strings.HasPrefix(number, year) {
			t.Fatalf("invoice number %s missing %s prefix", number, year)
		}
	}
}

func TestInvoiceTotalsIntraState(t *testing.T) {
	f := setupFixture(t)
	f.receiveBatch(t, "100")

	invoice, err := f.invoices.CreateInvoice(service.CreateInvoiceInput{
		CustomerID: f.customer.ID,
		Items: []service.InvoiceItemInput{{
			ProductID: f.product.ID,
			Qty:       decimal.NewFromInt(10),
			UnitPrice: decimal.NewFromInt(100),
		}},
	}, "test", "Tester")
	if err != nil {
		t.Fatalf("create invoice: %v", err)
	}

	if !invoice.TaxableValue.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("taxable = %s, want 1000", invoice.TaxableValue)
	}
	if !invoice.CGSTAmount.Equal(decimal.NewFromInt(90)) || !invoice.SGSTAmount.Equal(decimal.NewFromInt(90)) {
		t.Errorf("cgst/sgst = %s/%s, want 90/90", invoice.CGSTAmount, invoice.SGSTAmount)
	}
	if !invoice.IGSTAmount.IsZero() {
		t.Errorf("igst = %s, want 0", invoice.IGSTAmount)
	}
	if !invoice.TotalAmount.Equal(decimal.NewFromInt(1180)) {
		t.Errorf("total = %s, want 1180", invoice.TotalAmount)
	}

	// The OUT movement ledger row must reference the invoice.
	var movement model.StockMovement
	err = f.db.First(&movement, "reference_type = ? AND reference_id = ?", model.RefInvoice, invoice.ID).Error
	if err != nil {
		t.Fatalf("invoice movement not found: %v", err)
	}
	if movement.Type != model.MovementOut {
		t.Errorf("movement type = %s, want OUT", movement.Type)
	}
}
