package service

import (
	"strings"
	"testing"
	"time"

	"go-inventory-gst/internal/config"
	"go-inventory-gst/internal/model"
	"go-inventory-gst/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type fakeAlertRepo struct {
	rules        []model.Alert
	lowStock     []repository.LowStockRow
	availability map[uuid.UUID]string

	setTriggeredCalls []struct {
		ID        uuid.UUID
		Triggered bool
	}
}

func (f *fakeAlertRepo) Create(alert *model.Alert) error { return nil }
func (f *fakeAlertRepo) FindAll() ([]model.Alert, error) { return f.rules, nil }
func (f *fakeAlertRepo) FindByID(id uuid.UUID) (*model.Alert, error) {
	for i := range f.rules {
		if f.rules[i].ID == id {
			return &f.rules[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeAlertRepo) Update(alert *model.Alert) error             { return nil }
func (f *fakeAlertRepo) Delete(id uuid.UUID, deletedBy string) error { return nil }
func (f *fakeAlertRepo) SetTriggered(id uuid.UUID, triggered bool, at time.Time) error {
	f.setTriggeredCalls = append(f.setTriggeredCalls, struct {
		ID        uuid.UUID
		Triggered bool
	}{id, triggered})
	return nil
}
func (f *fakeAlertRepo) LowStock(defaultThreshold string) ([]repository.LowStockRow, error) {
	return f.lowStock, nil
}
func (f *fakeAlertRepo) PairAvailability(productID, warehouseID uuid.UUID) (string, error) {
	if v, ok := f.availability[productID]; ok {
		return v, nil
	}
	return "0", nil
}

type fakeBatchRepo struct {
	expiring []model.Batch
	byFilter []model.Batch
}

func (f *fakeBatchRepo) Create(tx *gorm.DB, batch *model.Batch) error { return nil }
func (f *fakeBatchRepo) FindAll(filter repository.BatchFilter) ([]model.Batch, error) {
	return f.byFilter, nil
}
func (f *fakeBatchRepo) FindByID(id uuid.UUID) (*model.Batch, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeBatchRepo) FindByProductAndNo(productID uuid.UUID, batchNo string) (*model.Batch, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeBatchRepo) ListAvailable(tx *gorm.DB, productID, warehouseID uuid.UUID, policy model.AllocationPolicy) ([]model.Batch, error) {
	return nil, nil
}
func (f *fakeBatchRepo) AdjustQuantity(tx *gorm.DB, id uuid.UUID, delta decimal.Decimal) (*model.Batch, error) {
	return nil, nil
}
func (f *fakeBatchRepo) ExpiringSoon(days int) ([]model.Batch, error) { return f.expiring, nil }
func (f *fakeBatchRepo) Delete(id uuid.UUID, deletedBy string) error  { return nil }
func (f *fakeBatchRepo) WarehouseHasStock(warehouseID uuid.UUID) (bool, error) {
	return false, nil
}
func (f *fakeBatchRepo) ProductHasBatches(productID uuid.UUID) (bool, error) { return false, nil }

func testConfig() *config.Config {
	return &config.Config{
		CompanyStateCode:  "27",
		LowStockThreshold: decimal.NewFromInt(50),
		ExpiryAlertDays:   7,
	}
}

func TestActiveAlertsLowStock(t *testing.T) {
	productID := uuid.New()
	warehouseID := uuid.New()

	aRepo := &fakeAlertRepo{
		lowStock: []repository.LowStockRow{{
			ProductID:     productID,
			WarehouseID:   warehouseID,
			ProductName:   "Paracetamol 500mg",
			SKU:           "MED-001",
			WarehouseName: "Main Warehouse",
			QtyAvailable:  "12",
			Threshold:     "50",
		}},
	}
	svc := NewAlertService(aRepo, &fakeBatchRepo{}, testConfig(), nil)

	alerts, err := svc.ActiveAlerts()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(alerts) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(alerts))
	}

	alert := alerts[0]
	if alert.Type != model.AlertLowStock {
		t.Errorf("type = %s, want low_stock", alert.Type)
	}
	if !strings.Contains(alert.Message, "12") || !strings.Contains(alert.Message, "50") {
		t.Errorf("message %q should carry quantity and threshold", alert.Message)
	}
}

func TestActiveAlertsExpiry(t *testing.T) {
	expiry := time.Now().AddDate(0, 0, 3)
	batch := model.Batch{
		ProductID:    uuid.New(),
		WarehouseID:  uuid.New(),
		BatchNo:      "B-42",
		ExpiryDate:   &expiry,
		QtyAvailable: decimal.NewFromInt(10),
		Product:      &model.Product{Name: "Amoxicillin", SKU: "MED-002"},
		Warehouse:    &model.Warehouse{Name: "Main Warehouse"},
	}

	svc := NewAlertService(&fakeAlertRepo{}, &fakeBatchRepo{expiring: []model.Batch{batch}}, testConfig(), nil)

	alerts, err := svc.ActiveAlerts()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(alerts) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(alerts))
	}

	alert := alerts[0]
	if alert.Type != model.AlertExpiry {
		t.Errorf("type = %s, want expiry", alert.Type)
	}
	if alert.BatchNo != "B-42" {
		t.Errorf("batch no = %s, want B-42", alert.BatchNo)
	}
	if !strings.Contains(alert.Message, "expires") {
		t.Errorf("message %q should mention expiry", alert.Message)
	}
}

func TestEvaluateFlipsRuleState(t *testing.T) {
	productID := uuid.New()

	rule := model.Alert{
		Type:        model.AlertLowStock,
		ProductID:   productID,
		WarehouseID: uuid.New(),
		Threshold:   decimal.NewFromInt(20),
		Triggered:   false,
	}
	rule.ID = uuid.New()

	aRepo := &fakeAlertRepo{
		rules:        []model.Alert{rule},
		availability: map[uuid.UUID]string{productID: "15"},
	}
	svc := NewAlertService(aRepo, &fakeBatchRepo{}, testConfig(), nil)

	if _, err := svc.Evaluate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(aRepo.setTriggeredCalls) != 1 {
		t.Fatalf("expected 1 SetTriggered call, got %d", len(aRepo.setTriggeredCalls))
	}
	call := aRepo.setTriggeredCalls[0]
	if call.ID != rule.ID || !call.Triggered {
		t.Fatalf("expected rule %s flipped to triggered, got %+v", rule.ID, call)
	}
}

func TestEvaluateLeavesSettledRulesAlone(t *testing.T) {
	productID := uuid.New()

	rule := model.Alert{
		Type:        model.AlertLowStock,
		ProductID:   productID,
		WarehouseID: uuid.New(),
		Threshold:   decimal.NewFromInt(20),
		Triggered:   false,
	}
	rule.ID = uuid.New()

	aRepo := &fakeAlertRepo{
		rules:        []model.Alert{rule},
		availability: map[uuid.UUID]string{productID: "100"},
	}
	svc := NewAlertService(aRepo, &fakeBatchRepo{}, testConfig(), nil)

	if _, err := svc.Evaluate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(aRepo.setTriggeredCalls) != 0 {
		t.Fatalf("expected no SetTriggered calls, got %d", len(aRepo.setTriggeredCalls))
	}
}

func TestExpiryMessage(t *testing.T) {
	tests := []struct {
		days int
		want string
	}{
		{-1, "has expired"},
		{0, "expires today"},
		{1, "expires tomorrow"},
		{5, "expires in 5 days"},
	}
	for _, tt := range tests {
		got := expiryMessage("Amoxicillin", "B-1", tt.days)
		if !strings.Contains(got, tt.want) {
			t.Errorf("days=%d: %q should contain %q", tt.days, got, tt.want)
		}
	}
}
