package service

import (
	"fmt"
	"time"

	"go-inventory-gst/internal/apperr"
	"go-inventory-gst/internal/config"
	"go-inventory-gst/internal/model"
	"go-inventory-gst/internal/repository"
	"go-inventory-gst/internal/ws"
	"go-inventory-gst/pkg/logger"
	"go-inventory-gst/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TriggeredAlert is one active alert condition found by an evaluation pass.
type TriggeredAlert struct {
	Type          model.AlertType `json:"type"`
	ProductID     uuid.UUID       `json:"product_id"`
	ProductName   string          `json:"product_name"`
	SKU           string          `json:"sku"`
	WarehouseID   uuid.UUID       `json:"warehouse_id"`
	WarehouseName string          `json:"warehouse_name"`
	BatchNo       string          `json:"batch_no,omitempty"`
	ExpiryDate    *time.Time      `json:"expiry_date,omitempty"`
	Message       string          `json:"message"`
}

type AlertService interface {
	CreateAlert(alert *model.Alert, userID string) error
	GetAlerts() ([]model.Alert, error)
	UpdateAlert(id uuid.UUID, alert *model.Alert, userID string) (*model.Alert, error)
	DeleteAlert(id uuid.UUID, userID string) error
	DismissAlert(id uuid.UUID) error

	// Evaluate scans stock levels and expiry windows, flips rule trigger
	// state, and returns every currently active condition.
	Evaluate() ([]TriggeredAlert, error)
	ActiveAlerts() ([]TriggeredAlert, error)
}

type alertService struct {
	alertRepo repository.AlertRepository
	batchRepo repository.BatchRepository
	cfg       *config.Config
	wsHub     *ws.Hub
}

func NewAlertService(
	aRepo repository.AlertRepository,
	bRepo repository.BatchRepository,
	cfg *config.Config,
	hub *ws.Hub,
) AlertService {
	return &alertService{
		alertRepo: aRepo,
		batchRepo: bRepo,
		cfg:       cfg,
		wsHub:     hub,
	}
}

func (s *alertService) CreateAlert(alert *model.Alert, userID string) error {
	if errs := validator.ValidateStruct(alert); len(errs) > 0 {
		firstErr := errs[0]
		return apperr.Validation("field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}
	if alert.Threshold.IsNegative() {
		return apperr.Validation("threshold cannot be negative")
	}

	alert.Triggered = false
	alert.LastTriggeredAt = nil
	alert.CreatedBy = userID
	alert.UpdatedBy = userID

	if err := s.alertRepo.Create(alert); err != nil {
		logger.LogError("alert", "CreateAlert", err)
		return apperr.Internal("failed to create alert")
	}
	return nil
}

func (s *alertService) GetAlerts() ([]model.Alert, error) {
	return s.alertRepo.FindAll()
}

func (s *alertService) UpdateAlert(id uuid.UUID, alert *model.Alert, userID string) (*model.Alert, error) {
	existing, err := s.alertRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if alert.Threshold.IsNegative() {
		return nil, apperr.Validation("threshold cannot be negative")
	}

	existing.Type = alert.Type
	existing.Threshold = alert.Threshold
	existing.UpdatedBy = userID

	if err := s.alertRepo.Update(existing); err != nil {
		logger.LogError("alert", "UpdateAlert", err)
		return nil, apperr.Internal("failed to update alert")
	}
	return existing, nil
}

func (s *alertService) DeleteAlert(id uuid.UUID, userID string) error {
	return s.alertRepo.Delete(id, userID)
}

// DismissAlert clears the triggered flag without touching last_triggered_at,
// so the rule history survives the dismissal.
func (s *alertService) DismissAlert(id uuid.UUID) error {
	if _, err := s.alertRepo.FindByID(id); err != nil {
		return err
	}
	return s.alertRepo.SetTriggered(id, false, time.Time{})
}

func (s *alertService) Evaluate() ([]TriggeredAlert, error) {
	active, err := s.ActiveAlerts()
	if err != nil {
		return nil, err
	}

	if err := s.transitionRules(); err != nil {
		logger.LogError("alert", "Evaluate", err)
	}

	if len(active) > 0 {
		s.broadcast(map[string]interface{}{
			"type":   "alerts",
			"alerts": active,
			"count":  len(active),
		})
	}
	return active, nil
}

// ActiveAlerts reports current conditions without changing rule state.
func (s *alertService) ActiveAlerts() ([]TriggeredAlert, error) {
	var out []TriggeredAlert

	lowRows, err := s.alertRepo.LowStock(s.cfg.LowStockThreshold.String())
	if err != nil {
		return nil, err
	}
	for _, row := range lowRows {
		out = append(out, TriggeredAlert{
			Type:          model.AlertLowStock,
			ProductID:     row.ProductID,
			ProductName:   row.ProductName,
			SKU:           row.SKU,
			WarehouseID:   row.WarehouseID,
			WarehouseName: row.WarehouseName,
			Message: fmt.Sprintf("%s is low on stock at %s: %s units left (threshold %s)",
				row.ProductName, row.WarehouseName, row.QtyAvailable, row.Threshold),
		})
	}

	expiring, err := s.batchRepo.ExpiringSoon(s.cfg.ExpiryAlertDays)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	for _, batch := range expiring {
		alert := TriggeredAlert{
			Type:        model.AlertExpiry,
			ProductID:   batch.ProductID,
			WarehouseID: batch.WarehouseID,
			BatchNo:     batch.BatchNo,
			ExpiryDate:  batch.ExpiryDate,
		}
		if batch.Product != nil {
			alert.ProductName = batch.Product.Name
			alert.SKU = batch.Product.SKU
		}
		if batch.Warehouse != nil {
			alert.WarehouseName = batch.Warehouse.Name
		}
		alert.Message = expiryMessage(alert.ProductName, batch.BatchNo, batch.DaysToExpiry(now))
		out = append(out, alert)
	}

	return out, nil
}

// transitionRules flips the triggered flag on configured rules whose
// condition changed since the last pass.
func (s *alertService) transitionRules() error {
	rules, err := s.alertRepo.FindAll()
	if err != nil {
		return err
	}

	now := time.Now()
	for _, rule := range rules {
		firing, err := s.ruleFiring(&rule, now)
		if err != nil {
			logger.LogError("alert", "transitionRules", err)
			continue
		}
		if firing == rule.Triggered {
			continue
		}
		if err := s.alertRepo.SetTriggered(rule.ID, firing, now); err != nil {
			logger.LogError("alert", "transitionRules", err)
		}
	}
	return nil
}

func (s *alertService) ruleFiring(rule *model.Alert, now time.Time) (bool, error) {
	switch rule.Type {
	case model.AlertLowStock:
		availStr, err := s.alertRepo.PairAvailability(rule.ProductID, rule.WarehouseID)
		if err != nil {
			return false, err
		}
		avail, err := decimal.NewFromString(availStr)
		if err != nil {
			return false, err
		}
		return avail.LessThanOrEqual(rule.Threshold), nil

	case model.AlertExpiry:
		days := int(rule.Threshold.IntPart())
		batches, err := s.batchRepo.FindAll(repository.BatchFilter{
			ProductID:    &rule.ProductID,
			WarehouseID:  &rule.WarehouseID,
			ExpiringDays: &days,
		})
		if err != nil {
			return false, err
		}
		for _, batch := range batches {
			if batch.QtyAvailable.IsPositive() {
				return true, nil
			}
		}
		return false, nil
	}
	return false, nil
}

func expiryMessage(productName, batchNo string, daysLeft int) string {
	switch {
	case daysLeft < 0:
		return fmt.Sprintf("batch %s of %s has expired", batchNo, productName)
	case daysLeft == 0:
		return fmt.Sprintf("batch %s of %s expires today", batchNo, productName)
	case daysLeft == 1:
		return fmt.Sprintf("batch %s of %s expires tomorrow", batchNo, productName)
	default:
		return fmt.Sprintf("batch %s of %s expires in %d days", batchNo, productName, daysLeft)
	}
}

func (s *alertService) broadcast(payload map[string]interface{}) {
	if s.wsHub == nil {
		return
	}
	s.wsHub.BroadcastJSON(payload)
}
