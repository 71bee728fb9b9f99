package service

import (
	"go-inventory-gst/internal/apperr"
	"go-inventory-gst/internal/model"

	"github.com/shopspring/decimal"
)

// validateMovement enforces the per-type input contract before any
// database work happens.
func validateMovement(input RecordMovementInput) error {
	switch input.Type {
	case model.MovementAdjust:
		if input.Qty.IsZero() {
			return apperr.Validation("qty must be non-zero")
		}
		if input.BatchID == nil {
			return apperr.Validation("batch_id is required for ADJUST")
		}
	case model.MovementIn:
		if !input.Qty.IsPositive() {
			return apperr.Validation("qty must be positive")
		}
		if input.BatchID == nil {
			return apperr.Validation("batch_id is required for IN")
		}
	case model.MovementOut:
		if !input.Qty.IsPositive() {
			return apperr.Validation("qty must be positive")
		}
	case model.MovementTransfer:
		if !input.Qty.IsPositive() {
			return apperr.Validation("qty must be positive")
		}
		if input.WarehouseFromID == nil || input.WarehouseToID == nil {
			return apperr.Validation("TRANSFER requires warehouse_from and warehouse_to")
		}
		if *input.WarehouseFromID == *input.WarehouseToID {
			return apperr.Validation("TRANSFER requires distinct source and destination warehouses")
		}
	default:
		return apperr.Validation("invalid movement_type %q", input.Type)
	}
	return nil
}

// movementDelta maps a movement to the signed change applied to the batch.
// A TRANSFER only debits the source batch; the destination credit is an
// explicit follow-up IN recorded by the caller.
func movementDelta(t model.MovementType, qty decimal.Decimal) decimal.Decimal {
	switch t {
	case model.MovementIn:
		return qty
	case model.MovementOut, model.MovementTransfer:
		return qty.Neg()
	default: // ADJUST carries its own sign
		return qty
	}
}

func movementTotalValue(qty decimal.Decimal, unitCost *decimal.Decimal) *decimal.Decimal {
	if unitCost == nil {
		return nil
	}
	v := qty.Abs().Mul(*unitCost).Round(2)
	return &v
}

// pickBatch returns the first batch in allocation order holding at least
// qty units, or nil when none suffices.
func pickBatch(batches []model.Batch, qty decimal.Decimal) *model.Batch {
	for i := range batches {
		if batches[i].QtyAvailable.GreaterThanOrEqual(qty) {
			return &batches[i]
		}
	}
	return nil
}

func sumAvailable(batches []model.Batch) decimal.Decimal {
	total := decimal.Zero
	for i := range batches {
		total = total.Add(batches[i].QtyAvailable)
	}
	return total
}
