package config

import (
	"testing"

	"go-inventory-gst/internal/model"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/test")

	cfg := Load()

	if cfg.Port != "3000" {
		t.Errorf("port = %s, want 3000", cfg.Port)
	}
	if cfg.CompanyStateCode != "27" {
		t.Errorf("company state code = %s, want 27", cfg.CompanyStateCode)
	}
	if cfg.DefaultWarehouseCode != "WH-MAIN" {
		t.Errorf("default warehouse = %s, want WH-MAIN", cfg.DefaultWarehouseCode)
	}
	if cfg.LowStockThreshold.String() != "50" {
		t.Errorf("low stock threshold = %s, want 50", cfg.LowStockThreshold)
	}
	if cfg.ExpiryAlertDays != 7 {
		t.Errorf("expiry alert days = %d, want 7", cfg.ExpiryAlertDays)
	}
	if cfg.AllocationPolicy != model.PolicyFEFO {
		t.Errorf("allocation policy = %s, want FEFO", cfg.AllocationPolicy)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/test")
	t.Setenv("PORT", "8080")
	t.Setenv("COMPANY_STATE_CODE", "07")
	t.Setenv("DEFAULT_WAREHOUSE_CODE", "WH-NORTH")
	t.Setenv("LOW_STOCK_THRESHOLD", "25.5")
	t.Setenv("EXPIRY_ALERT_DAYS", "14")
	t.Setenv("ALLOCATION_POLICY", "LIFO")

	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("port = %s, want 8080", cfg.Port)
	}
	if cfg.CompanyStateCode != "07" {
		t.Errorf("company state code = %s, want 07", cfg.CompanyStateCode)
	}
	if cfg.DefaultWarehouseCode != "WH-NORTH" {
		t.Errorf("default warehouse = %s, want WH-NORTH", cfg.DefaultWarehouseCode)
	}
	if cfg.LowStockThreshold.String() != "25.5" {
		t.Errorf("low stock threshold = %s, want 25.5", cfg.LowStockThreshold)
	}
	if cfg.ExpiryAlertDays != 14 {
		t.Errorf("expiry alert days = %d, want 14", cfg.ExpiryAlertDays)
	}
	if cfg.AllocationPolicy != model.PolicyLIFO {
		t.Errorf("allocation policy = %s, want LIFO", cfg.AllocationPolicy)
	}
}

func TestLoadBuildsDSNFromParts(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_HOST", "db.local")
	t.Setenv("DB_USER", "inv")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "inventory")
	t.Setenv("DB_PORT", "5432")

	cfg := Load()

	want := "host=db.local user=inv password=secret dbname=inventory port=5432 sslmode=disable TimeZone=Asia/Kolkata"
	if cfg.DatabaseDSN != want {
		t.Errorf("dsn = %q, want %q", cfg.DatabaseDSN, want)
	}
}
