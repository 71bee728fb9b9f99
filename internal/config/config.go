package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/shopspring/decimal"

	"go-inventory-gst/internal/model"
)

// Config carries every externally tunable value. It is built once in main
// and injected into constructors; nothing reads the environment after Load.
type Config struct {
	Port        string
	DatabaseDSN string

	// CompanyStateCode decides intra-state vs inter-state GST on invoices.
	CompanyStateCode string
	// DefaultWarehouseCode names the warehouse used when a movement omits one.
	DefaultWarehouseCode string

	LowStockThreshold decimal.Decimal
	ExpiryAlertDays   int

	AllocationPolicy model.AllocationPolicy
}

func Load() *Config {
	cfg := &Config{
		Port:                 getEnv("PORT", "3000"),
		DatabaseDSN:          os.Getenv("DATABASE_URL"),
		CompanyStateCode:     getEnv("COMPANY_STATE_CODE", "27"),
		DefaultWarehouseCode: getEnv("DEFAULT_WAREHOUSE_CODE", "WH-MAIN"),
		LowStockThreshold:    decimal.NewFromInt(50),
		ExpiryAlertDays:      7,
		AllocationPolicy:     model.PolicyFEFO,
	}

	if cfg.DatabaseDSN == "" {
		cfg.DatabaseDSN = fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=Asia/Kolkata",
			os.Getenv("DB_HOST"),
			os.Getenv("DB_USER"),
			os.Getenv("DB_PASSWORD"),
			os.Getenv("DB_NAME"),
			os.Getenv("DB_PORT"),
		)
	}

	if v := os.Getenv("LOW_STOCK_THRESHOLD"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			log.Fatalf("invalid LOW_STOCK_THRESHOLD %q: %v", v, err)
		}
		cfg.LowStockThreshold = d
	}

	if v := os.Getenv("EXPIRY_ALERT_DAYS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			log.Fatalf("invalid EXPIRY_ALERT_DAYS %q", v)
		}
		cfg.ExpiryAlertDays = n
	}

	if v := os.Getenv("ALLOCATION_POLICY"); v != "" {
		policy, ok := model.ParseAllocationPolicy(v)
		if !ok {
			log.Fatalf("invalid ALLOCATION_POLICY %q (want FIFO, FEFO or LIFO)", v)
		}
		cfg.AllocationPolicy = policy
	}

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
