package service

import (
	"time"

	"go-inventory-gst/internal/apperr"
	"go-inventory-gst/internal/config"
	"go-inventory-gst/internal/model"
	"go-inventory-gst/internal/repository"
	"go-inventory-gst/pkg/logger"
)

// DashboardOverview is the single payload behind the dashboard landing page.
type DashboardOverview struct {
	TotalProducts  int64                `json:"total_products"`
	LowStockCount  int64                `json:"low_stock_count"`
	TotalValuation float64              `json:"total_valuation"`
	ActiveAlerts   int                  `json:"active_alerts"`
	RecentInvoices []model.SalesInvoice `json:"recent_invoices"`
}

type DashboardService interface {
	Overview() (*DashboardOverview, error)
	MovementSeries(days int) ([]repository.DailyFlow, error)
}

type dashboardService struct {
	movementRepo repository.MovementRepository
	invoiceRepo  repository.InvoiceRepository
	alerts       AlertService
	cfg          *config.Config
}

func NewDashboardService(
	mRepo repository.MovementRepository,
	iRepo repository.InvoiceRepository,
	alerts AlertService,
	cfg *config.Config,
) DashboardService {
	return &dashboardService{
		movementRepo: mRepo,
		invoiceRepo:  iRepo,
		alerts:       alerts,
		cfg:          cfg,
	}
}

func (s *dashboardService) Overview() (*DashboardOverview, error) {
	stats, err := s.movementRepo.GetDashboardStats(s.cfg.LowStockThreshold.String())
	if err != nil {
		logger.LogError("dashboard", "Overview", err)
		return nil, apperr.Internal("failed to load dashboard stats")
	}

	recent, err := s.invoiceRepo.FindAll(repository.InvoiceFilter{RecentOnly: true})
	if err != nil {
		logger.LogError("dashboard", "Overview", err)
		return nil, apperr.Internal("failed to load recent invoices")
	}

	overview := &DashboardOverview{
		TotalProducts:  stats.TotalProducts,
		LowStockCount:  stats.LowStockCount,
		TotalValuation: stats.TotalValuation,
		RecentInvoices: recent,
	}

	// The alert pass is best effort on the dashboard; stock numbers still
	// render when it fails.
	active, err := s.alerts.ActiveAlerts()
	if err != nil {
		logger.LogError("dashboard", "Overview", err)
	} else {
		overview.ActiveAlerts = len(active)
	}

	return overview, nil
}

func (s *dashboardService) MovementSeries(days int) ([]repository.DailyFlow, error) {
	if days <= 0 {
		days = 7
	}
	if days > 90 {
		days = 90
	}

	end := time.Now()
	start := end.AddDate(0, 0, -days)
	return s.movementRepo.GetDailyFlow(start, end)
}
