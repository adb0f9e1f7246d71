package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"pingpe-reports/config"
	"pingpe-reports/models"
	"pingpe-reports/services"
	"pingpe-reports/storage"
	"pingpe-reports/utils"
)

func main() {
	logger := utils.NewLogger()
	cfg := config.Load()
	ctx := context.Background()

	logger.Info("=== PingPe Reporting Pipeline starting ===")
	logger.Info("Config — window: %dd | search: location=%q guests=%d type=%s rate=%dms | output: %s",
		cfg.ReportWindowDays, cfg.SearchLocation, cfg.SearchGuests, cfg.SearchType, cfg.RateLimitMs, cfg.CSVOutputDir)

	exporter, err := storage.NewExporter(cfg.CSVOutputDir, logger)
	if err != nil {
		logger.Error("Failed to create CSV exporter: %v", err)
		os.Exit(1)
	}

	store, err := storage.NewPostgresStore(cfg.DSN(), logger)
	if err != nil {
		logger.Error("Failed to connect to PostgreSQL: %v", err)
		logger.Error("Make sure Docker is running: docker compose up -d")
		os.Exit(1)
	}
	defer store.Close()

	window := models.LastDays(cfg.ReportWindowDays)

	searchSvc := services.NewSearchService(store, logger, cfg.RateLimitMs)
	params := models.SearchParams{
		Location: cfg.SearchLocation,
		Guests:   cfg.SearchGuests,
		Type:     models.EntityType(cfg.SearchType),
	}
	if params.HasFilter() {
		results := searchSvc.Search(ctx, params)
		logger.Info("Unified search returned %d results", len(results))
		exportCSV(exporter, logger, searchResultsSpec(results))
	} else {
		logger.Info("No search filter configured — skipping unified search")
	}

	financeSvc := services.NewFinanceService(store, logger)
	finReport, err := financeSvc.Generate(ctx, window)
	if err != nil {
		logger.Error("Financial report failed: %v", err)
		os.Exit(1)
	}
	services.PrintFinancialReport(finReport, window)

	perfSvc := services.NewPerformanceService(store, logger)
	perfReport, err := perfSvc.Generate(ctx, window)
	if err != nil {
		logger.Error("Performance report failed: %v", err)
		os.Exit(1)
	}
	services.PrintPerformanceReport(perfReport, window)

	exportCSV(exporter, logger, revenueByTypeSpec(finReport))
	exportCSV(exporter, logger, commissionsSpec(finReport))
	exportCSV(exporter, logger, topPerformersSpec(perfReport))

	mailer := services.NewMailer(cfg, logger)
	if res, err := mailer.SendSummary(finReport, perfReport, window); err != nil {
		logger.Error("Report summary email failed: %v", err)
	} else if res.Sent {
		logger.Info("Report summary emailed to %s", cfg.ReportRecipient)
	}

	fmt.Printf("  Done. Reports printed above | CSV exports → %s\n\n", cfg.CSVOutputDir)
}

// exportCSV exports one spec, treating an empty report as an informational
// no-op rather than a failure.
func exportCSV(exporter *storage.Exporter, logger *utils.Logger, spec storage.ExportSpec) {
	if _, err := exporter.Export(spec); err != nil {
		if errors.Is(err, storage.ErrNoData) {
			logger.Info("[export] %s: no data to export", spec.Filename)
			return
		}
		logger.Error("[export] %s failed: %v", spec.Filename, err)
	}
}

func searchResultsSpec(results []models.SearchResult) storage.ExportSpec {
	rows := make([]map[string]any, 0, len(results))
	for _, r := range results {
		rows = append(rows, map[string]any{
			"id":           r.ID,
			"type":         string(r.Type),
			"title":        r.Title,
			"location":     r.Location,
			"price":        r.Price,
			"price_unit":   r.PriceUnit,
			"rating":       r.Rating,
			"review_count": r.ReviewCount,
		})
	}
	return storage.ExportSpec{
		Filename: "search_results",
		Headers:  []string{"id", "type", "title", "location", "price", "price_unit", "rating", "review_count"},
		Rows:     rows,
	}
}

func revenueByTypeSpec(r *models.FinancialReport) storage.ExportSpec {
	rows := make([]map[string]any, 0, len(r.RevenueByType))
	for _, b := range r.RevenueByType {
		rows = append(rows, map[string]any{"inventory_type": b.Name, "revenue": b.Value})
	}
	return storage.ExportSpec{
		Filename: "revenue_by_type",
		Headers:  []string{"inventory_type", "revenue"},
		Rows:     rows,
	}
}

func commissionsSpec(r *models.FinancialReport) storage.ExportSpec {
	rows := make([]map[string]any, 0, len(r.Commissions))
	for _, c := range r.Commissions {
		rows = append(rows, map[string]any{
			"partner": c.Partner,
			"amount":  c.Amount,
			"paid":    c.Paid,
			"paid_at": c.PaidAt,
		})
	}
	return storage.ExportSpec{
		Filename: "partner_commissions",
		Headers:  []string{"partner", "amount", "paid", "paid_at"},
		Rows:     rows,
	}
}

func topPerformersSpec(r *models.PerformanceReport) storage.ExportSpec {
	rows := make([]map[string]any, 0, len(r.TopPerformers))
	for i, h := range r.TopPerformers {
		rows = append(rows, map[string]any{
			"rank":     i + 1,
			"host":     h.Name,
			"revenue":  h.Revenue,
			"bookings": h.Bookings,
		})
	}
	return storage.ExportSpec{
		Filename: "top_performers",
		Headers:  []string{"rank", "host", "revenue", "bookings"},
		Rows:     rows,
	}
}
