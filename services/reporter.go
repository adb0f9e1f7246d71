package services

import (
	"fmt"
	"strings"

	"pingpe-reports/models"
)

// PrintFinancialReport formats and prints the financial report to terminal.
func PrintFinancialReport(r *models.FinancialReport, window models.DateRange) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Printf("\n\033[1;35m%s\033[0m\n", sep)
	fmt.Printf("\033[1;35m  💰 FINANCIAL REPORT\033[0m\n")
	fmt.Printf("\033[1;35m%s\033[0m\n\n", sep)

	fmt.Printf("\033[1;33m  Window\033[0m\n")
	fmt.Printf("  %s\n", thin)
	fmt.Printf("  %s → %s\n\n", window.From.Format("2006-01-02"), window.To.Format("2006-01-02"))

	fmt.Printf("\033[1;33m  Revenue\033[0m\n")
	fmt.Printf("  %s\n", thin)
	fmt.Printf("  Total revenue      : \033[1;32m$%.2f\033[0m\n", r.TotalRevenue)
	fmt.Printf("  Bookings in range  : \033[1m%d\033[0m\n", r.BookingsCount)
	fmt.Printf("  Avg booking value  : \033[1;32m$%.2f\033[0m\n", r.AvgBookingValue)
	fmt.Println()

	fmt.Printf("\033[1;33m  Revenue by Inventory Type\033[0m\n")
	fmt.Printf("  %s\n", thin)
	if len(r.RevenueByType) == 0 {
		fmt.Printf("  No completed bookings in range\n")
	} else {
		for _, bucket := range r.RevenueByType {
			fmt.Printf("  %-20s \033[1;32m$%.2f\033[0m\n", bucket.Name, bucket.Value)
		}
	}
	fmt.Println()

	fmt.Printf("\033[1;33m  Refunds & Commissions\033[0m\n")
	fmt.Printf("  %s\n", thin)
	fmt.Printf("  Total refunds      : \033[1;31m$%.2f\033[0m (%.1f%% of revenue)\n", r.TotalRefunds, r.RefundRate)
	fmt.Printf("  Total commissions  : $%.2f\n", r.TotalCommissions)
	fmt.Printf("  Unpaid commissions : \033[1;31m$%.2f\033[0m\n", r.UnpaidCommissions)

	if len(r.Commissions) > 0 {
		fmt.Println()
		for _, c := range r.Commissions {
			status := "\033[1;32mpaid\033[0m"
			if !c.Paid {
				status = "\033[1;31munpaid\033[0m"
			}
			fmt.Printf("  %-28s $%-10.2f %s\n", truncate(c.Partner, 26), c.Amount, status)
		}
	}

	fmt.Printf("\n\033[1;35m%s\033[0m\n\n", sep)
}

// PrintPerformanceReport formats and prints the host performance report.
func PrintPerformanceReport(r *models.PerformanceReport, window models.DateRange) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Printf("\n\033[1;35m%s\033[0m\n", sep)
	fmt.Printf("\033[1;35m  🏆 HOST PERFORMANCE REPORT\033[0m\n")
	fmt.Printf("\033[1;35m%s\033[0m\n\n", sep)

	fmt.Printf("\033[1;33m  Window\033[0m\n")
	fmt.Printf("  %s\n", thin)
	fmt.Printf("  %s → %s\n\n", window.From.Format("2006-01-02"), window.To.Format("2006-01-02"))

	fmt.Printf("\033[1;33m  Overview\033[0m\n")
	fmt.Printf("  %s\n", thin)
	fmt.Printf("  Top host           : \033[1m%s\033[0m ($%.2f)\n", r.TopHostName, r.TopHostRevenue)
	fmt.Printf("  Avg review rating  : \033[1;32m%.2f ★\033[0m\n", r.AvgRating)
	fmt.Printf("  Active hosts       : \033[1m%d\033[0m\n", r.ActiveHosts)
	fmt.Println()

	fmt.Printf("\033[1;33m  Top Performers\033[0m\n")
	fmt.Printf("  %s\n", thin)
	if len(r.TopPerformers) == 0 {
		fmt.Printf("  No completed bookings in range\n")
	} else {
		for i, h := range r.TopPerformers {
			fmt.Printf("  \033[1m%2d.\033[0m %-30s \033[1;32m$%-10.2f\033[0m %d bookings\n",
				i+1, truncate(h.Name, 28), h.Revenue, h.Bookings)
		}
	}

	fmt.Printf("\n\033[1;35m%s\033[0m\n\n", sep)
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
