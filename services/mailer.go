package services

import (
	"fmt"
	"html"

	"gopkg.in/gomail.v2"

	"pingpe-reports/config"
	"pingpe-reports/models"
	"pingpe-reports/utils"
)

// MailResult distinguishes "provider not set up" from "send failed":
// Configured is false when no SMTP host is configured, in which case the
// summary is silently skipped and Sent stays false with a nil error.
type MailResult struct {
	Sent       bool
	Configured bool
}

// Mailer sends the report summary email over SMTP.
type Mailer struct {
	cfg    *config.Config
	logger *utils.Logger
}

// NewMailer creates a Mailer from the SMTP section of the config.
func NewMailer(cfg *config.Config, logger *utils.Logger) *Mailer {
	return &Mailer{cfg: cfg, logger: logger}
}

// SendSummary renders both reports into one HTML summary and sends it to the
// configured recipient.
func (m *Mailer) SendSummary(fin *models.FinancialReport, perf *models.PerformanceReport, window models.DateRange) (MailResult, error) {
	if m.cfg.SMTPHost == "" {
		m.logger.Warn("[mailer] SMTP not configured — skipping report summary email")
		return MailResult{Configured: false}, nil
	}

	subject := fmt.Sprintf("Marketplace report %s → %s",
		window.From.Format("2006-01-02"), window.To.Format("2006-01-02"))

	msg := gomail.NewMessage()
	msg.SetHeader("From", fmt.Sprintf("%s <%s>", m.cfg.SMTPFromName, m.cfg.SMTPFromEmail))
	msg.SetHeader("To", m.cfg.ReportRecipient)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", renderSummaryHTML(fin, perf))

	dialer := gomail.NewDialer(m.cfg.SMTPHost, m.cfg.SMTPPort, m.cfg.SMTPUsername, m.cfg.SMTPPassword)
	if err := dialer.DialAndSend(msg); err != nil {
		return MailResult{Configured: true}, fmt.Errorf("mailer: send summary: %w", err)
	}

	m.logger.Info("[mailer] Report summary sent to %s", m.cfg.ReportRecipient)
	return MailResult{Sent: true, Configured: true}, nil
}

// renderSummaryHTML builds the email body. Host and partner names come from
// the store and are escaped so markup in a display name cannot distort the
// summary.
func renderSummaryHTML(fin *models.FinancialReport, perf *models.PerformanceReport) string {
	body := fmt.Sprintf(`<h2>Financial summary</h2>
<table cellpadding="4">
<tr><td>Total revenue</td><td><b>$%.2f</b></td></tr>
<tr><td>Bookings</td><td>%d</td></tr>
<tr><td>Avg booking value</td><td>$%.2f</td></tr>
<tr><td>Total refunds</td><td>$%.2f (%.1f%%)</td></tr>
<tr><td>Unpaid commissions</td><td>$%.2f</td></tr>
</table>
<h2>Host performance</h2>
<table cellpadding="4">
<tr><td>Top host</td><td><b>%s</b> ($%.2f)</td></tr>
<tr><td>Avg rating</td><td>%.2f</td></tr>
<tr><td>Active hosts</td><td>%d</td></tr>
</table>`,
		fin.TotalRevenue, fin.BookingsCount, fin.AvgBookingValue,
		fin.TotalRefunds, fin.RefundRate, fin.UnpaidCommissions,
		html.EscapeString(perf.TopHostName), perf.TopHostRevenue, perf.AvgRating, perf.ActiveHosts)

	if len(perf.TopPerformers) > 0 {
		body += "<h3>Top performers</h3><ol>"
		for _, h := range perf.TopPerformers {
			body += fmt.Sprintf("<li>%s — $%.2f (%d bookings)</li>",
				html.EscapeString(h.Name), h.Revenue, h.Bookings)
		}
		body += "</ol>"
	}
	return body
}
