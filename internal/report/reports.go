package report

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/ledgerbot/internal/models"
)

// Reporter renders summaries relative to a clock.
type Reporter struct {
	now func() time.Time
}

// New creates a Reporter. A nil clock means time.Now.
func New(now func() time.Time) *Reporter {
	if now == nil {
		now = time.Now
	}
	return &Reporter{now: now}
}

// WindowStart is the earliest timestamp included in an N-day report.
func (r *Reporter) WindowStart(days int) time.Time {
	return r.now().UTC().Add(-time.Duration(days) * 24 * time.Hour)
}

// MonthStart is midnight UTC on the first day of the current month.
func (r *Reporter) MonthStart() time.Time {
	now := r.now().UTC()
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// Window lists the expenses of the last N days, oldest first, with a total.
func (r *Reporter) Window(entries []models.Expense, days int) Message {
	if len(entries) == 0 {
		return plain(fmt.Sprintf("No expenses found in last %d day(s).", days))
	}

	lines := []string{"*Category\\-wise Expenses:*", "```"}
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.Amount)
		lines = append(lines, escapeCode(fmt.Sprintf("[%s] %-18s: %s",
			e.CreatedAt.UTC().Format("2006-01-02"), e.Category, Money(e.Amount))))
	}
	lines = append(lines,
		"",
		escapeCode(fmt.Sprintf("Total in last %d day(s): %s", days, Money(total))),
		"```",
	)
	return markdown(lines)
}

// Monthly lists per-category totals for the current month, largest first.
// totals must already be sorted.
func (r *Reporter) Monthly(totals []models.CategoryTotal) Message {
	if len(totals) == 0 {
		return plain("No expenses found for the current month.")
	}

	lines := []string{"*Category\\-wise Expenses for this month:*"}
	total := decimal.Zero
	for _, ct := range totals {
		total = total.Add(ct.Total)
		lines = append(lines, fmt.Sprintf("`%s` : %s",
			escapeCode(fmt.Sprintf("%-12s", ct.Category)), Escape(Money(ct.Total))))
	}
	lines = append(lines, "", "*Total this month:* "+Escape(Money(total)))
	return markdown(lines)
}

// History lists obligations in the order given, one line each.
func (r *Reporter) History(obligations []models.Obligation) Message {
	if len(obligations) == 0 {
		return plain("No shared expenses found.")
	}

	lines := []string{"*📋 Shared Expense History:*"}
	for _, o := range obligations {
		verb := "owes"
		if o.Split {
			verb = "split"
		}
		lines = append(lines, fmt.Sprintf("• %s paid %s ➝ %s %s for %s \\(`%s`\\)",
			bold(o.Payer), Escape(Money(o.Amount)), bold(o.Payee), verb,
			bold(o.Description), o.CreatedAt.UTC().Format("02 Jan 2006")))
	}
	return markdown(lines)
}

// Balances renders each participant's net position followed by the
// transfers that settle them. Positive means the participant gets money
// back; zero renders as owing nothing.
func (r *Reporter) Balances(balances []models.Balance, transfers []models.Transfer) Message {
	if len(balances) == 0 {
		return plain("No balances to show.")
	}

	lines := []string{"*💰 Balance Summary:*"}
	for _, b := range balances {
		verb := "owes"
		if b.Net.IsPositive() {
			verb = "gets"
		}
		lines = append(lines, fmt.Sprintf("%s: %s %s", bold(b.Name), verb, Escape(Money(b.Net.Abs()))))
	}

	if len(transfers) > 0 {
		lines = append(lines, "", "*🔁 To settle up:*")
		for _, t := range transfers {
			lines = append(lines, fmt.Sprintf("• %s ➝ %s: %s", bold(t.From), bold(t.To), Escape(Money(t.Amount))))
		}
	}
	return markdown(lines)
}
