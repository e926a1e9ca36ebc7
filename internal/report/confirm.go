package report

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mmynk/ledgerbot/internal/calculator"
	"github.com/mmynk/ledgerbot/internal/models"
)

// Added confirms a personal expense.
func Added(amount decimal.Decimal, category string) Message {
	return markdown([]string{fmt.Sprintf("✅ Added %s for %s", Escape(Money(amount)), bold(category))})
}

// Recorded confirms the obligations written for a shared expense.
func Recorded(intent models.PendingSplit, res calculator.Resolution) Message {
	lines := []string{
		fmt.Sprintf("✅ Recorded shared expense for %s:", bold(intent.Description)),
		"• Paid by " + bold(intent.Payer),
	}
	if res.Split {
		lines = append(lines, fmt.Sprintf("• Total split among %d people", res.Divisor))
	}

	verb := "owes"
	if res.Split {
		verb = "split"
	}
	for _, share := range res.Shares {
		lines = append(lines, fmt.Sprintf("%s %s %s", bold(share.Payee), verb, Escape(Money(share.Amount))))
	}
	return markdown(lines)
}

// Cleared confirms that every shared expense was removed.
func Cleared() Message {
	return Message{Text: "✅ All your shared expenses cleared."}
}
