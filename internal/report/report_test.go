package report

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/ledgerbot/internal/calculator"
	"github.com/mmynk/ledgerbot/internal/models"
)

var fixedNow = time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newReporter() *Reporter {
	return New(func() time.Time { return fixedNow })
}

func TestEscape(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"lunch", "lunch"},
		{"₹120.00", `₹120\.00`},
		{"a_b*c", `a\_b\*c`},
		{"(x) [y] {z}", `\(x\) \[y\] \{z\}`},
		{"~`>#+-=|.!", "\\~\\`\\>\\#\\+\\-\\=\\|\\.\\!"},
		{`back\slash`, `back\\slash`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Escape(tt.in), tt.in)
	}
}

func TestMoney(t *testing.T) {
	assert.Equal(t, "₹150.00", Money(dec("150")))
	assert.Equal(t, "₹33.33", Money(dec("33.333333")))
	assert.Equal(t, "₹0.10", Money(dec("0.1")))
}

func TestWindowBounds(t *testing.T) {
	r := newReporter()
	assert.Equal(t, fixedNow.Add(-24*time.Hour), r.WindowStart(1))
	assert.Equal(t, fixedNow.Add(-7*24*time.Hour), r.WindowStart(7))
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), r.MonthStart())
}

func TestWindow(t *testing.T) {
	r := newReporter()

	empty := r.Window(nil, 7)
	assert.True(t, empty.Empty)
	assert.Equal(t, "No expenses found in last 7 day(s).", empty.Text)
	assert.Empty(t, empty.ParseMode)

	msg := r.Window([]models.Expense{
		{Amount: dec("100"), Category: "food", CreatedAt: time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)},
		{Amount: dec("20.5"), Category: "transport", CreatedAt: time.Date(2024, 3, 14, 9, 0, 0, 0, time.UTC)},
	}, 7)

	assert.False(t, msg.Empty)
	assert.Equal(t, ParseModeMarkdownV2, msg.ParseMode)
	assert.Contains(t, msg.Text, "[2024-03-10] food")
	assert.Contains(t, msg.Text, ": ₹100.00")
	assert.Contains(t, msg.Text, "[2024-03-14] transport")
	assert.Contains(t, msg.Text, "Total in last 7 day(s): ₹120.50")
	assert.Less(t, strings.Index(msg.Text, "food"), strings.Index(msg.Text, "transport"))
}

func TestMonthly(t *testing.T) {
	r := newReporter()

	empty := r.Monthly(nil)
	assert.True(t, empty.Empty)
	assert.Equal(t, "No expenses found for the current month.", empty.Text)

	msg := r.Monthly([]models.CategoryTotal{
		{Category: "food", Total: dec("120")},
		{Category: "transport", Total: dec("20")},
	})
	lines := strings.Split(msg.Text, "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "`food        ` : ₹120\\.00", lines[1])
	assert.Equal(t, "`transport   ` : ₹20\\.00", lines[2])
	assert.Equal(t, "*Total this month:* ₹140\\.00", lines[4])
}

func TestHistory(t *testing.T) {
	r := newReporter()

	empty := r.History(nil)
	assert.True(t, empty.Empty)
	assert.Equal(t, "No shared expenses found.", empty.Text)

	at := time.Date(2024, 3, 2, 18, 0, 0, 0, time.UTC)
	msg := r.History([]models.Obligation{
		{Amount: dec("300"), Payer: "akash", Payee: "jai", Description: "dinner", Split: true, CreatedAt: at},
		{Amount: dec("50"), Payer: "jai", Payee: "swaraj", Description: "cab_fare", CreatedAt: at},
	})
	lines := strings.Split(msg.Text, "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "• *akash* paid ₹300\\.00 ➝ *jai* split for *dinner* \\(`02 Mar 2024`\\)", lines[1])
	assert.Equal(t, "• *jai* paid ₹50\\.00 ➝ *swaraj* owes for *cab\\_fare* \\(`02 Mar 2024`\\)", lines[2])
}

func TestBalances(t *testing.T) {
	r := newReporter()

	empty := r.Balances(nil, nil)
	assert.True(t, empty.Empty)
	assert.Equal(t, "No balances to show.", empty.Text)

	balances := []models.Balance{
		{Name: "akash", Net: dec("60")},
		{Name: "jai", Net: dec("-30")},
		{Name: "swaraj", Net: dec("-30")},
		{Name: "ravi", Net: decimal.Zero},
	}
	msg := r.Balances(balances, calculator.SimplifyDebts(balances))

	assert.Contains(t, msg.Text, "*akash*: gets ₹60\\.00")
	assert.Contains(t, msg.Text, "*jai*: owes ₹30\\.00")
	assert.Contains(t, msg.Text, "*ravi*: owes ₹0\\.00")
	assert.Contains(t, msg.Text, "• *jai* ➝ *akash*: ₹30\\.00")
	assert.Contains(t, msg.Text, "• *swaraj* ➝ *akash*: ₹30\\.00")
}

func TestRecorded(t *testing.T) {
	intent := models.PendingSplit{
		Amount:      dec("90"),
		Payer:       "akash",
		Description: "lunch",
		Payees:      []string{"jai", "swaraj"},
	}

	res, err := calculator.ResolveSplit(intent, calculator.EqualSplitIncludePayer)
	require.NoError(t, err)

	msg := Recorded(intent, res)
	assert.Contains(t, msg.Text, "✅ Recorded shared expense for *lunch*:")
	assert.Contains(t, msg.Text, "• Total split among 3 people")
	assert.Contains(t, msg.Text, "*akash* split ₹30\\.00")

	owe, err := calculator.ResolveSplit(intent, calculator.FullOwe)
	require.NoError(t, err)
	oweMsg := Recorded(intent, owe)
	assert.Contains(t, oweMsg.Text, "*jai* owes ₹90\\.00")
	assert.Contains(t, oweMsg.Text, "*swaraj* owes ₹90\\.00")
	assert.NotContains(t, oweMsg.Text, "Total split among")
}

func TestAdded(t *testing.T) {
	msg := Added(dec("150"), "lunch")
	assert.Equal(t, "✅ Added ₹150\\.00 for *lunch*", msg.Text)
	assert.Equal(t, ParseModeMarkdownV2, msg.ParseMode)
}
