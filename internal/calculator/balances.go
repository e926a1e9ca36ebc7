package calculator

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/mmynk/ledgerbot/internal/models"
)

// settleThreshold ignores leftovers from non-terminating divisions.
var settleThreshold = decimal.New(1, -2)

// NetBalances reduces obligations to one signed balance per name.
//
// Algorithm:
//   - For each obligation: balance[payer] += amount, balance[payee] -= amount
//   - Names appear in the order they are first seen
//
// Mutual debts are not cancelled pairwise; this is each name's global net
// position. The sum of all balances is zero.
func NetBalances(obligations []models.Obligation) []models.Balance {
	index := make(map[string]int)
	var balances []models.Balance

	add := func(name string, amount decimal.Decimal) {
		i, ok := index[name]
		if !ok {
			i = len(balances)
			index[name] = i
			balances = append(balances, models.Balance{Name: name, Net: decimal.Zero})
		}
		balances[i].Net = balances[i].Net.Add(amount)
	}

	for _, o := range obligations {
		add(o.Payer, o.Amount)
		add(o.Payee, o.Amount.Neg())
	}

	return balances
}

// SimplifyDebts suggests transfers that settle the given balances.
// Largest debtors are matched with largest creditors greedily.
func SimplifyDebts(balances []models.Balance) []models.Transfer {
	var creditors, debtors []models.Balance
	for _, b := range balances {
		if b.Net.GreaterThan(settleThreshold) {
			creditors = append(creditors, b)
		} else if b.Net.LessThan(settleThreshold.Neg()) {
			debtors = append(debtors, models.Balance{Name: b.Name, Net: b.Net.Neg()})
		}
	}

	byAmount := func(s []models.Balance) {
		sort.SliceStable(s, func(i, j int) bool {
			if !s[i].Net.Equal(s[j].Net) {
				return s[i].Net.GreaterThan(s[j].Net)
			}
			return s[i].Name < s[j].Name
		})
	}
	byAmount(creditors)
	byAmount(debtors)

	var transfers []models.Transfer
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		amount := decimal.Min(debtors[i].Net, creditors[j].Net)

		if amount.GreaterThan(settleThreshold) {
			transfers = append(transfers, models.Transfer{
				From:   debtors[i].Name,
				To:     creditors[j].Name,
				Amount: amount,
			})
		}

		debtors[i].Net = debtors[i].Net.Sub(amount)
		creditors[j].Net = creditors[j].Net.Sub(amount)

		if debtors[i].Net.LessThan(settleThreshold) {
			i++
		}
		if creditors[j].Net.LessThan(settleThreshold) {
			j++
		}
	}

	return transfers
}
