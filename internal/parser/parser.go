// Package parser turns the free-text bodies of /add and /shared into
// structured values.
package parser

import (
	"errors"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/mmynk/ledgerbot/internal/models"
)

var (
	ErrMalformedAmount    = errors.New("amount must be a positive number")
	ErrMalformedPayer     = errors.New("payer must be a single word")
	ErrInsufficientPayees = errors.New("at least one payee is required")
)

var (
	amountPattern = regexp.MustCompile(`^\d+(\.\d*)?$`)
	wordPattern   = regexp.MustCompile(`^\w+$`)
	alphaPattern  = regexp.MustCompile(`^[A-Za-z]+$`)
)

// ParseAmount parses a plain positive decimal such as "600", "12.5" or "3.".
// Signs, exponents and zero are rejected.
func ParseAmount(s string) (decimal.Decimal, error) {
	if !amountPattern.MatchString(s) {
		return decimal.Zero, ErrMalformedAmount
	}
	amount, err := decimal.NewFromString(strings.TrimSuffix(s, "."))
	if err != nil {
		return decimal.Zero, ErrMalformedAmount
	}
	if !amount.IsPositive() {
		return decimal.Zero, ErrMalformedAmount
	}
	return amount, nil
}

// ParseExpense parses "<amount> [category...]". The category defaults to
// models.DefaultCategory.
func ParseExpense(body string) (decimal.Decimal, string, error) {
	amountStr, rest := nextField(body)
	amount, err := ParseAmount(amountStr)
	if err != nil {
		return decimal.Zero, "", err
	}
	category := strings.Join(strings.Fields(rest), " ")
	if category == "" {
		category = models.DefaultCategory
	}
	return amount, category, nil
}

// ParseShared parses "<amount> <payer> <description> <payee...>".
func ParseShared(body string) (models.PendingSplit, error) {
	amountStr, rest := nextField(body)
	amount, err := ParseAmount(amountStr)
	if err != nil {
		return models.PendingSplit{}, err
	}

	payer, tail := nextField(rest)
	if !wordPattern.MatchString(payer) {
		return models.PendingSplit{}, ErrMalformedPayer
	}

	description, payees, err := SplitTail(tail)
	if err != nil {
		return models.PendingSplit{}, err
	}

	return models.PendingSplit{
		Amount:      amount,
		Payer:       payer,
		Description: description,
		Payees:      payees,
	}, nil
}

// SplitTail separates the description from the payee names.
//
// A leading quoted string or a comma followed by whitespace ends the
// description explicitly. Without either, SplitTokens decides.
func SplitTail(tail string) (string, []string, error) {
	tail = strings.TrimSpace(tail)

	var descTokens, payees []string
	switch {
	case strings.HasPrefix(tail, `"`) && strings.Contains(tail[1:], `"`):
		end := strings.IndexByte(tail[1:], '"') + 1
		descTokens = strings.Fields(tail[1:end])
		payees = payeeTokens(tail[end+1:])
	case separatorComma(tail) >= 0:
		idx := separatorComma(tail)
		descTokens = strings.Fields(tail[:idx])
		payees = payeeTokens(tail[idx+1:])
	default:
		descTokens, payees = SplitTokens(strings.Fields(tail))
	}

	if len(descTokens)+len(payees) < 2 || len(payees) == 0 {
		return "", nil, ErrInsufficientPayees
	}
	return strings.Join(descTokens, " "), payees, nil
}

// SplitTokens splits tokens into description and payees. The first token is
// always description; the payee run starts at the next purely alphabetic
// token. A description made only of plain words therefore loses all but its
// first word to the payee list: "team lunch alex" yields "team" and
// [lunch alex].
func SplitTokens(tokens []string) (description, payees []string) {
	if len(tokens) == 0 {
		return nil, nil
	}
	i := 1
	for i < len(tokens) && !alphaPattern.MatchString(tokens[i]) {
		i++
	}
	return tokens[:i], tokens[i:]
}

// nextField returns the first whitespace-separated field of s and the text
// after it.
func nextField(s string) (string, string) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	end := strings.IndexFunc(s, unicode.IsSpace)
	if end < 0 {
		return s, ""
	}
	return s[:end], s[end:]
}

// separatorComma returns the index of the first comma followed by
// whitespace or the end of s, or -1.
func separatorComma(s string) int {
	for i := 0; i < len(s); i++ {
		if s[i] != ',' {
			continue
		}
		if i+1 == len(s) {
			return i
		}
		if r, _ := utf8.DecodeRuneInString(s[i+1:]); unicode.IsSpace(r) {
			return i
		}
	}
	return -1
}

func payeeTokens(s string) []string {
	var out []string
	for _, f := range strings.Fields(s) {
		if f = strings.TrimRight(f, ","); f != "" {
			out = append(out, f)
		}
	}
	return out
}
