// Package report renders ledger data as chat messages.
//
// Rendered text uses Telegram MarkdownV2. Every user-supplied string and
// every amount passes through Escape; empty-state messages are plain text.
package report

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseModeMarkdownV2 is the parse mode of every non-empty report.
const ParseModeMarkdownV2 = "MarkdownV2"

// Currency prefixes every rendered amount.
const Currency = "₹"

// Message is a rendered report.
type Message struct {
	Text      string
	ParseMode string
	// Empty is set when there was nothing to report.
	Empty bool
}

func plain(text string) Message {
	return Message{Text: text, Empty: true}
}

func markdown(lines []string) Message {
	return Message{Text: strings.Join(lines, "\n"), ParseMode: ParseModeMarkdownV2}
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	`_`, `\_`,
	`*`, `\*`,
	`[`, `\[`,
	`]`, `\]`,
	`(`, `\(`,
	`)`, `\)`,
	`~`, `\~`,
	"`", "\\`",
	`>`, `\>`,
	`#`, `\#`,
	`+`, `\+`,
	`-`, `\-`,
	`=`, `\=`,
	`|`, `\|`,
	`{`, `\{`,
	`}`, `\}`,
	`.`, `\.`,
	`!`, `\!`,
)

// Escape makes s safe to embed as literal text in a MarkdownV2 message.
func Escape(s string) string {
	return markdownEscaper.Replace(s)
}

var codeEscaper = strings.NewReplacer(`\`, `\\`, "`", "\\`")

// escapeCode escapes s for use inside a code span or block.
func escapeCode(s string) string {
	return codeEscaper.Replace(s)
}

func bold(s string) string {
	return "*" + Escape(s) + "*"
}

// Money formats d with two decimals and the currency sign, unescaped.
func Money(d decimal.Decimal) string {
	return Currency + d.StringFixed(2)
}
