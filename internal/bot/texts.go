package bot

// MarkdownV2 texts are pre-escaped.
const (
	textStart = "👋 *Welcome to your Expense Tracker\\!*\n\n" +
		"💵 *Personal Expenses*\n" +
		"`/add 150 lunch` — Quickly add your own spending\n\n" +
		"👥 *Shared Expenses*\n" +
		"`/shared 600 jai dinner swaraj` — Split or owe with others\n\n" +
		"📈 *Smart Summaries*\n" +
		"• `/daily` — _Today’s summary_\n" +
		"• `/weekly` — _Last 7 days_\n" +
		"• `/15days` — _Last 15 days_\n" +
		"• `/monthly` — _This month’s report_\n\n" +
		"💰 *Settle Balances*\n" +
		"• `/settle` — _Who owes whom?_\n\n" +
		"📋 *Shared History*\n" +
		"• `/show` — _All shared entries_\n\n" +
		"🛠 *Help*\n" +
		"• `/help` — _All commands with examples_\n\n" +
		"_✨ Start tracking now and take control of your money\\!_"

	textHelp = "🤖 *Expense Tracker Help*\n\n" +
		"➕ `/add <amount> <category>`\n" +
		"👥 `/shared <amount> <payer> <description> <payee1> [<payee2> ...]`\n" +
		"📋 /show \\- View shared history\n" +
		"💰 /settle \\- View balances\n" +
		"📅 /daily \\- Show today’s expenses\n" +
		"📈 /weekly \\- Last 7 days\n" +
		"🗓️ /15days \\- Last 15 days\n" +
		"📆 /monthly \\- This month\n" +
		"❓ /help \\- Show this help\n\n" +
		"Example: `/shared 100 jai \"lunch office\" swaraj`\n" +
		"Separate names with commas when the description ends in a word: " +
		"`/shared 90 akash team lunch, jai, swaraj`"

	textAddUsage = "*Usage:* `/add <amount> <category>`\n\n*Example:* `/add 150 lunch`"

	textSharedUsage = "*Usage:* `/shared <amount> <payer> <description> <payee1> [<payee2> ...]`\n" +
		"*Example:* `/shared 60 akash \"lunch office\" jai swaraj`"
)

// Plain-text notices.
const (
	textAddError     = "❌ Usage: /add <amount> <category>"
	textSharedError  = "❌ Usage: /shared <amount> <payer> <description> <payee1> [<payee2> ...]"
	textUnknown      = "🤷 Unknown command. Send /help to see what I can do."
	textHowToSplit   = "How should this be split?"
	textIncludePayer = "Should the payer be included in the split?"
	textMalformed    = "❌ An error occurred while processing your request."
	textExpired      = "⌛ This choice has expired. Please send the command again."
	textStoreFailure = "❌ Something went wrong. Please try again later."
)

// Button labels.
const (
	labelSplit     = "➗ Split Equally"
	labelOwe       = "💯 Full Owe"
	labelInclude   = "Include Payer"
	labelExclude   = "Exclude Payer"
	labelClose     = "❌ Close"
	labelSettleNow = "✅ Settle Now"
	labelClearAll  = "🧹 Clear All"
	labelBack      = "↩️ Back"
)
