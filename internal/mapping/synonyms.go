package mapping

import "insighto/domain/semantic"

// roleSynonyms lists the name tokens that suggest each role. Matching is
// done on lowercased tokens split from the column name.
var roleSynonyms = map[semantic.Role][]string{
	semantic.RoleDate: {
		"date", "time", "timestamp", "datetime", "day", "period",
		"posted", "created", "booking",
	},
	semantic.RoleAmount: {
		"amount", "amt", "value", "total", "sum", "balance", "price",
		"cost", "fee", "debit", "credit", "spend",
	},
	semantic.RoleCategory: {
		"category", "cat", "type", "class", "group", "segment", "tag",
		"label", "kind",
	},
	semantic.RoleAccount: {
		"account", "acct", "iban", "wallet", "ledger", "card",
	},
	semantic.RoleDescription: {
		"description", "desc", "memo", "narrative", "details", "note",
		"notes", "text", "reference",
	},
	semantic.RoleCounterparty: {
		"counterparty", "payee", "merchant", "vendor", "payer",
		"recipient", "beneficiary", "customer", "supplier",
	},
}
