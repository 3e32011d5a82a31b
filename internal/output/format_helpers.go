package output

import "github.com/shopspring/decimal"

// FormatWholeCurrency formats truncated dollar amounts without cents.
func FormatWholeCurrency(amount int64) string { return "$" + decimal.NewFromInt(amount).StringFixed(0) }

// FormatPercentage formats a decimal as a percentage with 2 decimals.
func FormatPercentage(amount decimal.Decimal) string { return amount.StringFixed(2) + "%" }
