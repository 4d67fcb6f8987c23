package format

import (
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// maxCurrencyDigits keeps parsed amounts inside int64.
const maxCurrencyDigits = 15

var printer = message.NewPrinter(language.English)

// Digits returns only the ASCII digits of s, in order.
func Digits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FormatCurrency turns free-form input into a whole-dollar display string
// such as "$1,200". Every non-digit is dropped, so the result formats to
// itself. Input without digits formats to "".
func FormatCurrency(input string) string {
	amount, ok := ParseCurrency(input)
	if !ok {
		return ""
	}
	return printer.Sprintf("$%d", amount)
}

// ParseCurrency returns the whole-dollar amount FormatCurrency would display.
func ParseCurrency(input string) (int64, bool) {
	digits := strings.TrimLeft(Digits(input), "0")
	if digits == "" {
		if Digits(input) == "" {
			return 0, false
		}
		return 0, true
	}
	if len(digits) > maxCurrencyDigits {
		digits = digits[:maxCurrencyDigits]
	}

	amount, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, false
	}
	return amount, true
}
