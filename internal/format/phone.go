package format

import "fmt"

const PhoneDigits = 10

// FormatPhoneInput masks the digits typed so far as (AAA) BBB-CCCC. Partial
// input is masked progressively and anything past ten digits is dropped.
func FormatPhoneInput(input string) string {
	digits := CleanPhoneNumber(input)

	switch n := len(digits); {
	case n < 4:
		return digits
	case n < 7:
		return fmt.Sprintf("(%s) %s", digits[:3], digits[3:])
	default:
		return fmt.Sprintf("(%s) %s-%s", digits[:3], digits[3:6], digits[6:])
	}
}

// CleanPhoneNumber returns at most the first ten digits of input.
func CleanPhoneNumber(input string) string {
	digits := Digits(input)
	if len(digits) > PhoneDigits {
		digits = digits[:PhoneDigits]
	}
	return digits
}

func IsCompletePhone(input string) bool {
	return len(Digits(input)) == PhoneDigits
}
