package format

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatCurrency(t *testing.T) {
	cases := map[string]string{
		"500":        "$500",
		"$1,200.50":  "$120,050",
		"":           "",
		"abc":        "",
		"0":          "$0",
		"000750":     "$750",
		"1234567":    "$1,234,567",
		"$ 2 500 CA": "$2,500",
	}

	for in, want := range cases {
		require.Equal(t, want, FormatCurrency(in), "input %q", in)
	}
}

func TestFormatCurrencyIdempotent(t *testing.T) {
	for _, in := range []string{"500", "$1,200.50", "", "9999999999999999999", "12a34"} {
		once := FormatCurrency(in)
		require.Equal(t, once, FormatCurrency(once), "input %q", in)
	}
}

func TestParseCurrency(t *testing.T) {
	amount, ok := ParseCurrency("$1,500")
	require.True(t, ok)
	require.Equal(t, int64(1500), amount)

	_, ok = ParseCurrency("n/a")
	require.False(t, ok)

	amount, ok = ParseCurrency("$0")
	require.True(t, ok)
	require.Zero(t, amount)
}

func TestFormatPhoneInput(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"4", "4"},
		{"416", "416"},
		{"4165", "(416) 5"},
		{"416555", "(416) 555"},
		{"4165551", "(416) 555-1"},
		{"4165551234", "(416) 555-1234"},
		{"416555123499", "(416) 555-1234"},
		{"(416) 555-12", "(416) 555-12"},
		{"+1 x", "1"},
	}

	for _, tc := range cases {
		require.Equal(t, tc.want, FormatPhoneInput(tc.in), "input %q", tc.in)
	}
}

func TestPhoneRoundTrip(t *testing.T) {
	inputs := []string{
		"",
		"a",
		"1-2",
		"(416)",
		"416-555-12",
		"4165551234",
		"416.555.1234 ext",
		"123456789012345",
		"x1y2z3w4v5u6t7s",
	}

	for _, in := range inputs {
		want := Digits(in)
		if len(want) > PhoneDigits {
			want = want[:PhoneDigits]
		}
		require.Equal(t, want, CleanPhoneNumber(FormatPhoneInput(in)), "input %q", in)
	}
}

func TestIsCompletePhone(t *testing.T) {
	require.True(t, IsCompletePhone("(416) 555-1234"))
	require.False(t, IsCompletePhone("416555123"))
	require.False(t, IsCompletePhone("41655512345"))
}
