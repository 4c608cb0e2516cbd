package normalize

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	rangePattern   = regexp.MustCompile(`\$\s?(\d+(?:\.\d{1,2})?)\s*-\s*\$?\s?(\d+(?:\.\d{1,2})?)`)
	dollarPattern  = regexp.MustCompile(`\$\s?(\d+(?:\.\d{1,2})?)([Kk])?`)
	postfixPattern = regexp.MustCompile(`(\d+(?:\.\d{1,2})?)([Kk])?\s?\$`)
	wordPattern    = regexp.MustCompile(`(?i)\b(\d+(?:\.\d{1,2})?)\s?(dollars|usd)\b`)
)

// ParseReward extracts a monetary amount from a raw reward string. Ranges
// take the lower bound. The second result reports whether any currency
// pattern was recognized at all; "TBD" and free text both come back as not
// parsed.
func ParseReward(text string) (float64, bool) {
	if strings.TrimSpace(text) == "" {
		return 0, false
	}

	if m := rangePattern.FindStringSubmatch(text); m != nil {
		low, err := strconv.ParseFloat(m[1], 64)
		if err == nil {
			return low, true
		}
	}

	if m := dollarPattern.FindStringSubmatch(text); m != nil {
		return scaled(m[1], m[2])
	}

	if m := postfixPattern.FindStringSubmatch(text); m != nil {
		return scaled(m[1], m[2])
	}

	if m := wordPattern.FindStringSubmatch(text); m != nil {
		amount, err := strconv.ParseFloat(m[1], 64)
		if err == nil {
			return amount, true
		}
	}

	return 0, false
}

func scaled(number, suffix string) (float64, bool) {
	amount, err := strconv.ParseFloat(number, 64)
	if err != nil {
		return 0, false
	}

	if suffix != "" {
		amount *= 1000
	}

	return amount, true
}
