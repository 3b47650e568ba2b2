package patient

import (
	"math"
	"strconv"
	"strings"
)

// parsePrice interprets a numeric-as-string price, treating blank or
// malformed values as zero.
func parsePrice(value string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0
	}
	return f
}

// Total returns the combined frame and glass price for a record.
func Total(framePrice, glassPrice string) float64 {
	return parsePrice(framePrice) + parsePrice(glassPrice)
}

// FormatCurrency renders a price as Indian rupees with en-IN digit grouping
// (last three digits, then groups of two) and no fraction digits.
func FormatCurrency(value string) string {
	amount := int64(math.Round(parsePrice(value)))
	neg := amount < 0
	if neg {
		amount = -amount
	}
	digits := strconv.FormatInt(amount, 10)

	var grouped string
	if len(digits) > 3 {
		head := digits[:len(digits)-3]
		grouped = digits[len(digits)-3:]
		for len(head) > 2 {
			grouped = head[len(head)-2:] + "," + grouped
			head = head[:len(head)-2]
		}
		grouped = head + "," + grouped
	} else {
		grouped = digits
	}

	if neg {
		return "-₹" + grouped
	}
	return "₹" + grouped
}
