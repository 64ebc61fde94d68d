package helpers

import (
	"fmt"
	"strconv"
)

// KES formats an amount the way table cells show it: "KES 1500.00".
func KES(amount float64) string {
	return fmt.Sprintf("KES %.2f", amount)
}

// KESCompact drops trailing zeros, matching the widget headers
// ("KES 5000" rather than "KES 5000.00").
func KESCompact(amount float64) string {
	return "KES " + strconv.FormatFloat(amount, 'f', -1, 64)
}
