package composer

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// moneyFormat groups thousands with ',' and always prints two decimals,
// matching the en-LK convention used for LKR amounts.
const moneyFormat = "#,###.##"

// dateLayout renders day/month/year
const dateLayout = "02/01/2006"

func formatMoney(value float64) string {
	return humanize.FormatFloat(moneyFormat, value)
}

// formatPlain prints a number in its shortest form (15, 12.5)
func formatPlain(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

func formatSequence(index int) string {
	return fmt.Sprintf("%02d", index+1)
}

func formatDate(t time.Time, ok bool, loc *time.Location) string {
	if !ok {
		return "N/A"
	}
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format(dateLayout)
}

// splitLines breaks free text into display lines, keeping blank lines
func splitLines(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.Split(text, "\n")
}
