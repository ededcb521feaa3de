package scraper

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// arabicDigits maps Arabic-Indic and Extended Arabic-Indic digits to
// their ASCII equivalents.
var arabicDigits = strings.NewReplacer(
	"٠", "0", "١", "1", "٢", "2", "٣", "3", "٤", "4",
	"٥", "5", "٦", "6", "٧", "7", "٨", "8", "٩", "9",
	"۰", "0", "۱", "1", "۲", "2", "۳", "3", "۴", "4",
	"۵", "5", "۶", "6", "۷", "7", "۸", "8", "۹", "9",
	"٬", ",", "٫", ".",
)

// directionMarks are invisible bidi control characters that leak into
// scraped text on right-to-left pages and break field matching.
var directionMarks = strings.NewReplacer(
	"‎", "", // LRM
	"‏", "", // RLM
	"‪", "", "‫", "", "‬", "", "‭", "", "‮", "",
	"⁦", "", "⁧", "", "⁨", "", "⁩", "",
	"؜", "", // ALM
)

// NormalizeRTL prepares text extracted from Arabic-language markup for
// field parsing: NFKC folds presentation forms, bidi marks are removed,
// and Arabic-Indic digits become ASCII. Arabic letters themselves are
// preserved so vocabulary maps can match them.
func NormalizeRTL(s string) string {
	s = norm.NFKC.String(s)
	s = directionMarks.Replace(s)
	s = arabicDigits.Replace(s)
	return strings.Join(strings.Fields(s), " ")
}
