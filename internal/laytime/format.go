package laytime

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"marithon/internal/domain"
)

// FormatNumber renders v with thousands separators and at most two
// fraction digits, trailing zeros dropped.
func FormatNumber(v float64) string {
	v = Round2(v)
	neg := v < 0
	s := strconv.FormatFloat(math.Abs(v), 'f', 2, 64)
	intPart, frac, _ := strings.Cut(s, ".")
	frac = strings.TrimRight(frac, "0")

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	if frac != "" {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return b.String()
}

// FormatAllowed renders allowed laytime as "%.2f Days".
func FormatAllowed(days float64) string {
	return fmt.Sprintf("%.2f Days", days)
}

// Badge returns the upper-case label shown for a mode.
func Badge(mode domain.CalculationMode) string {
	if mode == domain.ModeDemurrage {
		return "DEMURRAGE"
	}
	return "DISPATCH"
}

// Summary renders the plain-text result card.
func Summary(f domain.LaytimeForm, r domain.LaytimeResult) string {
	over := "saved"
	total := "Dispatch"
	if r.Mode == domain.ModeDemurrage {
		over = "over"
		total = "Demurrage"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s — %s\n", strings.TrimSpace(f.Vessel), strings.TrimSpace(f.Port))
	fmt.Fprintf(&b, "%s → %s • %s\n", strings.TrimSpace(f.VoyageFrom), strings.TrimSpace(f.VoyageTo), strings.TrimSpace(f.Operation))
	fmt.Fprintf(&b, "[%s]\n", Badge(r.Mode))
	fmt.Fprintf(&b, "Required: %s days\n", FormatNumber(r.RequiredDays))
	fmt.Fprintf(&b, "Allowed: %s days\n", FormatNumber(r.AllowedDays))
	fmt.Fprintf(&b, "Delta: %s days %s\n", FormatNumber(r.DeltaDays), over)
	fmt.Fprintf(&b, "Total %s: $%s", total, FormatNumber(r.Amount))
	return b.String()
}
