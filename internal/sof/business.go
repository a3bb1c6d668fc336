package sof

import (
	"regexp"
	"strconv"
	"strings"

	"marithon/internal/domain"
)

// Business field keys in the patterns file.
const (
	KeyVessel     = "VESSEL"
	KeyVoyageFrom = "VOYAGE_FROM"
	KeyVoyageTo   = "VOYAGE_TO"
	KeyPort       = "PORT"
	KeyCargo      = "CARGO"
)

var (
	leadingLinkWord = regexp.MustCompile(`(?i)^(?:at|to|for)\s+`)
	whitespaceRun   = regexp.MustCompile(`\s+`)
	mvVessel        = regexp.MustCompile(`(?i)\b(m\.?v\.?)\s+([a-z0-9][a-z0-9\s\-]+)`)
	portLine        = regexp.MustCompile(`(?i)port\s+of\s+(loading|discharging)`)
	descriptionWord = regexp.MustCompile(`(?i)description`)

	loadWord      = regexp.MustCompile(`(?i)\b(?:load|loading)\b`)
	dischargeWord = regexp.MustCompile(`(?i)\b(?:discharge|discharging)\b`)

	demurrageNumber = regexp.MustCompile(`(?i)demurrage[^\d]*([0-9][0-9,\.]*)`)
	dispatchNumber  = regexp.MustCompile(`(?i)(?:dispatch|despatch)[^\d]*([0-9][0-9,\.]*)`)
	allowedNumber   = regexp.MustCompile(`(?i)(?:allowed\s+laytime|laytime|allowed)[^\d]*([0-9][0-9,\.]*)`)
	quantityNumbers = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:cargo\s*(?:qty|quantity)|quantity|qty)[^\d]*([0-9][0-9,\.]*)`),
		regexp.MustCompile(`(?i)([0-9][0-9,\.]*)\s*(?:mt|metric\s+tons|tons)`),
	}

	rateUnits      = `(?:mt\/?day|mt\s*per\s*day|tons\s*per\s*day|t\/day|tpd|per\s*day)`
	rateLine       = regexp.MustCompile(`(?i)\brate\b|` + rateUnits)
	rateBeforeUnit = regexp.MustCompile(`(?i)([0-9][0-9,\.]*)\s*` + rateUnits)
	rateAfterWord  = regexp.MustCompile(`(?i)\brate\b[^\d]*([0-9][0-9,\.]*)`)
)

type labelPatterns struct {
	sameLine  *regexp.Regexp
	labelOnly *regexp.Regexp
	extended  *regexp.Regexp
}

func compileLabel(label string, filler int) labelPatterns {
	q := `(?i)\b` + regexp.QuoteMeta(label) + `\b`
	f := `(?:\s+[A-Za-z]+){0,` + strconv.Itoa(filler) + `}`
	return labelPatterns{
		sameLine:  regexp.MustCompile(q + f + `\s*[:\-]\s*(.+)`),
		labelOnly: regexp.MustCompile(q + f + `\s*:\s*$`),
		extended:  regexp.MustCompile(q + `(?:\s+[A-Za-z]+){0,5}\s*:\s*(.+)`),
	}
}

// BusinessExtractor pulls commercial fields out of document lines using
// label synonyms and numeric patterns.
type BusinessExtractor struct {
	labels map[string][]labelPatterns

	cargoPreferred []labelPatterns
	cargoFallback  []*regexp.Regexp
}

// NewBusinessExtractor compiles the label synonyms of patterns.
func NewBusinessExtractor(patterns *LabelSet) *BusinessExtractor {
	e := &BusinessExtractor{labels: map[string][]labelPatterns{}}
	for _, key := range []string{KeyVessel, KeyVoyageFrom, KeyVoyageTo, KeyPort} {
		for _, label := range patterns.Get(key) {
			e.labels[key] = append(e.labels[key], compileLabel(label, 3))
		}
	}

	cargo := patterns.Get(KeyCargo)
	var preferred []string
	for _, l := range cargo {
		if descriptionWord.MatchString(l) {
			preferred = append(preferred, l)
		}
	}
	if len(preferred) == 0 {
		preferred = cargo
	}
	for _, l := range preferred {
		e.cargoPreferred = append(e.cargoPreferred, compileLabel(l, 5))
	}
	for _, l := range cargo {
		e.cargoFallback = append(e.cargoFallback, regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(l)+`\b\s*[:\-]\s*(.+)`))
	}
	return e
}

// Extract returns the business data found in lines. Fields that cannot be
// located are nil.
func (e *BusinessExtractor) Extract(lines []string) *domain.BusinessData {
	data := &domain.BusinessData{}
	if len(lines) == 0 {
		return data
	}
	text := strings.ToLower(strings.Join(lines, "\n"))

	data.Vessel = e.vessel(lines)
	data.VoyageFrom = e.valueAfterLabels(lines, e.labels[KeyVoyageFrom])
	data.VoyageTo = e.valueAfterLabels(lines, e.labels[KeyVoyageTo])
	data.Port = e.valueAfterLabels(lines, e.labels[KeyPort])
	data.Cargo = e.cargo(lines)
	data.Operation = operation(text)
	data.Demurrage = firstNumber(text, demurrageNumber)
	data.Dispatch = firstNumber(text, dispatchNumber)
	data.Rate = rate(text)
	data.Quantity = firstNumber(text, quantityNumbers...)
	data.Allowed = firstNumber(text, allowedNumber)
	return data
}

// CleanValue strips a leading linking word (at, to, for) and collapses whitespace.
func CleanValue(v string) string {
	v = strings.TrimSpace(v)
	v = leadingLinkWord.ReplaceAllString(v, "")
	return whitespaceRun.ReplaceAllString(v, " ")
}

func (e *BusinessExtractor) valueAfterLabels(lines []string, labels []labelPatterns) *string {
	for idx, line := range lines {
		for _, lp := range labels {
			if m := lp.sameLine.FindStringSubmatch(line); m != nil && strings.TrimSpace(m[1]) != "" {
				return ptr(CleanValue(m[1]))
			}
			if lp.labelOnly.MatchString(line) {
				if v, ok := nextNonEmpty(lines, idx); ok {
					return ptr(v)
				}
			}
			if m := lp.extended.FindStringSubmatch(line); m != nil && strings.TrimSpace(m[1]) != "" {
				return ptr(CleanValue(m[1]))
			}
		}
	}
	return nil
}

func nextNonEmpty(lines []string, idx int) (string, bool) {
	for j := idx + 1; j < len(lines) && j < idx+4; j++ {
		if s := strings.TrimSpace(lines[j]); s != "" {
			return CleanValue(s), true
		}
	}
	return "", false
}

func (e *BusinessExtractor) vessel(lines []string) *string {
	if v := e.valueAfterLabels(lines, e.labels[KeyVessel]); v != nil {
		return v
	}
	for _, line := range lines {
		if m := mvVessel.FindString(line); m != "" {
			return ptr(CleanValue(m))
		}
	}
	return nil
}

func (e *BusinessExtractor) cargo(lines []string) *string {
	for idx, line := range lines {
		if portLine.MatchString(line) {
			continue
		}
		for _, lp := range e.cargoPreferred {
			if m := lp.sameLine.FindStringSubmatch(line); m != nil && strings.TrimSpace(m[1]) != "" {
				if v := CleanValue(m[1]); v != "" {
					return ptr(v)
				}
			}
			if lp.labelOnly.MatchString(line) {
				if v, ok := nextNonEmpty(lines, idx); ok && v != "" {
					return ptr(v)
				}
			}
		}
	}

	for _, line := range lines {
		if portLine.MatchString(line) {
			continue
		}
		for _, rx := range e.cargoFallback {
			if m := rx.FindStringSubmatch(line); m != nil && strings.TrimSpace(m[1]) != "" {
				return ptr(CleanValue(m[1]))
			}
		}
	}
	return nil
}

func operation(text string) *string {
	switch {
	case loadWord.MatchString(text):
		return ptr(string(domain.OperationLoad))
	case dischargeWord.MatchString(text):
		return ptr(string(domain.OperationDischarge))
	}
	return nil
}

func rate(text string) *float64 {
	for _, line := range strings.Split(text, "\n") {
		if !rateLine.MatchString(line) {
			continue
		}
		m := rateBeforeUnit.FindStringSubmatch(line)
		if m == nil {
			m = rateAfterWord.FindStringSubmatch(line)
		}
		if m == nil {
			continue
		}
		if v, ok := parseNumber(m[1]); ok {
			return &v
		}
	}
	return nil
}

func firstNumber(text string, patterns ...*regexp.Regexp) *float64 {
	for _, rx := range patterns {
		m := rx.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if v, ok := parseNumber(m[1]); ok {
			return &v
		}
	}
	return nil
}

func parseNumber(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func ptr[T any](v T) *T { return &v }
