package parser

import (
	"regexp"
	"strings"
	"unicode"
)

// OrderLine is one parsed line of a batch order command.
type OrderLine struct {
	UserCode  string
	Items     string
	PayerCode string // empty when the line carries no payer override
}

// Surface patterns tried in order. Each optionally captures a trailing
// digit group as an explicit payer override.
var orderLinePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^(\d+)\.?\s+(.+?)(?:\s+(\d+))?$`),       // 2. 雞腿便當 [15]
	regexp.MustCompile(`^(\d+)號\s+(.+?)(?:\s+(\d+))?$`),         // 2號 雞腿便當 [15]
	regexp.MustCompile(`^代號\s*(\d+)\s+(.+?)(?:\s+(\d+))?$`),     // 代號2 雞腿便當 [15]
}

// ParseOrderLine parses one order line into (user code, items, payer
// override). When the pattern captured no explicit trailing group, the
// items text is re-split on its last whitespace boundary: a final
// all-digit token of at most two characters is taken as an implicit
// payer code. Dish names that legitimately end in a 1-2 digit number
// collide with that heuristic; the ambiguity is part of the grammar and
// is deliberately not special-cased further.
func ParseOrderLine(line string) (OrderLine, bool) {
	for _, pat := range orderLinePatterns {
		m := pat.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		parsed := OrderLine{
			UserCode: strings.TrimSpace(m[1]),
			Items:    strings.TrimSpace(m[2]),
		}

		if m[3] != "" {
			parsed.PayerCode = strings.TrimSpace(m[3])
		} else if items, payer, ok := splitTrailingPayer(parsed.Items); ok {
			parsed.Items = items
			parsed.PayerCode = payer
		}

		if parsed.Items != "" {
			return parsed, true
		}
	}
	return OrderLine{}, false
}

// splitTrailingPayer splits items on the last whitespace run and treats
// a final all-digit token of length <= 2 as a payer code.
func splitTrailingPayer(items string) (rest, payer string, ok bool) {
	idx := strings.LastIndexFunc(items, unicode.IsSpace)
	if idx < 0 {
		return "", "", false
	}
	last := strings.TrimSpace(items[idx:])
	if last == "" || len(last) > 2 || !allDigits(last) {
		return "", "", false
	}
	return strings.TrimSpace(items[:idx]), last, true
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
