package parser

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// AmountLineKind classifies one line of a batch amount command.
type AmountLineKind int

const (
	// AmountLineOK is a well-formed "<code>[.|space]+<amount>" line.
	AmountLineOK AmountLineKind = iota
	// AmountLineBlank carries no digit at all and is silently skipped
	// (blank lines, free-text remarks).
	AmountLineBlank
	// AmountLineMalformed carries digits but fails the shape check and
	// is reported as a format error.
	AmountLineMalformed
)

// AmountLine is one parsed line of a batch amount command.
type AmountLine struct {
	UserCode string
	Amount   float64
}

var amountLinePattern = regexp.MustCompile(`^(\d+)[.\s]+(\d+(?:\.\d+)?)$`)

// ParseAmountLine parses "2. 100", "2 100" or "2.100" into a user code
// and a non-negative decimal amount.
func ParseAmountLine(line string) (AmountLine, AmountLineKind) {
	line = strings.TrimSpace(line)

	m := amountLinePattern.FindStringSubmatch(line)
	if m == nil {
		if strings.IndexFunc(line, unicode.IsDigit) < 0 {
			return AmountLine{}, AmountLineBlank
		}
		return AmountLine{}, AmountLineMalformed
	}

	amount, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return AmountLine{}, AmountLineMalformed
	}

	return AmountLine{UserCode: m[1], Amount: amount}, AmountLineOK
}
