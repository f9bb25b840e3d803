package validation

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// Error collects field-level validation failures.
type Error struct {
	Fields map[string]string
}

func (e *Error) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		msgs = append(msgs, fmt.Sprintf("%s: %s", field, msg))
	}
	slices.Sort(msgs)
	return strings.Join(msgs, "; ")
}

// symbolPattern matches ticker symbols such as AAPL, BRK.B, RDS-A or ^GSPC.
var symbolPattern = regexp.MustCompile(`^[A-Za-z0-9^][A-Za-z0-9.\-=^]{0,15}$`)

// ValidateSymbol checks that s looks like a ticker symbol.
func ValidateSymbol(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return fmt.Errorf("symbol is required")
	}
	if !symbolPattern.MatchString(s) {
		return fmt.Errorf("invalid symbol: %s", s)
	}
	return nil
}
