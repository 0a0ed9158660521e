package launcher

import (
	"fmt"
	"strings"
)

// Strategy selects whether the launcher looks for an existing copy before
// importing.
type Strategy string

const (
	// CheckThenImport imports only when the user has no copy yet.
	CheckThenImport Strategy = "check-then-import"

	// AlwaysImport imports on every resolution, which leaves a new copy
	// behind each time. Kept for sites that relied on that behaviour.
	AlwaysImport Strategy = "always-import"
)

// Strategies lists the supported strategies, default first.
var Strategies = []Strategy{CheckThenImport, AlwaysImport}

func (s Strategy) String() string {
	return string(s)
}

// ParseStrategy converts a config or flag value to a [Strategy].
// The empty string selects [CheckThenImport].
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case "", CheckThenImport:
		return CheckThenImport, nil
	case AlwaysImport:
		return AlwaysImport, nil
	default:
		return "", fmt.Errorf("%w %q (want one of: %s)", ErrUnknownStrategy, s, StrategyNames())
	}
}

// StrategyNames returns [Strategies] as a comma-separated list.
func StrategyNames() string {
	names := make([]string, len(Strategies))
	for i, s := range Strategies {
		names[i] = s.String()
	}
	return strings.Join(names, ", ")
}
