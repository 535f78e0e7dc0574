package licence

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	Psionic       = "Psionica (P)"
	Temporal      = "Temporale (t)"
	Gravitational = "Gravitazionale (G)"
	Antimatter    = "Antimateria (e+)"
	Magnetic      = "Magnetica (Mx)"
	Quantum       = "Quantistica (Q)"
	Light         = "Luce (c)"
	Technology    = "Livello di Sviluppo Tecnologico (LTK)"
)

// Names lists the licences a chef can hold, in the order the agent sees them.
var Names = []string{
	Psionic,
	Temporal,
	Gravitational,
	Antimatter,
	Magnetic,
	Quantum,
	Light,
	Technology,
}

// MaxLevel is the integer stored for the open-ended "VI+" grade.
const MaxLevel = 7

var (
	ErrUnsupportedOperation = errors.New("unsupported operation")
	ErrInvalidLevel         = errors.New("invalid licence level")
)

// IsKnown reports whether name is one of Names, ignoring case.
func IsKnown(name string) bool {
	for _, known := range Names {
		if strings.EqualFold(strings.TrimSpace(name), known) {
			return true
		}
	}
	return false
}

var romanLevels = map[string]int{
	"I":   1,
	"II":  2,
	"III": 3,
	"IV":  4,
	"V":   5,
	"VI":  6,
	"VI+": MaxLevel,
}

// ParseLevel accepts decimal grades ("0", "3"), roman grades ("IV") and the
// "VI+" maximum. Anything above MaxLevel is rejected.
func ParseLevel(value string) (int, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidLevel)
	}
	if n, err := strconv.Atoi(trimmed); err == nil {
		if n < 0 || n > MaxLevel {
			return 0, fmt.Errorf("%w: %q", ErrInvalidLevel, value)
		}
		return n, nil
	}
	if n, ok := romanLevels[strings.ToUpper(trimmed)]; ok {
		return n, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidLevel, value)
}
