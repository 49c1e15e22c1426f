package sequencer

import (
	"fmt"
	"strconv"
	"strings"
)

// Algorithm selects how the sequencer walks the catalog. The numeric values
// match the persisted setting.
type Algorithm int

const (
	Sequential Algorithm = iota
	Random
	RandomNoRepeat
)

func (a Algorithm) String() string {
	switch a {
	case Sequential:
		return "sequential"
	case Random:
		return "random"
	case RandomNoRepeat:
		return "random-no-repeat"
	default:
		return "unknown"
	}
}

// Valid reports whether a is one of the known algorithms.
func (a Algorithm) Valid() bool {
	return a >= Sequential && a <= RandomNoRepeat
}

// ParseAlgorithm accepts either the numeric setting value or the name.
func ParseAlgorithm(s string) (Algorithm, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil {
		a := Algorithm(n)
		if !a.Valid() {
			return Sequential, fmt.Errorf("unknown algorithm %d", n)
		}
		return a, nil
	}

	switch strings.NewReplacer("_", "", "-", "", " ", "").Replace(s) {
	case "sequential":
		return Sequential, nil
	case "random":
		return Random, nil
	case "randomnorepeat", "shuffle":
		return RandomNoRepeat, nil
	}
	return Sequential, fmt.Errorf("unknown algorithm %q", s)
}
