package config

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/vovakirdan/tui-osu/internal/difficulty"
)

// ValidateOverrides checks that every fixed stat lies in [0, 10].
func ValidateOverrides(o difficulty.Overrides) error {
	for name, v := range overrideFields(&o) {
		if *v == nil {
			continue
		}
		if f := **v; math.IsNaN(f) || f < 0 || f > 10 {
			return fmt.Errorf("%w: %s %v not in [0, 10]", ErrInvalid, strings.ToUpper(name), f)
		}
	}
	return nil
}

// ApplyOverride parses "name=value" (for example "ar=9.5") into o. Names
// are cs, ar, od and hp.
func ApplyOverride(o *difficulty.Overrides, expr string) error {
	name, raw, ok := strings.Cut(expr, "=")
	if !ok {
		return fmt.Errorf("%w: override %q is not name=value", ErrInvalid, expr)
	}
	name = strings.ToLower(strings.TrimSpace(name))
	field, ok := overrideFields(o)[name]
	if !ok {
		return fmt.Errorf("%w: unknown stat %q (known: cs, ar, od, hp)", ErrInvalid, name)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return fmt.Errorf("%w: override %q: %w", ErrInvalid, expr, err)
	}
	if math.IsNaN(v) || v < 0 || v > 10 {
		return fmt.Errorf("%w: %s %v not in [0, 10]", ErrInvalid, strings.ToUpper(name), v)
	}
	*field = &v
	return nil
}

func overrideFields(o *difficulty.Overrides) map[string]**float64 {
	return map[string]**float64{
		"cs": &o.CS,
		"ar": &o.AR,
		"od": &o.OD,
		"hp": &o.HP,
	}
}
