// Package models provides domain models for the pricing engine.
package models

import (
	"strings"

	perrors "plinius-pricer/internal/errors"
)

// Kind discriminates the instrument a scenario prices.
type Kind string

const (
	KindBond          Kind = "bond"
	KindTreasuryBill  Kind = "treasury-bill"
	KindSwap          Kind = "swap"
	KindFXOption      Kind = "fx-option"
	KindVanillaOption Kind = "vanilla-option"
)

// Kinds lists every supported instrument kind in display order.
func Kinds() []Kind {
	return []Kind{KindBond, KindTreasuryBill, KindSwap, KindFXOption, KindVanillaOption}
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	for _, known := range Kinds() {
		if k == known {
			return true
		}
	}
	return false
}

// IsOption reports whether k prices an option.
func (k Kind) IsOption() bool {
	return k == KindFXOption || k == KindVanillaOption
}

// ParseKind accepts the canonical names plus a few short aliases used on the CLI.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "bond", "bono":
		return KindBond, nil
	case "treasury-bill", "bill", "cetes":
		return KindTreasuryBill, nil
	case "swap", "irs":
		return KindSwap, nil
	case "fx-option", "fx":
		return KindFXOption, nil
	case "vanilla-option", "option", "vanilla":
		return KindVanillaOption, nil
	}
	return "", perrors.Wrapf(perrors.ErrUnknownKind, "%q", s)
}

// SwapMode selects how a swap is discounted.
type SwapMode string

const (
	SwapModeFlat  SwapMode = "flat"
	SwapModeCurve SwapMode = "curve"
)
