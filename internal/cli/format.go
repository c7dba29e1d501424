package cli

import (
	"fmt"
	"math"
	"time"

	"plinius-pricer/internal/models"
	"plinius-pricer/pkg/utils"
)

// FormatNumber formats a value with thousands separators at the given
// precision. Non-finite values print as "n/a".
func FormatNumber(value float64, decimals int) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return "n/a"
	}
	return utils.FormatAmount(value, int32(decimals))
}

// FormatRate formats a rate as a percentage.
func FormatRate(r models.Rate, decimals int) string {
	if !r.IsFinite() {
		return "n/a"
	}
	return utils.FormatPercent(r.Percent(), int32(decimals))
}

// FormatBps formats a rate difference in basis points.
func FormatBps(r models.Rate) string {
	return fmt.Sprintf("%.1f bp", r.Bps())
}

// FormatGreeks formats option Greeks.
func FormatGreeks(g models.OptionGreeks) string {
	return fmt.Sprintf("Δ: %.4f  Γ: %.4f  ν: %.4f  Θ: %.4f  ρ: %.4f", g.Delta, g.Gamma, g.Vega, g.Theta, g.Rho)
}

// FormatSavedAt formats a scenario timestamp in local time.
func FormatSavedAt(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("02-Jan-2006 15:04:05")
}

// TruncateString truncates a string to max length with ellipsis.
func TruncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}

// ShortID returns the first 8 characters of a scenario id.
func ShortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}
