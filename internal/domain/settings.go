package domain

type TaxMode string

const (
	// TaxModePercent treats TaxRate as basis points of the subtotal.
	TaxModePercent TaxMode = "percent"
	// TaxModeFlat treats TaxRate as an absolute amount in cents added to the
	// subtotal, matching how some POS deployments configure a fixed fee.
	TaxModeFlat TaxMode = "flat"
)

func (m TaxMode) Valid() bool {
	return m == TaxModePercent || m == TaxModeFlat
}

// Settings is the single global tax configuration row.
type Settings struct {
	TaxEnabled bool    `json:"tax_enabled"`
	TaxMode    TaxMode `json:"tax_mode"`
	TaxRate    int64   `json:"tax_rate"`
}

// DefaultSettings is the row checkout fabricates when none exists yet:
// tax enabled at 10%.
func DefaultSettings() Settings {
	return Settings{
		TaxEnabled: true,
		TaxMode:    TaxModePercent,
		TaxRate:    1000,
	}
}

// TaxFor computes the tax owed on a subtotal in cents.
func (s Settings) TaxFor(subtotal int64) int64 {
	if !s.TaxEnabled {
		return 0
	}
	if s.TaxMode == TaxModeFlat {
		return s.TaxRate
	}
	return subtotal * s.TaxRate / 10_000
}
