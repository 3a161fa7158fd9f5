package doubles

// Budget bounds the work a phase may do.
type Budget struct {
	MaxAttempts int
}

// Or returns b, or fallback when b is unset.
func (b Budget) Or(fallback int) int {
	if b.MaxAttempts <= 0 {
		return fallback
	}
	return b.MaxAttempts
}

// Budgets holds one Budget per phase.
type Budgets struct {
	Construction Budget
	Rescue       Budget
	Optimize     Budget
	Sequence     Budget
}

// DefaultBudgets are sized for rosters of a few dozen players.
func DefaultBudgets() Budgets {
	return Budgets{
		Construction: Budget{MaxAttempts: 100},
		Rescue:       Budget{MaxAttempts: 50},
		Optimize:     Budget{MaxAttempts: 100000},
		Sequence:     Budget{MaxAttempts: 5},
	}
}

// WithDefaults fills unset budgets from DefaultBudgets.
func (b Budgets) WithDefaults() Budgets {
	d := DefaultBudgets()
	if b.Construction.MaxAttempts <= 0 {
		b.Construction = d.Construction
	}
	if b.Rescue.MaxAttempts <= 0 {
		b.Rescue = d.Rescue
	}
	if b.Optimize.MaxAttempts <= 0 {
		b.Optimize = d.Optimize
	}
	if b.Sequence.MaxAttempts <= 0 {
		b.Sequence = d.Sequence
	}
	return b
}
