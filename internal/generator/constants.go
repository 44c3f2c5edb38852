package generator

// Generator tuning constants are centralized here to avoid scattering magic numbers.
// All values are expressed as percentages or small caps unless otherwise noted.

const (
	// ColumnCountMin is the minimum number of columns generated per table.
	ColumnCountMin = 1
)

const (
	// SelectItemsMin is the minimum number of SELECT list items.
	SelectItemsMin = 1
	// ViewColumnAliasPrefix prefixes positional view column aliases.
	ViewColumnAliasPrefix = "c"
)
