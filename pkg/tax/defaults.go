package tax

// DefaultTableName identifies the built-in table.
const DefaultTableName = "AU resident 2024-25"

// DefaultBrackets are the Australian resident individual rates for the
// 2024-25 income year, excluding the Medicare levy.
var DefaultBrackets = []Bracket{
	{Threshold: 0, Rate: 0},
	{Threshold: 18200, Rate: 0.16},
	{Threshold: 45000, Rate: 0.30, BaseTax: 4288},
	{Threshold: 135000, Rate: 0.37, BaseTax: 31288},
	{Threshold: 190000, Rate: 0.45, BaseTax: 51638},
}

// Default returns a fresh copy of the built-in table.
func Default() *Table {
	return MustNewTable(DefaultTableName, DefaultBrackets)
}
