package domain

// NoData marks a most-used currency field computed over an empty ledger.
const NoData = "N/A"

// StatsView is derived from a ledger snapshot on every read and never persisted.
type StatsView struct {
	TotalConversions     int
	MostUsedFromCurrency string
	MostUsedToCurrency   string
	// TotalAmountConverted sums Amount at face value across source currencies.
	TotalAmountConverted float64
	RecentActivity       []ConversionRecord
	CurrencyUsage        CurrencyUsage
}

// CurrencyUsage counts how often each code appears on either side of a conversion.
type CurrencyUsage struct {
	From []CurrencyCount
	To   []CurrencyCount
}

type CurrencyCount struct {
	Code  string
	Count int
}
