// Package analytics derives read-only views from a ledger snapshot. Every function here
// is pure: no I/O, no clock, and the input slice is never modified.
package analytics

import (
	"sort"

	"github.com/shopspring/decimal"

	"currency-ledger/internal/domain"
)

// DefaultRecentLimit bounds RecentActivity when no limit is configured.
const DefaultRecentLimit = 10

// ComputeStats summarises ledger. recentLimit <= 0 selects DefaultRecentLimit.
func ComputeStats(ledger []domain.ConversionRecord, recentLimit int) domain.StatsView {
	if recentLimit <= 0 {
		recentLimit = DefaultRecentLimit
	}

	usage := CurrencyUsage(ledger)
	return domain.StatsView{
		TotalConversions:     len(ledger),
		MostUsedFromCurrency: mostUsed(usage.From),
		MostUsedToCurrency:   mostUsed(usage.To),
		TotalAmountConverted: TotalAmount(ledger),
		RecentActivity:       Recent(ledger, recentLimit),
		CurrencyUsage:        usage,
	}
}

// TotalAmount sums Amount across the ledger at face value, whatever the source currency.
func TotalAmount(ledger []domain.ConversionRecord) float64 {
	total := decimal.Zero
	for _, rec := range ledger {
		total = total.Add(decimal.NewFromFloat(rec.Amount))
	}
	f, _ := total.Float64()
	return f
}

// Recent returns the last n inserted records, newest insertion first.
func Recent(ledger []domain.ConversionRecord, n int) []domain.ConversionRecord {
	if n <= 0 {
		return []domain.ConversionRecord{}
	}
	if n > len(ledger) {
		n = len(ledger)
	}
	out := make([]domain.ConversionRecord, 0, n)
	for i := len(ledger) - 1; i >= len(ledger)-n; i-- {
		out = append(out, ledger[i])
	}
	return out
}

// History orders a copy of ledger by timestamp, newest first. Records with equal
// timestamps keep their insertion order.
func History(ledger []domain.ConversionRecord) []domain.ConversionRecord {
	out := make([]domain.ConversionRecord, len(ledger))
	copy(out, ledger)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out
}

// CurrencyUsage counts codes on each side of the ledger. Counts are ordered by frequency;
// ties keep the order in which the codes first appear in the ledger.
func CurrencyUsage(ledger []domain.ConversionRecord) domain.CurrencyUsage {
	return domain.CurrencyUsage{
		From: count(ledger, func(r domain.ConversionRecord) string { return r.FromCurrency }),
		To:   count(ledger, func(r domain.ConversionRecord) string { return r.ToCurrency }),
	}
}

func count(ledger []domain.ConversionRecord, field func(domain.ConversionRecord) string) []domain.CurrencyCount {
	index := make(map[string]int)
	counts := make([]domain.CurrencyCount, 0)
	for _, rec := range ledger {
		code := field(rec)
		i, ok := index[code]
		if !ok {
			i = len(counts)
			index[code] = i
			counts = append(counts, domain.CurrencyCount{Code: code})
		}
		counts[i].Count++
	}
	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})
	return counts
}

// mostUsed relies on counts being ordered as count returns them.
func mostUsed(counts []domain.CurrencyCount) string {
	if len(counts) == 0 {
		return domain.NoData
	}
	return counts[0].Code
}
