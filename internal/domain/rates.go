package domain

import "time"

// RateSnapshot is a point-in-time set of rates relative to Base. It is never cached.
type RateSnapshot struct {
	Base        string
	Rates       map[string]float64
	LastUpdated time.Time
	RetrievedAt time.Time
}

// PairQuote is the provider's answer for converting Amount from one currency to another.
type PairQuote struct {
	From            string
	To              string
	Amount          float64
	ConvertedAmount float64
	Rate            float64
	LastUpdated     time.Time
	RetrievedAt     time.Time
}

// Currency is a code supported by the rate provider.
type Currency struct {
	Code string
	Name string
}
