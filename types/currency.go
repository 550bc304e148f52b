package types

// Currency is a currency code token (e.g. "EUR").
// Codes are compared by exact string equality
type Currency string

const (
	USD  Currency = "USD"
	EUR  Currency = "EUR"
	NLG  Currency = "NLG"
	CNY  Currency = "CNY"
	TRY  Currency = "TRY"
	RUB  Currency = "RUB"
	VES  Currency = "VES"
	USDT Currency = "USDT"
)

func (c Currency) String() string {
	return string(c)
}

// Pair is a single source -> destination currency pair
type Pair struct {
	Source      Currency `json:"source"`
	Destination Currency `json:"destination"`
}

// IsIdentity returns true if the pair converts a currency into itself
func (p Pair) IsIdentity() bool {
	return p.Source == p.Destination
}

func (p Pair) String() string {
	return p.Source.String() + "/" + p.Destination.String()
}
