package types

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// ExchangeRate is a resolved rate for a single currency pair.
// It is immutable, all modifiers return copies
type ExchangeRate struct {
	source      Currency
	destination Currency
	rate        decimal.Decimal
	providerID  string
}

// NewExchangeRate creates a new exchange rate with no provider attribution
func NewExchangeRate(source, destination Currency, rate decimal.Decimal) ExchangeRate {
	return ExchangeRate{
		source:      source,
		destination: destination,
		rate:        rate,
	}
}

// ParseExchangeRate creates a new exchange rate from a decimal string rate
func ParseExchangeRate(source, destination Currency, rate string) (ExchangeRate, error) {
	d, err := decimal.NewFromString(rate)
	if err != nil {
		return ExchangeRate{}, fmt.Errorf("unable to parse rate %q: %w", rate, err)
	}

	return NewExchangeRate(source, destination, d), nil
}

// IdentityRate returns the rate of 1 for converting a currency into itself.
// Identity rates are never attributed to a provider
func IdentityRate(code Currency) ExchangeRate {
	return NewExchangeRate(code, code, decimal.NewFromInt(1))
}

func (r ExchangeRate) Source() Currency {
	return r.source
}

func (r ExchangeRate) Destination() Currency {
	return r.destination
}

// Rate returns the numeric rate
func (r ExchangeRate) Rate() decimal.Decimal {
	return r.rate
}

// RateString returns the rate in its decimal string form (e.g. "2.20371")
func (r ExchangeRate) RateString() string {
	return r.rate.String()
}

// ProviderID returns the ID of the provider that produced the rate.
// Empty for identity rates, and for rates not yet attributed
func (r ExchangeRate) ProviderID() string {
	return r.providerID
}

// WithProviderID returns a copy of the rate attributed to the given provider
func (r ExchangeRate) WithProviderID(id string) ExchangeRate {
	r.providerID = id

	return r
}

// IsIdentity returns true if the rate converts a currency into itself
func (r ExchangeRate) IsIdentity() bool {
	return r.source == r.destination
}

func (r ExchangeRate) String() string {
	if r.providerID == "" {
		return fmt.Sprintf("%s/%s %s", r.source, r.destination, r.rate.String())
	}

	return fmt.Sprintf("%s/%s %s (%s)", r.source, r.destination, r.rate.String(), r.providerID)
}

type exchangeRateJSON struct {
	Source      Currency `json:"source"`
	Destination Currency `json:"destination"`
	Rate        string   `json:"rate"`
	Provider    string   `json:"provider,omitempty"`
}

func (r ExchangeRate) MarshalJSON() ([]byte, error) {
	return json.Marshal(exchangeRateJSON{
		Source:      r.source,
		Destination: r.destination,
		Rate:        r.rate.String(),
		Provider:    r.providerID,
	})
}

func (r *ExchangeRate) UnmarshalJSON(data []byte) error {
	var raw exchangeRateJSON

	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	parsed, err := ParseExchangeRate(raw.Source, raw.Destination, raw.Rate)
	if err != nil {
		return err
	}

	*r = parsed.WithProviderID(raw.Provider)

	return nil
}

// Lookup is the outcome of resolving a single pair:
// either a resolved rate, or an explicit absence
type Lookup struct {
	rate     ExchangeRate
	resolved bool
}

// Found wraps a resolved rate
func Found(rate ExchangeRate) Lookup {
	return Lookup{
		rate:     rate,
		resolved: true,
	}
}

// Absent is the "not found" outcome
func Absent() Lookup {
	return Lookup{}
}

// Get returns the rate, and whether it was resolved
func (l Lookup) Get() (ExchangeRate, bool) {
	return l.rate, l.resolved
}

func (l Lookup) Resolved() bool {
	return l.resolved
}

func (l Lookup) MarshalJSON() ([]byte, error) {
	if !l.resolved {
		return []byte("null"), nil
	}

	return json.Marshal(l.rate)
}

func (l *Lookup) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*l = Absent()

		return nil
	}

	var rate ExchangeRate
	if err := json.Unmarshal(data, &rate); err != nil {
		return err
	}

	*l = Found(rate)

	return nil
}
