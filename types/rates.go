package types

// Rates maps source -> destination -> lookup outcome.
// A missing entry and an Absent entry mean the same thing
type Rates map[Currency]map[Currency]Lookup

// Set records the outcome for the given pair
func (r Rates) Set(source, destination Currency, l Lookup) {
	inner, ok := r[source]
	if !ok {
		inner = make(map[Currency]Lookup)
		r[source] = inner
	}

	inner[destination] = l
}

// Get returns the resolved rate for the pair, if any
func (r Rates) Get(source, destination Currency) (ExchangeRate, bool) {
	return r.Lookup(source, destination).Get()
}

// Lookup returns the recorded outcome for the pair (Absent if none)
func (r Rates) Lookup(source, destination Currency) Lookup {
	l, ok := r[source][destination]
	if !ok {
		return Absent()
	}

	return l
}

// Has returns true if any outcome (resolved or absent) is recorded for the pair
func (r Rates) Has(source, destination Currency) bool {
	_, ok := r[source][destination]

	return ok
}

// Len returns the number of recorded pairs
func (r Rates) Len() int {
	n := 0

	for _, inner := range r {
		n += len(inner)
	}

	return n
}

// Pairs returns the recorded pairs, sorted by source and destination
func (r Rates) Pairs() []Pair {
	out := make([]Pair, 0, r.Len())

	for source, inner := range r {
		for destination := range inner {
			out = append(out, Pair{
				Source:      source,
				Destination: destination,
			})
		}
	}

	sortPairs(out)

	return out
}
