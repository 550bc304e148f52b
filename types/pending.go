package types

import (
	"encoding/json"
	"sort"
)

// Pending is the set of requested pairs, keyed by source currency.
// A source is only present while it has at least one destination
type Pending map[Currency]map[Currency]struct{}

// NewPending creates a pending set from the given source -> destinations mapping
func NewPending(requests map[Currency][]Currency) Pending {
	p := make(Pending, len(requests))

	for source, destinations := range requests {
		p.Add(source, destinations...)
	}

	return p
}

// Add adds the source -> destination pairs to the set
func (p Pending) Add(source Currency, destinations ...Currency) {
	if len(destinations) == 0 {
		return
	}

	set, ok := p[source]
	if !ok {
		set = make(map[Currency]struct{}, len(destinations))
		p[source] = set
	}

	for _, destination := range destinations {
		set[destination] = struct{}{}
	}
}

// Remove removes the pair from the set, dropping the source
// once it has no destinations left
func (p Pending) Remove(source, destination Currency) {
	set, ok := p[source]
	if !ok {
		return
	}

	delete(set, destination)

	if len(set) == 0 {
		delete(p, source)
	}
}

// Contains returns true if the pair is in the set
func (p Pending) Contains(source, destination Currency) bool {
	_, ok := p[source][destination]

	return ok
}

// Len returns the number of pairs in the set
func (p Pending) Len() int {
	n := 0

	for _, set := range p {
		n += len(set)
	}

	return n
}

// Clone returns a deep copy of the set
func (p Pending) Clone() Pending {
	out := make(Pending, len(p))

	for source, set := range p {
		if len(set) == 0 {
			continue
		}

		cp := make(map[Currency]struct{}, len(set))
		for destination := range set {
			cp[destination] = struct{}{}
		}

		out[source] = cp
	}

	return out
}

// Pairs returns the pairs in the set, sorted by source and destination
func (p Pending) Pairs() []Pair {
	out := make([]Pair, 0, p.Len())

	for source, set := range p {
		for destination := range set {
			out = append(out, Pair{
				Source:      source,
				Destination: destination,
			})
		}
	}

	sortPairs(out)

	return out
}

// Destinations returns the sorted destinations requested for the source
func (p Pending) Destinations(source Currency) []Currency {
	set := p[source]
	out := make([]Currency, 0, len(set))

	for destination := range set {
		out = append(out, destination)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i] < out[j]
	})

	return out
}

func (p Pending) MarshalJSON() ([]byte, error) {
	out := make(map[Currency][]Currency, len(p))

	for source := range p {
		out[source] = p.Destinations(source)
	}

	return json.Marshal(out)
}

func (p *Pending) UnmarshalJSON(data []byte) error {
	var raw map[Currency][]Currency

	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*p = NewPending(raw)

	return nil
}

func sortPairs(pairs []Pair) {
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].Source != pairs[j].Source {
			return pairs[i].Source < pairs[j].Source
		}

		return pairs[i].Destination < pairs[j].Destination
	})
}
