package server

import "github.com/sig-0/fxstack/types"

// BatchRequest is the batch rate request, mapping
// source currencies to their requested destinations
type BatchRequest struct {
	Requests map[string][]string `json:"requests"`
}

// BatchResponse holds an entry per requested pair,
// null for pairs no provider could resolve
type BatchResponse struct {
	Results types.Rates `json:"results"`
}

type ProvidersResponse struct {
	Results []string `json:"results"`
}

type SourcesResponse struct {
	Results []types.Source `json:"results"`
}

type CurrenciesResponse struct {
	Results []types.Currency `json:"results"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
