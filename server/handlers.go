package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/sig-0/fxstack/types"
)

const (
	// maxBatchPairs caps the number of pairs in a single batch request
	maxBatchPairs = 1000

	// maxBatchBodySize caps the batch request body
	maxBatchBodySize = 1 << 20
)

var (
	errRateNotFound            = errors.New("rate not found")
	errUnableToFetchCurrencies = errors.New("unable to fetch currencies")
	errUnableToFetchSources    = errors.New("unable to fetch sources")

	errInvalidCurrency = errors.New("invalid currency (must be 3-4 letters A-Z)")
	errInvalidBody     = errors.New("invalid request body")
	errBatchTooLarge   = fmt.Errorf("too many pairs requested (max %d)", maxBatchPairs)
)

var currencyRegex = regexp.MustCompile(`^[A-Z]{3,4}$`)

// Rate resolves a single currency pair
func (s *Server) Rate(w http.ResponseWriter, r *http.Request) {
	source, err := parseCurrency(chi.URLParam(r, "source"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)

		return
	}

	destination, err := parseCurrency(chi.URLParam(r, "destination"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)

		return
	}

	rate, ok := s.resolver.Load(r.Context(), source, destination)
	if !ok {
		writeError(w, http.StatusNotFound, errRateNotFound)

		return
	}

	writeJSON(w, http.StatusOK, rate)
}

// Rates resolves a batch of currency pairs
func (s *Server) Rates(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest

	body := http.MaxBytesReader(w, r.Body, maxBatchBodySize)

	if err := json.NewDecoder(body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errInvalidBody)

		return
	}

	pending, err := parseBatch(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)

		return
	}

	rates := s.resolver.LoadMultiple(r.Context(), pending)

	s.logger.Debug(
		"resolved batch",
		"requested", pending.Len(),
		"results", rates.Len(),
	)

	writeJSON(w, http.StatusOK, &BatchResponse{
		Results: rates,
	})
}

// Providers lists the provider stack IDs, in priority order
func (s *Server) Providers(w http.ResponseWriter, _ *http.Request) {
	ids := s.resolver.Registry().IDs()
	if ids == nil {
		ids = []string{}
	}

	writeJSON(w, http.StatusOK, &ProvidersResponse{
		Results: ids,
	})
}

func (s *Server) Sources(w http.ResponseWriter, r *http.Request) {
	items, err := s.storage.ListSources(r.Context())
	if err != nil {
		s.logger.Debug(
			"unable to fetch sources",
			"err", err,
		)

		writeError(
			w,
			http.StatusInternalServerError,
			errUnableToFetchSources,
		)

		return
	}

	if items == nil {
		items = []types.Source{}
	}

	writeJSON(w, http.StatusOK, &SourcesResponse{
		Results: items,
	})
}

func (s *Server) Currencies(w http.ResponseWriter, r *http.Request) {
	items, err := s.storage.ListCurrencies(r.Context())
	if err != nil {
		s.logger.Debug(
			"unable to fetch currencies",
			"err", err,
		)

		writeError(
			w,
			http.StatusInternalServerError,
			errUnableToFetchCurrencies,
		)

		return
	}

	if items == nil {
		items = []types.Currency{}
	}

	writeJSON(w, http.StatusOK, &CurrenciesResponse{
		Results: items,
	})
}

// parseBatch validates the batch request, and converts it to a pending set.
// Duplicate pairs collapse into one
func parseBatch(req BatchRequest) (types.Pending, error) {
	pending := make(types.Pending, len(req.Requests))

	for rawSource, rawDestinations := range req.Requests {
		source, err := parseCurrency(rawSource)
		if err != nil {
			return nil, err
		}

		for _, rawDestination := range rawDestinations {
			destination, err := parseCurrency(rawDestination)
			if err != nil {
				return nil, err
			}

			pending.Add(source, destination)
		}

		if pending.Len() > maxBatchPairs {
			return nil, errBatchTooLarge
		}
	}

	return pending, nil
}

// parseCurrency normalizes and validates a currency code
func parseCurrency(v string) (types.Currency, error) {
	s := strings.ToUpper(strings.TrimSpace(v))
	if !currencyRegex.MatchString(s) {
		return "", fmt.Errorf("%w: %q", errInvalidCurrency, v)
	}

	return types.Currency(s), nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(v) //nolint:errcheck // Fine to ignore
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, &ErrorResponse{
		Error: err.Error(),
	})
}
