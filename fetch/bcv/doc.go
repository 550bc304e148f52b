// Package bcv scrapes exchange rates published by the
// Banco Central de Venezuela (BCV).
//
// # Official rates
//
// Source: "BCV", URL: https://www.bcv.org.ve/
//
// MID rates for USD, EUR, CNY, TRY and RUB against VES. The as-of time
// is the "Fecha Valor" shown on the page, falling back to the fetch time.
//
// # Bank rates
//
// Source: bank name (e.g. "Banesco"),
// URL: https://www.bcv.org.ve/tasas-informativas-sistema-bancario
//
// BUY and SELL USD/VES rates reported by individual banks. Only rows of the
// latest published date are kept, and that date must be within the last week.
package bcv
