// Package resolver resolves exchange rates against an ordered stack of providers.
//
// # Single pair
//
// Load returns the identity rate ("1", no provider) for identical currencies,
// without consulting any provider. Otherwise providers are asked in registry
// order, and the first rate returned wins. Providers after the winner are
// never called.
//
// # Batch
//
// LoadMultiple resolves identical currencies upfront, then walks the providers
// in registry order, handing each one only the pairs still unresolved. Once
// every pair is resolved, the remaining providers are skipped. Pairs no
// provider could resolve are recorded as absent, so the result always holds
// exactly the requested pairs.
//
// # Attribution
//
// Rates are attributed to the registry ID of the provider that resolved them,
// unless the provider already attributed them itself (nested resolvers).
// Identity rates have no provider.
package resolver
