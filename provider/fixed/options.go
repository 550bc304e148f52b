package fixed

type Option func(p *Provider)

// WithInversion answers a missing pair B->A with 1 / rate(A->B),
// when the table holds A->B
func WithInversion() Option {
	return func(p *Provider) {
		p.invert = true
	}
}
