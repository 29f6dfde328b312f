// Package monitor runs scheduled background health sweeps over the
// configured providers, logging transitions and feeding the provider
// health gauge.
package monitor
