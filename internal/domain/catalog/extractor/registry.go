// Package extractor produces per-field candidate series from a section. Each
// field kind (identifier, numeric, coded, free text) has one strategy,
// registered by kind and shared by every concrete field of that kind.
package extractor

import (
	"log/slog"

	"github.com/FACorreiaa/parts-catalog-recon/internal/domain/catalog/model"
)

// Strategy extracts the series of one field from a prepared scan.
type Strategy interface {
	Extract(scan *Scan, field model.Field) model.FieldSeries
}

// StrategyFunc adapts a function to Strategy.
type StrategyFunc func(scan *Scan, field model.Field) model.FieldSeries

func (f StrategyFunc) Extract(scan *Scan, field model.Field) model.FieldSeries {
	return f(scan, field)
}

// Registry maps field kinds to strategies.
type Registry struct {
	strategies map[model.Kind]Strategy
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{strategies: make(map[model.Kind]Strategy)}
}

// Register binds s to kind, replacing any previous strategy.
func (r *Registry) Register(kind model.Kind, s Strategy) {
	r.strategies[kind] = s
}

// For returns the strategy for field's kind.
func (r *Registry) For(field model.Field) (Strategy, bool) {
	s, ok := r.strategies[field.Kind()]
	return s, ok
}

// Extractor runs the registered strategies over sections.
type Extractor struct {
	rules    model.Rules
	registry *Registry
	logger   *slog.Logger
}

// New creates an extractor with the default strategy for every kind.
func New(rules model.Rules, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}

	registry := NewRegistry()
	registry.Register(model.KindIdentifier, Identifiers{})
	registry.Register(model.KindNumeric, NewNumeric(rules))
	registry.Register(model.KindCoded, NewCoded(rules))
	registry.Register(model.KindFreeText, NewFreeText(rules))

	return &Extractor{rules: rules, registry: registry, logger: logger}
}

// Registry exposes the strategy table so callers can swap strategies.
func (e *Extractor) Registry() *Registry {
	return e.registry
}

// Extract returns the series of one field for a section with n columns.
func (e *Extractor) Extract(sec model.Section, n int, field model.Field) model.FieldSeries {
	return e.extract(e.Prepare(sec, n), field)
}

// ExtractAll returns the series of every schema field, sharing one scan.
func (e *Extractor) ExtractAll(sec model.Section, n int) map[model.Field]model.FieldSeries {
	scan := e.Prepare(sec, n)
	out := make(map[model.Field]model.FieldSeries, len(model.Schema))
	misses := 0
	for _, f := range model.Schema {
		fs := e.extract(scan, f)
		if fs.Len() < n {
			misses++
		}
		out[f] = fs
	}

	e.logger.Debug("section extracted",
		slog.Int("section", sec.Index),
		slog.Int("columns", n),
		slog.Int("identifiers", len(scan.ids)),
		slog.Int("short_series", misses),
	)
	return out
}

func (e *Extractor) extract(scan *Scan, field model.Field) model.FieldSeries {
	s, ok := e.registry.For(field)
	if !ok || scan.N <= 0 {
		return model.FieldSeries{Field: field}
	}
	fs := s.Extract(scan, field)
	fs.Field = field
	if len(fs.Values) > scan.N {
		fs.Values = fs.Values[:scan.N]
	}
	return fs
}
