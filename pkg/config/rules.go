package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/FACorreiaa/parts-catalog-recon/internal/domain/catalog/model"
)

// ErrInvalidVocabulary is returned when a vocabulary file leaves the rules unusable.
var ErrInvalidVocabulary = errors.New("invalid vocabulary")

// LoadRules returns the default extraction rules, overlaid with the YAML file
// at path when path is not empty. Keys absent from the file keep their defaults.
func LoadRules(path string, ext ExtractionConfig) (model.Rules, error) {
	rules := model.DefaultRules()
	if ext.MinLineLength > 0 {
		rules.MinLineLength = ext.MinLineLength
	}
	if ext.BoundaryRun > 0 {
		rules.BoundaryRun = ext.BoundaryRun
	}

	if path == "" {
		return rules, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return model.Rules{}, fmt.Errorf("failed to read vocabulary file: %w", err)
	}
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return model.Rules{}, fmt.Errorf("failed to parse vocabulary file %s: %w", path, err)
	}
	if err := Validate(rules); err != nil {
		return model.Rules{}, err
	}
	return rules, nil
}

// Validate checks the invariants the pipeline depends on.
func Validate(rules model.Rules) error {
	if rules.PrimaryAnchor.Literal == "" {
		return fmt.Errorf("%w: primary anchor literal is empty", ErrInvalidVocabulary)
	}
	if len(rules.TechnicalTerms) == 0 {
		return fmt.Errorf("%w: no technical terms", ErrInvalidVocabulary)
	}
	for _, f := range rules.NumericOrder {
		if f.Kind() != model.KindNumeric {
			return fmt.Errorf("%w: %q is not a numeric field", ErrInvalidVocabulary, f)
		}
	}
	for _, f := range rules.FreeTextOrder {
		if f.Kind() != model.KindFreeText {
			return fmt.Errorf("%w: %q is not a free-text field", ErrInvalidVocabulary, f)
		}
	}
	for f, r := range rules.NumericRanges {
		if r.Min > r.Max {
			return fmt.Errorf("%w: range of %q has min above max", ErrInvalidVocabulary, f)
		}
	}
	return nil
}
