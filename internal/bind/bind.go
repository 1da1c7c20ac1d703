// Package bind decodes resolved configuration values onto Go structs.
// Decoding is strict: input types must match the target's fields, so a
// declaration mistake in the tree surfaces here instead of becoming a
// silently coerced value.
package bind

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
)

// Result reports what a decode touched.
type Result struct {
	// Keys lists the flattened field paths the decode filled.
	Keys []string
	// Unused lists input keys no target field claimed. A non-empty list
	// usually means a misspelled key in the configuration.
	Unused []string
}

// To decodes a resolved value onto target, which must be a non-nil
// pointer. Field names bind case-insensitively; `mapstructure` tags
// override.
func To(value any, target any) (*Result, error) {
	var md mapstructure.Metadata
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:   target,
		Metadata: &md,
	})
	if err != nil {
		return nil, fmt.Errorf("building decoder: %w", err)
	}
	if err := dec.Decode(value); err != nil {
		return nil, err
	}
	return &Result{Keys: md.Keys, Unused: md.Unused}, nil
}

// ToStrict decodes like To but fails when the input carries keys the
// target has no field for.
func ToStrict(value any, target any) (*Result, error) {
	res, err := To(value, target)
	if err != nil {
		return nil, err
	}
	if len(res.Unused) > 0 {
		return nil, fmt.Errorf("unclaimed configuration keys: %v", res.Unused)
	}
	return res, nil
}
