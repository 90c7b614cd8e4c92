package eval

import "github.com/flowmetric/flowmetric/pkg/errors"

// Default values for Config. These are empirically tuned; change them only
// deliberately, as they shift every reported score.
const (
	// DefaultMatchThreshold is the minimum cosine similarity for a semantic
	// node match. Pairs below it are never matched.
	DefaultMatchThreshold = 0.6

	// DefaultPositionPenalty is subtracted from a pair's similarity per unit
	// of index distance, breaking near-ties in favor of index-local pairings.
	DefaultPositionPenalty = 1e-4

	// DefaultEnumBypassNodes is the interior node count at which full
	// topological enumeration is skipped in favor of the input order.
	DefaultEnumBypassNodes = 12

	// DefaultEnumLimit caps the number of enumerated topological orderings.
	DefaultEnumLimit = 20
)

// Config holds the tunable parameters of the scoring engine.
type Config struct {
	// MatchThreshold gates semantic matches (cosine similarity floor).
	MatchThreshold float64 `toml:"match_threshold"`

	// PositionPenalty is the per-index-distance weight penalty used to
	// prefer index-local pairings among near-ties.
	PositionPenalty float64 `toml:"position_penalty"`

	// EnumBypassNodes is the interior node count at which topological
	// enumeration degrades to the single input ordering.
	EnumBypassNodes int `toml:"enum_bypass_nodes"`

	// EnumLimit is the maximum number of topological orderings considered.
	EnumLimit int `toml:"enum_limit"`
}

// DefaultConfig returns the standard scoring configuration.
func DefaultConfig() Config {
	return Config{
		MatchThreshold:  DefaultMatchThreshold,
		PositionPenalty: DefaultPositionPenalty,
		EnumBypassNodes: DefaultEnumBypassNodes,
		EnumLimit:       DefaultEnumLimit,
	}
}

// Validate checks the configuration for usable values.
func (c Config) Validate() error {
	if c.MatchThreshold < 0 || c.MatchThreshold > 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "match_threshold must be in [0,1], got %v", c.MatchThreshold)
	}
	if c.PositionPenalty < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "position_penalty must be non-negative, got %v", c.PositionPenalty)
	}
	if c.EnumBypassNodes < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "enum_bypass_nodes must be positive, got %d", c.EnumBypassNodes)
	}
	if c.EnumLimit < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "enum_limit must be positive, got %d", c.EnumLimit)
	}
	return nil
}
