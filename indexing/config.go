package indexing

import "go.uber.org/zap"

// MaxDim is the largest supported dimension; a split allocates 2^dim children.
const MaxDim = 16

// Config holds tree parameters.
type Config struct {
	LeafCapacity     int         // leaf split threshold, default 10
	AdaptiveCapacity bool        // grow the threshold as max(LeafCapacity, size^(1/3)) every 100 inserts
	MaxDepth         int         // deepest level below the initial domain a leaf may split to, default 48
	CompactEvery     int         // removals batched between compactions when optimising, default 256
	Optimise         bool        // initial SetOptimisation state
	Logger           *zap.Logger // default zap.NewNop()
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		LeafCapacity: 10,
		MaxDepth:     48,
		CompactEvery: 256,
		Logger:       zap.NewNop(),
	}
}

// OrDefault returns DefaultConfig if c is nil, otherwise normalizes a copy of c.
func (c *Config) OrDefault() *Config {
	if c == nil {
		return DefaultConfig()
	}

	n := *c
	if n.LeafCapacity <= 0 {
		n.LeafCapacity = 10
	}
	if n.MaxDepth <= 0 {
		n.MaxDepth = 48
	}
	if n.CompactEvery <= 0 {
		n.CompactEvery = 256
	}
	if n.Logger == nil {
		n.Logger = zap.NewNop()
	}
	return &n
}
