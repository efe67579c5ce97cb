package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/3worlds/uit/indexing"
	"github.com/3worlds/uit/space"
)

// Tree kinds accepted in a workload.
const (
	kindBounded          = "bounded"
	kindExpanding        = "expanding"
	kindExpandingDim     = "expanding-dim"
	kindLimited          = "limited"
	kindExpandingLimited = "expanding-limited"
)

// Workload describes one benchmark run.
type Workload struct {
	Tree      string  `yaml:"tree"`
	Domain    string  `yaml:"domain"`           // canonical box text
	Spread    string  `yaml:"spread,omitempty"` // where points are drawn, default Domain
	Precision float64 `yaml:"precision,omitempty"`

	Seed     int64 `yaml:"seed"`
	Points   int   `yaml:"points"`
	Removals int   `yaml:"removals,omitempty"`
	Workers  int   `yaml:"workers,omitempty"`
	Baseline bool  `yaml:"baseline,omitempty"`

	Config  TreeConfig `yaml:"config"`
	Queries QuerySpec  `yaml:"queries"`

	domain space.Box
	spread space.Box
}

// TreeConfig mirrors indexing.Config.
type TreeConfig struct {
	LeafCapacity     int  `yaml:"leaf_capacity,omitempty"`
	AdaptiveCapacity bool `yaml:"adaptive_capacity,omitempty"`
	MaxDepth         int  `yaml:"max_depth,omitempty"`
	CompactEvery     int  `yaml:"compact_every,omitempty"`
	Optimise         bool `yaml:"optimise,omitempty"`
}

type QuerySpec struct {
	Boxes   int     `yaml:"boxes"`
	Spheres int     `yaml:"spheres"`
	Nearest int     `yaml:"nearest"`
	K       int     `yaml:"k,omitempty"`      // neighbours per nearest query, default 1
	Extent  float64 `yaml:"extent,omitempty"` // box side, default a tenth of the spread
	Radius  float64 `yaml:"radius,omitempty"` // sphere radius, default a twentieth of the spread
}

func loadWorkload(path string) (*Workload, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return decodeWorkload(f)
}

// decodeWorkload reads a workload, rejecting unknown fields.
func decodeWorkload(r io.Reader) (*Workload, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var w Workload
	if err := dec.Decode(&w); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty workload")
		}
		return nil, fmt.Errorf("decode workload: %w", err)
	}

	if err := w.normalize(); err != nil {
		return nil, err
	}
	return &w, nil
}

func (w *Workload) normalize() error {
	switch w.Tree {
	case kindBounded, kindExpanding, kindExpandingDim:
	case kindLimited, kindExpandingLimited:
		if w.Precision <= 0 {
			return fmt.Errorf("tree %q needs a positive precision", w.Tree)
		}
	default:
		return fmt.Errorf("unknown tree %q", w.Tree)
	}

	var err error
	if w.domain, err = space.ParseBox(w.Domain); err != nil {
		return fmt.Errorf("workload domain: %w", err)
	}

	w.spread = w.domain
	if w.Spread != "" {
		if w.spread, err = space.ParseBox(w.Spread); err != nil {
			return fmt.Errorf("workload spread: %w", err)
		}
		if err := space.CheckDim("workload spread", w.domain.Dim(), w.spread.Dim()); err != nil {
			return err
		}
	}

	if w.Points < 0 || w.Removals < 0 || w.Removals > w.Points {
		return fmt.Errorf("bad counts: %d points, %d removals", w.Points, w.Removals)
	}
	if w.Workers <= 0 {
		w.Workers = 4
	}
	if w.Queries.K <= 0 {
		w.Queries.K = 1
	}
	if w.Queries.Extent <= 0 {
		w.Queries.Extent = w.spread.MaxSide() / 10
	}
	if w.Queries.Radius <= 0 {
		w.Queries.Radius = w.spread.MaxSide() / 20
	}
	return nil
}

// continuous reports whether the tree stores exact positions.
func (w *Workload) continuous() bool {
	return w.Tree != kindLimited && w.Tree != kindExpandingLimited
}

func (w *Workload) newTree(log *zap.Logger) (indexing.Tree[int], error) {
	cfg := &indexing.Config{
		LeafCapacity:     w.Config.LeafCapacity,
		AdaptiveCapacity: w.Config.AdaptiveCapacity,
		MaxDepth:         w.Config.MaxDepth,
		CompactEvery:     w.Config.CompactEvery,
		Optimise:         w.Config.Optimise,
		Logger:           log,
	}

	switch w.Tree {
	case kindBounded:
		return indexing.NewBoundedRegionTree[int](w.domain, cfg)
	case kindExpanding:
		return indexing.NewExpandingRegionTree[int](w.domain, cfg)
	case kindExpandingDim:
		return indexing.NewExpandingRegionTreeDim[int](w.domain.Dim(), cfg)
	case kindLimited:
		return indexing.NewLimitedPrecisionTree[int](w.domain, w.Precision, cfg)
	default:
		return indexing.NewExpandingLimitedPrecisionTree[int](w.domain, w.Precision, cfg)
	}
}
