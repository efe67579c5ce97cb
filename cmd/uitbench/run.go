package main

import (
	"context"
	"fmt"
	"io"
	"math"
	"slices"
	"sort"
	"sync/atomic"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/3worlds/uit/indexing"
	"github.com/3worlds/uit/space"
)

func (a *app) newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run WORKLOAD",
		Short: "Run a YAML workload and report timings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := loadWorkload(args[0])
			if err != nil {
				return err
			}

			rep, err := runWorkload(cmd.Context(), w, a.log)
			if err != nil {
				return err
			}

			rep.print(cmd.OutOrStdout())
			if rep.Mismatches > 0 {
				return fmt.Errorf("%d queries disagree with the baseline", rep.Mismatches)
			}
			return nil
		},
	}
}

type report struct {
	Summary    string
	Inserted   int
	Removed    int
	Queries    int
	Mismatches int64

	Insert   time.Duration
	Query    time.Duration
	Remove   time.Duration
	Baseline time.Duration // R-tree load time, zero without a baseline
}

func (r *report) print(out io.Writer) {
	rate := func(n int, d time.Duration) float64 {
		if d <= 0 {
			return 0
		}
		return float64(n) / d.Seconds()
	}

	fmt.Fprintf(out, "tree      %s\n", r.Summary)
	fmt.Fprintf(out, "kernel    %s\n", space.KernelDesc())
	fmt.Fprintf(out, "insert    %d in %v (%.0f/s)\n", r.Inserted, r.Insert, rate(r.Inserted, r.Insert))
	fmt.Fprintf(out, "query     %d in %v (%.0f/s)\n", r.Queries, r.Query, rate(r.Queries, r.Query))
	fmt.Fprintf(out, "remove    %d in %v (%.0f/s)\n", r.Removed, r.Remove, rate(r.Removed, r.Remove))
	if r.Baseline > 0 {
		fmt.Fprintf(out, "baseline  loaded in %v, %d mismatches\n", r.Baseline, r.Mismatches)
	}
}

// query is one read request; exactly one of its fields is set.
type query struct {
	box    *space.Box
	sphere *space.Sphere
	at     space.Point
}

func randomPoint(faker *gofakeit.Faker, in space.Box) space.Point {
	p := make(space.Point, in.Dim())
	for i := range p {
		p[i] = faker.Float64Range(in.Lower[i], in.Upper[i])
	}
	return p
}

func (w *Workload) queries(faker *gofakeit.Faker) []query {
	var qs []query

	for i := 0; i < w.Queries.Boxes; i++ {
		lower := randomPoint(faker, w.spread)
		qs = append(qs, query{box: &space.Box{Lower: lower, Upper: lower.AddScalar(w.Queries.Extent)}})
	}
	for i := 0; i < w.Queries.Spheres; i++ {
		qs = append(qs, query{sphere: &space.Sphere{Centre: randomPoint(faker, w.spread), Radius: w.Queries.Radius}})
	}
	for i := 0; i < w.Queries.Nearest; i++ {
		qs = append(qs, query{at: randomPoint(faker, w.spread)})
	}

	faker.ShuffleAnySlice(qs)
	return qs
}

func runWorkload(ctx context.Context, w *Workload, log *zap.Logger) (*report, error) {
	var (
		faker = gofakeit.New(w.Seed)
		rep   = &report{}
	)

	tree, err := w.newTree(log)
	if err != nil {
		return nil, err
	}

	points := make([]space.Point, w.Points)
	for i := range points {
		points[i] = randomPoint(faker, w.spread)
	}

	start := time.Now()
	handles := make([]indexing.Handle, len(points))
	for i, p := range points {
		if handles[i], err = tree.Insert(i, p); err != nil {
			return nil, fmt.Errorf("insert #%d at %v: %w", i, p, err)
		}
	}
	rep.Insert, rep.Inserted = time.Since(start), len(points)

	var base *baseline
	switch {
	case w.Baseline && w.continuous():
		start = time.Now()
		base = newBaseline(w.domain.Dim(), points)
		rep.Baseline = time.Since(start)
	case w.Baseline:
		log.Warn("baseline skipped: quantized trees report cell positions", zap.String("tree", w.Tree))
	}

	qs := w.queries(faker)

	start = time.Now()
	if err := runQueries(ctx, w, tree, base, qs, &rep.Mismatches, log); err != nil {
		return nil, err
	}
	rep.Query, rep.Queries = time.Since(start), len(qs)

	faker.ShuffleAnySlice(handles)

	start = time.Now()
	for _, h := range handles[:w.Removals] {
		if !tree.Remove(h) {
			return nil, fmt.Errorf("handle %d vanished", h)
		}
	}
	rep.Remove, rep.Removed = time.Since(start), w.Removals

	if tree.Size() != w.Points-w.Removals {
		return nil, fmt.Errorf("size %d after %d inserts and %d removals", tree.Size(), w.Points, w.Removals)
	}
	rep.Summary = tree.ShortString()

	return rep, nil
}

// runQueries spreads the queries over w.Workers concurrent readers.
func runQueries(ctx context.Context, w *Workload, tree indexing.Tree[int], base *baseline, qs []query, mismatches *int64, log *zap.Logger) error {
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(w.Workers)

	for _, q := range qs {
		q := q

		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			ok, err := answer(tree, base, q, w.Queries.K)
			if err != nil {
				return err
			}
			if !ok {
				atomic.AddInt64(mismatches, 1)
				log.Warn("baseline mismatch",
					zap.Any("box", q.box),
					zap.Any("sphere", q.sphere),
					zap.Stringer("at", q.at))
			}
			return nil
		})
	}

	return eg.Wait()
}

// answer runs q and reports whether the result agrees with the baseline.
func answer(tree indexing.Tree[int], base *baseline, q query, k int) (bool, error) {
	switch {
	case q.box != nil:
		got, err := tree.ItemsWithinBox(*q.box)
		if err != nil || base == nil {
			return true, err
		}
		want, err := base.withinBox(*q.box)
		if err != nil {
			return false, err
		}
		return sameIDs(got, want), nil

	case q.sphere != nil:
		got, err := tree.ItemsWithinSphere(*q.sphere)
		if err != nil || base == nil {
			return true, err
		}
		want, err := base.withinSphere(*q.sphere)
		if err != nil {
			return false, err
		}
		return sameIDs(got, want), nil
	}

	got, err := tree.NearestItemsK(q.at, k)
	if err != nil || base == nil {
		return true, err
	}

	want := base.nearest(q.at, k)
	if len(got) != len(want) {
		return false, nil
	}
	for i, n := range got {
		if math.Abs(n.Dist-want[i]) > 1e-6*math.Max(1, want[i]) {
			return false, nil
		}
	}
	return true, nil
}

func sameIDs(got, want []int) bool {
	got = slices.Clone(got)
	sort.Ints(got)
	return slices.Equal(got, want)
}
