package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/3worlds/uit/space"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const sampleWorkload = `
tree: bounded
domain: "[[0,0,0],[100,100,100]]"
seed: 42
points: 2000
removals: 500
workers: 3
baseline: true
config:
  leaf_capacity: 8
  optimise: true
queries:
  boxes: 40
  spheres: 40
  nearest: 40
  k: 4
`

func TestDecodeWorkload(t *testing.T) {
	t.Parallel()

	w, err := decodeWorkload(strings.NewReader(sampleWorkload))
	require.NoError(t, err)

	assert.Equal(t, kindBounded, w.Tree)
	assert.Equal(t, 3, w.domain.Dim())
	assert.Equal(t, w.domain, w.spread)
	assert.Equal(t, 8, w.Config.LeafCapacity)
	assert.Equal(t, 4, w.Queries.K)
	assert.Equal(t, 10.0, w.Queries.Extent)
	assert.Equal(t, 5.0, w.Queries.Radius)
	assert.True(t, w.continuous())
}

func TestDecodeWorkload_Invalid(t *testing.T) {
	t.Parallel()

	for _, tcase := range []*struct {
		Name string
		Text string
		Exp  string
	}{
		{"empty", "", "empty workload"},
		{"unknown field", "tree: bounded\ncolour: red\n", "colour"},
		{"unknown tree", "tree: octree\ndomain: \"[[0],[1]]\"\n", "unknown tree"},
		{"no precision", "tree: limited\ndomain: \"[[0],[1]]\"\n", "precision"},
		{"bad domain", "tree: bounded\ndomain: \"[[0],[1]\"\n", "workload domain"},
		{"spread dim", "tree: bounded\ndomain: \"[[0],[1]]\"\nspread: \"[[0,0],[1,1]]\"\n", "dimension mismatch"},
		{"removals", "tree: bounded\ndomain: \"[[0],[1]]\"\npoints: 1\nremovals: 2\n", "bad counts"},
	} {
		tcase := tcase

		t.Run(tcase.Name, func(t *testing.T) {
			_, err := decodeWorkload(strings.NewReader(tcase.Text))

			require.Error(t, err)
			assert.Contains(t, err.Error(), tcase.Exp)
		})
	}
}

func TestRunWorkload(t *testing.T) {
	t.Parallel()

	for _, kind := range []string{kindBounded, kindExpanding, kindExpandingDim, kindLimited, kindExpandingLimited} {
		kind := kind

		t.Run(kind, func(t *testing.T) {
			t.Parallel()

			w, err := decodeWorkload(strings.NewReader(sampleWorkload))
			require.NoError(t, err)

			w.Tree, w.Precision = kind, 0.25
			if kind == kindExpanding || kind == kindExpandingDim || kind == kindExpandingLimited {
				// points land far outside the initial domain
				w.spread = space.Box{Lower: space.Point{-500, -500, -500}, Upper: space.Point{500, 500, 500}}
			}

			rep, err := runWorkload(context.Background(), w, zap.NewNop())
			require.NoError(t, err)

			assert.Equal(t, 2000, rep.Inserted)
			assert.Equal(t, 500, rep.Removed)
			assert.Equal(t, 120, rep.Queries)
			assert.Zero(t, rep.Mismatches)
			assert.Contains(t, rep.Summary, "size=1500")
			assert.Equal(t, w.continuous(), rep.Baseline > 0)
		})
	}
}

func TestRunWorkload_Cancelled(t *testing.T) {
	t.Parallel()

	w, err := decodeWorkload(strings.NewReader(sampleWorkload))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = runWorkload(ctx, w, zap.NewNop())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunCmd(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "workload.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleWorkload), 0o600))

	var (
		out bytes.Buffer
		cmd = newRootCmd()
	)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"run", path})

	require.NoError(t, cmd.Execute())

	text := out.String()
	assert.Contains(t, text, "tree      RegionTree dim=3 size=1500")
	assert.Contains(t, text, "insert    2000 in")
	assert.Contains(t, text, "baseline  loaded in")
	assert.Contains(t, text, "0 mismatches")
}

func TestParseCmd(t *testing.T) {
	t.Parallel()

	for _, tcase := range []*struct {
		Args []string
		Exp  string
		Err  error
	}{
		{[]string{"parse", "point", "[1, 2.5]"}, "point [1,2.5] dim=2\n", nil},
		{[]string{"parse", "box", "[[0,0],[2,2]]"}, "box [[0,0],[2,2]] dim=2 centre=[1,1] volume=4 cube=true\n", nil},
		{[]string{"parse", "sphere", "[[0,0],2]"}, "sphere [[0,0],2] dim=2 bounds=[[-2,-2],[2,2]]\n", nil},
		{[]string{"parse", "locator", "[3,-4]"}, "locator [3,-4] dim=2\n", nil},
		{[]string{"parse", "box", "[[0,0],[2]]"}, "", space.ErrParse},
		{[]string{"parse", "sphere", "[[0,0],-1]"}, "", space.ErrParse},
	} {
		tcase := tcase

		t.Run(strings.Join(tcase.Args, " "), func(t *testing.T) {
			var (
				out bytes.Buffer
				cmd = newRootCmd()
			)
			cmd.SetOut(&out)
			cmd.SetErr(&bytes.Buffer{})
			cmd.SetArgs(tcase.Args)

			err := cmd.Execute()
			if tcase.Err != nil {
				assert.ErrorIs(t, err, tcase.Err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tcase.Exp, out.String())
		})
	}
}
