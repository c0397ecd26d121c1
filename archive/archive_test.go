package archive

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hadi-ramezani/gosages/checkpoint"
)

func document(iteration int) *checkpoint.Document {
	return &checkpoint.Document{
		Method:    "abf",
		RunID:     "run-0001",
		Walkers:   2,
		Iteration: iteration,
		Points:    []int{4},
		Lower:     []float64{0},
		Upper:     []float64{1},
		Periodic:  []bool{false},
		Counts:    []int{0, 2, 2, 2, 2, 0},
		Forces:    []float64{0, 4, 4, 4, 4, 0},
		Wdotpold:  []float64{0},
		Fold:      []float64{0},
		Timestep:  1.0,
		MinCount:  1,
		UnitConv:  1.0,
	}
}

func TestArchive(t *testing.T) {
	db, err := Open(":memory:")
	require.NoError(t, err)
	defer db.Close()

	doc := document(100)
	require.NoError(t, db.RecordRun(doc))
	//a resumed run registers again, harmlessly
	require.NoError(t, db.RecordRun(doc))

	for _, it := range []int{100, 200, 300} {
		require.NoError(t, db.RecordEpoch(document(it)))
	}

	runs, err := db.Runs()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	require.Equal(t, "run-0001", runs[0].RunID)
	require.Equal(t, "abf", runs[0].Method)
	require.Equal(t, 2, runs[0].Walkers)
	require.Equal(t, 1, runs[0].CVs)
	require.NotEmpty(t, runs[0].Started)

	epochs, err := db.Epochs("run-0001")
	require.NoError(t, err)
	require.Len(t, epochs, 3)
	require.Equal(t, 100, epochs[0].Iteration)
	require.Equal(t, 300, epochs[2].Iteration)
	require.Equal(t, 4, epochs[0].Visited)
	require.Equal(t, 8, epochs[0].Samples)

	empty, err := db.Epochs("no-such-run")
	require.NoError(t, err)
	require.Empty(t, empty)
}

func TestArchiveRejects(t *testing.T) {
	db, err := Open(":memory:")
	require.NoError(t, err)
	defer db.Close()

	nameless := document(1)
	nameless.RunID = ""
	require.Error(t, db.RecordRun(nameless))
	require.Error(t, db.RecordEpoch(nameless))
}
