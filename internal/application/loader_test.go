package application

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/judgers-dev/judgers/internal/domain"
	"github.com/judgers-dev/judgers/internal/ports"
	"github.com/judgers-dev/judgers/internal/testutils"
)

func newTestLoader(t *testing.T, docs map[string]string) (*DocumentLoader, *testutils.MemoryStore) {
	t.Helper()
	store := testutils.NewMemoryStore(docs)
	loader, err := NewDocumentLoader(store)
	require.NoError(t, err)
	return loader, store
}

func TestLoadInput(t *testing.T) {
	loader, _ := newTestLoader(t, map[string]string{"input.json": testutils.SampleInputJSON})

	in, err := loader.LoadInput(context.Background(), "input.json")
	require.NoError(t, err)

	require.Len(t, in.Judges, 3)
	assert.Equal(t, domain.NewJudge("2", "Grace"), in.Judges[1])
	require.Len(t, in.Projects, 3)
	assert.Equal(t, domain.NewProjectAtTable("a", "Alpha", 1), in.Projects[0])
	assert.Nil(t, in.Projects[2].TableNumber)
}

func TestLoadInputErrors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr error
	}{
		{name: "not json", doc: `judges: []`, wantErr: ports.ErrInvalidDocument},
		{name: "missing projects", doc: `{"judges": []}`, wantErr: ports.ErrInvalidDocument},
		{name: "numeric id", doc: `{"judges": [{"id": 1, "name": "A"}], "projects": []}`, wantErr: ports.ErrInvalidDocument},
		{name: "fractional table", doc: `{"judges": [], "projects": [{"id": "a", "name": "A", "table_number": 1.5}]}`, wantErr: ports.ErrInvalidDocument},
		{name: "no judges", doc: `{"judges": [], "projects": [{"id": "a", "name": "A"}]}`, wantErr: domain.ErrNoJudges},
		{name: "blank project name", doc: `{"judges": [{"id": "1", "name": "J"}], "projects": [{"id": "a", "name": " "}]}`, wantErr: domain.ErrInvalidProjectName},
		{name: "duplicate judges", doc: `{"judges": [{"id": "1", "name": "J"}, {"id": "1", "name": "K"}], "projects": [{"id": "a", "name": "A"}]}`, wantErr: domain.ErrDuplicateJudgeIDs},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader, _ := newTestLoader(t, map[string]string{"input.json": tt.doc})
			_, err := loader.LoadInput(context.Background(), "input.json")
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLoadInputMissing(t *testing.T) {
	loader, _ := newTestLoader(t, nil)
	_, err := loader.LoadInput(context.Background(), "nowhere.json")
	assert.ErrorIs(t, err, ports.ErrDocumentNotFound)
}

func TestLoadDecisions(t *testing.T) {
	loader, _ := newTestLoader(t, map[string]string{
		"day1.json":  testutils.SampleDecisionsJSON,
		"day2.json":  `[{"judge_id": "3", "ranks": [{"project": "c", "rank": 1}]}]`,
		"empty.json": `[]`,
	})

	decisions, err := loader.LoadDecisions(context.Background(), "day1.json", "empty.json", "day2.json")
	require.NoError(t, err)

	require.Len(t, decisions, 3)
	assert.Equal(t, "1", decisions[0].JudgeID, "decisions keep argument order")
	assert.Equal(t, "2", decisions[1].JudgeID)
	assert.Equal(t, domain.StackRankDecision{
		JudgeID: "3",
		Ranks:   []domain.RankEntry{{Project: "c", Rank: 1}},
	}, decisions[2])
}

func TestLoadDecisionsErrors(t *testing.T) {
	loader, _ := newTestLoader(t, map[string]string{
		"ok.json":      testutils.SampleDecisionsJSON,
		"rank0.json":   `[{"judge_id": "1", "ranks": [{"project": "a", "rank": 0}]}]`,
		"object.json":  `{"judge_id": "1", "ranks": []}`,
		"noranks.json": `[{"judge_id": "1"}]`,
	})
	ctx := context.Background()

	for _, loc := range []string{"rank0.json", "object.json", "noranks.json"} {
		t.Run(loc, func(t *testing.T) {
			_, err := loader.LoadDecisions(ctx, "ok.json", loc)
			assert.ErrorIs(t, err, ports.ErrInvalidDocument)

			var storageErr *ports.StorageError
			require.True(t, errors.As(err, &storageErr))
			assert.Equal(t, loc, storageErr.Location)
		})
	}

	_, err := loader.LoadDecisions(ctx, "ok.json", "missing.json")
	assert.ErrorIs(t, err, ports.ErrDocumentNotFound)
}

func TestLoadDecisionsNone(t *testing.T) {
	loader, _ := newTestLoader(t, nil)
	decisions, err := loader.LoadDecisions(context.Background())
	require.NoError(t, err)
	assert.Empty(t, decisions)
}

// TestLoaderSharesConcurrentReads checks that a location read by many
// goroutines at once is fetched fewer times than it is requested.
func TestLoaderSharesConcurrentReads(t *testing.T) {
	loader, store := newTestLoader(t, map[string]string{"d.json": testutils.SampleDecisionsJSON})

	const callers = 16
	var wg sync.WaitGroup
	for range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := loader.LoadDecisions(context.Background(), "d.json")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, store.Reads("d.json"), loader.Reads())
	assert.LessOrEqual(t, loader.Reads(), callers)
	assert.GreaterOrEqual(t, loader.Reads(), 1)
}

func TestLoadRankWeights(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		want    domain.RankWeights
		wantErr error
	}{
		{name: "yaml block", doc: "1: 3\n2: 2.5\n", want: domain.RankWeights{1: 3, 2: 2.5}},
		{name: "yaml flow", doc: "{1: 4, 2: 1}", want: domain.RankWeights{1: 4, 2: 1}},
		{name: "json", doc: `{"1": 3.0, "2": 2.0, "3": 1.0}`, want: domain.DefaultRankWeights()},
		{name: "empty", doc: "", wantErr: domain.ErrNoRankWeights},
		{name: "rank zero", doc: "0: 1\n", wantErr: domain.ErrInvalidRankWeight},
		{name: "not a mapping", doc: "- 1\n- 2\n", wantErr: ports.ErrInvalidDocument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader, _ := newTestLoader(t, map[string]string{"weights": tt.doc})
			got, err := loader.LoadRankWeights(context.Background(), "weights")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
