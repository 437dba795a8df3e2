package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardinalphin/fire-and-forget-notes/internal/index"
	"github.com/cardinalphin/fire-and-forget-notes/internal/metrics"
)

func TestIndexService_CurrentBuildsWhenNothingPersisted(t *testing.T) {
	ctx := context.Background()
	_, store, svc := seededServices()

	idx, err := svc.Current(ctx)
	require.NoError(t, err)
	require.NotNil(t, idx)
	assert.Greater(t, idx.Len(), 0)
	assert.Equal(t, 1, store.Saves())

	again, err := svc.Current(ctx)
	require.NoError(t, err)
	assert.Same(t, idx, again, "published index is reused")
	assert.Equal(t, 1, store.Saves())
}

func TestIndexService_CurrentLoadsPersistedIndex(t *testing.T) {
	ctx := context.Background()
	notes, store, svc := seededServices()

	list, err := notes.List(ctx)
	require.NoError(t, err)
	persisted := index.Build(list)
	require.NoError(t, store.IndexStore.Save(ctx, persisted, indexPath))

	idx, err := svc.Current(ctx)
	require.NoError(t, err)
	assert.Same(t, persisted, idx)
	assert.Equal(t, 1, store.Saves(), "no rebuild when the file loads")
}

func TestIndexService_ReloadsWhenFileIsNewer(t *testing.T) {
	ctx := context.Background()
	_, store, svc := seededServices()

	first, err := svc.Current(ctx)
	require.NoError(t, err)

	replacement := index.Build(nil)
	store.Touch(indexPath, replacement, time.Now().Add(time.Hour))

	got, err := svc.Current(ctx)
	require.NoError(t, err)
	assert.NotSame(t, first, got)
	assert.Same(t, replacement, got)
	assert.Equal(t, 0, got.Len())
}

func TestIndexService_LoadErrorTriggersRebuild(t *testing.T) {
	ctx := context.Background()
	_, store, svc := seededServices()
	store.loadErr = errBoom

	idx, err := svc.Current(ctx)
	require.NoError(t, err)
	assert.Greater(t, idx.Len(), 0)
	assert.Equal(t, 1, store.Loads())
	assert.Equal(t, 1, store.Saves())
}

func TestIndexService_RebuildFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("listing notes", func(t *testing.T) {
		notes, _, svc := seededServices()
		notes.listErr = errBoom

		_, err := svc.Rebuild(ctx)
		require.Error(t, err)
		assert.ErrorIs(t, err, errBoom)
		assert.Contains(t, err.Error(), "rebuild index")
	})

	t.Run("saving keeps the previous index", func(t *testing.T) {
		_, store, svc := seededServices()
		before, err := svc.Current(ctx)
		require.NoError(t, err)

		store.saveErr = errBoom
		_, err = svc.Rebuild(ctx)
		assert.ErrorIs(t, err, errBoom)

		after, err := svc.Current(ctx)
		require.NoError(t, err)
		assert.Same(t, before, after)
	})

	t.Run("cancelled context", func(t *testing.T) {
		_, _, svc := seededServices()
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		_, err := svc.Rebuild(cctx)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestIndexService_RebuildPublishesNewIndex(t *testing.T) {
	ctx := context.Background()
	notes, _, svc := seededServices()

	before, err := svc.Current(ctx)
	require.NoError(t, err)

	_, err = notes.Create(ctx, "Extra", "Brand new paragraph about sourdough starters.")
	require.NoError(t, err)

	stats, err := svc.Rebuild(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Notes)
	assert.Equal(t, indexPath, stats.Path)

	after, err := svc.Current(ctx)
	require.NoError(t, err)
	assert.NotSame(t, before, after)
	assert.Equal(t, "Extra", after.Search("sourdough starters", 1)[0].Chunk.NoteTitle)
}

func TestIndexService_Stats(t *testing.T) {
	_, _, svc := seededServices()

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, indexPath, stats.Path)
	assert.Equal(t, len(corpus), stats.Notes)
	assert.Greater(t, stats.Chunks, 0)
	assert.Greater(t, stats.VocabularySize, 0)
	assert.Greater(t, stats.LatentDim, 0)
	assert.False(t, stats.BuiltAt.IsZero())
}

func TestIndexService_Metrics(t *testing.T) {
	notes, _, svc := seededServices()
	m := metrics.NewCollector()
	svc.SetMetrics(m)

	_, err := svc.Rebuild(context.Background())
	require.NoError(t, err)
	notes.listErr = errBoom
	_, _ = svc.Rebuild(context.Background())

	assert.Equal(t, 1.0, testutil.ToFloat64(m.IndexRebuilds.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.IndexRebuilds.WithLabelValues("error")))
	assert.Greater(t, testutil.ToFloat64(m.IndexChunks), 0.0)
}

func TestIndexService_ConcurrentReadersDuringRebuilds(t *testing.T) {
	ctx := context.Background()
	_, _, svc := seededServices()

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := svc.Rebuild(ctx)
			assert.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				idx, err := svc.Current(ctx)
				if assert.NoError(t, err) {
					_ = idx.Search("release pipeline", 3)
				}
			}
		}()
	}
	wg.Wait()
}
