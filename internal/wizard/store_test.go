package wizard

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestRedisStore_SaveGet(t *testing.T) {
	mr, client := setupRedis(t)
	store := NewRedisStore(client, "", time.Hour)
	ctx := t.Context()

	require.NoError(t, store.Ping(ctx))

	s := uploadedSession(t)
	require.NoError(t, store.Save(ctx, s))
	assert.True(t, mr.Exists("atelier:session:"+s.ID))
	assert.Equal(t, time.Hour, mr.TTL("atelier:session:"+s.ID))

	got, err := store.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.ID, got.ID)
	assert.Equal(t, StepUpload, got.Step)
	assert.Equal(t, s.Result.Label, got.Result.Label)
	require.Len(t, got.Past, 2)
	assert.Equal(t, s.Past[0].Data, got.Past[0].Data)
}

func TestRedisStore_Expiry(t *testing.T) {
	mr, client := setupRedis(t)
	store := NewRedisStore(client, "test:", time.Minute)
	ctx := t.Context()

	s := New()
	require.NoError(t, store.Save(ctx, s))

	mr.FastForward(2 * time.Minute)

	_, err := store.Get(ctx, s.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStore_Delete(t *testing.T) {
	_, client := setupRedis(t)
	store := NewRedisStore(client, "", 0)
	ctx := t.Context()

	s := New()
	require.NoError(t, store.Save(ctx, s))
	require.NoError(t, store.Delete(ctx, s.ID))

	_, err := store.Get(ctx, s.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStore_CorruptValue(t *testing.T) {
	mr, client := setupRedis(t)
	store := NewRedisStore(client, "", 0)

	require.NoError(t, mr.Set("atelier:session:bad", "{not json"))

	_, err := store.Get(t.Context(), "bad")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	ctx := t.Context()

	_, err := store.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	s := uploadedSession(t)
	require.NoError(t, store.Save(ctx, s))

	// Mutating the caller's copy does not change the stored one.
	s.Step = StepResult
	got, err := store.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, StepUpload, got.Step)

	require.NoError(t, store.Delete(ctx, s.ID))
	assert.Equal(t, 0, store.Len())
}

func TestMemoryStore_Expiry(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	now := time.Now()
	store.now = func() time.Time { return now }
	ctx := t.Context()

	s := New()
	s.UpdatedAt = now
	require.NoError(t, store.Save(ctx, s))
	assert.Equal(t, 1, store.Len())

	store.now = func() time.Time { return now.Add(2 * time.Minute) }

	_, err := store.Get(ctx, s.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 0, store.Len())
}

func storesUnderTest(t *testing.T) map[string]Store {
	_, client := setupRedis(t)
	return map[string]Store{
		"memory": NewMemoryStore(time.Hour),
		"redis":  NewRedisStore(client, "", time.Hour),
	}
}

func TestStoreUpdate(t *testing.T) {
	for name, store := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			ctx := t.Context()
			s := uploadedSession(t)
			require.NoError(t, store.Save(ctx, s))

			got, err := store.Update(ctx, s.ID, (*Session).BeginAnalysis)
			require.NoError(t, err)
			assert.Equal(t, StepAnalyzing, got.Step)

			stored, err := store.Get(ctx, s.ID)
			require.NoError(t, err)
			assert.Equal(t, StepAnalyzing, stored.Step)
			assert.Len(t, stored.Past, 2)
		})
	}
}

func TestStoreUpdateFailureSavesNothing(t *testing.T) {
	boom := errors.New("boom")
	for name, store := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			ctx := t.Context()
			s := uploadedSession(t)
			require.NoError(t, store.Save(ctx, s))

			_, err := store.Update(ctx, s.ID, func(w *Session) error {
				w.Reset()
				return boom
			})
			assert.ErrorIs(t, err, boom)

			stored, err := store.Get(ctx, s.ID)
			require.NoError(t, err)
			assert.Equal(t, StepUpload, stored.Step)
			assert.NotNil(t, stored.Result)

			_, err = store.Update(ctx, "missing", (*Session).BeginAnalysis)
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestStoreUpdateSingleBeginAnalysis(t *testing.T) {
	const workers = 8
	for name, store := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			ctx := t.Context()
			s := uploadedSession(t)
			require.NoError(t, store.Save(ctx, s))

			errs := make(chan error, workers)
			var wg sync.WaitGroup
			for range workers {
				wg.Add(1)
				go func() {
					defer wg.Done()
					_, err := store.Update(ctx, s.ID, (*Session).BeginAnalysis)
					errs <- err
				}()
			}
			wg.Wait()
			close(errs)

			began := 0
			for err := range errs {
				if err == nil {
					began++
					continue
				}
				assert.ErrorIs(t, err, ErrInvalidStep)
			}
			assert.Equal(t, 1, began)

			stored, err := store.Get(ctx, s.ID)
			require.NoError(t, err)
			assert.Equal(t, StepAnalyzing, stored.Step)
		})
	}
}
