package resource

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DraculaSOTD/AHI-Flutter-Body-sub002/model"
)

// countingResolver serves a fixed set of names and counts batch resolutions.
type countingResolver struct {
	available map[string]bool
	batches   atomic.Int32
	singles   atomic.Int32
	delay     time.Duration
}

func (r *countingResolver) Resolve(_ context.Context, d model.ResourceDescriptor) ([]byte, error) {
	r.singles.Add(1)
	if !r.available[d.Name] {
		return nil, model.NewError(model.CodeResourceNotFound, "test", "missing %s", d.Name)
	}
	return []byte(d.FileName()), nil
}

func (r *countingResolver) ResolveBatch(ctx context.Context, names []string, typ model.ResourceType, sex *model.Sex) (map[string][]byte, error) {
	r.batches.Add(1)
	time.Sleep(r.delay)
	out := map[string][]byte{}
	for _, n := range names {
		if !r.available[n] {
			return nil, model.NewError(model.CodeModelsMissing, "test", "missing %s", n)
		}
		d := model.NewResource(n, typ)
		if sex != nil {
			d = d.ForSex(*sex)
		}
		out[n] = []byte(d.FileName())
	}
	return out, nil
}

func TestCacheServesCompleteEntry(t *testing.T) {
	r := &countingResolver{available: map[string]bool{"a": true, "b": true}}
	cache := NewCache(r)
	key := CacheKey{Name: BatchML, Sex: model.SexMale}

	first, err := cache.Batch(context.Background(), key, []string{"a", "b"}, model.ResourceML)
	require.NoError(t, err)
	second, err := cache.Batch(context.Background(), key, []string{"a", "b"}, model.ResourceML)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), r.batches.Load())
	assert.Equal(t, []byte("a_male.tflite"), first["a"])
}

func TestCacheSeparatesSexes(t *testing.T) {
	r := &countingResolver{available: map[string]bool{"a": true}}
	cache := NewCache(r)

	male, err := cache.Batch(context.Background(), CacheKey{Name: BatchCV, Sex: model.SexMale}, []string{"a"}, model.ResourceVectorFloat)
	require.NoError(t, err)
	female, err := cache.Batch(context.Background(), CacheKey{Name: BatchCV, Sex: model.SexFemale}, []string{"a"}, model.ResourceVectorFloat)
	require.NoError(t, err)

	assert.NotEqual(t, male["a"], female["a"])
	assert.Equal(t, 2, cache.Len())
}

func TestCacheSizeMismatchReresolves(t *testing.T) {
	r := &countingResolver{available: map[string]bool{"a": true, "b": true, "c": true}}
	cache := NewCache(r)
	key := CacheKey{Name: BatchSVR}

	_, err := cache.Batch(context.Background(), key, []string{"a", "b"}, model.ResourceSVR)
	require.NoError(t, err)

	// the expected set grew, so the cached entry is stale
	batch, err := cache.Batch(context.Background(), key, []string{"a", "b", "c"}, model.ResourceSVR)
	require.NoError(t, err)
	assert.Len(t, batch, 3)
	assert.Equal(t, int32(2), r.batches.Load())
}

func TestCacheFailureIsNotPublished(t *testing.T) {
	r := &countingResolver{available: map[string]bool{"a": true}}
	cache := NewCache(r)
	key := CacheKey{Name: BatchML}

	_, err := cache.Batch(context.Background(), key, []string{"a", "missing"}, model.ResourceML)
	require.Error(t, err)
	assert.Equal(t, 0, cache.Len())
}

func TestCacheConcurrentCallersResolveOnce(t *testing.T) {
	r := &countingResolver{available: map[string]bool{"a": true, "b": true}, delay: 50 * time.Millisecond}
	cache := NewCache(r)
	key := CacheKey{Name: BatchML, Sex: model.SexFemale}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			batch, err := cache.Batch(context.Background(), key, []string{"a", "b"}, model.ResourceML)
			assert.NoError(t, err)
			assert.Len(t, batch, 2)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), r.batches.Load())
}

func TestCacheResource(t *testing.T) {
	r := &countingResolver{available: map[string]bool{"seg": true}}
	cache := NewCache(r)

	d := model.NewResource("seg", model.ResourceML)
	data, err := cache.Resource(context.Background(), d)
	require.NoError(t, err)
	assert.Equal(t, []byte("seg.tflite"), data)

	_, err = cache.Resource(context.Background(), d)
	require.NoError(t, err)
	assert.Equal(t, int32(1), r.singles.Load())

	_, err = cache.Resource(context.Background(), model.NewResource("nope", model.ResourceML))
	assert.True(t, model.IsCode(err, model.CodeResourceNotFound))
}

func TestCacheSameSizeDifferentNamesReresolves(t *testing.T) {
	r := &countingResolver{available: map[string]bool{"a": true, "b": true, "c": true}}
	cache := NewCache(r)
	key := CacheKey{Name: BatchML}

	_, err := cache.Batch(context.Background(), key, []string{"a", "b"}, model.ResourceML)
	require.NoError(t, err)

	batch, err := cache.Batch(context.Background(), key, []string{"a", "c"}, model.ResourceML)
	require.NoError(t, err)
	assert.Contains(t, batch, "c")
	assert.NotContains(t, batch, "b")
	assert.Equal(t, int32(2), r.batches.Load())

	// order does not matter once resolved
	_, err = cache.Batch(context.Background(), key, []string{"c", "a"}, model.ResourceML)
	require.NoError(t, err)
	assert.Equal(t, int32(2), r.batches.Load())
}

// gatedResolver blocks batch resolution until release is closed and fails
// if its context ends first.
type gatedResolver struct {
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func (r *gatedResolver) Resolve(ctx context.Context, d model.ResourceDescriptor) ([]byte, error) {
	r.once.Do(func() { close(r.started) })
	select {
	case <-ctx.Done():
		return nil, model.WrapError(model.CodeCanceled, "test", "resolution canceled", ctx.Err())
	case <-r.release:
	}
	return []byte(d.FileName()), nil
}

func (r *gatedResolver) ResolveBatch(ctx context.Context, names []string, typ model.ResourceType, _ *model.Sex) (map[string][]byte, error) {
	out := map[string][]byte{}
	for _, n := range names {
		data, err := r.Resolve(ctx, model.NewResource(n, typ))
		if err != nil {
			return nil, err
		}
		out[n] = data
	}
	return out, nil
}

func TestCacheCancelReachesOnlyItsCaller(t *testing.T) {
	r := &gatedResolver{started: make(chan struct{}), release: make(chan struct{})}
	cache := NewCache(r)
	key := CacheKey{Name: BatchML}
	names := []string{"a", "b"}

	ctxA, cancelA := context.WithCancel(context.Background())
	defer cancelA()

	errA := make(chan error, 1)
	go func() {
		_, err := cache.Batch(ctxA, key, names, model.ResourceML)
		errA <- err
	}()
	<-r.started

	type outcome struct {
		batch map[string][]byte
		err   error
	}
	outB := make(chan outcome, 1)
	go func() {
		batch, err := cache.Batch(context.Background(), key, names, model.ResourceML)
		outB <- outcome{batch, err}
	}()

	cancelA()
	select {
	case err := <-errA:
		assert.True(t, model.IsCode(err, model.CodeCanceled))
	case <-time.After(time.Second):
		t.Fatal("canceled caller kept waiting")
	}

	close(r.release)
	select {
	case got := <-outB:
		require.NoError(t, got.err)
		assert.Len(t, got.batch, 2)
	case <-time.After(time.Second):
		t.Fatal("live caller never got the shared result")
	}
	assert.Equal(t, 1, cache.Len())
}

func TestCacheResourceCancelReachesOnlyItsCaller(t *testing.T) {
	r := &gatedResolver{started: make(chan struct{}), release: make(chan struct{})}
	cache := NewCache(r)
	d := model.NewResource("seg", model.ResourceML)

	ctxA, cancelA := context.WithCancel(context.Background())
	defer cancelA()

	errA := make(chan error, 1)
	go func() {
		_, err := cache.Resource(ctxA, d)
		errA <- err
	}()
	<-r.started

	cancelA()
	assert.True(t, model.IsCode(<-errA, model.CodeCanceled))

	close(r.release)
	data, err := cache.Resource(context.Background(), d)
	require.NoError(t, err)
	assert.Equal(t, []byte("seg.tflite"), data)
}
