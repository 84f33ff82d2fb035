package resource

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DraculaSOTD/AHI-Flutter-Body-sub002/model"
	"github.com/DraculaSOTD/AHI-Flutter-Body-sub002/service/config"
	"github.com/DraculaSOTD/AHI-Flutter-Body-sub002/service/crypto"
	"github.com/DraculaSOTD/AHI-Flutter-Body-sub002/service/storage"
)

func newResolverForTest(key string) (IService, *storage.FakeService) {
	store := storage.NewFake()
	cfg := config.NewFromSettings(config.Settings{DecryptionKey: key})
	return NewResolver(cfg, store, crypto.NewChaCha()), store
}

func seal(t *testing.T, plain []byte, key string) []byte {
	t.Helper()
	sealed, err := crypto.NewChaCha().Encrypt(plain, []byte(key))
	require.NoError(t, err)
	return sealed
}

func TestResolvePersistedPlain(t *testing.T) {
	svc, store := newResolverForTest("")
	store.Persist("seg.tflite", []byte("plain"))

	data, err := svc.Resolve(context.Background(), model.NewResource("seg", model.ResourceML))
	require.NoError(t, err)
	assert.Equal(t, []byte("plain"), data)
	assert.Zero(t, store.BundledReads)
}

func TestResolveSexSpecificName(t *testing.T) {
	svc, store := newResolverForTest("")
	store.Persist("svr_chest_female.cereal", []byte("f"))

	d := model.NewResource("svr_chest", model.ResourceSVR).ForSex(model.SexFemale)
	assert.Equal(t, "svr_chest_female.cereal", d.FileName())

	data, err := svc.Resolve(context.Background(), d)
	require.NoError(t, err)
	assert.Equal(t, []byte("f"), data)
}

func TestResolveEncrypted(t *testing.T) {
	svc, store := newResolverForTest("k1")
	store.Persist("seg.tflite.bin", seal(t, []byte("model"), "k1"))

	data, err := svc.Resolve(context.Background(), model.NewResource("seg", model.ResourceML))
	require.NoError(t, err)
	assert.Equal(t, []byte("model"), data)
}

func TestResolveTestBinExtension(t *testing.T) {
	svc, store := newResolverForTest("k1")
	store.Persist("vec.cereal.test_bin", seal(t, []byte("vec"), "k1"))

	data, err := svc.Resolve(context.Background(), model.NewResource("vec", model.ResourceVectorFloat))
	require.NoError(t, err)
	assert.Equal(t, []byte("vec"), data)
}

func TestResolveEncryptedWithoutKey(t *testing.T) {
	svc, store := newResolverForTest("")
	store.Persist("seg.tflite.bin", seal(t, []byte("model"), "k1"))

	_, err := svc.Resolve(context.Background(), model.NewResource("seg", model.ResourceML))
	require.Error(t, err)
	assert.True(t, model.IsCode(err, model.CodeDecryptionKeyMissing))
	assert.True(t, model.IsKind(err, model.KindResourceUnavailable))
}

func TestResolveWrongKeyIsDistinctFromNotFound(t *testing.T) {
	svc, store := newResolverForTest("other")
	store.Persist("seg.tflite.bin", seal(t, []byte("model"), "k1"))

	_, err := svc.Resolve(context.Background(), model.NewResource("seg", model.ResourceML))
	assert.True(t, model.IsCode(err, model.CodeDecryptionFailed))

	_, err = svc.Resolve(context.Background(), model.NewResource("absent", model.ResourceML))
	assert.True(t, model.IsCode(err, model.CodeResourceNotFound))
}

func TestResolveBundledFallbackIsCopied(t *testing.T) {
	svc, store := newResolverForTest("")
	store.Bundle("coeffs.cereal", []byte("bundled"))

	data, err := svc.Resolve(context.Background(), model.NewResource("coeffs", model.ResourceVectorFloat))
	require.NoError(t, err)
	assert.Equal(t, []byte("bundled"), data)
	assert.True(t, store.HasPersisted("coeffs.cereal"))

	bundledReads := store.BundledReads
	data, err = svc.Resolve(context.Background(), model.NewResource("coeffs", model.ResourceVectorFloat))
	require.NoError(t, err)
	assert.Equal(t, []byte("bundled"), data)
	assert.Equal(t, bundledReads, store.BundledReads, "second resolution must hit the persisted store")
}

func TestResolveBundledEncryptedCopiedThenDecrypted(t *testing.T) {
	svc, store := newResolverForTest("k1")
	store.Bundle("seg.tflite.bin", seal(t, []byte("model"), "k1"))

	data, err := svc.Resolve(context.Background(), model.NewResource("seg", model.ResourceML))
	require.NoError(t, err)
	assert.Equal(t, []byte("model"), data)
	assert.True(t, store.HasPersisted("seg.tflite.bin"))
}

func TestResolveCanceled(t *testing.T) {
	svc, _ := newResolverForTest("")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Resolve(ctx, model.NewResource("seg", model.ResourceML))
	assert.True(t, model.IsKind(err, model.KindCanceled))
}

func TestResolveBatchIncompleteNeverPartial(t *testing.T) {
	svc, store := newResolverForTest("")
	store.Persist("a.tflite", []byte("a"))
	store.Persist("b.tflite", []byte("b"))

	batch, err := svc.ResolveBatch(context.Background(), []string{"a", "b", "c"}, model.ResourceML, nil)
	require.Error(t, err)
	assert.Nil(t, batch)
	assert.True(t, model.IsCode(err, model.CodeModelsMissing))
	assert.True(t, model.IsKind(err, model.KindResourceIncomplete))
	assert.Contains(t, err.Error(), "c.tflite")
}

func TestResolveBatchDuplicateNamesAreIncomplete(t *testing.T) {
	svc, store := newResolverForTest("")
	store.Persist("a.tflite", []byte("a"))

	_, err := svc.ResolveBatch(context.Background(), []string{"a", "a"}, model.ResourceML, nil)
	assert.True(t, model.IsCode(err, model.CodeModelsMissing))
}

func TestResolveBatchComplete(t *testing.T) {
	svc, store := newResolverForTest("")
	male := model.SexMale
	store.Persist("cv_a_male.cereal", []byte("a"))
	store.Persist("cv_b_male.cereal", []byte("b"))

	batch, err := svc.ResolveBatch(context.Background(), []string{"cv_a", "cv_b"}, model.ResourceVectorFloat, &male)
	require.NoError(t, err)
	assert.Equal(t, map[string][]byte{"cv_a": []byte("a"), "cv_b": []byte("b")}, batch)
}
