package cache

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docdiff/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "fingerprints.db"))
	require.NoError(t, err)
	return store
}

func testImage() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x * 8), G: uint8(y * 8), A: 255})
		}
	}
	return img
}

func TestPutLookupRoundtrip(t *testing.T) {
	store := openTestStore(t)

	_, found, err := store.Lookup("missing")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Put("abc123", 0xfeedface))
	fp, found, err := store.Lookup("abc123")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, uint64(0xfeedface), fp)
}

func TestPutLookupHighBitFingerprint(t *testing.T) {
	// Fingerprints with the top bit set must survive the int64 column.
	store := openTestStore(t)
	fp := uint64(1)<<63 | 0x42

	require.NoError(t, store.Put("highbit", fp))
	got, found, err := store.Lookup("highbit")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, fp, got)
}

func TestContentHashStable(t *testing.T) {
	first := ContentHash(testImage())
	assert.Equal(t, first, ContentHash(testImage()))
	assert.Len(t, first, 40)

	other := image.NewRGBA(image.Rect(0, 0, 32, 32))
	assert.NotEqual(t, first, ContentHash(other))
}

func TestWarmSeedsFingerprints(t *testing.T) {
	store := openTestStore(t)
	doc := &model.Document{
		Label: "warm.pdf",
		Pages: []model.Page{{
			Index:  0,
			Images: []model.Image{{Pixels: testImage()}},
		}},
	}

	require.NoError(t, store.Warm(doc))
	fp, ok := doc.Pages[0].Images[0].CachedFingerprint()
	require.True(t, ok)

	// A second document with the same pixels gets the stored value
	// without recomputing.
	again := &model.Document{
		Label: "warm2.pdf",
		Pages: []model.Page{{
			Index:  0,
			Images: []model.Image{{Pixels: testImage()}},
		}},
	}
	require.NoError(t, store.Warm(again))
	fp2, ok := again.Pages[0].Images[0].CachedFingerprint()
	require.True(t, ok)
	assert.Equal(t, fp, fp2)
}

func TestWarmSkipsSeededAndPixelless(t *testing.T) {
	store := openTestStore(t)
	seeded := model.Image{}
	seeded.SetFingerprint(0x77)
	doc := &model.Document{
		Label: "mixed.pdf",
		Pages: []model.Page{{
			Index:  0,
			Images: []model.Image{seeded, {}},
		}},
	}

	require.NoError(t, store.Warm(doc))
	fp, ok := doc.Pages[0].Images[0].CachedFingerprint()
	assert.True(t, ok)
	assert.Equal(t, uint64(0x77), fp)

	_, ok = doc.Pages[0].Images[1].CachedFingerprint()
	assert.False(t, ok)
}
