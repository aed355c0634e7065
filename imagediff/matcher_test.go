package imagediff

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docdiff/model"
)

func uniformImage(c color.RGBA) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func gradientImage() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x * 4), G: uint8(y * 4), B: 0, A: 255})
		}
	}
	return img
}

func fpImage(page int, fp uint64) model.Image {
	img := model.Image{Page: page, BBox: model.NewBBox(10, 10, 100, 100)}
	img.SetFingerprint(fp)
	return img
}

func TestFingerprintIdenticalImages(t *testing.T) {
	red := color.RGBA{R: 255, A: 255}
	h1 := Fingerprint(uniformImage(red))
	h2 := Fingerprint(uniformImage(red))
	assert.Zero(t, HammingDistance(h1, h2))
}

func TestFingerprintDeterministic(t *testing.T) {
	img := gradientImage()
	first := Fingerprint(img)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Fingerprint(img))
	}
}

func TestFingerprintNil(t *testing.T) {
	assert.Zero(t, Fingerprint(nil))
}

func TestHammingDistanceSymmetric(t *testing.T) {
	tests := []struct {
		name string
		a, b uint64
		want int
	}{
		{name: "identical", a: 0xff00ff00, b: 0xff00ff00, want: 0},
		{name: "one bit", a: 0b1000, b: 0b0000, want: 1},
		{name: "all bits", a: 0, b: ^uint64(0), want: 64},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, HammingDistance(tc.a, tc.b))
			assert.Equal(t, HammingDistance(tc.a, tc.b), HammingDistance(tc.b, tc.a))
		})
	}
}

func TestMatchEqualAndInsert(t *testing.T) {
	// Scenario: one A image matches a B image at distance 0; a second B
	// image has no counterpart.
	imagesA := []model.Image{fpImage(0, 0xabcd)}
	imagesB := []model.Image{fpImage(0, 0xabcd), fpImage(0, ^uint64(0))}

	records := Match(0, imagesA, imagesB, Options{Threshold: 0.1})
	require.Len(t, records, 2)

	equal := records[0]
	assert.Equal(t, model.OpEqual, equal.Op)
	assert.Equal(t, 1.0, equal.Similarity)
	assert.Equal(t, 0, equal.Image.IndexA)
	assert.Equal(t, 0, equal.Image.IndexB)

	inserted := records[1]
	assert.Equal(t, model.OpInsert, inserted.Op)
	assert.Equal(t, -1, inserted.Image.IndexA)
	assert.Equal(t, 1, inserted.Image.IndexB)
	assert.Nil(t, inserted.A)
	require.NotNil(t, inserted.B)
}

func TestMatchReplaceSimilarity(t *testing.T) {
	imagesA := []model.Image{fpImage(0, 0b0011)}
	imagesB := []model.Image{fpImage(0, 0b0001)} // distance 1

	records := Match(0, imagesA, imagesB, Options{Threshold: 0.1})
	require.Len(t, records, 1)
	assert.Equal(t, model.OpReplace, records[0].Op)
	assert.Equal(t, 1, records[0].Image.Distance)
	assert.InDelta(t, 1-1.0/64, records[0].Similarity, 1e-9)
}

func TestMatchRejectsAboveThreshold(t *testing.T) {
	// Distance 10 exceeds the default cutoff of 6 bits (10% of 64).
	imagesA := []model.Image{fpImage(0, 0)}
	imagesB := []model.Image{fpImage(0, 0b1111111111)}

	records := Match(0, imagesA, imagesB, Options{Threshold: 0.1})
	require.Len(t, records, 2)
	assert.Equal(t, model.OpDelete, records[0].Op)
	assert.Equal(t, model.OpInsert, records[1].Op)
}

func TestMatchThresholdMonotonicity(t *testing.T) {
	// Raising the threshold can only turn Delete+Insert into Replace,
	// never the other way around.
	imagesA := []model.Image{fpImage(0, 0)}
	imagesB := []model.Image{fpImage(0, 0b1111111111)}

	strict := Match(0, imagesA, imagesB, Options{Threshold: 0.1})
	loose := Match(0, imagesA, imagesB, Options{Threshold: 0.2})

	assert.Len(t, strict, 2)
	require.Len(t, loose, 1)
	assert.Equal(t, model.OpReplace, loose[0].Op)
}

func TestMatchTieBreakByIndex(t *testing.T) {
	// Two A images at identical cost to the single B image: the lower
	// original index wins.
	imagesA := []model.Image{fpImage(0, 0x1), fpImage(0, 0x1)}
	imagesB := []model.Image{fpImage(0, 0x1)}

	records := Match(0, imagesA, imagesB, Options{Threshold: 0.1})
	require.Len(t, records, 2)
	assert.Equal(t, model.OpEqual, records[0].Op)
	assert.Equal(t, 0, records[0].Image.IndexA)
	assert.Equal(t, model.OpDelete, records[1].Op)
	assert.Equal(t, 1, records[1].Image.IndexA)
}

func TestMatchSymmetricRoles(t *testing.T) {
	// matching(A,B) and matching(B,A) pair the same images with
	// insert/delete roles swapped.
	setA := []model.Image{fpImage(0, 0x1), fpImage(0, ^uint64(0))}
	setB := []model.Image{fpImage(0, 0x1)}

	forward := Match(0, setA, setB, Options{Threshold: 0.1})
	backward := Match(0, setB, setA, Options{Threshold: 0.1})

	countOps := func(records []model.ChangeRecord) (equal, ins, del int) {
		for _, rec := range records {
			switch rec.Op {
			case model.OpEqual:
				equal++
			case model.OpInsert:
				ins++
			case model.OpDelete:
				del++
			}
		}
		return
	}

	fe, fi, fd := countOps(forward)
	be, bi, bd := countOps(backward)
	assert.Equal(t, fe, be)
	assert.Equal(t, fi, bd)
	assert.Equal(t, fd, bi)
}

func TestAssignEmpty(t *testing.T) {
	assert.Empty(t, Assign(nil, nil, 6))
	assert.Empty(t, Match(0, nil, nil, Options{Threshold: 0.1}))
}

func TestFingerprintMemoizedOnImage(t *testing.T) {
	img := model.Image{Pixels: gradientImage()}
	first := img.Fingerprint(Fingerprint)
	fp, ok := img.CachedFingerprint()
	require.True(t, ok)
	assert.Equal(t, first, fp)
}
