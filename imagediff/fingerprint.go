// Package imagediff computes perceptual fingerprints for embedded images
// and pairs images across two documents by minimum Hamming distance.
package imagediff

import (
	"image"
	"math"
	"math/bits"
	"sort"

	"github.com/disintegration/imaging"
)

// FingerprintBits is the fingerprint width in bits.
const FingerprintBits = 64

// hashSize is the edge length of the DCT block kept for the hash; the
// image is reduced to hashSize*4 first so the block holds the lowest
// frequencies.
const hashSize = 8

// Fingerprint computes a 64-bit perceptual hash of an image: grayscale,
// resize to 32x32, 2-D DCT, then one bit per low-frequency coefficient
// above the block median. Visually similar images hash to nearby values;
// a nil image hashes to zero.
func Fingerprint(img image.Image) uint64 {
	if img == nil {
		return 0
	}
	small := imaging.Resize(imaging.Grayscale(img), hashSize*4, hashSize*4, imaging.Lanczos)

	n := hashSize * 4
	values := make([][]float64, n)
	for y := 0; y < n; y++ {
		values[y] = make([]float64, n)
		for x := 0; x < n; x++ {
			// Grayscale output has R == G == B.
			values[y][x] = float64(small.NRGBAAt(x, y).R)
		}
	}
	freq := dct2d(values)

	block := make([]float64, 0, hashSize*hashSize)
	for y := 0; y < hashSize; y++ {
		for x := 0; x < hashSize; x++ {
			block = append(block, freq[y][x])
		}
	}
	med := median(block)

	var fp uint64
	for y := 0; y < hashSize; y++ {
		for x := 0; x < hashSize; x++ {
			if freq[y][x] > med {
				fp |= 1 << uint(y*hashSize+x)
			}
		}
	}
	return fp
}

// HammingDistance counts differing bits between two fingerprints.
func HammingDistance(a, b uint64) int {
	return bits.OnesCount64(a ^ b)
}

func dct1d(in []float64) []float64 {
	n := len(in)
	out := make([]float64, n)
	for k := 0; k < n; k++ {
		var sum float64
		for i := 0; i < n; i++ {
			sum += in[i] * math.Cos(math.Pi*float64(k)*(2*float64(i)+1)/(2*float64(n)))
		}
		out[k] = sum
	}
	return out
}

func dct2d(values [][]float64) [][]float64 {
	n := len(values)
	rows := make([][]float64, n)
	for y := 0; y < n; y++ {
		rows[y] = dct1d(values[y])
	}
	out := make([][]float64, n)
	for y := 0; y < n; y++ {
		out[y] = make([]float64, n)
	}
	col := make([]float64, n)
	for x := 0; x < n; x++ {
		for y := 0; y < n; y++ {
			col[y] = rows[y][x]
		}
		for y, v := range dct1d(col) {
			out[y][x] = v
		}
	}
	return out
}

func median(values []float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}
