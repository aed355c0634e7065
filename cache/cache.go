// Package cache provides an optional persistent store for image
// fingerprints, keyed by a hash of the raw pixel content. Warming a
// document through the store lets repeated comparisons of the same files
// skip fingerprint computation. The engine itself never touches the
// store.
package cache

import (
	"crypto/sha1"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"image"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"docdiff/imagediff"
	"docdiff/model"
)

// FingerprintEntry is the schema of the fingerprints table.
type FingerprintEntry struct {
	ID          uint   `gorm:"primaryKey"`
	ContentHash string `gorm:"size:40;uniqueIndex;not null"` // SHA-1 of pixel content
	Bits        int64  `gorm:"not null"`                     // fingerprint, bit-cast
}

// Store is a SQLite-backed fingerprint cache.
type Store struct {
	db *gorm.DB
}

// Open opens (or creates) the store at path and migrates the schema.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening fingerprint store %s: %w", path, err)
	}
	if err := db.AutoMigrate(&FingerprintEntry{}); err != nil {
		return nil, fmt.Errorf("migrating fingerprint store schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Lookup returns the stored fingerprint for a content hash.
func (s *Store) Lookup(contentHash string) (uint64, bool, error) {
	var entry FingerprintEntry
	err := s.db.Where("content_hash = ?", contentHash).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return uint64(entry.Bits), true, nil
}

// Put stores the fingerprint for a content hash.
func (s *Store) Put(contentHash string, fp uint64) error {
	entry := FingerprintEntry{ContentHash: contentHash, Bits: int64(fp)}
	return s.db.Create(&entry).Error
}

// Warm seeds cached fingerprints onto every image of the document and
// stores fingerprints for images it has not seen before. Call before
// handing the document to the engine.
func (s *Store) Warm(doc *model.Document) error {
	for p := range doc.Pages {
		for i := range doc.Pages[p].Images {
			img := &doc.Pages[p].Images[i]
			if _, ok := img.CachedFingerprint(); ok {
				continue
			}
			if img.Pixels == nil {
				continue
			}
			hash := ContentHash(img.Pixels)
			fp, found, err := s.Lookup(hash)
			if err != nil {
				return fmt.Errorf("fingerprint lookup for page %d image %d: %w", p, i, err)
			}
			if found {
				img.SetFingerprint(fp)
				continue
			}
			fp = img.Fingerprint(imagediff.Fingerprint)
			if err := s.Put(hash, fp); err != nil {
				return fmt.Errorf("storing fingerprint for page %d image %d: %w", p, i, err)
			}
		}
	}
	return nil
}

// ContentHash returns the SHA-1 hex digest of an image's dimensions and
// raw pixel samples. Identical pixel content hashes identically
// regardless of the in-memory image representation.
func ContentHash(img image.Image) string {
	h := sha1.New()
	bounds := img.Bounds()

	var dims [16]byte
	binary.BigEndian.PutUint64(dims[:8], uint64(int64(bounds.Dx())))
	binary.BigEndian.PutUint64(dims[8:], uint64(int64(bounds.Dy())))
	h.Write(dims[:])

	var px [8]byte
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, a := img.At(x, y).RGBA()
			binary.BigEndian.PutUint16(px[0:], uint16(r))
			binary.BigEndian.PutUint16(px[2:], uint16(g))
			binary.BigEndian.PutUint16(px[4:], uint16(b))
			binary.BigEndian.PutUint16(px[6:], uint16(a))
			h.Write(px[:])
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}
