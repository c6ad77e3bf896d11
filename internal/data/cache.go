package data

import (
	"errors"
	"time"

	"battery-savings/internal/model"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// ErrUploadNotFound is returned for unknown or expired upload IDs.
var ErrUploadNotFound = errors.New("upload not found or expired")

// Upload is an aggregated meter series kept between the upload and the
// analysis request.
type Upload struct {
	ID        string
	Filename  string
	Series    []model.QuarterRecord
	Skipped   int
	CreatedAt time.Time
	ExpiresAt time.Time
}

// UploadCache holds parsed uploads in memory for a fixed TTL.
// Entries are never written to disk and are lost on restart.
type UploadCache struct {
	store *cache.Cache
	ttl   time.Duration
}

// NewUploadCache creates a cache whose entries expire after ttl.
func NewUploadCache(ttl time.Duration) *UploadCache {
	return &UploadCache{
		store: cache.New(ttl, 2*ttl),
		ttl:   ttl,
	}
}

// Put stores an upload under a fresh ID and returns the stored entry.
func (c *UploadCache) Put(filename string, series []model.QuarterRecord, skipped int) *Upload {
	now := time.Now()
	u := &Upload{
		ID:        uuid.NewString(),
		Filename:  filename,
		Series:    series,
		Skipped:   skipped,
		CreatedAt: now,
		ExpiresAt: now.Add(c.ttl),
	}
	c.store.Set(u.ID, u, cache.DefaultExpiration)
	return u
}

// Get returns the upload with the given ID.
func (c *UploadCache) Get(id string) (*Upload, error) {
	v, ok := c.store.Get(id)
	if !ok {
		return nil, ErrUploadNotFound
	}
	return v.(*Upload), nil
}

// Delete drops an upload; unknown IDs are ignored.
func (c *UploadCache) Delete(id string) {
	c.store.Delete(id)
}

// Len is the number of entries, including expired ones not yet evicted.
func (c *UploadCache) Len() int {
	return c.store.ItemCount()
}
