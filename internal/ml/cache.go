package ml

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"math"
	"sync"
	"sync/atomic"
	"time"

	cache "github.com/patrickmn/go-cache"
)

// CacheKey identifies a prediction by feature vector and model version.
type CacheKey struct {
	FeatureHash  string
	ModelVersion string
}

// String returns string representation of cache key
func (k CacheKey) String() string {
	return k.ModelVersion + ":" + k.FeatureHash
}

// NewCacheKey hashes an aligned feature vector.
func NewCacheKey(vector []float64, modelVersion string) CacheKey {
	h := sha256.New()
	var buf [8]byte
	for _, v := range vector {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
		h.Write(buf[:])
	}
	return CacheKey{FeatureHash: hex.EncodeToString(h.Sum(nil)[:16]), ModelVersion: modelVersion}
}

// PredictionCache provides in-memory caching for classifier vectors
type PredictionCache struct {
	cache     *cache.Cache
	ttl       time.Duration
	maxSize   int
	mu        sync.Mutex
	hitCount  atomic.Uint64
	missCount atomic.Uint64
}

// NewPredictionCache creates a new prediction cache
func NewPredictionCache(ttl time.Duration, maxSize int) *PredictionCache {
	return &PredictionCache{
		cache:   cache.New(ttl, ttl*2),
		ttl:     ttl,
		maxSize: maxSize,
	}
}

// Get retrieves a cached vector. The returned slice is a copy.
func (pc *PredictionCache) Get(key CacheKey) ([]float64, bool) {
	if v, found := pc.cache.Get(key.String()); found {
		if probs, ok := v.([]float64); ok {
			pc.hitCount.Add(1)
			pc.updateMetrics()
			return append([]float64(nil), probs...), true
		}
	}
	pc.missCount.Add(1)
	pc.updateMetrics()
	return nil, false
}

// Set stores a vector in cache
func (pc *PredictionCache) Set(key CacheKey, probs []float64) {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	if pc.maxSize > 0 && pc.cache.ItemCount() >= pc.maxSize {
		pc.cache.DeleteExpired()
		if pc.cache.ItemCount() >= pc.maxSize {
			return
		}
	}
	pc.cache.Set(key.String(), append([]float64(nil), probs...), pc.ttl)
}

// Clear flushes the entire cache
func (pc *PredictionCache) Clear() {
	pc.cache.Flush()
	pc.hitCount.Store(0)
	pc.missCount.Store(0)
}

// Stats returns cache statistics
func (pc *PredictionCache) Stats() (hits, misses uint64, ratio float64) {
	hits = pc.hitCount.Load()
	misses = pc.missCount.Load()
	if total := hits + misses; total > 0 {
		ratio = float64(hits) / float64(total)
	}
	return
}

func (pc *PredictionCache) updateMetrics() {
	_, _, ratio := pc.Stats()
	ClassifierCacheHitRatio.Set(ratio)
}

// ItemCount returns the number of items in cache
func (pc *PredictionCache) ItemCount() int {
	return pc.cache.ItemCount()
}
