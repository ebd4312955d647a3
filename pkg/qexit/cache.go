package qexit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/quatton/qstage/pkg/kv"
)

// Result is what a completed run recorded for a manifest fingerprint.
type Result struct {
	Fingerprint string    `json:"fingerprint"`
	RunID       string    `json:"run_id"`
	Listing     []string  `json:"listing"`
	FinishedAt  time.Time `json:"finished_at"`
}

// Cache maps manifest fingerprints to the runs that produced them.
type Cache struct {
	store kv.Store
	ttl   time.Duration
}

// NewCache creates a Cache. A zero ttl keeps entries until invalidated.
func NewCache(store kv.Store, ttl time.Duration) *Cache {
	return &Cache{store: store, ttl: ttl}
}

func resultKey(fingerprint string) string {
	return "results/" + fingerprint
}

func claimKey(fingerprint string) string {
	return "claims/" + fingerprint
}

// Claim marks fingerprint as being run by runID. It returns false when another
// run already holds the claim.
func (c *Cache) Claim(ctx context.Context, fingerprint, runID string, ttl time.Duration) (bool, error) {
	ok, err := c.store.SetNX(ctx, claimKey(fingerprint), []byte(runID), ttl)
	if err != nil {
		return false, fmt.Errorf("claim %s: %w", fingerprint, err)
	}
	return ok, nil
}

// Put records a successful result and releases any claim.
func (c *Cache) Put(ctx context.Context, r Result) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	if err := c.store.Set(ctx, resultKey(r.Fingerprint), data, c.ttl); err != nil {
		return fmt.Errorf("store result %s: %w", r.Fingerprint, err)
	}
	return c.store.Delete(ctx, claimKey(r.Fingerprint))
}

// Get returns the cached result for fingerprint, or nil when there is none.
func (c *Cache) Get(ctx context.Context, fingerprint string) (*Result, error) {
	data, err := c.store.Get(ctx, resultKey(fingerprint))
	if errors.Is(err, kv.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load result %s: %w", fingerprint, err)
	}
	var r Result
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decode result %s: %w", fingerprint, err)
	}
	return &r, nil
}

// Report applies a failed run to the cache. When the failure carries an exit
// code that invalidates the cache, the cached result is dropped. The claim is
// always released. It reports whether the result was dropped.
func (c *Cache) Report(ctx context.Context, fingerprint string, failure error) (bool, error) {
	if err := c.store.Delete(ctx, claimKey(fingerprint)); err != nil {
		return false, fmt.Errorf("release claim %s: %w", fingerprint, err)
	}
	code, ok := FromError(failure)
	if !ok || !code.InvalidatesCache {
		return false, nil
	}
	if err := c.store.Delete(ctx, resultKey(fingerprint)); err != nil {
		return false, fmt.Errorf("invalidate %s: %w", fingerprint, err)
	}
	return true, nil
}
