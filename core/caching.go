package core

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"

	"github.com/huangsam/coredev/internal/contract"
)

// currentCacheVersion defines the version of the cache schema
const currentCacheVersion = 1

// loginCacheTTL bounds how long a cached login is trusted.
const loginCacheTTL = 30 * 24 * time.Hour

// loginEntry is the cached value of one commit lookup.
type loginEntry struct {
	Login string `json:"login"`
}

// cachedLoginResolver answers login lookups from the login cache and
// falls through to the hosting service on a miss.
type cachedLoginResolver struct {
	next  contract.LoginResolver
	store contract.CacheStore
	repo  string
}

var _ contract.LoginResolver = &cachedLoginResolver{} // Compile-time check

// newCachedLoginResolver wraps next with the login cache. Without a store
// the resolver is returned unchanged.
func newCachedLoginResolver(next contract.LoginResolver, store contract.CacheStore, repo string) contract.LoginResolver {
	if next == nil || store == nil {
		return next
	}
	return &cachedLoginResolver{next: next, store: store, repo: repo}
}

// ResolveLogin implements the LoginResolver interface.
func (r *cachedLoginResolver) ResolveLogin(ctx context.Context, sha string) (string, error) {
	key := generateCacheKey(r.repo, sha)

	// Check for cache hit
	if login, ok := checkCacheHit(r.store, key); ok {
		return login, nil
	}

	// Cache miss: compute and store
	login, err := r.next.ResolveLogin(ctx, sha)
	if err != nil {
		return "", err
	}
	if data, err := json.Marshal(loginEntry{Login: login}); err == nil {
		_ = r.store.Set(key, data, currentCacheVersion, time.Now().Unix())
	}
	return login, nil
}

// checkCacheHit attempts to retrieve and validate a cached login
func checkCacheHit(store contract.CacheStore, key string) (string, bool) {
	data, version, ts, err := store.Get(key)
	if err != nil {
		return "", false // Cache miss
	}

	// Validate version and staleness
	if version != currentCacheVersion || time.Since(time.Unix(ts, 0)) > loginCacheTTL {
		return "", false
	}
	var entry loginEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return "", false
	}
	return entry.Login, true
}

// generateCacheKey creates a unique key for a commit of a repository
func generateCacheKey(repo, sha string) string {
	key := fmt.Sprintf("login:%s:%s", repo, sha)
	return fmt.Sprintf("%x", sha256.Sum256([]byte(key)))
}
