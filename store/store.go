package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"ramesh-admin/models"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Keys persisted by the dashboard shell.
const (
	keyAccessToken      = "accessToken"
	keyRefreshToken     = "refreshToken"
	keyUser             = "user"
	keyFeaturedItems    = "featured_items"
	keyFeaturedLimits   = "featured_limits"
	keyFeaturedCachedAt = "featured_cache_timestamp"
	keySKUHistory       = "sku_search_history"
	keyCopyProduct      = "copyProductData"
)

// FeaturedCacheTTL is how long the featured-items cache stays valid. The
// cache is invalidated by elapsed time only, never by a server version.
const FeaturedCacheTTL = 30 * time.Minute

// SKUHistoryLimit bounds the persisted SKU search history.
const SKUHistoryLimit = 10

// Store is the persisted client state. Values live in memory behind a mutex
// and, when a path is configured, are written through to a JSON file.
type Store struct {
	mu     sync.RWMutex
	path   string
	values map[string]json.RawMessage
	log    *logrus.Entry

	// now is swappable for cache TTL tests.
	now func() time.Time
}

// New opens the store at path, loading existing state if present. An empty
// path keeps the store memory-only.
func New(path string) (*Store, error) {
	s := &Store{
		path:   path,
		values: make(map[string]json.RawMessage),
		log:    logrus.WithField("component", "store"),
		now:    time.Now,
	}
	if path == "" {
		return s, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, &s.values); err != nil {
		// Corrupt state file: start over rather than refuse to boot.
		s.log.WithError(err).Warn("state file corrupt, resetting")
		s.values = make(map[string]json.RawMessage)
	}
	return s, nil
}

// Set marshals v under key and persists.
func (s *Store) Set(key string, v interface{}) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = b
	return s.flushLocked()
}

// Get unmarshals the value under key into v. It reports whether the key was
// present and decodable.
func (s *Store) Get(key string, v interface{}) bool {
	s.mu.RLock()
	raw, ok := s.values[key]
	s.mu.RUnlock()
	if !ok {
		return false
	}
	return json.Unmarshal(raw, v) == nil
}

// Delete removes keys and persists.
func (s *Store) Delete(keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.values, k)
	}
	return s.flushLocked()
}

func (s *Store) flushLocked() error {
	if s.path == "" {
		return nil
	}
	b, err := json.MarshalIndent(s.values, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(s.path, b, 0o600)
}

// ---- session state ----

// SetTokens persists the bearer token pair. Implements api.TokenStore.
func (s *Store) SetTokens(access, refresh string) error {
	if err := s.Set(keyAccessToken, access); err != nil {
		return err
	}
	return s.Set(keyRefreshToken, refresh)
}

// AccessToken returns the persisted access token, if any.
func (s *Store) AccessToken() string {
	var t string
	s.Get(keyAccessToken, &t)
	return t
}

// RefreshToken returns the persisted refresh token, if any.
func (s *Store) RefreshToken() string {
	var t string
	s.Get(keyRefreshToken, &t)
	return t
}

// SaveUser persists the logged-in admin.
func (s *Store) SaveUser(u *models.Admin) error {
	return s.Set(keyUser, u)
}

// LoadUser returns the persisted admin, or nil when absent or corrupt.
func (s *Store) LoadUser() *models.Admin {
	var u models.Admin
	if !s.Get(keyUser, &u) || u.ID == uuid.Nil {
		return nil
	}
	return &u
}

// ClearSession removes tokens and user in one step.
func (s *Store) ClearSession() error {
	return s.Delete(keyAccessToken, keyRefreshToken, keyUser)
}

// ---- featured-items cache ----

// SaveFeaturedCache stores all partitions plus the limits record with the
// current timestamp.
func (s *Store) SaveFeaturedCache(items map[models.DisplayType][]models.FeaturedItem, limits models.FeaturedLimits) error {
	if err := s.Set(keyFeaturedItems, items); err != nil {
		return err
	}
	if err := s.Set(keyFeaturedLimits, limits); err != nil {
		return err
	}
	return s.Set(keyFeaturedCachedAt, s.now().UnixMilli())
}

// LoadFeaturedCache returns the cached partitions and limits when the cache
// is younger than FeaturedCacheTTL.
func (s *Store) LoadFeaturedCache() (map[models.DisplayType][]models.FeaturedItem, models.FeaturedLimits, bool) {
	var stamp int64
	if !s.Get(keyFeaturedCachedAt, &stamp) {
		return nil, models.FeaturedLimits{}, false
	}
	if s.now().Sub(time.UnixMilli(stamp)) > FeaturedCacheTTL {
		return nil, models.FeaturedLimits{}, false
	}
	var items map[models.DisplayType][]models.FeaturedItem
	var limits models.FeaturedLimits
	if !s.Get(keyFeaturedItems, &items) || !s.Get(keyFeaturedLimits, &limits) {
		return nil, models.FeaturedLimits{}, false
	}
	return items, limits, true
}

// InvalidateFeaturedCache drops the cached partitions.
func (s *Store) InvalidateFeaturedCache() error {
	return s.Delete(keyFeaturedItems, keyFeaturedLimits, keyFeaturedCachedAt)
}

// ---- SKU search history ----

// AddSKUSearch prepends a SKU to the search history, deduplicating and
// keeping at most SKUHistoryLimit entries.
func (s *Store) AddSKUSearch(sku string) error {
	if sku == "" {
		return nil
	}
	history := s.SKUSearchHistory()
	next := make([]string, 0, len(history)+1)
	next = append(next, sku)
	for _, h := range history {
		if h != sku {
			next = append(next, h)
		}
	}
	if len(next) > SKUHistoryLimit {
		next = next[:SKUHistoryLimit]
	}
	return s.Set(keySKUHistory, next)
}

// SKUSearchHistory returns the persisted history, most recent first.
func (s *Store) SKUSearchHistory() []string {
	var history []string
	s.Get(keySKUHistory, &history)
	return history
}

// ---- copy-product transfer ----

// SetCopyProductData stages a product payload used to pre-fill the creation
// form when duplicating a product.
func (s *Store) SetCopyProductData(v interface{}) error {
	return s.Set(keyCopyProduct, v)
}

// TakeCopyProductData reads and clears the staged payload (one-shot).
func (s *Store) TakeCopyProductData(v interface{}) bool {
	ok := s.Get(keyCopyProduct, v)
	if ok {
		s.Delete(keyCopyProduct)
	}
	return ok
}
