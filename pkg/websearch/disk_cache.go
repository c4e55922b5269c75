package websearch

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

type cacheFile struct {
	Query     string   `json:"query"`
	Params    Params   `json:"params"`
	Timestamp string   `json:"timestamp"`
	Results   []Result `json:"results"`
}

// DiskCache keeps one JSON file per (query, params) key.
type DiskCache struct {
	dir    string
	maxAge time.Duration
	now    func() time.Time
}

func NewDiskCache(dir string, maxAge time.Duration) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create search cache dir: %w", err)
	}
	if maxAge <= 0 {
		maxAge = 24 * time.Hour
	}
	return &DiskCache{dir: dir, maxAge: maxAge, now: time.Now}, nil
}

func (d *DiskCache) WithClock(now func() time.Time) *DiskCache {
	d.now = now
	return d
}

func cacheKey(query string, p Params) string {
	params, _ := json.Marshal(p)
	sum := md5.Sum([]byte(query + "|" + string(params)))
	return hex.EncodeToString(sum[:])
}

func (d *DiskCache) path(query string, p Params) string {
	return filepath.Join(d.dir, cacheKey(query, p)+".json")
}

// Get returns cached results younger than maxAge. Unreadable files count as misses.
func (d *DiskCache) Get(query string, p Params) ([]Result, bool) {
	data, err := os.ReadFile(d.path(query, p))
	if err != nil {
		return nil, false
	}
	var f cacheFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, false
	}
	ts, err := time.Parse(time.RFC3339, f.Timestamp)
	if err != nil || d.now().Sub(ts) > d.maxAge {
		return nil, false
	}
	return f.Results, true
}

func (d *DiskCache) Set(query string, p Params, results []Result) error {
	data, err := json.MarshalIndent(cacheFile{
		Query:     query,
		Params:    p,
		Timestamp: d.now().UTC().Format(time.RFC3339),
		Results:   results,
	}, "", "  ")
	if err != nil {
		return err
	}
	tmp := d.path(query, p) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, d.path(query, p))
}
