package patterns

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// libraryFile is the persisted on-disk record.
type libraryFile struct {
	Patterns    []*Pattern `json:"patterns"`
	LastUpdated time.Time  `json:"lastUpdated"`
}

// UsageEntry is one row of the top-used list in Stats.
type UsageEntry struct {
	ID         string `json:"id"`
	Domain     string `json:"domain"`
	UsageCount int    `json:"usage_count"`
}

// LibraryStats holds aggregate library statistics.
type LibraryStats struct {
	TotalPatterns int          `json:"total_patterns"`
	TotalUsage    int          `json:"total_usage"`
	TopUsed       []UsageEntry `json:"top_used"`
	Domains       []string     `json:"domains"`
}

// Library is the pattern store. Durability is best-effort, not transactional:
// every mutation rewrites the whole file synchronously, and a write failure
// is logged but never surfaced to the caller. Initialization cannot fail:
// an unreadable or malformed file falls back to the seed set, which is then
// persisted immediately.
type Library struct {
	mu       sync.Mutex
	path     string
	patterns []*Pattern // insertion order
	byID     map[string]*Pattern
	logger   *zap.Logger
	now      func() time.Time
}

// NewLibrary opens (or creates) the library persisted at path. A nil logger
// is replaced with a nop logger.
func NewLibrary(path string, logger *zap.Logger) (*Library, error) {
	if path == "" {
		return nil, fmt.Errorf("library path cannot be empty")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	l := &Library{
		path:   path,
		byID:   make(map[string]*Pattern),
		logger: logger,
		now:    time.Now,
	}
	l.load()
	return l, nil
}

// load reads the persisted record, falling back to the seed set on any
// failure. Called once from NewLibrary.
func (l *Library) load() {
	data, err := os.ReadFile(l.path)
	if err == nil {
		var file libraryFile
		if jsonErr := json.Unmarshal(data, &file); jsonErr == nil && len(file.Patterns) > 0 {
			for _, p := range file.Patterns {
				l.patterns = append(l.patterns, p)
				l.byID[p.ID] = p
			}
			l.logger.Debug("pattern library loaded",
				zap.String("path", l.path),
				zap.Int("patterns", len(l.patterns)))
			return
		}
		err = fmt.Errorf("parsing %s: invalid or empty library file", l.path)
	}

	l.logger.Info("seeding pattern library",
		zap.String("path", l.path),
		zap.Error(err))

	for _, p := range seedPatterns(l.now()) {
		l.patterns = append(l.patterns, p)
		l.byID[p.ID] = p
	}
	l.persistLocked()
}

// persistLocked rewrites the backing file. The write is atomic at the file
// level: content goes to a temp file in the same directory, then renames over
// the target, so a crash cannot leave a torn record. Failures are logged and
// swallowed. Caller must hold l.mu (or be the constructor).
func (l *Library) persistLocked() {
	file := libraryFile{
		Patterns:    l.patterns,
		LastUpdated: l.now(),
	}

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		l.logger.Error("failed to encode pattern library", zap.Error(err))
		return
	}

	dir := filepath.Dir(l.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		l.logger.Error("failed to create library directory",
			zap.String("dir", dir), zap.Error(err))
		return
	}

	tmp, err := os.CreateTemp(dir, ".patterns-*.json")
	if err != nil {
		l.logger.Error("failed to create temp library file", zap.Error(err))
		return
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		l.logger.Error("failed to write pattern library", zap.Error(err))
		return
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		l.logger.Error("failed to close temp library file", zap.Error(err))
		return
	}
	if err := os.Rename(tmpName, l.path); err != nil {
		os.Remove(tmpName)
		l.logger.Error("failed to replace pattern library file",
			zap.String("path", l.path), zap.Error(err))
		return
	}
}

// GetAll returns a copy of every pattern in insertion order.
func (l *Library) GetAll() []Pattern {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.copyLocked(l.patterns)
}

// Get returns the pattern by id. The second return is false on a miss; a
// miss is not an error.
func (l *Library) Get(id string) (Pattern, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	p, ok := l.byID[id]
	if !ok {
		return Pattern{}, false
	}
	return *p, true
}

// GetByDomain returns patterns whose source domain contains the given
// substring (case-insensitive).
func (l *Library) GetByDomain(domain string) []Pattern {
	l.mu.Lock()
	defer l.mu.Unlock()

	needle := strings.ToLower(domain)
	var hits []*Pattern
	for _, p := range l.patterns {
		if strings.Contains(strings.ToLower(p.SourceDomain), needle) {
			hits = append(hits, p)
		}
	}
	return l.copyLocked(hits)
}

// Search returns patterns whose domain, structure, features, or problems
// contain the keyword (case-insensitive substring, union of hits, unranked).
func (l *Library) Search(keyword string) []Pattern {
	l.mu.Lock()
	defer l.mu.Unlock()

	needle := strings.ToLower(keyword)
	var hits []*Pattern
	for _, p := range l.patterns {
		if strings.Contains(p.SearchText(), needle) {
			hits = append(hits, p)
		}
	}
	return l.copyLocked(hits)
}

// Add stores a new pattern and persists the library. The id is derived from
// the source domain and creation time; UsageCount starts at zero.
func (l *Library) Add(p Pattern) (Pattern, error) {
	if err := p.Validate(); err != nil {
		return Pattern{}, fmt.Errorf("validating pattern: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	p.Created = l.now()
	p.ID = newID(p.SourceDomain, p.Created)
	// Two adds for the same domain within one millisecond would collide;
	// suffix a counter until the id is free.
	for n := 2; l.byID[p.ID] != nil; n++ {
		p.ID = fmt.Sprintf("%s_%d", newID(p.SourceDomain, p.Created), n)
	}
	p.UsageCount = 0

	stored := p
	l.patterns = append(l.patterns, &stored)
	l.byID[stored.ID] = &stored
	l.persistLocked()

	l.logger.Info("pattern added",
		zap.String("id", stored.ID),
		zap.String("domain", stored.SourceDomain))

	return stored, nil
}

// Strengthen increments the pattern's usage count and persists. Returns the
// new usage count and whether the id was known; an unknown id is a no-op.
func (l *Library) Strengthen(id string) (int, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	p, ok := l.byID[id]
	if !ok {
		return 0, false
	}
	p.UsageCount++
	l.persistLocked()

	l.logger.Debug("pattern reinforced",
		zap.String("id", id),
		zap.Int("usage_count", p.UsageCount))

	return p.UsageCount, true
}

// Stats returns the pattern total, the five most-used patterns, and the
// distinct domain list.
func (l *Library) Stats() LibraryStats {
	l.mu.Lock()
	defer l.mu.Unlock()

	stats := LibraryStats{TotalPatterns: len(l.patterns)}
	for _, p := range l.patterns {
		stats.TotalUsage += p.UsageCount
	}

	seen := make(map[string]bool)
	byUsage := make([]*Pattern, len(l.patterns))
	copy(byUsage, l.patterns)
	sort.SliceStable(byUsage, func(i, j int) bool {
		return byUsage[i].UsageCount > byUsage[j].UsageCount
	})
	for i, p := range byUsage {
		if i >= 5 {
			break
		}
		stats.TopUsed = append(stats.TopUsed, UsageEntry{
			ID:         p.ID,
			Domain:     p.SourceDomain,
			UsageCount: p.UsageCount,
		})
	}
	for _, p := range l.patterns {
		if !seen[p.SourceDomain] {
			seen[p.SourceDomain] = true
			stats.Domains = append(stats.Domains, p.SourceDomain)
		}
	}
	return stats
}

// copyLocked returns value copies so callers cannot mutate store state.
func (l *Library) copyLocked(src []*Pattern) []Pattern {
	out := make([]Pattern, 0, len(src))
	for _, p := range src {
		out = append(out, *p)
	}
	return out
}
