package patterns

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLibrary(t *testing.T) (*Library, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "patterns.json")
	lib, err := NewLibrary(path, nil)
	require.NoError(t, err)
	return lib, path
}

func TestNewLibrarySeedsWhenFileMissing(t *testing.T) {
	lib, path := newTestLibrary(t)

	all := lib.GetAll()
	require.NotEmpty(t, all)

	// Seed must include the kitchen pattern with zero usage.
	p, ok := lib.Get("restaurant_kitchen")
	require.True(t, ok)
	assert.Equal(t, "restaurant_kitchen", p.SourceDomain)
	assert.Equal(t, 0, p.UsageCount)

	// Seeding persists immediately.
	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestNewLibrarySeedsOnMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patterns.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	lib, err := NewLibrary(path, nil)
	require.NoError(t, err, "initialization must never fail")
	assert.NotEmpty(t, lib.GetAll())
}

func TestNewLibraryRejectsEmptyPath(t *testing.T) {
	_, err := NewLibrary("", nil)
	assert.Error(t, err)
}

func TestRoundTripPreservesPatterns(t *testing.T) {
	lib, path := newTestLibrary(t)

	_, ok := lib.Strengthen("restaurant_kitchen")
	require.True(t, ok)
	_, ok = lib.Strengthen("restaurant_kitchen")
	require.True(t, ok)

	added, err := lib.Add(Pattern{
		SourceDomain:      "beehive_division_of_labor",
		AbstractStructure: "Roles shift with colony need: workers change jobs based on age and demand signals.",
		KeyFeatures:       []string{"Role allocation follows demand"},
	})
	require.NoError(t, err)

	reloaded, err := NewLibrary(path, nil)
	require.NoError(t, err)

	orig := lib.GetAll()
	got := reloaded.GetAll()
	require.Len(t, got, len(orig))
	for i := range orig {
		assert.Equal(t, orig[i].ID, got[i].ID)
		assert.Equal(t, orig[i].UsageCount, got[i].UsageCount)
	}

	kitchen, ok := reloaded.Get("restaurant_kitchen")
	require.True(t, ok)
	assert.Equal(t, 2, kitchen.UsageCount, "usage counts survive reload without re-seeding")

	_, ok = reloaded.Get(added.ID)
	assert.True(t, ok)
}

func TestAddSlugifiesIDAndZeroesUsage(t *testing.T) {
	lib, _ := newTestLibrary(t)

	p, err := lib.Add(Pattern{
		SourceDomain:      "Air Traffic Control",
		AbstractStructure: "A central controller sequences shared-resource access among autonomous vehicles.",
		UsageCount:        99, // must be reset
	})
	require.NoError(t, err)
	assert.Contains(t, p.ID, "air_traffic_control")
	assert.Equal(t, 0, p.UsageCount)
	assert.False(t, p.Created.IsZero())
}

func TestAddDisambiguatesSameMillisecondIDs(t *testing.T) {
	lib, _ := newTestLibrary(t)

	// Pin the clock so both adds derive the same base id.
	fixed := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	lib.now = func() time.Time { return fixed }

	first, err := lib.Add(Pattern{
		SourceDomain:      "air_traffic_control",
		AbstractStructure: "A central controller sequences shared-resource access.",
	})
	require.NoError(t, err)

	second, err := lib.Add(Pattern{
		SourceDomain:      "air_traffic_control",
		AbstractStructure: "Vehicles hold in stacked layers until cleared.",
	})
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)

	got, ok := lib.Get(second.ID)
	require.True(t, ok)
	assert.Equal(t, "Vehicles hold in stacked layers until cleared.", got.AbstractStructure)

	got, ok = lib.Get(first.ID)
	require.True(t, ok)
	assert.Equal(t, "A central controller sequences shared-resource access.", got.AbstractStructure)
}

func TestAddValidation(t *testing.T) {
	lib, _ := newTestLibrary(t)

	_, err := lib.Add(Pattern{AbstractStructure: "structure only"})
	assert.ErrorIs(t, err, ErrEmptyDomain)

	_, err = lib.Add(Pattern{SourceDomain: "domain only"})
	assert.ErrorIs(t, err, ErrEmptyStructure)
}

func TestStrengthenUnknownIDIsNoOp(t *testing.T) {
	lib, _ := newTestLibrary(t)

	count, ok := lib.Strengthen("does_not_exist")
	assert.False(t, ok)
	assert.Zero(t, count)
}

func TestStrengthenIncrementsUsage(t *testing.T) {
	lib, _ := newTestLibrary(t)

	p, ok := lib.Get("ant_colony_foraging")
	require.True(t, ok)
	before := p.UsageCount

	count, ok := lib.Strengthen("ant_colony_foraging")
	require.True(t, ok)
	assert.Equal(t, before+1, count)
}

func TestGetByDomain(t *testing.T) {
	lib, _ := newTestLibrary(t)

	hits := lib.GetByDomain("kitchen")
	require.Len(t, hits, 1)
	assert.Equal(t, "restaurant_kitchen", hits[0].ID)

	assert.Empty(t, lib.GetByDomain("submarine"))
}

func TestSearchMatchesAcrossFields(t *testing.T) {
	lib, _ := newTestLibrary(t)

	// "Claim" appears in the kitchen's key features.
	hits := lib.Search("CLAIM")
	require.NotEmpty(t, hits)
	found := false
	for _, p := range hits {
		if p.ID == "restaurant_kitchen" {
			found = true
		}
	}
	assert.True(t, found)

	// "triage" style match on domain name.
	hits = lib.Search("triage")
	require.Len(t, hits, 1)
	assert.Equal(t, "hospital_triage", hits[0].ID)

	assert.Empty(t, lib.Search("zzzzzz"))
}

func TestStats(t *testing.T) {
	lib, _ := newTestLibrary(t)

	lib.Strengthen("hospital_triage")
	lib.Strengthen("hospital_triage")
	lib.Strengthen("postal_routing")

	stats := lib.Stats()
	assert.Equal(t, len(lib.GetAll()), stats.TotalPatterns)
	assert.Equal(t, 3, stats.TotalUsage)
	require.NotEmpty(t, stats.TopUsed)
	assert.Equal(t, "hospital_triage", stats.TopUsed[0].ID)
	assert.Equal(t, 2, stats.TopUsed[0].UsageCount)
	assert.LessOrEqual(t, len(stats.TopUsed), 5)
	assert.Contains(t, stats.Domains, "restaurant_kitchen")
}

func TestPersistedFileIsWholeDocument(t *testing.T) {
	lib, path := newTestLibrary(t)
	lib.Strengthen("restaurant_kitchen")

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var file struct {
		Patterns    []Pattern `json:"patterns"`
		LastUpdated string    `json:"lastUpdated"`
	}
	require.NoError(t, json.Unmarshal(data, &file), "file must always be one valid JSON document")
	assert.NotEmpty(t, file.Patterns)
	assert.NotEmpty(t, file.LastUpdated)
}

func TestGetAllReturnsCopies(t *testing.T) {
	lib, _ := newTestLibrary(t)

	all := lib.GetAll()
	require.NotEmpty(t, all)
	all[0].UsageCount = 1000

	fresh, ok := lib.Get(all[0].ID)
	require.True(t, ok)
	assert.NotEqual(t, 1000, fresh.UsageCount)
}
