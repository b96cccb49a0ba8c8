// Package library holds the in-memory spot collection. It is the single
// shared mutable resource: only its upsert and stub-create operations touch
// the set, and reads hand out clones so callers never alias collection
// state.
package library

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/klokal/databuilder/internal/model"
	"github.com/klokal/databuilder/util"
)

type Library struct {
	mu    sync.RWMutex
	spots []model.Spot
	index map[string]int
}

func New() *Library {
	return &Library{index: make(map[string]int)}
}

// Upsert replaces the entry with the same place id, or appends. The caller
// guarantees the id is already assigned.
func (l *Library) Upsert(spot model.Spot) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if i, ok := l.index[spot.PlaceID]; ok {
		l.spots[i] = spot.Clone()
		return
	}
	l.index[spot.PlaceID] = len(l.spots)
	l.spots = append(l.spots, spot.Clone())
}

func (l *Library) Get(id string) (model.Spot, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	i, ok := l.index[id]
	if !ok {
		return model.Spot{}, false
	}
	return l.spots[i].Clone(), true
}

// All returns a cloned snapshot of every spot.
func (l *Library) All() []model.Spot {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]model.Spot, len(l.spots))
	for i, s := range l.spots {
		out[i] = s.Clone()
	}
	return out
}

func (l *Library) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.spots)
}

// ReplaceAll swaps in a full collection snapshot, as delivered by the
// persistence subscription.
func (l *Library) ReplaceAll(spots []model.Spot) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.spots = make([]model.Spot, len(spots))
	l.index = make(map[string]int, len(spots))
	for i, s := range spots {
		l.spots[i] = s.Clone()
		l.index[s.PlaceID] = i
	}
}

// CreateStub mints a placeholder spot carrying only a name, inserts it and
// returns it so the caller can wire a link immediately.
func (l *Library) CreateStub(name string, now time.Time) model.Spot {
	ts := model.TimestampOf(now)
	stub := model.Spot{
		PlaceID:     util.NewSpotID(now),
		PlaceName:   name,
		Status:      model.StatusStub,
		CreatedAt:   ts,
		UpdatedAt:   ts,
		Categories:  []string{},
		Images:      []model.ImageInfo{},
		LinkedSpots: []model.LinkedSpot{},
		Comments:    []model.Comment{},
	}
	l.Upsert(stub)
	return stub
}

// FindByName matches an exact spot name, case-insensitively.
func (l *Library) FindByName(name string) (model.Spot, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for _, s := range l.spots {
		if strings.EqualFold(s.PlaceName, name) {
			return s.Clone(), true
		}
	}
	return model.Spot{}, false
}

// FilterParams are the read-side query options. All are optional and
// combined with AND.
type FilterParams struct {
	Name     string // substring, case-insensitive
	Region   string
	Category string
	Status   string
	SortBy   string // name | created_at | updated_at
	Desc     bool
}

// Filter returns a filtered, sorted snapshot without mutating the
// collection.
func (l *Library) Filter(params FilterParams) []model.Spot {
	spots := l.All()

	out := spots[:0]
	for _, s := range spots {
		if params.Name != "" && !strings.Contains(strings.ToLower(s.PlaceName), strings.ToLower(params.Name)) {
			continue
		}
		if params.Region != "" && s.Region != params.Region {
			continue
		}
		if params.Category != "" && !hasCategory(s, params.Category) {
			continue
		}
		if params.Status != "" && s.Status != params.Status {
			continue
		}
		out = append(out, s)
	}

	sortSpots(out, params.SortBy, params.Desc)
	return out
}

func hasCategory(s model.Spot, category string) bool {
	for _, c := range s.Categories {
		if c == category {
			return true
		}
	}
	return false
}

func sortSpots(spots []model.Spot, by string, desc bool) {
	var less func(a, b model.Spot) bool
	switch by {
	case "name":
		less = func(a, b model.Spot) bool { return a.PlaceName < b.PlaceName }
	case "created_at":
		less = func(a, b model.Spot) bool { return a.CreatedAt.Time().Before(b.CreatedAt.Time()) }
	case "updated_at":
		less = func(a, b model.Spot) bool { return a.UpdatedAt.Time().Before(b.UpdatedAt.Time()) }
	default:
		return
	}

	sort.SliceStable(spots, func(i, j int) bool {
		if desc {
			return less(spots[j], spots[i])
		}
		return less(spots[i], spots[j])
	})
}
