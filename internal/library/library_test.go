package library

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/klokal/databuilder/internal/model"
)

func seedSpot(id, name, region, status string, categories []string, created time.Time) model.Spot {
	return model.Spot{
		PlaceID:    id,
		PlaceName:  name,
		Region:     region,
		Status:     status,
		Categories: categories,
		CreatedAt:  model.TimestampOf(created),
		UpdatedAt:  model.TimestampOf(created),
	}
}

func TestUpsertReplacesByID(t *testing.T) {
	l := New()
	now := time.Now()

	l.Upsert(seedSpot("P_1", "협재해수욕장", "한림읍", model.StatusDraft, []string{"바다"}, now))
	l.Upsert(seedSpot("P_1", "협재해수욕장", "한림읍", model.StatusPublished, []string{"바다"}, now))

	assert.Equal(t, 1, l.Len())
	got, ok := l.Get("P_1")
	require.True(t, ok)
	assert.Equal(t, model.StatusPublished, got.Status)
}

func TestGetReturnsClone(t *testing.T) {
	l := New()
	l.Upsert(seedSpot("P_1", "성산일출봉", "성산읍", model.StatusDraft, []string{"오름"}, time.Now()))

	got, ok := l.Get("P_1")
	require.True(t, ok)
	got.Categories[0] = "바다"
	got.PlaceName = "changed"

	fresh, _ := l.Get("P_1")
	assert.Equal(t, "성산일출봉", fresh.PlaceName)
	assert.Equal(t, []string{"오름"}, fresh.Categories)
}

func TestCreateStub(t *testing.T) {
	l := New()
	now := time.Date(2025, 9, 20, 10, 0, 0, 0, time.UTC)

	stub := l.CreateStub("새별오름", now)

	assert.Equal(t, model.StatusStub, stub.Status)
	assert.Equal(t, "새별오름", stub.PlaceName)
	assert.NotEmpty(t, stub.PlaceID)
	assert.Equal(t, stub.CreatedAt, stub.UpdatedAt)

	stored, ok := l.Get(stub.PlaceID)
	require.True(t, ok)
	assert.Equal(t, model.StatusStub, stored.Status)
}

func TestFindByNameCaseInsensitive(t *testing.T) {
	l := New()
	l.Upsert(seedSpot("P_1", "Cafe Delmoondo", "애월읍", model.StatusDraft, nil, time.Now()))

	_, ok := l.FindByName("cafe delmoondo")
	assert.True(t, ok)

	_, ok = l.FindByName("delmoondo")
	assert.False(t, ok, "matching is exact, not substring")
}

func TestFilterCombinesCriteria(t *testing.T) {
	l := New()
	now := time.Now()
	l.Upsert(seedSpot("P_1", "협재해수욕장", "한림읍", model.StatusPublished, []string{"바다"}, now))
	l.Upsert(seedSpot("P_2", "금능해수욕장", "한림읍", model.StatusDraft, []string{"바다"}, now))
	l.Upsert(seedSpot("P_3", "새별오름", "애월읍", model.StatusPublished, []string{"오름"}, now))

	got := l.Filter(FilterParams{Region: "한림읍", Status: model.StatusPublished})
	require.Len(t, got, 1)
	assert.Equal(t, "P_1", got[0].PlaceID)

	got = l.Filter(FilterParams{Name: "해수욕장"})
	assert.Len(t, got, 2)

	got = l.Filter(FilterParams{Category: "오름"})
	require.Len(t, got, 1)
	assert.Equal(t, "P_3", got[0].PlaceID)
}

func TestFilterSortsWithoutMutating(t *testing.T) {
	l := New()
	l.Upsert(seedSpot("P_1", "나", "", model.StatusDraft, nil, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)))
	l.Upsert(seedSpot("P_2", "가", "", model.StatusDraft, nil, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))
	l.Upsert(seedSpot("P_3", "다", "", model.StatusDraft, nil, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)))

	byName := l.Filter(FilterParams{SortBy: "name"})
	assert.Equal(t, []string{"가", "나", "다"}, names(byName))

	byCreatedDesc := l.Filter(FilterParams{SortBy: "created_at", Desc: true})
	assert.Equal(t, []string{"P_1", "P_3", "P_2"}, ids(byCreatedDesc))

	unsorted := l.Filter(FilterParams{})
	assert.Equal(t, []string{"P_1", "P_2", "P_3"}, ids(unsorted), "insertion order untouched")
}

func TestReplaceAll(t *testing.T) {
	l := New()
	l.Upsert(seedSpot("P_old", "사라질스팟", "", model.StatusDraft, nil, time.Now()))

	l.ReplaceAll([]model.Spot{
		seedSpot("P_a", "에이", "", model.StatusPublished, nil, time.Now()),
		seedSpot("P_b", "비", "", model.StatusDraft, nil, time.Now()),
	})

	assert.Equal(t, 2, l.Len())
	_, ok := l.Get("P_old")
	assert.False(t, ok)
	_, ok = l.Get("P_a")
	assert.True(t, ok)
}

func names(spots []model.Spot) []string {
	out := make([]string, len(spots))
	for i, s := range spots {
		out[i] = s.PlaceName
	}
	return out
}

func ids(spots []model.Spot) []string {
	out := make([]string, len(spots))
	for i, s := range spots {
		out[i] = s.PlaceID
	}
	return out
}
