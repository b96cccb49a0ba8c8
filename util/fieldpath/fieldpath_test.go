package fieldpath

import (
	"reflect"
	"testing"
)

func TestGet(t *testing.T) {
	root := map[string]any{
		"place_name": "새별오름",
		"attributes": map[string]any{
			"withKids": "추천",
		},
		"comments": []any{
			map[string]any{"type": "꿀팁", "content": "첫 번째"},
			map[string]any{"type": "총평", "content": "두 번째"},
		},
		"7": "numeric string key",
	}

	testCases := []struct {
		name           string
		path           string
		expectedResult any
	}{
		{"Top Level", "place_name", "새별오름"},
		{"Nested Map", "attributes.withKids", "추천"},
		{"Bracket Index", "comments[1].content", "두 번째"},
		{"Missing Key", "attributes.withPets", nil},
		{"Missing Intermediate", "public_info.phone_number", nil},
		{"Index Out Of Range", "comments[5].content", nil},
		{"Numeric Map Key", "7", "numeric string key"},
		{"Index Into Scalar", "place_name[0]", nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := Get(root, tc.path)
			if !reflect.DeepEqual(result, tc.expectedResult) {
				t.Errorf("Get(root, %q) = %v; want %v", tc.path, result, tc.expectedResult)
			}
		})
	}
}

func TestSetGetRoundTrip(t *testing.T) {
	testCases := []struct {
		name  string
		path  string
		value any
	}{
		{"Single Segment", "place_name", "제주당"},
		{"Nested Map", "attributes.admissionFee", "무료"},
		{"Existing List Element", "comments[0].content", "바뀐 내용"},
		{"New List", "images[2].url", "https://example.com/x.jpg"},
		{"Deep Vivify", "category_specific_info.priceRange", "1만원 ~ 2만원"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			root := map[string]any{
				"comments": []any{map[string]any{"type": "꿀팁", "content": "원본"}},
			}

			result := Set(root, tc.path, tc.value)
			if got := Get(result, tc.path); !reflect.DeepEqual(got, tc.value) {
				t.Errorf("Get(Set(root, %q, %v), %q) = %v; want %v", tc.path, tc.value, tc.path, got, tc.value)
			}
		})
	}
}

func TestSetMutatesRootInPlace(t *testing.T) {
	root := map[string]any{}

	returned := Set(root, "tags", []any{"바다"})

	if got := Get(root, "tags"); got == nil {
		t.Error("expected original root map to carry the assignment")
	}
	if !reflect.DeepEqual(returned, any(root)) {
		t.Error("expected returned root to be the original map")
	}
}

func TestSetVivifiesSliceForBracketSegment(t *testing.T) {
	root := map[string]any{}

	Set(root, "linked_spots[1].place_name", "카페새빌")

	links, ok := root["linked_spots"].([]any)
	if !ok {
		t.Fatalf("expected linked_spots to be a slice, got %T", root["linked_spots"])
	}
	if len(links) != 2 {
		t.Fatalf("expected slice grown to 2 elements, got %d", len(links))
	}
	if links[0] != nil {
		t.Errorf("expected untouched padding element to stay nil, got %v", links[0])
	}
}

func TestSetPreservesSiblings(t *testing.T) {
	root := map[string]any{
		"attributes": map[string]any{"withKids": "추천", "withPets": "불가"},
	}

	Set(root, "attributes.withKids", "가능")

	if got := Get(root, "attributes.withPets"); got != "불가" {
		t.Errorf("sibling key clobbered: got %v", got)
	}
}
