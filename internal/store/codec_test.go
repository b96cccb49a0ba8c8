package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/klokal/databuilder/internal/model"
)

func TestEscapeFieldPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"place_name", "place_name"},
		{"attributes.withKids", "attributes%2EwithKids"},
		{"images[0].caption", "images%5B0%5D%2Ecaption"},
		{"public_info.closed_days", "public_info%2Eclosed_days"},
	}

	for _, tc := range tests {
		got := EscapeFieldPath(tc.path)
		assert.Equal(t, tc.want, got)
		assert.Equal(t, tc.path, UnescapeFieldPath(got), "escape must round-trip")
	}
}

func TestUnescapeFieldPathLenient(t *testing.T) {
	assert.Equal(t, "a%ZZb", UnescapeFieldPath("a%ZZb"), "malformed sequence kept literally")
	assert.Equal(t, "tail%", UnescapeFieldPath("tail%"))
}

func TestMarshalSpotEscapesSuggestionKeys(t *testing.T) {
	spot := model.Spot{
		PlaceID: "P_20250920T100000_AB",
		Suggestions: map[string][]model.Suggestion{
			"attributes.withKids": {{ID: "sugg_1", Status: model.SuggestionPending}},
		},
	}

	data, err := MarshalSpot(spot)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"attributes%2EwithKids"`)
	assert.NotContains(t, string(data), `"attributes.withKids"`)

	decoded, err := UnmarshalSpot(data)
	require.NoError(t, err)
	require.Len(t, decoded.Suggestions["attributes.withKids"], 1)
	assert.Equal(t, "sugg_1", decoded.Suggestions["attributes.withKids"][0].ID)
}

func TestMarshalSpotDropsLocalImageData(t *testing.T) {
	spot := model.Spot{
		PlaceID: "P_20250920T100000_AB",
		Images:  []model.ImageInfo{{URL: "blob:preview", Caption: "c", LocalData: []byte{0xFF, 0xD8}}},
	}

	data, err := MarshalSpot(spot)
	require.NoError(t, err)

	decoded, err := UnmarshalSpot(data)
	require.NoError(t, err)
	require.Len(t, decoded.Images, 1)
	assert.Nil(t, decoded.Images[0].LocalData)
	assert.Equal(t, "blob:preview", decoded.Images[0].URL)
}
