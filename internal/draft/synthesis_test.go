package draft

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/klokal/databuilder/internal/model"
)

type stubGenerator struct {
	fields model.DraftFields
	err    error
}

func (g *stubGenerator) GenerateDraft(_ context.Context, _ model.FormInput) (model.DraftFields, error) {
	return g.fields, g.err
}

func validForm() model.FormInput {
	return model.FormInput{
		SpotName:        "X",
		Categories:      []string{"바다"},
		SpotDescription: "D",
		ImportURL:       "",
	}
}

func TestSynthesizeEmptyAIResponse(t *testing.T) {
	now := time.Date(2025, 9, 20, 10, 0, 0, 0, time.UTC)

	spot := Synthesize(validForm(), model.DraftFields{}, nil, now)

	assert.Equal(t, model.StatusDraft, spot.Status)
	assert.Equal(t, "X", spot.PlaceName)
	assert.Equal(t, []string{"바다"}, spot.Categories)
	assert.Equal(t, "D", spot.ExpertTipRaw)
	require.NotNil(t, spot.Attributes)
	assert.Equal(t, model.DefaultAttributes(), *spot.Attributes)
	assert.False(t, spot.CreatedAt.IsZero())
	assert.Equal(t, spot.CreatedAt, spot.UpdatedAt)
	assert.Empty(t, spot.Images)
	assert.Empty(t, spot.LinkedSpots)
	assert.Nil(t, spot.AverageDurationMinutes)
	assert.NotEmpty(t, spot.PlaceID)
}

func TestSynthesizeEditingPreservesIdentity(t *testing.T) {
	created := model.TimestampOf(time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC))
	prior := &model.Spot{
		PlaceID:   "P_20250102T030405_AB",
		CreatedAt: created,
		UpdatedAt: created,
	}
	now := time.Date(2025, 9, 20, 10, 0, 0, 0, time.UTC)

	spot := Synthesize(validForm(), model.DraftFields{}, prior, now)

	assert.Equal(t, "P_20250102T030405_AB", spot.PlaceID)
	assert.Equal(t, created, spot.CreatedAt)
	assert.Equal(t, model.TimestampOf(now), spot.UpdatedAt)
	assert.NotEqual(t, spot.CreatedAt, spot.UpdatedAt)
}

func TestSynthesizeUserInputWinsOverAI(t *testing.T) {
	generated := model.DraftFields{
		PlaceName: "AI가 바꾼 이름",
		Tags:      []string{"억새", "가을"},
		Attributes: &model.Attributes{
			WithKids:       "추천",
			TargetAudience: []string{"가족"},
		},
		ExpertTipFinal: "정돈된 팁",
	}

	spot := Synthesize(validForm(), generated, nil, time.Now())

	assert.Equal(t, "X", spot.PlaceName, "user-entered name must override the AI's")
	assert.Equal(t, []string{"억새", "가을"}, spot.Tags)
	assert.Equal(t, "정돈된 팁", spot.ExpertTipFinal)
}

func TestSynthesizeMergesAttributesKeyByKey(t *testing.T) {
	generated := model.DraftFields{
		Attributes: &model.Attributes{WithKids: "추천"},
	}

	spot := Synthesize(validForm(), generated, nil, time.Now())

	require.NotNil(t, spot.Attributes)
	assert.Equal(t, "추천", spot.Attributes.WithKids)
	assert.Equal(t, "불가", spot.Attributes.WithPets, "unprovided keys keep defaults")
	assert.Equal(t, "보통", spot.Attributes.ParkingDifficulty)
	assert.Equal(t, "정보없음", spot.Attributes.AdmissionFee)
}

func TestSynthesizeIgnoresUnknownRegion(t *testing.T) {
	spot := Synthesize(validForm(), model.DraftFields{Region: "서울"}, nil, time.Now())
	assert.Empty(t, spot.Region)

	spot = Synthesize(validForm(), model.DraftFields{Region: "애월읍"}, nil, time.Now())
	assert.Equal(t, "애월읍", spot.Region)
}

func TestBuildDraftGeneratorFailure(t *testing.T) {
	s := NewSynthesizer(&stubGenerator{err: errors.New("api unavailable")})

	_, err := s.BuildDraft(context.Background(), validForm(), nil)

	require.Error(t, err)
}

func TestBuildDraftRejectsInvalidForm(t *testing.T) {
	s := NewSynthesizer(&stubGenerator{})

	_, err := s.BuildDraft(context.Background(), model.FormInput{SpotName: "", Categories: nil, SpotDescription: ""}, nil)
	require.Error(t, err)

	_, err = s.BuildDraft(context.Background(), model.FormInput{
		SpotName:        "X",
		Categories:      []string{"없는카테고리"},
		SpotDescription: "D",
	}, nil)
	require.Error(t, err, "categories outside the fixed vocabulary are rejected")
}
