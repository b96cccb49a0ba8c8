// Package draft builds one complete, schema-valid spot from the expert's
// form input, the AI generator's partial record, and the fixed defaults
// table. User input always wins over AI inference for the fields the user
// explicitly controls.
package draft

import (
	"context"
	"time"

	"github.com/klokal/databuilder/internal/model"
	"github.com/klokal/databuilder/util"
	"github.com/klokal/databuilder/util/values"
)

// Generator is the opaque AI draft call. It may fail or return an
// approximate subset of fields; synthesis merges its output defensively.
type Generator interface {
	GenerateDraft(ctx context.Context, form model.FormInput) (model.DraftFields, error)
}

type Synthesizer struct {
	Generator Generator
}

func NewSynthesizer(g Generator) *Synthesizer {
	return &Synthesizer{Generator: g}
}

// BuildDraft validates the form, runs the AI generator and synthesizes the
// draft spot. A generator failure aborts the whole step: no spot is created.
func (s *Synthesizer) BuildDraft(ctx context.Context, form model.FormInput, prior *model.Spot) (model.Spot, error) {
	if err := util.ValidateStruct(form); err != nil {
		return model.Spot{}, err
	}

	fields, err := s.Generator.GenerateDraft(ctx, form)
	if err != nil {
		return model.Spot{}, err
	}

	return Synthesize(form, fields, prior, time.Now()), nil
}

// Synthesize merges defaults, AI-suggested fields and user-entered fields
// into one draft spot. Precedence, highest first: user input, AI output,
// defaults. When editing, the prior spot's identity and creation time are
// preserved.
func Synthesize(form model.FormInput, generated model.DraftFields, prior *model.Spot, now time.Time) model.Spot {
	ts := model.TimestampOf(now)

	spot := model.Spot{
		PlaceID:     util.NewSpotID(now),
		CreatorID:   values.DefaultCreatorID,
		Status:      model.StatusDraft,
		CreatedAt:   ts,
		UpdatedAt:   ts,
		Images:      []model.ImageInfo{},
		LinkedSpots: []model.LinkedSpot{},
	}

	if prior != nil {
		spot.PlaceID = prior.PlaceID
		if !prior.CreatedAt.IsZero() {
			spot.CreatedAt = prior.CreatedAt
		}
	}

	// AI-provided fields, defensively.
	spot.Address = generated.Address
	if model.IsRegion(generated.Region) {
		spot.Region = generated.Region
	}
	if generated.Location != nil {
		loc := *generated.Location
		spot.Location = &loc
	}
	if generated.AverageDurationMinutes != nil {
		d := *generated.AverageDurationMinutes
		spot.AverageDurationMinutes = &d
	}
	if generated.CategorySpecificInfo != nil {
		info := *generated.CategorySpecificInfo
		spot.CategorySpecificInfo = &info
	}
	spot.ExpertTipFinal = generated.ExpertTipFinal

	publicInfo := model.PublicInfo{}
	if generated.PublicInfo != nil {
		publicInfo = *generated.PublicInfo
	}
	spot.PublicInfo = &publicInfo

	spot.Comments = append([]model.Comment{}, generated.Comments...)
	spot.Tags = append([]string{}, generated.Tags...)

	attrs := mergeAttributes(model.DefaultAttributes(), generated.Attributes)
	spot.Attributes = &attrs

	// User's direct input is the source of truth.
	spot.PlaceName = form.SpotName
	spot.Categories = append([]string{}, form.Categories...)
	spot.ExpertTipRaw = form.SpotDescription
	spot.ImportURL = form.ImportURL

	return spot
}

// mergeAttributes overlays AI output onto the defaults table key by key, so
// a partial AI response never blanks out default enumerations. Enum facets
// the AI filled with something outside their option lists keep the default.
func mergeAttributes(defaults model.Attributes, generated *model.Attributes) model.Attributes {
	if generated == nil {
		return defaults
	}

	merged := defaults
	if len(generated.TargetAudience) > 0 {
		merged.TargetAudience = append([]string{}, generated.TargetAudience...)
	}
	if len(generated.RecommendedSeasons) > 0 {
		merged.RecommendedSeasons = append([]string{}, generated.RecommendedSeasons...)
	}
	if model.IsWithKidsOption(generated.WithKids) {
		merged.WithKids = generated.WithKids
	}
	if model.IsWithPetsOption(generated.WithPets) {
		merged.WithPets = generated.WithPets
	}
	if model.IsParkingDifficulty(generated.ParkingDifficulty) {
		merged.ParkingDifficulty = generated.ParkingDifficulty
	}
	if model.IsAdmissionFee(generated.AdmissionFee) {
		merged.AdmissionFee = generated.AdmissionFee
	}
	if len(generated.RecommendedTimeOfDay) > 0 {
		merged.RecommendedTimeOfDay = append([]string{}, generated.RecommendedTimeOfDay...)
	}
	return merged
}
