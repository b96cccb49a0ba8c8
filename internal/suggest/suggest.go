// Package suggest implements field-level change suggestions: collaborators
// propose a new value for one field, an admin accepts or rejects it, and
// every accepted change leaves exactly one edit-history record.
package suggest

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/lucsky/cuid"
	"github.com/pkg/errors"

	"github.com/klokal/databuilder/internal/library"
	"github.com/klokal/databuilder/internal/model"
	"github.com/klokal/databuilder/util"
	"github.com/klokal/databuilder/util/fieldpath"
)

var (
	ErrSpotNotFound     = errors.New("spot not found")
	ErrInvalidFieldPath = errors.New("field path is not suggestible")
)

// Saver persists a spot with the optimistic version check.
type Saver interface {
	Save(ctx context.Context, spot model.Spot) (model.Spot, error)
}

type Service struct {
	library   *library.Library
	saver     Saver
	broadcast func(model.Spot)
}

func NewService(lib *library.Library, saver Saver, broadcast func(model.Spot)) *Service {
	if broadcast == nil {
		broadcast = func(model.Spot) {}
	}
	return &Service{library: lib, saver: saver, broadcast: broadcast}
}

// Add records a pending suggestion against one field of a spot.
func (s *Service) Add(ctx context.Context, spotID, fieldPath, author, content string) (model.Suggestion, error) {
	if !ValidFieldPath(fieldPath) {
		return model.Suggestion{}, errors.Wrapf(ErrInvalidFieldPath, "path %q", fieldPath)
	}

	spot, ok := s.library.Get(spotID)
	if !ok {
		return model.Suggestion{}, ErrSpotNotFound
	}

	sugg := model.Suggestion{
		ID:        "sugg_" + cuid.New(),
		Author:    author,
		Content:   content,
		CreatedAt: model.TimestampOf(time.Now()),
		Status:    model.SuggestionPending,
	}

	if spot.Suggestions == nil {
		spot.Suggestions = make(map[string][]model.Suggestion)
	}
	spot.Suggestions[fieldPath] = append(spot.Suggestions[fieldPath], sugg)

	saved, err := s.saver.Save(ctx, spot)
	if err != nil {
		return model.Suggestion{}, err
	}
	s.library.Upsert(saved)
	s.broadcast(saved)
	return sugg, nil
}

// Resolve accepts or rejects one pending suggestion. Resolution is one-shot:
// a suggestion that is missing or already resolved is silently skipped, and
// the returned bool reports whether anything changed. Accepting applies the
// transformed content to the field and appends one edit-history record.
func (s *Service) Resolve(ctx context.Context, spotID, fieldPath, suggestionID string, accept bool, actor string) (model.Spot, bool, error) {
	spot, ok := s.library.Get(spotID)
	if !ok {
		return model.Spot{}, false, ErrSpotNotFound
	}

	idx := -1
	for i, sugg := range spot.Suggestions[fieldPath] {
		if sugg.ID == suggestionID && sugg.Status == model.SuggestionPending {
			idx = i
			break
		}
	}
	if idx < 0 {
		return spot, false, nil
	}

	now := time.Now()
	sugg := spot.Suggestions[fieldPath][idx]

	if !accept {
		spot.Suggestions[fieldPath][idx].Status = model.SuggestionRejected
		return s.persist(ctx, spot)
	}

	newValue, err := transformContent(spot, fieldPath, sugg.Content, now)
	if err != nil {
		return model.Spot{}, false, err
	}

	doc, err := spot.Document()
	if err != nil {
		return model.Spot{}, false, errors.Wrap(err, "failed to project spot")
	}
	previous := fieldpath.Get(doc, fieldPath)
	doc, _ = fieldpath.Set(doc, fieldPath, newValue).(map[string]any)

	updated, err := model.SpotFromDocument(doc)
	if err != nil {
		return model.Spot{}, false, errors.Wrapf(err, "failed to apply suggestion to %q", fieldPath)
	}

	updated.Suggestions[fieldPath][idx].Status = model.SuggestionAccepted
	updated.EditHistory = append(updated.EditHistory, model.EditLog{
		FieldPath:     fieldPath,
		PreviousValue: previous,
		NewValue:      newValue,
		AcceptedBy:    actor,
		AcceptedAt:    model.TimestampOf(now),
		SuggestionID:  sugg.ID,
	})
	updated.UpdatedAt = model.TimestampOf(now)

	return s.persist(ctx, updated)
}

func (s *Service) persist(ctx context.Context, spot model.Spot) (model.Spot, bool, error) {
	saved, err := s.saver.Save(ctx, spot)
	if err != nil {
		return model.Spot{}, false, err
	}
	s.library.Upsert(saved)
	s.broadcast(saved)
	return saved, true, nil
}

// transformContent turns raw suggestion text into the field's value shape.
// List fields split on commas, the expert tip appends under a dated header,
// numeric fields parse, enumerated facets must hit their option lists.
// Everything else passes through as text.
type transformFunc func(spot model.Spot, content string, now time.Time) (any, error)

func splitList(_ model.Spot, content string, _ time.Time) (any, error) {
	return util.ParseTags(content), nil
}

func enumOption(field string, valid func(string) bool) transformFunc {
	return func(_ model.Spot, content string, _ time.Time) (any, error) {
		value := strings.TrimSpace(content)
		if !valid(value) {
			return nil, errors.Errorf("%q is not a valid %s option", value, field)
		}
		return value, nil
	}
}

var transforms = map[string]transformFunc{
	"tags":                               splitList,
	"attributes.targetAudience":          splitList,
	"attributes.recommendedSeasons":      splitList,
	"attributes.recommended_time_of_day": splitList,
	"public_info.closed_days":            splitList,
	"attributes.withKids":                enumOption("withKids", model.IsWithKidsOption),
	"attributes.withPets":                enumOption("withPets", model.IsWithPetsOption),
	"attributes.parkingDifficulty":       enumOption("parkingDifficulty", model.IsParkingDifficulty),
	"attributes.admissionFee":            enumOption("admissionFee", model.IsAdmissionFee),
	"expert_tip_final": func(spot model.Spot, content string, now time.Time) (any, error) {
		return util.AppendTipContent(spot.ExpertTipFinal, content, now), nil
	},
	"average_duration_minutes": func(_ model.Spot, content string, _ time.Time) (any, error) {
		minutes, err := strconv.Atoi(content)
		if err != nil {
			return nil, errors.Wrapf(err, "duration suggestion %q is not a number", content)
		}
		return minutes, nil
	},
}

func transformContent(spot model.Spot, path, content string, now time.Time) (any, error) {
	if fn, ok := transforms[path]; ok {
		return fn(spot, content, now)
	}
	return content, nil
}
