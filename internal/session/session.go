// Package session manages review/edit sessions. A session owns a private
// working copy of one spot; nothing it does is visible to the shared
// collection until commit.
package session

import (
	"fmt"
	"sync"

	"github.com/pkg/errors"

	"github.com/klokal/databuilder/internal/model"
	"github.com/klokal/databuilder/util"
)

// Editing steps. Fresh content opens on the initial step, previously
// reviewed content reopens on the review step.
const (
	StepInitial = "initial"
	StepReview  = "review"
)

var (
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrImageLimit      = errors.New("image limit reached")
	ErrLinkLimit       = errors.New("linked spot limit reached")
	ErrInvalidValue    = errors.New("value outside the allowed vocabulary")
)

// Session is one editor's working copy. All methods take the session lock so
// concurrent field edits within one session serialize cleanly.
type Session struct {
	ID   string
	step string

	mu     sync.Mutex
	spot   model.Spot
	closed bool
}

func stepFor(status string) string {
	switch status {
	case model.StatusPublished, model.StatusRejected:
		return StepReview
	default:
		return StepInitial
	}
}

func (s *Session) Step() string {
	return s.step
}

// Spot returns a clone of the working copy.
func (s *Session) Spot() model.Spot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.spot.Clone()
}

func (s *Session) SetName(name string) error {
	if !util.NotBlank(name) {
		return errors.Wrap(ErrInvalidValue, "spot name cannot be blank")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.spot.PlaceName = name
	return nil
}

func (s *Session) SetStatus(status string) error {
	if !model.IsSpotStatus(status) {
		return errors.Wrapf(ErrInvalidValue, "unknown status %q", status)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.spot.Status = status
	return nil
}

func (s *Session) SetAddress(address string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.spot.Address = address
}

func (s *Session) SetRegion(region string) error {
	if region != "" && !model.IsRegion(region) {
		return errors.Wrapf(ErrInvalidValue, "unknown region %q", region)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.spot.Region = region
	return nil
}

func (s *Session) SetCategories(categories []string) error {
	for _, c := range categories {
		if !model.IsCategory(c) {
			return errors.Wrapf(ErrInvalidValue, "unknown category %q", c)
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.spot.Categories = append([]string{}, categories...)
	return nil
}

func (s *Session) SetDuration(minutes *int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if minutes == nil {
		s.spot.AverageDurationMinutes = nil
		return
	}
	d := *minutes
	s.spot.AverageDurationMinutes = &d
}

func (s *Session) SetLocation(loc *model.Geopoint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if loc == nil {
		s.spot.Location = nil
		return
	}
	l := *loc
	s.spot.Location = &l
}

func (s *Session) SetPublicInfo(info model.PublicInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	info.ClosedDays = append([]string(nil), info.ClosedDays...)
	s.spot.PublicInfo = &info
}

// SetAttributes replaces the facet table. The enumerated facets only take
// values from their fixed option lists; empty means unset.
func (s *Session) SetAttributes(attrs model.Attributes) error {
	if attrs.WithKids != "" && !model.IsWithKidsOption(attrs.WithKids) {
		return errors.Wrapf(ErrInvalidValue, "unknown withKids option %q", attrs.WithKids)
	}
	if attrs.WithPets != "" && !model.IsWithPetsOption(attrs.WithPets) {
		return errors.Wrapf(ErrInvalidValue, "unknown withPets option %q", attrs.WithPets)
	}
	if attrs.ParkingDifficulty != "" && !model.IsParkingDifficulty(attrs.ParkingDifficulty) {
		return errors.Wrapf(ErrInvalidValue, "unknown parkingDifficulty option %q", attrs.ParkingDifficulty)
	}
	if attrs.AdmissionFee != "" && !model.IsAdmissionFee(attrs.AdmissionFee) {
		return errors.Wrapf(ErrInvalidValue, "unknown admissionFee option %q", attrs.AdmissionFee)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	attrs.TargetAudience = append([]string(nil), attrs.TargetAudience...)
	attrs.RecommendedSeasons = append([]string(nil), attrs.RecommendedSeasons...)
	attrs.RecommendedTimeOfDay = append([]string(nil), attrs.RecommendedTimeOfDay...)
	s.spot.Attributes = &attrs
	return nil
}

func (s *Session) SetCategoryInfo(info *model.CategorySpecificInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if info == nil {
		s.spot.CategorySpecificInfo = nil
		return
	}
	i := *info
	s.spot.CategorySpecificInfo = &i
}

// SetTagsFromText splits comma separated text into the tag list, dropping
// blanks. The raw description field never changes after draft creation.
func (s *Session) SetTagsFromText(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.spot.Tags = util.ParseTags(text)
}

func (s *Session) SetTipFinal(tip string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.spot.ExpertTipFinal = tip
}

// --- image slots ---

// SetImage writes or appends one image slot. Appending past the image limit
// fails; slots keep their order.
func (s *Session) SetImage(i int, img model.ImageInfo) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i < 0 || i > len(s.spot.Images) {
		return ErrIndexOutOfRange
	}
	if i == len(s.spot.Images) {
		if len(s.spot.Images) >= model.MaxImages {
			return ErrImageLimit
		}
		s.spot.Images = append(s.spot.Images, img)
		return nil
	}
	s.spot.Images[i] = img
	return nil
}

// SetImageData attaches a raw binary to a slot and gives it a preview URL.
// The binary stays local to the session until commit uploads it.
func (s *Session) SetImageData(i int, data []byte, caption string) error {
	img := model.ImageInfo{
		URL:       fmt.Sprintf("preview://%s/%d", s.ID, i),
		Caption:   caption,
		LocalData: append([]byte(nil), data...),
	}
	return s.SetImage(i, img)
}

func (s *Session) RemoveImage(i int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i < 0 || i >= len(s.spot.Images) {
		return ErrIndexOutOfRange
	}
	s.spot.Images = append(s.spot.Images[:i], s.spot.Images[i+1:]...)
	return nil
}

// --- comments ---

func (s *Session) AddComment(c model.Comment) error {
	if !model.IsCommentType(c.Type) {
		return errors.Wrapf(ErrInvalidValue, "unknown comment type %q", c.Type)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.spot.Comments = append(s.spot.Comments, c)
	return nil
}

func (s *Session) UpdateComment(i int, c model.Comment) error {
	if !model.IsCommentType(c.Type) {
		return errors.Wrapf(ErrInvalidValue, "unknown comment type %q", c.Type)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if i < 0 || i >= len(s.spot.Comments) {
		return ErrIndexOutOfRange
	}
	s.spot.Comments[i] = c
	return nil
}

func (s *Session) RemoveComment(i int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i < 0 || i >= len(s.spot.Comments) {
		return ErrIndexOutOfRange
	}
	s.spot.Comments = append(s.spot.Comments[:i], s.spot.Comments[i+1:]...)
	return nil
}

// --- linked spots ---

func (s *Session) addLink(link model.LinkedSpot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.spot.LinkedSpots) >= model.MaxLinkedSpots {
		return ErrLinkLimit
	}
	s.spot.LinkedSpots = append(s.spot.LinkedSpots, link)
	return nil
}

func (s *Session) RemoveLink(i int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i < 0 || i >= len(s.spot.LinkedSpots) {
		return ErrIndexOutOfRange
	}
	s.spot.LinkedSpots = append(s.spot.LinkedSpots[:i], s.spot.LinkedSpots[i+1:]...)
	return nil
}
