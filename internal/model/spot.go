package model

import (
	"encoding/json"
	"time"
)

// Spot statuses. Stub marks a placeholder created only to satisfy a link
// target; draft is content awaiting review; published and rejected are
// editorial outcomes that stay re-editable.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusRejected  = "rejected"
	StatusStub      = "stub"
)

// Suggestion statuses. A suggestion leaves pending exactly once.
const (
	SuggestionPending  = "pending"
	SuggestionAccepted = "accepted"
	SuggestionRejected = "rejected"
)

// Timestamp mirrors the document store's second/nanosecond pair.
type Timestamp struct {
	Seconds     int64 `json:"seconds"`
	Nanoseconds int64 `json:"nanoseconds"`
}

func TimestampOf(t time.Time) Timestamp {
	return Timestamp{Seconds: t.Unix(), Nanoseconds: int64(t.Nanosecond())}
}

func (t Timestamp) Time() time.Time {
	return time.Unix(t.Seconds, t.Nanoseconds)
}

func (t Timestamp) IsZero() bool {
	return t.Seconds == 0 && t.Nanoseconds == 0
}

type Geopoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// ImageInfo is one ordered image slot. LocalData holds an unsaved binary
// while the slot awaits upload; it never reaches the document store.
type ImageInfo struct {
	URL       string `json:"url"`
	Caption   string `json:"caption"`
	LocalData []byte `json:"-"`
}

// PendingUpload reports whether the slot still carries an unresolved local
// binary.
func (img ImageInfo) PendingUpload() bool {
	return len(img.LocalData) > 0
}

type Attributes struct {
	TargetAudience       []string `json:"targetAudience"`
	RecommendedSeasons   []string `json:"recommendedSeasons"`
	WithKids             string   `json:"withKids"`
	WithPets             string   `json:"withPets"`
	ParkingDifficulty    string   `json:"parkingDifficulty"`
	AdmissionFee         string   `json:"admissionFee"`
	RecommendedTimeOfDay []string `json:"recommended_time_of_day,omitempty"`
}

type CategorySpecificInfo struct {
	SignatureMenu string `json:"signatureMenu,omitempty"`
	PriceRange    string `json:"priceRange,omitempty"`
	Difficulty    string `json:"difficulty,omitempty"`
}

type PublicInfo struct {
	OperatingHours string   `json:"operating_hours,omitempty"`
	PhoneNumber    string   `json:"phone_number,omitempty"`
	WebsiteURL     string   `json:"website_url,omitempty"`
	ClosedDays     []string `json:"closed_days,omitempty"`
}

type Comment struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

// LinkedSpot is a directed, typed association to another spot. PlaceID may
// be empty while the target name has no library match.
type LinkedSpot struct {
	LinkType  string `json:"link_type"`
	PlaceID   string `json:"place_id"`
	PlaceName string `json:"place_name"`
}

// Suggestion is a proposed change to one field, awaiting accept/reject.
type Suggestion struct {
	ID        string    `json:"id"`
	Author    string    `json:"author"`
	Content   string    `json:"content"`
	CreatedAt Timestamp `json:"createdAt"`
	Status    string    `json:"status"`
}

// EditLog is the immutable record of one accepted suggestion's effect.
type EditLog struct {
	FieldPath     string    `json:"fieldPath"`
	PreviousValue any       `json:"previousValue"`
	NewValue      any       `json:"newValue"`
	AcceptedBy    string    `json:"acceptedBy"`
	AcceptedAt    Timestamp `json:"acceptedAt"`
	SuggestionID  string    `json:"suggestionId"`
}

// Spot is one travel-location content record.
type Spot struct {
	PlaceID                string                  `json:"place_id"`
	PlaceName              string                  `json:"place_name"`
	CreatorID              string                  `json:"creator_id,omitempty"`
	Status                 string                  `json:"status"`
	Categories             []string                `json:"categories"`
	Address                string                  `json:"address,omitempty"`
	Region                 string                  `json:"region,omitempty"`
	Location               *Geopoint               `json:"location,omitempty"`
	Images                 []ImageInfo             `json:"images"`
	Attributes             *Attributes             `json:"attributes,omitempty"`
	AverageDurationMinutes *int                    `json:"average_duration_minutes,omitempty"`
	CategorySpecificInfo   *CategorySpecificInfo   `json:"category_specific_info,omitempty"`
	ExpertTipRaw           string                  `json:"expert_tip_raw,omitempty"`
	ExpertTipFinal         string                  `json:"expert_tip_final,omitempty"`
	Comments               []Comment               `json:"comments"`
	LinkedSpots            []LinkedSpot            `json:"linked_spots"`
	CreatedAt              Timestamp               `json:"created_at"`
	UpdatedAt              Timestamp               `json:"updated_at"`
	PublicInfo             *PublicInfo             `json:"public_info,omitempty"`
	Tags                   []string                `json:"tags"`
	ImportURL              string                  `json:"import_url,omitempty"`
	Version                int64                   `json:"version,omitempty"`
	Suggestions            map[string][]Suggestion `json:"suggestions,omitempty"`
	EditHistory            []EditLog               `json:"edit_history,omitempty"`
}

// Clone returns a deep copy, including any transient image binaries.
func (s Spot) Clone() Spot {
	out := s

	out.Categories = append([]string(nil), s.Categories...)
	out.Tags = append([]string(nil), s.Tags...)
	out.Comments = append([]Comment(nil), s.Comments...)
	out.LinkedSpots = append([]LinkedSpot(nil), s.LinkedSpots...)

	if s.Images != nil {
		out.Images = make([]ImageInfo, len(s.Images))
		for i, img := range s.Images {
			img.LocalData = append([]byte(nil), img.LocalData...)
			out.Images[i] = img
		}
	}
	if s.Location != nil {
		loc := *s.Location
		out.Location = &loc
	}
	if s.Attributes != nil {
		attrs := *s.Attributes
		attrs.TargetAudience = append([]string(nil), s.Attributes.TargetAudience...)
		attrs.RecommendedSeasons = append([]string(nil), s.Attributes.RecommendedSeasons...)
		attrs.RecommendedTimeOfDay = append([]string(nil), s.Attributes.RecommendedTimeOfDay...)
		out.Attributes = &attrs
	}
	if s.AverageDurationMinutes != nil {
		d := *s.AverageDurationMinutes
		out.AverageDurationMinutes = &d
	}
	if s.CategorySpecificInfo != nil {
		info := *s.CategorySpecificInfo
		out.CategorySpecificInfo = &info
	}
	if s.PublicInfo != nil {
		info := *s.PublicInfo
		info.ClosedDays = append([]string(nil), s.PublicInfo.ClosedDays...)
		out.PublicInfo = &info
	}
	if s.Suggestions != nil {
		out.Suggestions = make(map[string][]Suggestion, len(s.Suggestions))
		for path, list := range s.Suggestions {
			out.Suggestions[path] = append([]Suggestion(nil), list...)
		}
	}
	out.EditHistory = append([]EditLog(nil), s.EditHistory...)

	return out
}

// Document converts the spot to a generic nested map so field paths can be
// resolved against it.
func (s Spot) Document() (map[string]any, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// SpotFromDocument converts a generic nested map back into a Spot.
func SpotFromDocument(doc map[string]any) (Spot, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return Spot{}, err
	}
	var s Spot
	if err := json.Unmarshal(raw, &s); err != nil {
		return Spot{}, err
	}
	return s, nil
}
