package model

// FormInput is the expert's initial submission: the authoritative fields of
// draft synthesis.
type FormInput struct {
	SpotName        string   `json:"spotName" validate:"required"`
	Categories      []string `json:"categories" validate:"required,min=1,dive,category"`
	SpotDescription string   `json:"spotDescription" validate:"required"`
	ImportURL       string   `json:"importUrl" validate:"omitempty,url"`
}

// DraftFields is the AI generator's partial spot record. Every field is
// optional: the response is a best-effort subset that synthesis merges
// defensively, never trusting it as complete.
type DraftFields struct {
	PlaceName              string                `json:"place_name,omitempty"`
	Address                string                `json:"address,omitempty"`
	Region                 string                `json:"region,omitempty"`
	Location               *Geopoint             `json:"location,omitempty"`
	AverageDurationMinutes *int                  `json:"average_duration_minutes,omitempty"`
	PublicInfo             *PublicInfo           `json:"public_info,omitempty"`
	Tags                   []string              `json:"tags,omitempty"`
	Attributes             *Attributes           `json:"attributes,omitempty"`
	CategorySpecificInfo   *CategorySpecificInfo `json:"category_specific_info,omitempty"`
	ExpertTipFinal         string                `json:"expert_tip_final,omitempty"`
	Comments               []Comment             `json:"comments,omitempty"`
}
