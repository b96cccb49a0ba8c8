package rest

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/klokal/databuilder/internal/library"
	"github.com/klokal/databuilder/internal/model"
	"github.com/klokal/databuilder/util"
	"github.com/klokal/databuilder/util/tracing"
	"github.com/klokal/databuilder/util/values"
)

func (api *API) ChatRoutes() chi.Router {
	mux := chi.NewRouter()

	mux.Method(http.MethodPost, "/", Handler(api.Chatbot))
	mux.Method(http.MethodPost, "/trip-planner", Handler(api.TripPlanner))
	mux.Method(http.MethodPost, "/weather", Handler(api.WeatherAssistant))

	return mux
}

type chatRequest struct {
	Message string `json:"message" validate:"required"`
}

// Chatbot answers free-form questions grounded in the published collection.
func (api *API) Chatbot(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	var req chatRequest
	if decodeErr := util.DecodeJSONBody(&tc, r.Body, &req); decodeErr != nil {
		return respondWithError(decodeErr, "unable to decode request", values.BadRequestBody, &tc)
	}
	if err := util.ValidateStruct(req); err != nil {
		return respondWithError(err, "validation failed", values.BadRequestBody, &tc)
	}

	prompt := fmt.Sprintf(`You are a Jeju travel guide for K-LOKAL. Answer in Korean, using ONLY the spots below. If none fit, say so honestly.

# PUBLISHED SPOTS
%s

# QUESTION
%s`, publishedDigest(api.Library), req.Message)

	answer, err := api.Deps.Gemini.GenerateText(r.Context(), prompt)
	if err != nil {
		return respondWithError(err, "assistant is unavailable", values.Error, &tc)
	}

	return &ServerResponse{
		Message:    "Answer generated successfully",
		Status:     values.Success,
		StatusCode: util.StatusCode(values.Success),
		Data:       map[string]interface{}{"answer": answer},
	}
}

type tripPlanRequest struct {
	Message string `json:"message" validate:"required"`
	Days    int    `json:"days,omitempty"`
}

// TripPlanner builds a day-by-day itinerary out of published spots.
func (api *API) TripPlanner(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	var req tripPlanRequest
	if decodeErr := util.DecodeJSONBody(&tc, r.Body, &req); decodeErr != nil {
		return respondWithError(decodeErr, "unable to decode request", values.BadRequestBody, &tc)
	}
	if err := util.ValidateStruct(req); err != nil {
		return respondWithError(err, "validation failed", values.BadRequestBody, &tc)
	}

	days := req.Days
	if days <= 0 {
		days = 1
	}

	prompt := fmt.Sprintf(`You are a Jeju trip planner for K-LOKAL. Build a %d-day itinerary in Korean using ONLY the spots below. Respect each spot's average duration and group nearby regions on the same day.

# PUBLISHED SPOTS
%s

# TRAVELLER'S REQUEST
%s`, days, publishedDigest(api.Library), req.Message)

	plan, err := api.Deps.Gemini.GenerateText(r.Context(), prompt)
	if err != nil {
		return respondWithError(err, "planner is unavailable", values.Error, &tc)
	}

	return &ServerResponse{
		Message:    "Itinerary generated successfully",
		Status:     values.Success,
		StatusCode: util.StatusCode(values.Success),
		Data:       map[string]interface{}{"plan": plan},
	}
}

type weatherChatRequest struct {
	Region  string `json:"region" validate:"required,region"`
	Message string `json:"message,omitempty"`
}

// WeatherAssistant answers weather questions for a region and attaches the
// registered live feeds so the user can check conditions directly.
func (api *API) WeatherAssistant(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	var req weatherChatRequest
	if decodeErr := util.DecodeJSONBody(&tc, r.Body, &req); decodeErr != nil {
		return respondWithError(decodeErr, "unable to decode request", values.BadRequestBody, &tc)
	}
	if err := util.ValidateStruct(req); err != nil {
		return respondWithError(err, "validation failed", values.BadRequestBody, &tc)
	}

	sources, err := api.Weather.List(r.Context())
	if err != nil {
		return respondWithError(err, "failed to load weather sources", values.Error, &tc)
	}

	var feeds strings.Builder
	for _, s := range sources {
		if s.Region == "" || s.Region == req.Region {
			fmt.Fprintf(&feeds, "- %s (%s): %s\n", s.Title, s.Region, s.YoutubeURL)
		}
	}
	if feeds.Len() == 0 {
		feeds.WriteString("No live feeds registered.\n")
	}

	question := req.Message
	if question == "" {
		question = "오늘 날씨 어때?"
	}

	prompt := fmt.Sprintf(`You are a Jeju weather assistant for K-LOKAL. Answer in Korean for the %s area. You cannot see live data; point the user at the live feeds below and give general seasonal guidance.

# LIVE FEEDS
%s
# QUESTION
%s`, req.Region, feeds.String(), question)

	answer, err := api.Deps.Gemini.GenerateText(r.Context(), prompt)
	if err != nil {
		return respondWithError(err, "assistant is unavailable", values.Error, &tc)
	}

	return &ServerResponse{
		Message:    "Answer generated successfully",
		Status:     values.Success,
		StatusCode: util.StatusCode(values.Success),
		Data: map[string]interface{}{
			"answer":  answer,
			"sources": sources,
		},
	}
}

// publishedDigest renders a compact plain-text listing of published spots
// for prompt grounding.
func publishedDigest(lib *library.Library) string {
	spots := lib.Filter(library.FilterParams{Status: model.StatusPublished})
	if len(spots) == 0 {
		return "No published spots yet."
	}

	var b strings.Builder
	for _, s := range spots {
		duration := "?"
		if s.AverageDurationMinutes != nil {
			duration = fmt.Sprintf("%d min", *s.AverageDurationMinutes)
		}
		fmt.Fprintf(&b, "- %s | %s | %s | %s | tags: %s\n  tip: %s\n",
			s.PlaceName, s.Region, strings.Join(s.Categories, "/"), duration,
			strings.Join(s.Tags, ", "), s.ExpertTipFinal)
	}
	return b.String()
}
