package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/pkg/errors"

	"github.com/klokal/databuilder/internal/suggest"
	"github.com/klokal/databuilder/util"
	"github.com/klokal/databuilder/util/tracing"
	"github.com/klokal/databuilder/util/values"
)

type addSuggestionRequest struct {
	FieldPath string `json:"field_path" validate:"required"`
	Content   string `json:"content" validate:"required"`
}

func (api *API) AddSuggestion(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	var req addSuggestionRequest
	if decodeErr := util.DecodeJSONBody(&tc, r.Body, &req); decodeErr != nil {
		return respondWithError(decodeErr, "unable to decode request", values.BadRequestBody, &tc)
	}
	if err := util.ValidateStruct(req); err != nil {
		return respondWithError(err, "validation failed", values.BadRequestBody, &tc)
	}

	spotID := chi.URLParam(r, "id")
	author := util.GetActorFromContext(r.Context())

	sugg, err := api.Suggest.Add(r.Context(), spotID, req.FieldPath, author, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, suggest.ErrSpotNotFound):
			return respondWithError(err, "spot not found", values.NotFound, &tc)
		case errors.Is(err, suggest.ErrInvalidFieldPath):
			return respondWithError(err, "field path is not suggestible", values.Unprocessable, &tc)
		default:
			return respondWithError(err, "failed to add suggestion", values.Error, &tc)
		}
	}

	return &ServerResponse{
		Message:    "Suggestion added successfully",
		Status:     values.Created,
		StatusCode: util.StatusCode(values.Created),
		Data:       sugg,
	}
}

type resolveSuggestionRequest struct {
	FieldPath    string `json:"field_path" validate:"required"`
	SuggestionID string `json:"suggestion_id" validate:"required"`
	Accept       bool   `json:"accept"`
}

func (api *API) ResolveSuggestion(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	var req resolveSuggestionRequest
	if decodeErr := util.DecodeJSONBody(&tc, r.Body, &req); decodeErr != nil {
		return respondWithError(decodeErr, "unable to decode request", values.BadRequestBody, &tc)
	}
	if err := util.ValidateStruct(req); err != nil {
		return respondWithError(err, "validation failed", values.BadRequestBody, &tc)
	}

	actor := util.GetActorFromContext(r.Context())
	if actor != values.ActorAdmin {
		return respondWithError(errors.New("only Admin may resolve suggestions"), "not allowed", values.NotAllowed, &tc)
	}

	spotID := chi.URLParam(r, "id")
	spot, changed, err := api.Suggest.Resolve(r.Context(), spotID, req.FieldPath, req.SuggestionID, req.Accept, actor)
	if err != nil {
		if errors.Is(err, suggest.ErrSpotNotFound) {
			return respondWithError(err, "spot not found", values.NotFound, &tc)
		}
		return respondWithError(err, "failed to resolve suggestion", values.Error, &tc)
	}

	message := "Suggestion resolved successfully"
	if !changed {
		message = "Suggestion already resolved"
	}

	return &ServerResponse{
		Message:    message,
		Status:     values.Success,
		StatusCode: util.StatusCode(values.Success),
		Data: map[string]interface{}{
			"changed": changed,
			"spot":    spot,
		},
	}
}
