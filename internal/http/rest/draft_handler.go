package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/pkg/errors"

	"github.com/klokal/databuilder/internal/model"
	"github.com/klokal/databuilder/util"
	"github.com/klokal/databuilder/util/tracing"
	"github.com/klokal/databuilder/util/values"
)

func (api *API) DraftRoutes() chi.Router {
	mux := chi.NewRouter()

	mux.Method(http.MethodPost, "/", Handler(api.CreateDraft))
	mux.Method(http.MethodPost, "/{id}/regenerate", Handler(api.RegenerateDraft))

	return mux
}

// CreateDraft runs the AI generation step for a new spot and opens a review
// session on the synthesized draft. The draft enters the collection only
// when the session commits.
func (api *API) CreateDraft(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	var form model.FormInput
	if decodeErr := util.DecodeJSONBody(&tc, r.Body, &form); decodeErr != nil {
		return respondWithError(decodeErr, "unable to decode request", values.BadRequestBody, &tc)
	}

	spot, err := api.Drafts.BuildDraft(r.Context(), form, nil)
	if err != nil {
		return respondWithError(err, "failed to generate draft", values.Unprocessable, &tc)
	}

	sess := api.Sessions.OpenSpot(spot)

	return &ServerResponse{
		Message:    "Draft created successfully",
		Status:     values.Created,
		StatusCode: util.StatusCode(values.Created),
		Data: map[string]interface{}{
			"session_id": sess.ID,
			"step":       sess.Step(),
			"spot":       sess.Spot(),
		},
	}
}

// RegenerateDraft reruns generation for an existing spot, keeping its
// identity and creation time.
func (api *API) RegenerateDraft(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	id := chi.URLParam(r, "id")
	prior, ok := api.Library.Get(id)
	if !ok {
		return respondWithError(errors.Errorf("no spot %s", id), "spot not found", values.NotFound, &tc)
	}

	var form model.FormInput
	if decodeErr := util.DecodeJSONBody(&tc, r.Body, &form); decodeErr != nil {
		return respondWithError(decodeErr, "unable to decode request", values.BadRequestBody, &tc)
	}

	spot, err := api.Drafts.BuildDraft(r.Context(), form, &prior)
	if err != nil {
		return respondWithError(err, "failed to regenerate draft", values.Unprocessable, &tc)
	}
	spot.Version = prior.Version

	sess := api.Sessions.OpenSpot(spot)

	return &ServerResponse{
		Message:    "Draft regenerated successfully",
		Status:     values.Created,
		StatusCode: util.StatusCode(values.Created),
		Data: map[string]interface{}{
			"session_id": sess.ID,
			"step":       sess.Step(),
			"spot":       sess.Spot(),
		},
	}
}
