package rest

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/pkg/errors"

	"github.com/klokal/databuilder/internal/model"
	"github.com/klokal/databuilder/util"
	"github.com/klokal/databuilder/util/tracing"
	"github.com/klokal/databuilder/util/values"
)

func (api *API) SpotRoutes() chi.Router {
	mux := chi.NewRouter()

	mux.Method(http.MethodGet, "/", Handler(api.ListSpots))
	mux.Method(http.MethodPost, "/stubs", Handler(api.CreateStubSpot))
	mux.Method(http.MethodGet, "/{id}", Handler(api.GetSpot))
	mux.Method(http.MethodDelete, "/{id}", Handler(api.DeleteSpot))
	mux.Method(http.MethodGet, "/{id}/history", Handler(api.GetEditHistory))
	mux.Method(http.MethodGet, "/{id}/suggestions", Handler(api.GetSuggestions))
	mux.Method(http.MethodPost, "/{id}/suggestions", Handler(api.AddSuggestion))
	mux.Method(http.MethodPost, "/{id}/suggestions/resolve", Handler(api.ResolveSuggestion))

	return mux
}

func (api *API) ListSpots(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	spots := api.Library.Filter(filterFromQuery(r))

	return &ServerResponse{
		Message:    "Spots retrieved successfully",
		Status:     values.Success,
		StatusCode: util.StatusCode(values.Success),
		Data: map[string]interface{}{
			"count": len(spots),
			"spots": spots,
		},
	}
}

func (api *API) GetSpot(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	id := chi.URLParam(r, "id")
	spot, ok := api.Library.Get(id)
	if !ok {
		return respondWithError(errors.Errorf("no spot %s", id), "spot not found", values.NotFound, &tc)
	}

	return &ServerResponse{
		Message:    "Spot retrieved successfully",
		Status:     values.Success,
		StatusCode: util.StatusCode(values.Success),
		Data:       spot,
	}
}

type createStubRequest struct {
	Name string `json:"name" validate:"required"`
}

func (api *API) CreateStubSpot(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	var req createStubRequest
	if decodeErr := util.DecodeJSONBody(&tc, r.Body, &req); decodeErr != nil {
		return respondWithError(decodeErr, "unable to decode request", values.BadRequestBody, &tc)
	}
	if err := util.ValidateStruct(req); err != nil {
		return respondWithError(err, "validation failed", values.BadRequestBody, &tc)
	}

	if existing, ok := api.Library.FindByName(req.Name); ok {
		return &ServerResponse{
			Message:    "Spot with that name already exists",
			Status:     values.Success,
			StatusCode: util.StatusCode(values.Success),
			Data:       existing,
		}
	}

	stub := api.Library.CreateStub(req.Name, time.Now())
	saved, err := api.Spots.Save(r.Context(), stub)
	if err != nil {
		return respondWithError(err, "failed to persist stub", values.Error, &tc)
	}
	api.Library.Upsert(saved)
	api.broadcastSpot(saved)

	return &ServerResponse{
		Message:    "Stub spot created successfully",
		Status:     values.Created,
		StatusCode: util.StatusCode(values.Created),
		Data:       saved,
	}
}

func (api *API) DeleteSpot(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	actor := util.GetActorFromContext(r.Context())
	if actor != values.ActorAdmin {
		return respondWithError(errors.New("only Admin may delete"), "not allowed", values.NotAllowed, &tc)
	}

	id := chi.URLParam(r, "id")
	if _, ok := api.Library.Get(id); !ok {
		return respondWithError(errors.Errorf("no spot %s", id), "spot not found", values.NotFound, &tc)
	}

	if err := api.Spots.Delete(r.Context(), id); err != nil {
		return respondWithError(err, "failed to delete spot", values.Error, &tc)
	}

	remaining := removeSpot(api.Library.All(), id)
	api.Library.ReplaceAll(remaining)
	api.Deps.WebSocket.BroadcastCollectionReload()

	return &ServerResponse{
		Message:    "Spot deleted successfully",
		Status:     values.Success,
		StatusCode: util.StatusCode(values.Success),
	}
}

func (api *API) GetEditHistory(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	id := chi.URLParam(r, "id")
	spot, ok := api.Library.Get(id)
	if !ok {
		return respondWithError(errors.Errorf("no spot %s", id), "spot not found", values.NotFound, &tc)
	}

	history := spot.EditHistory
	if history == nil {
		history = []model.EditLog{}
	}

	return &ServerResponse{
		Message:    "Edit history retrieved successfully",
		Status:     values.Success,
		StatusCode: util.StatusCode(values.Success),
		Data:       history,
	}
}

func (api *API) GetSuggestions(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	id := chi.URLParam(r, "id")
	spot, ok := api.Library.Get(id)
	if !ok {
		return respondWithError(errors.Errorf("no spot %s", id), "spot not found", values.NotFound, &tc)
	}

	suggestions := spot.Suggestions
	if suggestions == nil {
		suggestions = map[string][]model.Suggestion{}
	}

	return &ServerResponse{
		Message:    "Suggestions retrieved successfully",
		Status:     values.Success,
		StatusCode: util.StatusCode(values.Success),
		Data:       suggestions,
	}
}
