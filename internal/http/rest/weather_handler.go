package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/lucsky/cuid"
	"github.com/pkg/errors"

	"github.com/klokal/databuilder/internal/store"
	"github.com/klokal/databuilder/util"
	"github.com/klokal/databuilder/util/tracing"
	"github.com/klokal/databuilder/util/values"
)

func (api *API) WeatherRoutes() chi.Router {
	mux := chi.NewRouter()

	mux.Method(http.MethodGet, "/", Handler(api.ListWeatherSources))
	mux.Method(http.MethodPost, "/", Handler(api.SaveWeatherSource))
	mux.Method(http.MethodGet, "/{id}", Handler(api.GetWeatherSource))
	mux.Method(http.MethodDelete, "/{id}", Handler(api.DeleteWeatherSource))

	return mux
}

func (api *API) ListWeatherSources(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	sources, err := api.Weather.List(r.Context())
	if err != nil {
		return respondWithError(err, "failed to list weather sources", values.Error, &tc)
	}

	return &ServerResponse{
		Message:    "Weather sources retrieved successfully",
		Status:     values.Success,
		StatusCode: util.StatusCode(values.Success),
		Data:       sources,
	}
}

type weatherSourceRequest struct {
	ID         string `json:"id,omitempty"`
	Title      string `json:"title" validate:"required"`
	Region     string `json:"region,omitempty" validate:"omitempty,region"`
	YoutubeURL string `json:"youtube_url" validate:"required,url"`
}

func (api *API) SaveWeatherSource(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	var req weatherSourceRequest
	if decodeErr := util.DecodeJSONBody(&tc, r.Body, &req); decodeErr != nil {
		return respondWithError(decodeErr, "unable to decode request", values.BadRequestBody, &tc)
	}
	if err := util.ValidateStruct(req); err != nil {
		return respondWithError(err, "validation failed", values.BadRequestBody, &tc)
	}

	source := store.WeatherSource{
		ID:         req.ID,
		Title:      req.Title,
		Region:     req.Region,
		YoutubeURL: req.YoutubeURL,
	}
	if source.ID == "" {
		source.ID = "ws_" + cuid.New()
	}

	if err := api.Weather.Save(r.Context(), source); err != nil {
		return respondWithError(err, "failed to save weather source", values.Error, &tc)
	}

	return &ServerResponse{
		Message:    "Weather source saved successfully",
		Status:     values.Created,
		StatusCode: util.StatusCode(values.Created),
		Data:       source,
	}
}

func (api *API) GetWeatherSource(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	id := chi.URLParam(r, "id")
	source, err := api.Weather.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return respondWithError(err, "weather source not found", values.NotFound, &tc)
		}
		return respondWithError(err, "failed to load weather source", values.Error, &tc)
	}

	return &ServerResponse{
		Message:    "Weather source retrieved successfully",
		Status:     values.Success,
		StatusCode: util.StatusCode(values.Success),
		Data:       source,
	}
}

func (api *API) DeleteWeatherSource(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	id := chi.URLParam(r, "id")
	if err := api.Weather.Delete(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return respondWithError(err, "weather source not found", values.NotFound, &tc)
		}
		return respondWithError(err, "failed to delete weather source", values.Error, &tc)
	}

	return &ServerResponse{
		Message:    "Weather source deleted successfully",
		Status:     values.Success,
		StatusCode: util.StatusCode(values.Success),
	}
}
