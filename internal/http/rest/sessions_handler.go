package rest

import (
	"encoding/base64"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/pkg/errors"

	"github.com/klokal/databuilder/internal/model"
	"github.com/klokal/databuilder/internal/session"
	"github.com/klokal/databuilder/internal/store"
	"github.com/klokal/databuilder/util"
	"github.com/klokal/databuilder/util/tracing"
	"github.com/klokal/databuilder/util/values"
)

func (api *API) SessionRoutes() chi.Router {
	mux := chi.NewRouter()

	mux.Method(http.MethodPost, "/", Handler(api.OpenSession))
	mux.Method(http.MethodGet, "/{id}", Handler(api.GetSession))
	mux.Method(http.MethodPatch, "/{id}", Handler(api.UpdateSessionFields))
	mux.Method(http.MethodPost, "/{id}/commit", Handler(api.CommitSession))
	mux.Method(http.MethodDelete, "/{id}", Handler(api.AbandonSession))

	mux.Method(http.MethodPut, "/{id}/images/{index}", Handler(api.SetSessionImage))
	mux.Method(http.MethodDelete, "/{id}/images/{index}", Handler(api.RemoveSessionImage))

	mux.Method(http.MethodPost, "/{id}/comments", Handler(api.AddSessionComment))
	mux.Method(http.MethodPut, "/{id}/comments/{index}", Handler(api.UpdateSessionComment))
	mux.Method(http.MethodDelete, "/{id}/comments/{index}", Handler(api.RemoveSessionComment))

	mux.Method(http.MethodPost, "/{id}/links", Handler(api.AddSessionLink))
	mux.Method(http.MethodDelete, "/{id}/links/{index}", Handler(api.RemoveSessionLink))

	return mux
}

type openSessionRequest struct {
	SpotID string `json:"spot_id" validate:"required"`
}

func (api *API) OpenSession(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	var req openSessionRequest
	if decodeErr := util.DecodeJSONBody(&tc, r.Body, &req); decodeErr != nil {
		return respondWithError(decodeErr, "unable to decode request", values.BadRequestBody, &tc)
	}
	if err := util.ValidateStruct(req); err != nil {
		return respondWithError(err, "validation failed", values.BadRequestBody, &tc)
	}

	sess, err := api.Sessions.Open(req.SpotID)
	if err != nil {
		return respondWithError(err, "spot not found", values.NotFound, &tc)
	}

	return &ServerResponse{
		Message:    "Session opened successfully",
		Status:     values.Created,
		StatusCode: util.StatusCode(values.Created),
		Data: map[string]interface{}{
			"session_id": sess.ID,
			"step":       sess.Step(),
			"spot":       sess.Spot(),
		},
	}
}

func (api *API) GetSession(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	sess, errResp := api.sessionFromRequest(r, &tc)
	if errResp != nil {
		return errResp
	}

	return &ServerResponse{
		Message:    "Session retrieved successfully",
		Status:     values.Success,
		StatusCode: util.StatusCode(values.Success),
		Data: map[string]interface{}{
			"session_id": sess.ID,
			"step":       sess.Step(),
			"spot":       sess.Spot(),
		},
	}
}

type updateSessionRequest struct {
	Name            *string                     `json:"name,omitempty"`
	Status          *string                     `json:"status,omitempty"`
	Address         *string                     `json:"address,omitempty"`
	Region          *string                     `json:"region,omitempty"`
	Categories      []string                    `json:"categories,omitempty"`
	DurationMinutes *int                        `json:"average_duration_minutes,omitempty"`
	Location        *model.Geopoint             `json:"location,omitempty"`
	PublicInfo      *model.PublicInfo           `json:"public_info,omitempty"`
	Attributes      *model.Attributes           `json:"attributes,omitempty"`
	CategoryInfo    *model.CategorySpecificInfo `json:"category_specific_info,omitempty"`
	TagsText        *string                     `json:"tags_text,omitempty"`
	TipFinal        *string                     `json:"expert_tip_final,omitempty"`
}

// UpdateSessionFields applies a partial update to the working copy. Only the
// provided fields change; the raw expert description is never writable.
func (api *API) UpdateSessionFields(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	sess, errResp := api.sessionFromRequest(r, &tc)
	if errResp != nil {
		return errResp
	}

	var req updateSessionRequest
	if decodeErr := util.DecodeJSONBody(&tc, r.Body, &req); decodeErr != nil {
		return respondWithError(decodeErr, "unable to decode request", values.BadRequestBody, &tc)
	}

	if err := applySessionUpdate(sess, req); err != nil {
		return respondWithError(err, "invalid field value", values.Unprocessable, &tc)
	}

	return &ServerResponse{
		Message:    "Session updated successfully",
		Status:     values.Success,
		StatusCode: util.StatusCode(values.Success),
		Data:       sess.Spot(),
	}
}

func (api *API) CommitSession(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	id := chi.URLParam(r, "id")
	spot, err := api.Sessions.Commit(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrSessionNotFound), errors.Is(err, session.ErrSessionClosed):
			return respondWithError(err, "session not found", values.NotFound, &tc)
		case errors.Is(err, store.ErrVersionConflict):
			return respondWithError(err, "spot was modified by another editor", values.Conflict, &tc)
		default:
			return respondWithError(err, "failed to commit session", values.Error, &tc)
		}
	}

	return &ServerResponse{
		Message:    "Session committed successfully",
		Status:     values.Success,
		StatusCode: util.StatusCode(values.Success),
		Data:       spot,
	}
}

func (api *API) AbandonSession(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	id := chi.URLParam(r, "id")
	if err := api.Sessions.Abandon(id); err != nil {
		return respondWithError(err, "session not found", values.NotFound, &tc)
	}

	return &ServerResponse{
		Message:    "Session abandoned",
		Status:     values.Success,
		StatusCode: util.StatusCode(values.Success),
	}
}

type sessionImageRequest struct {
	URL     string `json:"url,omitempty"`
	Caption string `json:"caption"`
	Data    string `json:"data,omitempty"`
}

// SetSessionImage writes one image slot. A base64 "data" payload stages a
// local binary for upload at commit; otherwise the slot points at an
// already hosted URL.
func (api *API) SetSessionImage(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	sess, errResp := api.sessionFromRequest(r, &tc)
	if errResp != nil {
		return errResp
	}
	index, err := indexParam(r)
	if err != nil {
		return respondWithError(err, "invalid index", values.BadRequestBody, &tc)
	}

	var req sessionImageRequest
	if decodeErr := util.DecodeJSONBody(&tc, r.Body, &req); decodeErr != nil {
		return respondWithError(decodeErr, "unable to decode request", values.BadRequestBody, &tc)
	}

	if req.Data != "" {
		raw, decodeErr := base64.StdEncoding.DecodeString(req.Data)
		if decodeErr != nil {
			return respondWithError(decodeErr, "image data is not valid base64", values.BadRequestBody, &tc)
		}
		err = sess.SetImageData(index, raw, req.Caption)
	} else {
		err = sess.SetImage(index, model.ImageInfo{URL: req.URL, Caption: req.Caption})
	}
	if err != nil {
		return respondWithError(err, "failed to set image", values.Unprocessable, &tc)
	}

	return &ServerResponse{
		Message:    "Image updated successfully",
		Status:     values.Success,
		StatusCode: util.StatusCode(values.Success),
		Data:       sess.Spot().Images,
	}
}

func (api *API) RemoveSessionImage(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	sess, errResp := api.sessionFromRequest(r, &tc)
	if errResp != nil {
		return errResp
	}
	index, err := indexParam(r)
	if err != nil {
		return respondWithError(err, "invalid index", values.BadRequestBody, &tc)
	}

	if err := sess.RemoveImage(index); err != nil {
		return respondWithError(err, "failed to remove image", values.Unprocessable, &tc)
	}

	return &ServerResponse{
		Message:    "Image removed successfully",
		Status:     values.Success,
		StatusCode: util.StatusCode(values.Success),
		Data:       sess.Spot().Images,
	}
}

func (api *API) AddSessionComment(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	sess, errResp := api.sessionFromRequest(r, &tc)
	if errResp != nil {
		return errResp
	}

	var comment model.Comment
	if decodeErr := util.DecodeJSONBody(&tc, r.Body, &comment); decodeErr != nil {
		return respondWithError(decodeErr, "unable to decode request", values.BadRequestBody, &tc)
	}

	if err := sess.AddComment(comment); err != nil {
		return respondWithError(err, "failed to add comment", values.Unprocessable, &tc)
	}

	return &ServerResponse{
		Message:    "Comment added successfully",
		Status:     values.Created,
		StatusCode: util.StatusCode(values.Created),
		Data:       sess.Spot().Comments,
	}
}

func (api *API) UpdateSessionComment(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	sess, errResp := api.sessionFromRequest(r, &tc)
	if errResp != nil {
		return errResp
	}
	index, err := indexParam(r)
	if err != nil {
		return respondWithError(err, "invalid index", values.BadRequestBody, &tc)
	}

	var comment model.Comment
	if decodeErr := util.DecodeJSONBody(&tc, r.Body, &comment); decodeErr != nil {
		return respondWithError(decodeErr, "unable to decode request", values.BadRequestBody, &tc)
	}

	if err := sess.UpdateComment(index, comment); err != nil {
		return respondWithError(err, "failed to update comment", values.Unprocessable, &tc)
	}

	return &ServerResponse{
		Message:    "Comment updated successfully",
		Status:     values.Success,
		StatusCode: util.StatusCode(values.Success),
		Data:       sess.Spot().Comments,
	}
}

func (api *API) RemoveSessionComment(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	sess, errResp := api.sessionFromRequest(r, &tc)
	if errResp != nil {
		return errResp
	}
	index, err := indexParam(r)
	if err != nil {
		return respondWithError(err, "invalid index", values.BadRequestBody, &tc)
	}

	if err := sess.RemoveComment(index); err != nil {
		return respondWithError(err, "failed to remove comment", values.Unprocessable, &tc)
	}

	return &ServerResponse{
		Message:    "Comment removed successfully",
		Status:     values.Success,
		StatusCode: util.StatusCode(values.Success),
		Data:       sess.Spot().Comments,
	}
}

type addLinkRequest struct {
	LinkType   string `json:"link_type" validate:"required"`
	TargetName string `json:"target_name" validate:"required"`
}

// AddSessionLink links the session's spot to another by name. Unknown names
// get a stub spot created in the collection on the fly.
func (api *API) AddSessionLink(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	var req addLinkRequest
	if decodeErr := util.DecodeJSONBody(&tc, r.Body, &req); decodeErr != nil {
		return respondWithError(decodeErr, "unable to decode request", values.BadRequestBody, &tc)
	}
	if err := util.ValidateStruct(req); err != nil {
		return respondWithError(err, "validation failed", values.BadRequestBody, &tc)
	}

	id := chi.URLParam(r, "id")
	link, err := api.Sessions.AddLink(r.Context(), id, req.LinkType, req.TargetName)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrSessionNotFound):
			return respondWithError(err, "session not found", values.NotFound, &tc)
		case errors.Is(err, session.ErrInvalidValue), errors.Is(err, session.ErrLinkLimit):
			return respondWithError(err, "failed to add link", values.Unprocessable, &tc)
		default:
			return respondWithError(err, "failed to add link", values.Error, &tc)
		}
	}

	return &ServerResponse{
		Message:    "Link added successfully",
		Status:     values.Created,
		StatusCode: util.StatusCode(values.Created),
		Data:       link,
	}
}

func (api *API) RemoveSessionLink(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	sess, errResp := api.sessionFromRequest(r, &tc)
	if errResp != nil {
		return errResp
	}
	index, err := indexParam(r)
	if err != nil {
		return respondWithError(err, "invalid index", values.BadRequestBody, &tc)
	}

	if err := sess.RemoveLink(index); err != nil {
		return respondWithError(err, "failed to remove link", values.Unprocessable, &tc)
	}

	return &ServerResponse{
		Message:    "Link removed successfully",
		Status:     values.Success,
		StatusCode: util.StatusCode(values.Success),
		Data:       sess.Spot().LinkedSpots,
	}
}
