package rest

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/pkg/errors"

	"github.com/klokal/databuilder/internal/session"
	"github.com/klokal/databuilder/util/tracing"
	"github.com/klokal/databuilder/util/values"
)

func (api *API) sessionFromRequest(r *http.Request, tc *tracing.Context) (*session.Session, *ServerResponse) {
	id := chi.URLParam(r, "id")
	sess, ok := api.Sessions.Get(id)
	if !ok {
		return nil, respondWithError(errors.Errorf("no session %s", id), "session not found", values.NotFound, tc)
	}
	return sess, nil
}

func indexParam(r *http.Request) (int, error) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		return 0, errors.Wrap(err, "index must be a number")
	}
	return index, nil
}

func applySessionUpdate(sess *session.Session, req updateSessionRequest) error {
	if req.Name != nil {
		if err := sess.SetName(*req.Name); err != nil {
			return err
		}
	}
	if req.Status != nil {
		if err := sess.SetStatus(*req.Status); err != nil {
			return err
		}
	}
	if req.Address != nil {
		sess.SetAddress(*req.Address)
	}
	if req.Region != nil {
		if err := sess.SetRegion(*req.Region); err != nil {
			return err
		}
	}
	if req.Categories != nil {
		if err := sess.SetCategories(req.Categories); err != nil {
			return err
		}
	}
	if req.DurationMinutes != nil {
		sess.SetDuration(req.DurationMinutes)
	}
	if req.Location != nil {
		sess.SetLocation(req.Location)
	}
	if req.PublicInfo != nil {
		sess.SetPublicInfo(*req.PublicInfo)
	}
	if req.Attributes != nil {
		if err := sess.SetAttributes(*req.Attributes); err != nil {
			return err
		}
	}
	if req.CategoryInfo != nil {
		sess.SetCategoryInfo(req.CategoryInfo)
	}
	if req.TagsText != nil {
		sess.SetTagsFromText(*req.TagsText)
	}
	if req.TipFinal != nil {
		sess.SetTipFinal(*req.TipFinal)
	}
	return nil
}
