package rest

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/klokal/databuilder/internal/model"
	"github.com/klokal/databuilder/util"
	"github.com/klokal/databuilder/util/tracing"
	"github.com/klokal/databuilder/util/values"
)

func (api *API) ExportRoutes() chi.Router {
	mux := chi.NewRouter()

	mux.Method(http.MethodGet, "/", Handler(api.ExportSpots))

	return mux
}

// ExportSpots dumps the collection as JSON, filtered by the usual query
// params plus an optional created_at window (from/to, RFC 3339).
func (api *API) ExportSpots(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	spots := api.Library.Filter(filterFromQuery(r))

	q := r.URL.Query()
	if fromRaw := q.Get("from"); fromRaw != "" {
		from, err := time.Parse(time.RFC3339, fromRaw)
		if err != nil {
			return respondWithError(err, "invalid from date", values.BadRequestBody, &tc)
		}
		spots = createdAfter(spots, from)
	}
	if toRaw := q.Get("to"); toRaw != "" {
		to, err := time.Parse(time.RFC3339, toRaw)
		if err != nil {
			return respondWithError(err, "invalid to date", values.BadRequestBody, &tc)
		}
		spots = createdBefore(spots, to)
	}

	return &ServerResponse{
		Message:    "Export generated successfully",
		Status:     values.Success,
		StatusCode: util.StatusCode(values.Success),
		Data: map[string]interface{}{
			"exported_at": time.Now().UTC().Format(time.RFC3339),
			"filename":    "klokal_spots_" + time.Now().UTC().Format("20060102") + ".json",
			"count":       len(spots),
			"spots":       spots,
		},
	}
}

func createdAfter(spots []model.Spot, from time.Time) []model.Spot {
	out := spots[:0]
	for _, s := range spots {
		if !s.CreatedAt.Time().Before(from) {
			out = append(out, s)
		}
	}
	return out
}

func createdBefore(spots []model.Spot, to time.Time) []model.Spot {
	out := spots[:0]
	for _, s := range spots {
		if !s.CreatedAt.Time().After(to) {
			out = append(out, s)
		}
	}
	return out
}
