package rest

import (
	"net/http"

	"github.com/klokal/databuilder/internal/library"
	"github.com/klokal/databuilder/internal/model"
)

func filterFromQuery(r *http.Request) library.FilterParams {
	q := r.URL.Query()
	return library.FilterParams{
		Name:     q.Get("name"),
		Region:   q.Get("region"),
		Category: q.Get("category"),
		Status:   q.Get("status"),
		SortBy:   q.Get("sort_by"),
		Desc:     q.Get("order") == "desc",
	}
}

func removeSpot(spots []model.Spot, id string) []model.Spot {
	out := spots[:0]
	for _, s := range spots {
		if s.PlaceID != id {
			out = append(out, s)
		}
	}
	return out
}
