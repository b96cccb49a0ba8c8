package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/klokal/databuilder/config"
	deps "github.com/klokal/databuilder/internal/debs"
	"github.com/klokal/databuilder/internal/draft"
	"github.com/klokal/databuilder/internal/library"
	"github.com/klokal/databuilder/internal/model"
	"github.com/klokal/databuilder/internal/session"
	"github.com/klokal/databuilder/internal/store"
	"github.com/klokal/databuilder/internal/suggest"
	"github.com/klokal/databuilder/util/values"
)

const (
	defaultIdleTimeout    = time.Minute
	defaultReadTimeout    = 5 * time.Second
	defaultWriteTimeout   = 10 * time.Second
	defaultShutdownPeriod = 30 * time.Second
)

type Handler func(w http.ResponseWriter, r *http.Request) *ServerResponse

func (h Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	resp := h(w, r)
	respByte, err := json.Marshal(resp)
	if err != nil {
		writeErrorResponse(w, err, values.Error, "unable to marshal server response")
		return
	}
	writeJSONResponse(w, respByte, resp.StatusCode)
}

type API struct {
	Server *http.Server
	Config *config.Config
	Deps   *deps.Dependencies

	Library  *library.Library
	Sessions *session.Manager
	Suggest  *suggest.Service
	Drafts   *draft.Synthesizer
	Spots    *store.SpotStore
	Weather  *store.WeatherStore
}

// Init prepares storage, mirrors the collection into memory and starts the
// change feed that keeps every instance's mirror in sync.
func (api *API) Init() error {
	ctx := context.Background()

	if err := api.Spots.Init(ctx); err != nil {
		return err
	}

	spots, err := api.Spots.List(ctx)
	if err != nil {
		return err
	}
	api.Library.ReplaceAll(spots)
	log.Printf("Loaded %d spots into the collection", len(spots))

	go func() {
		err := api.Spots.Subscribe(context.Background(), func(spots []model.Spot) {
			api.Library.ReplaceAll(spots)
			api.Deps.WebSocket.BroadcastCollectionReload()
		})
		if err != nil {
			log.Println("spot change feed stopped:", err)
		}
	}()
	return nil
}

func (api *API) Serve() error {
	api.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", api.Config.Port),
		IdleTimeout:  defaultIdleTimeout,
		ReadTimeout:  defaultReadTimeout,
		WriteTimeout: defaultWriteTimeout,
		Handler:      api.setUpServerHandler(),
	}
	return api.Server.ListenAndServe()
}

func (api *API) setUpServerHandler() http.Handler {
	mux := chi.NewRouter()
	mux.Use(RequestTracing)
	mux.Use(ActorContext)

	mux.Get("/",
		func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("Hello, World!"))
		},
	)

	mux.Mount("/spots", api.SpotRoutes())
	mux.Mount("/drafts", api.DraftRoutes())
	mux.Mount("/sessions", api.SessionRoutes())
	mux.Mount("/chat", api.ChatRoutes())
	mux.Mount("/weather-sources", api.WeatherRoutes())
	mux.Mount("/export", api.ExportRoutes())
	mux.HandleFunc("/ws", api.Deps.WebSocket.HandleConnections)

	return mux
}

func (a *API) Shutdown() error {
	err := a.Server.Shutdown(context.Background())
	if err != nil {
		return err
	}
	return nil
}

// broadcastSpot pushes a one-spot change event to connected editors.
func (api *API) broadcastSpot(spot model.Spot) {
	api.Deps.WebSocket.BroadcastSpotUpdate(spot.PlaceID, spot.Status)
}
