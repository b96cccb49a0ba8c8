package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/klokal/databuilder/config"
	deps "github.com/klokal/databuilder/internal/debs"
	"github.com/klokal/databuilder/internal/draft"
	api "github.com/klokal/databuilder/internal/http/rest"
	"github.com/klokal/databuilder/internal/library"
	"github.com/klokal/databuilder/internal/model"
	"github.com/klokal/databuilder/internal/session"
	"github.com/klokal/databuilder/internal/store"
	"github.com/klokal/databuilder/internal/suggest"
)

const (
	allowConnectionsAfterShutdown = 1 * time.Second
)

func main() {
	cfg := config.New()
	deps := deps.New(cfg)

	spots := store.NewSpotStore(deps.DB)
	weather := store.NewWeatherStore(deps.Redis)
	lib := library.New()

	broadcast := func(s model.Spot) {
		deps.WebSocket.BroadcastSpotUpdate(s.PlaceID, s.Status)
	}
	sessions := session.NewManager(lib, spots, deps.Cloudinary, broadcast)
	suggestions := suggest.NewService(lib, spots, broadcast)
	drafts := draft.NewSynthesizer(deps.Gemini)

	a := &api.API{
		Config:   cfg,
		Deps:     deps,
		Library:  lib,
		Sessions: sessions,
		Suggest:  suggestions,
		Drafts:   drafts,
		Spots:    spots,
		Weather:  weather,
	}
	if err := a.Init(); err != nil {
		log.Panicln("failed to initialize collection", "error", err)
	}
	go deps.WebSocket.Run()
	go func() {
		log.Printf("Server running on port %v ...", cfg.Port)
		log.Fatal(a.Serve())
	}()

	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	<-stopChan

	log.Println("Request to shutdown server. Doing nothing for ", allowConnectionsAfterShutdown)
	waitTimer := time.NewTimer(allowConnectionsAfterShutdown)
	<-waitTimer.C

	log.Println("Shutting down server...")

	deps.DB.Close()
	log.Println("Database connections closed.")

	log.Fatal(a.Shutdown())
}
