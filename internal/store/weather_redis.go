package store

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const weatherSourcesKey = "weather:sources"

// WeatherSource is one registered live-weather feed (a webcam or broadcast
// stream) that the weather assistant can point users at.
type WeatherSource struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Region     string `json:"region"`
	YoutubeURL string `json:"youtube_url"`
}

// WeatherStore keeps the weather-source registry in a Redis hash keyed by
// source id.
type WeatherStore struct {
	client *redis.Client
}

func NewWeatherStore(client *redis.Client) *WeatherStore {
	return &WeatherStore{client: client}
}

func (w *WeatherStore) Save(ctx context.Context, source WeatherSource) error {
	payload, err := json.Marshal(source)
	if err != nil {
		return errors.Wrap(err, "failed to encode weather source")
	}
	if err := w.client.HSet(ctx, weatherSourcesKey, source.ID, payload).Err(); err != nil {
		return errors.Wrap(err, "failed to save weather source")
	}
	return nil
}

func (w *WeatherStore) Get(ctx context.Context, id string) (WeatherSource, error) {
	payload, err := w.client.HGet(ctx, weatherSourcesKey, id).Result()
	if err == redis.Nil {
		return WeatherSource{}, ErrNotFound
	}
	if err != nil {
		return WeatherSource{}, errors.Wrap(err, "failed to load weather source")
	}

	var source WeatherSource
	if err := json.Unmarshal([]byte(payload), &source); err != nil {
		return WeatherSource{}, errors.Wrap(err, "failed to decode weather source")
	}
	return source, nil
}

func (w *WeatherStore) List(ctx context.Context) ([]WeatherSource, error) {
	entries, err := w.client.HGetAll(ctx, weatherSourcesKey).Result()
	if err != nil {
		return nil, errors.Wrap(err, "failed to list weather sources")
	}

	sources := []WeatherSource{}
	for _, payload := range entries {
		var source WeatherSource
		if err := json.Unmarshal([]byte(payload), &source); err != nil {
			return nil, errors.Wrap(err, "failed to decode weather source")
		}
		sources = append(sources, source)
	}
	return sources, nil
}

func (w *WeatherStore) Delete(ctx context.Context, id string) error {
	removed, err := w.client.HDel(ctx, weatherSourcesKey, id).Result()
	if err != nil {
		return errors.Wrap(err, "failed to delete weather source")
	}
	if removed == 0 {
		return ErrNotFound
	}
	return nil
}
