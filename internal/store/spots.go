// Package store persists spots as JSONB documents in Postgres and exposes a
// LISTEN/NOTIFY change feed so every editor sees the same collection.
package store

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"

	"github.com/klokal/databuilder/internal/db"
	"github.com/klokal/databuilder/internal/model"
)

const changeChannel = "spots_changed"

var (
	ErrNotFound        = errors.New("spot not found")
	ErrVersionConflict = errors.New("spot was modified by another editor")
)

type SpotStore struct {
	db *db.DB
}

func NewSpotStore(database *db.DB) *SpotStore {
	return &SpotStore{db: database}
}

// Init creates the backing table. Versions start at 1 on first save.
func (s *SpotStore) Init(ctx context.Context) error {
	_, err := s.db.Pool().Exec(ctx, `
		CREATE TABLE IF NOT EXISTS spots (
			place_id   TEXT PRIMARY KEY,
			doc        JSONB NOT NULL,
			version    BIGINT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	return errors.Wrap(err, "failed to create spots table")
}

// Save writes a spot with an optimistic version check. The caller passes the
// version it read; a mismatch means another editor committed first and
// returns ErrVersionConflict without touching the row. The stored document
// carries the incremented version.
func (s *SpotStore) Save(ctx context.Context, spot model.Spot) (model.Spot, error) {
	expected := spot.Version
	spot.Version = expected + 1

	payload, err := MarshalSpot(spot)
	if err != nil {
		return model.Spot{}, errors.Wrap(err, "failed to encode spot")
	}

	err = s.db.RunInTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			INSERT INTO spots (place_id, doc, version, updated_at)
			VALUES ($1, $2, $3, now())
			ON CONFLICT (place_id) DO UPDATE
				SET doc = EXCLUDED.doc, version = EXCLUDED.version, updated_at = now()
				WHERE spots.version = $4`,
			spot.PlaceID, payload, spot.Version, expected)
		if err != nil {
			return errors.Wrap(err, "failed to save spot")
		}
		if tag.RowsAffected() == 0 {
			return ErrVersionConflict
		}
		_, err = tx.Exec(ctx, `SELECT pg_notify($1, $2)`, changeChannel, spot.PlaceID)
		return errors.Wrap(err, "failed to notify change")
	})
	if err != nil {
		return model.Spot{}, err
	}
	return spot, nil
}

func (s *SpotStore) Delete(ctx context.Context, placeID string) error {
	return s.db.RunInTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM spots WHERE place_id = $1`, placeID)
		if err != nil {
			return errors.Wrap(err, "failed to delete spot")
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
		_, err = tx.Exec(ctx, `SELECT pg_notify($1, $2)`, changeChannel, placeID)
		return errors.Wrap(err, "failed to notify change")
	})
}

func (s *SpotStore) Get(ctx context.Context, placeID string) (model.Spot, error) {
	var payload []byte
	err := s.db.Pool().QueryRow(ctx, `SELECT doc FROM spots WHERE place_id = $1`, placeID).Scan(&payload)
	if err == pgx.ErrNoRows {
		return model.Spot{}, ErrNotFound
	}
	if err != nil {
		return model.Spot{}, errors.Wrap(err, "failed to load spot")
	}
	return UnmarshalSpot(payload)
}

// List returns every stored spot ordered by place id.
func (s *SpotStore) List(ctx context.Context) ([]model.Spot, error) {
	rows, err := s.db.Pool().Query(ctx, `SELECT doc FROM spots ORDER BY place_id`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list spots")
	}
	defer rows.Close()

	spots := []model.Spot{}
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, errors.Wrap(err, "failed to scan spot row")
		}
		spot, err := UnmarshalSpot(payload)
		if err != nil {
			return nil, errors.Wrap(err, "failed to decode spot")
		}
		spots = append(spots, spot)
	}
	return spots, rows.Err()
}

// Subscribe holds a dedicated connection on LISTEN and, for every change
// notification, reloads the full collection and hands the snapshot to
// onChange. It blocks until ctx is cancelled.
func (s *SpotStore) Subscribe(ctx context.Context, onChange func([]model.Spot)) error {
	conn, err := s.db.Acquire(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to acquire listen connection")
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "LISTEN "+changeChannel); err != nil {
		return errors.Wrap(err, "failed to listen on change channel")
	}

	for {
		if _, err := conn.Conn().WaitForNotification(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return errors.Wrap(err, "change feed interrupted")
		}

		spots, err := s.List(ctx)
		if err != nil {
			log.Printf("failed to reload spots after change: %v", err)
			continue
		}
		onChange(spots)
	}
}
