package session

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/klokal/databuilder/internal/library"
	"github.com/klokal/databuilder/internal/model"
	"github.com/klokal/databuilder/util/storage"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionClosed   = errors.New("session already closed")
)

// Saver is the persistence call commit goes through. It enforces the
// optimistic version check.
type Saver interface {
	Save(ctx context.Context, spot model.Spot) (model.Spot, error)
}

// Manager tracks open sessions and runs the commit pipeline: upload pending
// images, persist the working copy, publish it to the shared collection.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session

	library   *library.Library
	saver     Saver
	uploader  storage.Uploader
	broadcast func(model.Spot)
}

func NewManager(lib *library.Library, saver Saver, uploader storage.Uploader, broadcast func(model.Spot)) *Manager {
	if broadcast == nil {
		broadcast = func(model.Spot) {}
	}
	return &Manager{
		sessions:  make(map[string]*Session),
		library:   lib,
		saver:     saver,
		uploader:  uploader,
		broadcast: broadcast,
	}
}

// Open starts a session on a spot already in the collection.
func (m *Manager) Open(spotID string) (*Session, error) {
	spot, ok := m.library.Get(spotID)
	if !ok {
		return nil, errors.Wrapf(ErrSessionNotFound, "no spot %s to open", spotID)
	}
	return m.OpenSpot(spot), nil
}

// OpenSpot starts a session on a spot the caller already holds, typically a
// freshly synthesized draft that is not in the collection yet.
func (m *Manager) OpenSpot(spot model.Spot) *Session {
	sess := &Session{
		ID:   uuid.NewString(),
		step: stepFor(spot.Status),
		spot: spot.Clone(),
	}

	m.mu.Lock()
	m.sessions[sess.ID] = sess
	m.mu.Unlock()
	return sess
}

func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[id]
	return sess, ok
}

// Abandon closes a session and drops its working copy. A commit already in
// flight for the session will see the closed flag and discard its result.
func (m *Manager) Abandon(id string) error {
	m.mu.Lock()
	sess, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}

	sess.mu.Lock()
	sess.closed = true
	sess.mu.Unlock()
	return nil
}

// AddLink attaches a typed link to the session's spot. The target is matched
// by exact name in the collection; an unknown name gets a stub created and
// persisted right away so the link never dangles.
func (m *Manager) AddLink(ctx context.Context, sessionID, linkType, targetName string) (model.LinkedSpot, error) {
	if !model.IsLinkType(linkType) {
		return model.LinkedSpot{}, errors.Wrapf(ErrInvalidValue, "unknown link type %q", linkType)
	}

	sess, ok := m.Get(sessionID)
	if !ok {
		return model.LinkedSpot{}, ErrSessionNotFound
	}

	target, found := m.library.FindByName(targetName)
	if !found {
		stub := m.library.CreateStub(targetName, time.Now())
		saved, err := m.saver.Save(ctx, stub)
		if err != nil {
			return model.LinkedSpot{}, errors.Wrap(err, "failed to persist stub target")
		}
		m.library.Upsert(saved)
		m.broadcast(saved)
		target = saved
	}

	link := model.LinkedSpot{
		LinkType:  linkType,
		PlaceID:   target.PlaceID,
		PlaceName: target.PlaceName,
	}
	if err := sess.addLink(link); err != nil {
		return model.LinkedSpot{}, err
	}
	return link, nil
}

type uploadResult struct {
	index int
	url   string
	err   error
}

// Commit finalizes a session. Pending image uploads run concurrently; if any
// of them fails the commit fails as a whole and the session stays open with
// its binaries intact, so the editor can retry. On success the spot is
// persisted with the version check, mirrored into the collection, broadcast
// and the session discarded.
func (m *Manager) Commit(ctx context.Context, sessionID string) (model.Spot, error) {
	sess, ok := m.Get(sessionID)
	if !ok {
		return model.Spot{}, ErrSessionNotFound
	}

	snapshot := sess.Spot()

	var pending []int
	for i, img := range snapshot.Images {
		if img.PendingUpload() {
			pending = append(pending, i)
		}
	}

	if len(pending) > 0 {
		results := make(chan uploadResult, len(pending))
		var wg sync.WaitGroup
		for _, i := range pending {
			wg.Add(1)
			go func(i int, data []byte) {
				defer wg.Done()
				name := fmt.Sprintf("%s_%d", snapshot.PlaceID, i)
				url, err := m.uploader.UploadImage(ctx, name, data)
				results <- uploadResult{index: i, url: url, err: err}
			}(i, snapshot.Images[i].LocalData)
		}
		wg.Wait()
		close(results)

		var failures []string
		for r := range results {
			if r.err != nil {
				failures = append(failures, fmt.Sprintf("image %d: %v", r.index, r.err))
				continue
			}
			snapshot.Images[r.index].URL = r.url
			snapshot.Images[r.index].LocalData = nil
		}
		if len(failures) > 0 {
			return model.Spot{}, errors.Errorf("commit aborted, uploads failed: %s", strings.Join(failures, "; "))
		}
	}

	// The session may have been abandoned while uploads ran.
	sess.mu.Lock()
	if sess.closed {
		sess.mu.Unlock()
		return model.Spot{}, ErrSessionClosed
	}
	sess.mu.Unlock()

	if snapshot.Status == model.StatusStub {
		snapshot.Status = model.StatusDraft
	}
	snapshot.UpdatedAt = model.TimestampOf(time.Now())

	saved, err := m.saver.Save(ctx, snapshot)
	if err != nil {
		return model.Spot{}, err
	}

	m.library.Upsert(saved)
	m.broadcast(saved)

	sess.mu.Lock()
	sess.closed = true
	sess.mu.Unlock()

	m.mu.Lock()
	delete(m.sessions, sessionID)
	m.mu.Unlock()

	return saved, nil
}
