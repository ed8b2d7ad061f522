// Package session maintains a locally readable, eventually consistent view
// of one remote Passhare session: its metadata and shared-file list.
//
// Reconciliation is full-snapshot replace: every refresh overwrites the
// prior local state with what the server returned, last completed fetch
// wins. The server is the sole source of truth; the client only mutates
// session state through the explicit action calls below.
package session

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/dvolkovs/fileshare/internal/client/api"
	"github.com/dvolkovs/fileshare/internal/client/models"
)

// CodeLength is the fixed length of a session join code.
const CodeLength = 8

// Identity supplies the cached local user identity used for pre-flight
// permission checks. Implemented by the auth store.
type Identity interface {
	CurrentUserID() (int64, bool)
}

// Snapshot is a point-in-time copy of the local session view.
// Session and Files may briefly disagree with each other: the two fetches
// inside one refresh resolve into state independently, and both converge
// within one polling interval.
type Snapshot struct {
	Session *models.Session
	Files   []*models.SessionFile
	Ended   bool
}

// Service implements the session client operations against the backend.
// It is safe for concurrent use: the poller writes snapshots from its own
// goroutine while the UI reads them.
type Service struct {
	api      api.PasshareAPI
	identity Identity

	mu      sync.RWMutex
	session *models.Session
	files   []*models.SessionFile
	ended   bool
}

func NewService(api api.PasshareAPI, identity Identity) *Service {
	return &Service{api: api, identity: identity}
}

// Create requests a new session from the backend. Backend errors are
// surfaced to the caller unmodified; no local state exists before success.
func (s *Service) Create(ctx context.Context) (*models.Session, error) {
	sess, err := s.api.CreateSession(ctx)
	if err != nil {
		return nil, err
	}
	return sess, nil
}

// NormalizeCode validates and canonicalizes a join code: trimmed, exactly
// CodeLength characters, uppercased. Returns ErrValidation without any
// network traffic for malformed input.
func NormalizeCode(code string) (string, error) {
	code = strings.TrimSpace(code)
	if len(code) != CodeLength {
		return "", fmt.Errorf("%w: join code must be exactly %d characters", api.ErrValidation, CodeLength)
	}
	return strings.ToUpper(code), nil
}

// Join joins the session addressed by code. The code is validated and
// uppercased locally before transmission.
func (s *Service) Join(ctx context.Context, code string) (*models.Session, error) {
	normalized, err := NormalizeCode(code)
	if err != nil {
		return nil, err
	}
	sess, err := s.api.JoinSession(ctx, normalized)
	if err != nil {
		return nil, err
	}
	return sess, nil
}

// Refresh fetches the session metadata and the shared-file list in
// parallel and replaces the local snapshot with the results. Each fetch
// resolves into state independently; there is no merge and no per-field
// diffing. Returns the first fetch error, if any; the previous snapshot
// stays in place for whichever half failed.
func (s *Service) Refresh(ctx context.Context, sessionID int64) error {
	var wg sync.WaitGroup
	var sessErr, filesErr error

	wg.Add(2)
	go func() {
		defer wg.Done()
		sess, err := s.api.GetSession(ctx, sessionID)
		if err != nil {
			sessErr = err
			return
		}
		s.applySession(sess)
	}()
	go func() {
		defer wg.Done()
		files, err := s.api.SessionFiles(ctx, sessionID)
		if err != nil {
			filesErr = err
			return
		}
		s.applyFiles(files)
	}()
	wg.Wait()

	if sessErr != nil {
		return sessErr
	}
	return filesErr
}

func (s *Service) applySession(sess *models.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = sess
	if !sess.Active {
		// ended is absorbing: once observed, the session never goes back.
		s.ended = true
	}
}

func (s *Service) applyFiles(files []*models.SessionFile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files = files
}

// Participants lists the session's current participants.
func (s *Service) Participants(ctx context.Context, sessionID int64) ([]*models.Participant, error) {
	return s.api.SessionParticipants(ctx, sessionID)
}

// ShareFile adds one of the caller's files to the session. Local state is
// not updated optimistically; callers refresh to observe the result.
func (s *Service) ShareFile(ctx context.Context, sessionID, fileID int64) (*models.SessionFile, error) {
	sf, err := s.api.ShareSessionFile(ctx, sessionID, fileID)
	if err != nil {
		return nil, err
	}
	return sf, nil
}

// RemoveSharedFile removes a shared file from the session. Only the sharer
// or the session creator may remove it; the check runs locally against the
// cached snapshot before any network call, and the server enforces it again.
func (s *Service) RemoveSharedFile(ctx context.Context, sessionID, sessionFileID int64) error {
	if err := s.checkRemovePermitted(sessionFileID); err != nil {
		return err
	}
	return s.api.RemoveSessionFile(ctx, sessionID, sessionFileID)
}

func (s *Service) checkRemovePermitted(sessionFileID int64) error {
	userID, ok := s.identity.CurrentUserID()
	if !ok {
		return nil // no cached identity, let the server decide
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var target *models.SessionFile
	for _, sf := range s.files {
		if sf.ID == sessionFileID {
			target = sf
			break
		}
	}
	if target == nil {
		return nil // unknown locally, let the server decide
	}
	if target.SharedByUserID == userID {
		return nil
	}
	if s.session != nil && s.session.CreatorID == userID {
		return nil
	}
	return fmt.Errorf("%w: only the sharer or the session creator can remove a shared file", api.ErrNotOwner)
}

// Leave removes the current user from the session. The creator is refused
// locally: they must end the session instead.
func (s *Service) Leave(ctx context.Context, sessionID int64) error {
	if userID, ok := s.identity.CurrentUserID(); ok {
		s.mu.RLock()
		isCreator := s.session != nil && s.session.ID == sessionID && s.session.CreatorID == userID
		s.mu.RUnlock()
		if isCreator {
			return fmt.Errorf("%w: the session creator must end the session instead of leaving", api.ErrValidation)
		}
	}
	return s.api.LeaveSession(ctx, sessionID)
}

// End terminates the session for all participants.
func (s *Service) End(ctx context.Context, sessionID int64) error {
	if err := s.api.EndSession(ctx, sessionID); err != nil {
		return err
	}
	s.mu.Lock()
	s.ended = true
	s.mu.Unlock()
	return nil
}

// Ended reports whether a terminal state has been observed.
func (s *Service) Ended() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ended
}

// Snapshot returns a copy of the current local view.
func (s *Service) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{Ended: s.ended}
	if s.session != nil {
		sess := *s.session
		snap.Session = &sess
	}
	if s.files != nil {
		snap.Files = make([]*models.SessionFile, len(s.files))
		copy(snap.Files, s.files)
	}
	return snap
}
