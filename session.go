// Copyright 2017-25 the original author or authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package osmtrack

import (
	"errors"
	"fmt"
	"sync"

	"m4o.io/osmtrack/model"
)

// ErrTrackActive is returned when starting or resuming a track while
// another one is active.
var ErrTrackActive = errors.New("a track is already active")

// Session tracks which track, if any, is being recorded. It is safe for
// concurrent use.
type Session struct {
	lib  *model.Library
	opts []EncoderOption

	mu     sync.Mutex
	active *model.Track
}

// NewSession returns a session with no active track. Tracks kept by the
// session are exported with opts.
func NewSession(lib *model.Library, opts ...EncoderOption) *Session {
	return &Session{lib: lib, opts: opts}
}

// Start creates a new track and makes it the active one.
func (s *Session) Start(name string) (*model.Track, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active != nil {
		return nil, fmt.Errorf("%w: %q", ErrTrackActive, s.active.Name())
	}

	t, err := s.lib.NewTrack(name)
	if err != nil {
		return nil, err
	}

	s.active = t

	s.lib.Logger().Info("track started", "name", t.Name())

	return t, nil
}

// Resume makes an existing track the active one.
func (s *Session) Resume(name string) (*model.Track, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active != nil {
		if s.active.Name() == name {
			return s.active, nil
		}

		return nil, fmt.Errorf("%w: %q", ErrTrackActive, s.active.Name())
	}

	t, err := s.lib.OpenTrack(name)
	if err != nil {
		return nil, err
	}

	s.active = t

	s.lib.Logger().Info("track resumed", "name", t.Name())

	return t, nil
}

// Active returns the active track, or nil.
func (s *Session) Active() *model.Track {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.active
}

// State returns the state of t, which is Active while t is the active
// track.
func (s *Session) State(t *model.Track) model.TrackState {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t == s.active {
		return model.Active
	}

	return t.State()
}

// Keep exports the active track, marks it as no longer new and deactivates
// it. It returns the path of the export, or the empty string when no track
// is active. The track stays active if the export fails.
func (s *Session) Keep() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active == nil {
		return "", nil
	}

	path, err := Export(s.active, s.opts...)
	if err != nil {
		return "", err
	}

	if err := s.active.MarkPersisted(); err != nil {
		return "", err
	}

	s.lib.Logger().Info("track kept", "name", s.active.Name(), "path", path)

	s.active = nil

	return path, nil
}

// Discard deactivates the active track, deleting it when it was never
// kept.
func (s *Session) Discard() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active == nil {
		return nil
	}

	if s.active.IsNew() {
		if err := s.active.Delete(); err != nil {
			return err
		}

		s.lib.Logger().Info("track discarded", "name", s.active.Name())
	}

	s.active = nil

	return nil
}
