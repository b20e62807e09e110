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

package model

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidName   = errors.New("invalid track name")
	ErrTrackExists   = errors.New("track already exists")
	ErrTrackNotFound = errors.New("track not found")
	ErrTrackDeleted  = errors.New("track has been deleted")
	ErrDuplicateNode = errors.New("node is already a member of the way")
	ErrForeignNode   = errors.New("node belongs to another track")
	ErrEmptyKey      = errors.New("tag key is empty")
	ErrInvalidMedia  = errors.New("media file is not a plain file name")
)

// RenameResult is the outcome of renaming a track.
type RenameResult int

const (
	// RenameOK means the track now carries the new name.
	RenameOK RenameResult = iota

	// RenameNotFound means the track does not exist (any more).
	RenameNotFound

	// RenameExists means another track already uses the new name.
	RenameExists

	// RenameFailed means the name is unusable or the directory could not
	// be renamed. Nothing was changed.
	RenameFailed
)

func (r RenameResult) String() string {
	switch r {
	case RenameOK:
		return "ok"
	case RenameNotFound:
		return "not found"
	case RenameExists:
		return "name already exists"
	case RenameFailed:
		return "rename failed"
	default:
		return fmt.Sprintf("RenameResult(%d)", int(r))
	}
}

// TrackState is the life cycle position of a track.
type TrackState int

const (
	// New tracks have not been kept yet.
	New TrackState = iota

	// Active is the track currently being recorded by a session.
	Active

	// Persisted tracks have been kept.
	Persisted

	// Deleted is terminal.
	Deleted
)

func (s TrackState) String() string {
	switch s {
	case New:
		return "new"
	case Active:
		return "active"
	case Persisted:
		return "persisted"
	case Deleted:
		return "deleted"
	default:
		return fmt.Sprintf("TrackState(%d)", int(s))
	}
}
