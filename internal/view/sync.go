// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package view

import (
	"log"
	"sort"

	"github.com/google/uuid"

	"github.com/jeranaias/cubetui/internal/cube"
)

// Surface3D is the rendering backend for one 3D iso-surface view. The
// backend may report itself unavailable (not ready); callers treat that
// as transient.
type Surface3D interface {
	// SetSamples replaces the displayed voxel set.
	SetSamples(vox []cube.Voxel) error
	// Projection returns the camera transform last applied.
	Projection() ProjectionState
	// SetProjection applies a camera transform verbatim.
	SetProjection(p ProjectionState) error
}

// Synchronizer keeps secondary 3D views' cameras matched to the primary
// view. It is a two-state machine, Linked (the default) and Unlinked;
// the only transition is an explicit user toggle. While Linked, every
// frame-complete signal from the primary copies the primary's projection
// verbatim into each registered secondary, overwriting any drift. The
// reverse direction is never applied.
type Synchronizer struct {
	primary     Surface3D
	secondaries map[string]Surface3D
	linked      bool
	logf        func(format string, args ...any)
}

// NewSynchronizer builds a synchronizer for the given primary view.
// Linking starts enabled.
func NewSynchronizer(primary Surface3D) *Synchronizer {
	return &Synchronizer{
		primary:     primary,
		secondaries: make(map[string]Surface3D),
		linked:      true,
		logf:        log.Printf,
	}
}

// SetLogf redirects copy-failure logging. A nil sink discards.
func (s *Synchronizer) SetLogf(logf func(format string, args ...any)) {
	s.logf = logf
}

// Linked reports whether propagation is enabled.
func (s *Synchronizer) Linked() bool { return s.linked }

// SetLinked sets the propagation state. Only user toggles call this;
// nothing re-links automatically.
func (s *Synchronizer) SetLinked(linked bool) { s.linked = linked }

// Toggle flips the propagation state and returns the new value.
func (s *Synchronizer) Toggle() bool {
	s.linked = !s.linked
	return s.linked
}

// AddSecondary registers a linked view and returns its handle for
// RemoveSecondary.
func (s *Synchronizer) AddSecondary(sec Surface3D) string {
	id := uuid.NewString()
	s.secondaries[id] = sec
	return id
}

// RemoveSecondary drops a linked view. Unknown handles are a no-op.
func (s *Synchronizer) RemoveSecondary(id string) {
	delete(s.secondaries, id)
}

// Secondaries returns the number of registered linked views.
func (s *Synchronizer) Secondaries() int { return len(s.secondaries) }

// FrameComplete is the per-frame signal from the primary view. While
// Linked it copies the primary projection into every secondary. A missing
// secondary is skipped, and a copy failure (backend not ready) is logged
// and swallowed; the next frame retries. Nothing here ever propagates an
// error past the synchronizer.
func (s *Synchronizer) FrameComplete() {
	if !s.linked || s.primary == nil || len(s.secondaries) == 0 {
		return
	}
	p := s.primary.Projection()

	// Stable order keeps failure logs deterministic.
	ids := make([]string, 0, len(s.secondaries))
	for id := range s.secondaries {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		sec := s.secondaries[id]
		if sec == nil {
			continue
		}
		if err := sec.SetProjection(p); err != nil {
			if s.logf != nil {
				s.logf("view: projection copy to %s failed, retrying next frame: %v", id, err)
			}
		}
	}
}
