// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package registry

import (
	"errors"

	"github.com/danielhkuo/classpoll/models"
)

var (
	ErrNotTeacher       = errors.New("requester is not a teacher")
	ErrTargetNotFound   = errors.New("target not registered")
	ErrTargetNotStudent = errors.New("target is not a student")
)

// Registry tracks joined participants in join order.
// It is not safe for concurrent use; the dispatcher owns it.
type Registry struct {
	byID  map[string]models.Participant
	order []string
}

func New() *Registry {
	return &Registry{byID: make(map[string]models.Participant)}
}

// Join adds a participant. Joining again with the same session id
// overwrites the earlier entry in place.
func (r *Registry) Join(sessionID, name string, role models.Role) models.Participant {
	p := models.Participant{SessionID: sessionID, Name: name, Role: role}
	if _, exists := r.byID[sessionID]; !exists {
		r.order = append(r.order, sessionID)
	}
	r.byID[sessionID] = p
	return p
}

// Leave removes the participant and reports whether one was present
func (r *Registry) Leave(sessionID string) bool {
	if _, exists := r.byID[sessionID]; !exists {
		return false
	}
	delete(r.byID, sessionID)
	for i, id := range r.order {
		if id == sessionID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// Remove force-removes a student on behalf of a teacher
func (r *Registry) Remove(requesterID, targetID string) (models.Participant, error) {
	requester, ok := r.byID[requesterID]
	if !ok || requester.Role != models.RoleTeacher {
		return models.Participant{}, ErrNotTeacher
	}
	target, ok := r.byID[targetID]
	if !ok {
		return models.Participant{}, ErrTargetNotFound
	}
	if target.Role != models.RoleStudent {
		return models.Participant{}, ErrTargetNotStudent
	}
	r.Leave(targetID)
	return target, nil
}

func (r *Registry) Get(sessionID string) (models.Participant, bool) {
	p, ok := r.byID[sessionID]
	return p, ok
}

// ListByRole returns participants with the given role in join order
func (r *Registry) ListByRole(role models.Role) []models.Participant {
	out := []models.Participant{}
	for _, id := range r.order {
		if p := r.byID[id]; p.Role == role {
			out = append(out, p)
		}
	}
	return out
}

func (r *Registry) Count(role models.Role) int {
	n := 0
	for _, p := range r.byID {
		if p.Role == role {
			n++
		}
	}
	return n
}

// Snapshot returns every participant in join order
func (r *Registry) Snapshot() []models.Participant {
	out := make([]models.Participant, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}

func (r *Registry) Len() int { return len(r.byID) }
