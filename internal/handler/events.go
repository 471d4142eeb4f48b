package handler

import (
	"net/http"

	"github.com/Shivanand-hulikatti/eventreg/internal/model"
	"github.com/Shivanand-hulikatti/eventreg/internal/security"
)

// Home handles GET /
// Lists every event and flags the ones the current user registered for.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	u := currentUser(r)
	events, err := h.events.List(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	registered, err := h.registrations.RegisteredEventIDs(r.Context(), u.ID)
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	// Return an empty array rather than null for better client compatibility.
	if events == nil {
		events = []model.Event{}
	}
	h.render(w, r, "home", map[string]any{
		"events":     events,
		"registered": registered,
	})
}

// ListEvents handles GET /events
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.events.List(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	if events == nil {
		events = []model.Event{}
	}
	h.render(w, r, "events", map[string]any{"events": events})
}

// GetEvent handles GET /events/{id}
// Shows the event, its registrants and what the current user may do with it.
func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		h.fail(w, r, model.ErrNotFound, "/events", "/events")
		return
	}
	u := currentUser(r)

	event, err := h.events.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, err, "/events", "/events")
		return
	}
	attendees, err := h.registrations.Attendees(r.Context(), id)
	if err != nil {
		h.fail(w, r, err, "/events", "/events")
		return
	}
	registered, err := h.registrations.IsRegistered(r.Context(), u.ID, id)
	if err != nil {
		h.fail(w, r, err, "/events", "/events")
		return
	}

	names := make([]string, 0, len(attendees))
	for _, a := range attendees {
		names = append(names, a.Username)
	}
	h.render(w, r, "event", map[string]any{
		"event":         event,
		"attendees":     names,
		"is_registered": registered,
		"can_modify":    h.events.CanModify(r.Context(), u.ID, event),
	})
}

// NewEventForm handles GET /events/add
func (h *Handler) NewEventForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "event_form", map[string]any{"event": nil})
}

// CreateEvent handles POST /events/add
// The signed-in user becomes the owner.
func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	if err := h.parseForm(w, r); err != nil {
		h.fail(w, r, err, "/events/add", "/events")
		return
	}
	fields, err := eventFields(r)
	if err != nil {
		h.fail(w, r, err, "/events/add", "/events")
		return
	}
	img, release, err := imageUpload(r)
	defer release()
	if err != nil {
		h.fail(w, r, err, "/events/add", "/events")
		return
	}

	event, err := h.events.Create(r.Context(), currentUser(r).ID, fields, img)
	if err != nil {
		h.fail(w, r, err, "/events/add", "/events")
		return
	}

	h.notify(w, r, security.FlashSuccess, "flash.event.created", nil)
	redirect(w, r, eventPath(event.ID))
}

// EditEventForm handles GET /events/{id}/edit
func (h *Handler) EditEventForm(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		h.fail(w, r, model.ErrNotFound, "/events", "/events")
		return
	}

	event, err := h.events.Editable(r.Context(), currentUser(r).ID, id)
	if err != nil {
		h.fail(w, r, err, eventPath(id), "/events")
		return
	}
	h.render(w, r, "event_form", map[string]any{"event": event})
}

// UpdateEvent handles POST /events/{id}/edit
// Only the owner or an admin may update; the owner never changes.
func (h *Handler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		h.fail(w, r, model.ErrNotFound, "/events", "/events")
		return
	}
	actorID := currentUser(r).ID
	if _, err := h.events.Editable(r.Context(), actorID, id); err != nil {
		h.fail(w, r, err, eventPath(id), "/events")
		return
	}

	editPath := eventPath(id) + "/edit"
	if err := h.parseForm(w, r); err != nil {
		h.fail(w, r, err, editPath, "/events")
		return
	}
	fields, err := eventFields(r)
	if err != nil {
		h.fail(w, r, err, editPath, "/events")
		return
	}
	img, release, err := imageUpload(r)
	defer release()
	if err != nil {
		h.fail(w, r, err, editPath, "/events")
		return
	}

	if _, err := h.events.Update(r.Context(), actorID, id, fields, img); err != nil {
		h.fail(w, r, err, editPath, "/events")
		return
	}

	h.notify(w, r, security.FlashSuccess, "flash.event.updated", nil)
	redirect(w, r, eventPath(id))
}

// DeleteEvent handles GET /events/{id}/delete
// Removes the event together with all of its registrations.
func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		h.fail(w, r, model.ErrNotFound, "/events", "/events")
		return
	}

	if err := h.events.Delete(r.Context(), currentUser(r).ID, id); err != nil {
		h.fail(w, r, err, eventPath(id), "/events")
		return
	}

	h.notify(w, r, security.FlashSuccess, "flash.event.deleted", nil)
	redirect(w, r, "/events")
}

// RegisterForEvent handles GET /events/{id}/register
func (h *Handler) RegisterForEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		h.fail(w, r, model.ErrNotFound, "/events", "/events")
		return
	}

	if _, err := h.registrations.Register(r.Context(), currentUser(r).ID, id); err != nil {
		h.fail(w, r, err, eventPath(id), "/events")
		return
	}

	h.notify(w, r, security.FlashSuccess, "flash.registration.success", nil)
	redirect(w, r, eventPath(id))
}
