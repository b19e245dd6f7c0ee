package controllers

import (
	"encoding/json"
	"net/http"

	"pairplan_server/services"

	"github.com/gorilla/mux"
)

// EventController handles HTTP requests for the event lifecycle
type EventController struct {
	EventService *services.EventService
}

// NewEventController creates a new instance of EventController
func NewEventController(eventService *services.EventService) *EventController {
	return &EventController{EventService: eventService}
}

func (c *EventController) Create(w http.ResponseWriter, r *http.Request) {
	var input services.CreateEventInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	event, err := c.EventService.CreateEvent(r.Context(), CallerID(r), input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, event)
}

func (c *EventController) Accept(w http.ResponseWriter, r *http.Request) {
	eventID := mux.Vars(r)["eventId"]
	event, err := c.EventService.AcceptEvent(r.Context(), CallerID(r), eventID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

func (c *EventController) Decline(w http.ResponseWriter, r *http.Request) {
	eventID := mux.Vars(r)["eventId"]
	event, err := c.EventService.DeclineEvent(r.Context(), CallerID(r), eventID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

func (c *EventController) Delete(w http.ResponseWriter, r *http.Request) {
	eventID := mux.Vars(r)["eventId"]
	if err := c.EventService.DeleteEvent(r.Context(), CallerID(r), eventID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Event deleted successfully"})
}

func (c *EventController) Mine(w http.ResponseWriter, r *http.Request) {
	events, err := c.EventService.GetOwnEvents(r.Context(), CallerID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

func (c *EventController) Partner(w http.ResponseWriter, r *http.Request) {
	events, err := c.EventService.GetPartnerEvents(r.Context(), CallerID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

func (c *EventController) Pending(w http.ResponseWriter, r *http.Request) {
	events, err := c.EventService.GetPendingEvents(r.Context(), CallerID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

// Feed returns all three lists in one payload, mirroring what the realtime
// channel pushes on change.
func (c *EventController) Feed(w http.ResponseWriter, r *http.Request) {
	callerID := CallerID(r)

	feed := services.NewEventFeed(callerID, c.EventService, nil)
	if err := feed.Refresh(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, feed.Snapshot())
}
