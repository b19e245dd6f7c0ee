package routes

import (
	"pairplan_server/controllers"
	"pairplan_server/services"

	"github.com/gorilla/mux"
)

// RegisterEventRoutes sets up routes for event operations under /api/events
func RegisterEventRoutes(r *mux.Router, eventService *services.EventService, accountService *services.AccountService) {
	controller := controllers.NewEventController(eventService)

	eventRouter := r.PathPrefix("/api/events").Subrouter()
	eventRouter.Use(controllers.AuthMiddleware(accountService))

	eventRouter.HandleFunc("", controller.Create).Methods("POST")
	eventRouter.HandleFunc("/mine", controller.Mine).Methods("GET")
	eventRouter.HandleFunc("/partner", controller.Partner).Methods("GET")
	eventRouter.HandleFunc("/pending", controller.Pending).Methods("GET")
	eventRouter.HandleFunc("/feed", controller.Feed).Methods("GET")
	eventRouter.HandleFunc("/{eventId}/accept", controller.Accept).Methods("POST")
	eventRouter.HandleFunc("/{eventId}/decline", controller.Decline).Methods("POST")
	eventRouter.HandleFunc("/{eventId}", controller.Delete).Methods("DELETE")
}
