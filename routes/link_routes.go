package routes

import (
	"pairplan_server/controllers"
	"pairplan_server/services"

	"github.com/gorilla/mux"
)

// RegisterLinkRoutes sets up routes for the account-linking flow under
// /api/link
func RegisterLinkRoutes(r *mux.Router, linkService *services.LinkService, accountService *services.AccountService) {
	controller := controllers.NewLinkController(linkService)

	linkRouter := r.PathPrefix("/api/link").Subrouter()
	linkRouter.Use(controllers.AuthMiddleware(accountService))

	linkRouter.HandleFunc("", controller.Link).Methods("POST")
	linkRouter.HandleFunc("/unlink", controller.Unlink).Methods("POST")
	linkRouter.HandleFunc("/partner", controller.Partner).Methods("GET")
	linkRouter.HandleFunc("/share-code", controller.RegenerateShareCode).Methods("POST")
}
