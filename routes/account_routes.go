package routes

import (
	"pairplan_server/controllers"
	"pairplan_server/services"

	"github.com/gorilla/mux"
)

// RegisterAccountRoutes sets up routes for registration, login and session
// management under /api/accounts
func RegisterAccountRoutes(r *mux.Router, accountService *services.AccountService) {
	controller := controllers.NewAccountController(accountService)

	accountRouter := r.PathPrefix("/api/accounts").Subrouter()
	accountRouter.HandleFunc("/register", controller.Register).Methods("POST")
	accountRouter.HandleFunc("/login", controller.Login).Methods("POST")
	accountRouter.HandleFunc("/logout", controller.Logout).Methods("POST")
	accountRouter.HandleFunc("/me", controller.Me).Methods("GET")

	protected := r.PathPrefix("/api/accounts").Subrouter()
	protected.Use(controllers.AuthMiddleware(accountService))
	protected.HandleFunc("/push-token", controller.UpdatePushToken).Methods("PUT")
	protected.HandleFunc("/password", controller.ChangePassword).Methods("PUT")
	protected.HandleFunc("/name", controller.UpdateName).Methods("PUT")
}
