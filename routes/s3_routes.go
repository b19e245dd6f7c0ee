package routes

import (
	"pairplan_server/controllers"
	"pairplan_server/services"

	"github.com/gorilla/mux"
)

// RegisterS3Routes sets up routes for avatar upload/read URLs
func RegisterS3Routes(r *mux.Router, accountService *services.AccountService) {
	controller := controllers.NewS3Controller(accountService)

	s3Router := r.PathPrefix("/api/avatars").Subrouter()
	s3Router.Use(controllers.AuthMiddleware(accountService))

	s3Router.HandleFunc("/upload-url", controller.GenerateAvatarUploadURL).Methods("POST")
	s3Router.HandleFunc("/confirm", controller.ConfirmAvatarUpload).Methods("POST")
	s3Router.HandleFunc("/read-url", controller.GetAvatarReadURL).Methods("POST")
}
