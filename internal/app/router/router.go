package router

import (
	"net/http"

	"github.com/AlenaMolokova/passgen/internal/app/handler"
	"github.com/AlenaMolokova/passgen/internal/app/middleware"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type Router struct {
	handler handler.Admin
}

func NewRouter(handler handler.Admin) *Router {
	return &Router{
		handler: handler,
	}
}

func (r *Router) InitRoutes() *mux.Router {
	router := mux.NewRouter()

	router.Use(middleware.GzipMiddleware)
	router.Use(middleware.LoggingMiddleware)

	router.HandleFunc("/ping", r.handler.HandlePing).Methods(http.MethodGet)
	router.HandleFunc("/api/stats", r.handler.HandleStats).Methods(http.MethodGet)
	router.HandleFunc("/api/history", r.handler.HandleHistory).Methods(http.MethodGet)

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logrus.WithFields(logrus.Fields{
			"uri":    r.RequestURI,
			"method": r.Method,
		}).Info("Route not found")
		http.Error(w, "Not Found", http.StatusNotFound)
	})

	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logrus.WithFields(logrus.Fields{
			"uri":    r.RequestURI,
			"method": r.Method,
		}).Info("Method not allowed")
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	})

	return router
}
