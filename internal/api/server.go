package api

import (
	"log/slog"
	"net/http"

	"github.com/daniosoriov/todo-manager/internal/config"
	"github.com/daniosoriov/todo-manager/internal/services"
)

type Server struct {
	Config  *config.Config
	log     *slog.Logger
	service *services.Service
}

func NewServer(config *config.Config, log *slog.Logger, service *services.Service) *Server {
	return &Server{
		Config:  config,
		log:     log,
		service: service,
	}
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("POST /v1.0/auth/register", s.Register())
	mux.Handle("POST /v1.0/auth/login", s.Login())
	mux.Handle("POST /v1.0/auth/refresh-token", s.RateLimitMiddleware()(s.RefreshAuthMiddleware()(s.RefreshToken())))

	mux.Handle("GET /v1.0/task", s.AuthMiddleware()(s.GetTasks()))
	mux.Handle("GET /v1.0/task/{taskId}", s.AuthMiddleware()(s.GetTask()))
	mux.Handle("POST /v1.0/task", s.AuthMiddleware()(s.CreateTask()))
	mux.Handle("PUT /v1.0/task/{taskId}", s.AuthMiddleware()(s.UpdateTask()))
	mux.Handle("DELETE /v1.0/task/{taskId}", s.AuthMiddleware()(s.DeleteTask()))

	return s.LogRequestMiddleware()(mux)
}

func (s *Server) Start() error {
	server := &http.Server{
		Addr:    ":" + s.Config.Port,
		Handler: s.Routes(),
	}

	s.log.Info("Starting server on port: " + server.Addr)
	if err := server.ListenAndServe(); err != nil {
		return err
	}
	return nil
}
