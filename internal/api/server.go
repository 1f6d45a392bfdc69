package api

import (
	"net/http"

	"github.com/riadims/boardGame-rental/internal/config"
	"github.com/riadims/boardGame-rental/internal/database"
)

type Server struct {
	config *config.Config
	store  *database.Store
}

func NewServer(cfg *config.Config, store *database.Store) *Server {
	return &Server{
		config: cfg,
		store:  store,
	}
}

// @Summary      Health check
// @Description  Verifies that the server is up and can reach the database.
// @Tags         health
// @Success      200  {string}  string "OK"
// @Failure      503  {string}  string "Service Unavailable"
// @Router       /health [get]
func (s *Server) HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.store.GetPool().Ping(r.Context()); err != nil {
		http.Error(w, "Database unreachable", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
