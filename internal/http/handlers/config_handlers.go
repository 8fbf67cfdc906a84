package handlers

import "net/http"

// GetConfigHandler godoc
// @Summary Show the resolved application configuration
// @Description Echoes the connection string verbatim, credentials included. Set CONFIG_AUTH_SECRET to require a bearer token.
// @Tags config
// @Produce json
// @Success 200 {object} ConfigResponse
// @Failure 401 {string} string "Unauthorized"
// @Router /config [get]
func (s *Server) GetConfigHandler(w http.ResponseWriter, r *http.Request) {
	s.respond(w, http.StatusOK, ConfigResponse{ConnectionString: s.app.ConnectionString})
}
