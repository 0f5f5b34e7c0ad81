// backend/handlers/estado.go
package handlers

import (
	"net/http"
	"time"
)

// ObtenerEstado maneja GET /api/estado
func (a *API) ObtenerEstado(w http.ResponseWriter, r *http.Request) {
	estado := a.Estado.ObtenerEstado(r.Context())
	responderJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "success",
		"estado":    estado,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
