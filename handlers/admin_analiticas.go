// backend/handlers/admin_analiticas.go
package handlers

import (
	"log"
	"net/http"
)

// ObtenerEstadisticas maneja GET /api/admin/estadisticas
func (a *API) ObtenerEstadisticas(w http.ResponseWriter, r *http.Request) {
	stats, err := a.Auditoria.EstadisticasGenerales(r.Context())
	if err != nil {
		log.Println("Error al obtener estadísticas:", err)
		responderError(w, http.StatusInternalServerError, "Error al obtener estadísticas")
		return
	}
	responderJSON(w, http.StatusOK, map[string]interface{}{
		"status":       "success",
		"estadisticas": stats,
	})
}

// AnaliticaUsuarios maneja GET /api/admin/analiticas/usuarios
func (a *API) AnaliticaUsuarios(w http.ResponseWriter, r *http.Request) {
	limite := clampLimite(r.URL.Query().Get("limite"), 10, 100)

	actividad, err := a.Auditoria.ActividadPorUsuario(r.Context(), limite)
	if err != nil {
		log.Println("Error en analítica de usuarios:", err)
		responderError(w, http.StatusInternalServerError, "Error en analítica de usuarios")
		return
	}
	responderJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "success",
		"actividad": actividad,
	})
}

// EventosDiarios maneja GET /api/admin/analiticas/eventos-diarios
func (a *API) EventosDiarios(w http.ResponseWriter, r *http.Request) {
	dias := clampLimite(r.URL.Query().Get("dias"), 7, 365)

	eventos, err := a.Auditoria.EventosPorDia(r.Context(), dias)
	if err != nil {
		log.Println("Error en eventos diarios:", err)
		responderError(w, http.StatusInternalServerError, "Error en eventos diarios")
		return
	}
	responderJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"eventos": eventos,
	})
}

// TimelineModos maneja GET /api/admin/analiticas/timeline-modos
func (a *API) TimelineModos(w http.ResponseWriter, r *http.Request) {
	limite := clampLimite(r.URL.Query().Get("limite"), 20, 100)

	timeline, err := a.Auditoria.TimelineCambiosModo(r.Context(), limite)
	if err != nil {
		log.Println("Error en timeline:", err)
		responderError(w, http.StatusInternalServerError, "Error en timeline de cambios")
		return
	}
	responderJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "success",
		"timeline": timeline,
	})
}

// UsoPorModo maneja GET /api/admin/analiticas/uso-por-modo
func (a *API) UsoPorModo(w http.ResponseWriter, r *http.Request) {
	modos, err := a.Auditoria.UsoPorModo(r.Context())
	if err != nil {
		log.Println("Error al obtener uso por modo:", err)
		responderError(w, http.StatusInternalServerError, "Error al obtener uso por modo")
		return
	}
	responderJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"modos":  modos,
	})
}
