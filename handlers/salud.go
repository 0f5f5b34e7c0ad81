// backend/handlers/salud.go
package handlers

import (
	"log"
	"net/http"
	"time"
)

// SaludResponse agrupa el estado operativo y la tasa de errores registrada.
type SaludResponse struct {
	Status            string `json:"status"`
	Modo              string `json:"modo"`
	Degradado         bool   `json:"degradado"`
	TotalLogs         int    `json:"total_logs"`
	Errores           int    `json:"errores"`
	PorcentajeErrores int    `json:"porcentaje_errores"` // % redondeado
	Timestamp         string `json:"timestamp"`
}

// Salud maneja GET /salud como sonda de monitoreo. Un estado degradado del
// almacén (modo ERROR) responde 503 para que el balanceador lo retire.
func (a *API) Salud(w http.ResponseWriter, r *http.Request) {
	estado := a.Estado.ObtenerEstado(r.Context())
	degradado := estado["modo_actual"] == "ERROR"

	respuesta := SaludResponse{
		Status:    "success",
		Modo:      estado["modo_actual"],
		Degradado: degradado,
		Timestamp: time.Now().Format(time.RFC3339),
	}

	if stats, err := a.Auditoria.EstadisticasGenerales(r.Context()); err == nil {
		respuesta.TotalLogs = stats.TotalLogs
		respuesta.Errores = stats.EventosNivel["ERROR"] + stats.EventosNivel["CRITICAL"]
		if stats.TotalLogs > 0 {
			respuesta.PorcentajeErrores = int(float64(respuesta.Errores) / float64(stats.TotalLogs) * 100.0)
		}
	} else {
		log.Println("Error leyendo estadísticas para salud:", err)
	}

	codigo := http.StatusOK
	if degradado {
		respuesta.Status = "error"
		codigo = http.StatusServiceUnavailable
	}
	responderJSON(w, codigo, respuesta)
}
