// backend/handlers/historial.go
package handlers

import (
	"log"
	"net/http"

	"backend/models"
)

// filaHistorial es la vista serializada de un log para el dashboard.
type filaHistorial struct {
	ID      int64  `json:"id"`
	Fecha   string `json:"fecha"`
	Nivel   string `json:"nivel"`
	Usuario string `json:"usuario"`
	Evento  string `json:"evento"`
	Detalle string `json:"detalle"`
	IP      string `json:"ip"`
}

// ObtenerHistorial maneja GET /api/historial con paginación opcional.
// El límite se acota a 100 registros por seguridad.
func (a *API) ObtenerHistorial(w http.ResponseWriter, r *http.Request) {
	limite := clampLimite(r.URL.Query().Get("limite"), 20, 100)

	logs, err := a.Auditoria.UltimosLogs(r.Context(), limite)
	if err != nil {
		log.Println("Error al obtener historial:", err)
		responderJSON(w, http.StatusInternalServerError, map[string]string{
			"status": "error",
			"msg":    "Error al recuperar historial",
		})
		return
	}

	filas := make([]filaHistorial, 0, len(logs))
	for _, l := range logs {
		filas = append(filas, filaLog(l))
	}

	responderJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"logs":   filas,
		"total":  len(filas),
	})
}

func filaLog(l models.LogAuditoria) filaHistorial {
	fila := filaHistorial{
		ID:      l.ID,
		Fecha:   l.Fecha.Format("2006-01-02 15:04:05"),
		Nivel:   l.Nivel,
		Usuario: "Sistema",
		Evento:  l.Evento,
	}
	if l.Usuario != nil {
		fila.Usuario = *l.Usuario
	}
	if l.Detalles != nil {
		fila.Detalle = *l.Detalles
	}
	if l.OrigenIP != nil {
		fila.IP = *l.OrigenIP
	}
	return fila
}
