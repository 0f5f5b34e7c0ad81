// backend/handlers/admin_logs.go
package handlers

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"backend/models"
)

// BusquedaLogsRequest es el payload de POST /api/admin/logs/buscar
type BusquedaLogsRequest struct {
	models.FiltrosLogs
	Limite int `json:"limite"`
}

// BuscarLogs maneja POST /api/admin/logs/buscar
func (a *API) BuscarLogs(w http.ResponseWriter, r *http.Request) {
	var req BusquedaLogsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		responderError(w, http.StatusBadRequest, "Filtros inválidos")
		return
	}
	limite := req.Limite
	if limite <= 0 {
		limite = 50
	}
	if limite > 1000 {
		limite = 1000
	}

	logs, err := a.Auditoria.BuscarLogs(r.Context(), req.FiltrosLogs, limite)
	if err != nil {
		log.Println("Error al buscar logs:", err)
		responderError(w, http.StatusInternalServerError, "Error al buscar logs")
		return
	}

	responderJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"logs":   logs,
		"total":  len(logs),
	})
}

// LimpiarLogsRequest es el payload de POST /api/admin/logs/limpiar
type LimpiarLogsRequest struct {
	Dias int `json:"dias"`
}

// LimpiarLogs maneja POST /api/admin/logs/limpiar eliminando los logs más
// antiguos que el umbral indicado.
func (a *API) LimpiarLogs(w http.ResponseWriter, r *http.Request) {
	req := LimpiarLogsRequest{Dias: 30}
	if r.Body != nil {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			responderError(w, http.StatusBadRequest, "Datos inválidos")
			return
		}
	}
	if req.Dias <= 0 {
		req.Dias = 30
	}

	eliminados, err := a.Auditoria.EliminarLogsAntiguos(r.Context(), req.Dias)
	if err != nil {
		log.Println("Error al limpiar logs:", err)
		responderError(w, http.StatusInternalServerError, "Error al limpiar logs")
		return
	}

	a.auditar(r, models.EventoAuditoria{
		Evento:   "Limpieza de logs",
		Detalles: fmt.Sprintf("Eliminados %d registros anteriores a %d días", eliminados, req.Dias),
	})
	responderJSON(w, http.StatusOK, map[string]interface{}{
		"status":     "success",
		"msg":        fmt.Sprintf("Se eliminaron %d registros", eliminados),
		"eliminados": eliminados,
	})
}

// ExportarLogs maneja GET /api/admin/exportar/logs generando un CSV con
// columnas ID, Fecha, Nivel, Usuario, Evento, Detalles, IP. El límite se
// acota a 1000 registros.
func (a *API) ExportarLogs(w http.ResponseWriter, r *http.Request) {
	limite := clampLimite(r.URL.Query().Get("limite"), 1000, 1000)

	logs, err := a.Auditoria.UltimosLogs(r.Context(), limite)
	if err != nil {
		log.Println("Error al exportar logs:", err)
		responderError(w, http.StatusInternalServerError, "Error al exportar logs")
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=logs_%s.csv", time.Now().Format("20060102_150405")))

	escritor := csv.NewWriter(w)
	escritor.Write([]string{"ID", "Fecha", "Nivel", "Usuario", "Evento", "Detalles", "IP"})
	for _, l := range logs {
		fila := filaLog(l)
		escritor.Write([]string{
			strconv.FormatInt(fila.ID, 10),
			fila.Fecha,
			fila.Nivel,
			fila.Usuario,
			fila.Evento,
			fila.Detalle,
			fila.IP,
		})
	}
	escritor.Flush()
	if err := escritor.Error(); err != nil {
		log.Println("Error escribiendo CSV:", err)
		return
	}

	a.auditar(r, models.EventoAuditoria{
		Evento:   "Exportación de datos",
		Detalles: fmt.Sprintf("Exportados %d registros a CSV", len(logs)),
	})
}
