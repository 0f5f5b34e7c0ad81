// backend/handlers/admin_configuraciones.go
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"backend/models"
	"backend/store"
)

// ObtenerConfiguraciones maneja GET /api/admin/configuraciones
func (a *API) ObtenerConfiguraciones(w http.ResponseWriter, r *http.Request) {
	categoria := r.URL.Query().Get("categoria")

	configs, err := a.Configuraciones.Listar(r.Context(), categoria)
	if err != nil {
		log.Println("Error al obtener configuraciones:", err)
		responderError(w, http.StatusInternalServerError, "Error al obtener configuraciones")
		return
	}
	responderJSON(w, http.StatusOK, map[string]interface{}{
		"status":          "success",
		"configuraciones": configs,
	})
}

// ActualizarConfiguracionRequest es el payload de PUT /api/admin/configuraciones/{clave}
type ActualizarConfiguracionRequest struct {
	Valor string `json:"valor"`
}

// ActualizarConfiguracion maneja PUT /api/admin/configuraciones/{clave}
func (a *API) ActualizarConfiguracion(w http.ResponseWriter, r *http.Request) {
	clave := mux.Vars(r)["clave"]

	var req ActualizarConfiguracionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		responderError(w, http.StatusBadRequest, "Datos inválidos")
		return
	}

	usuario, _ := UsuarioDesdeContexto(r.Context())
	err := a.Configuraciones.Actualizar(r.Context(), clave, req.Valor, usuario.Username)
	if errors.Is(err, store.ErrConfiguracionNoEncontrada) {
		responderError(w, http.StatusNotFound, "Configuración no encontrada")
		return
	}
	if err != nil {
		log.Println("Error al actualizar configuración:", err)
		responderError(w, http.StatusInternalServerError, "Error al actualizar configuración")
		return
	}

	a.auditar(r, models.EventoAuditoria{
		Evento:   "Configuración actualizada",
		Detalles: fmt.Sprintf("%s = %s", clave, req.Valor),
	})
	responderJSON(w, http.StatusOK, map[string]string{
		"status": "success",
		"msg":    "Configuración actualizada",
	})
}
