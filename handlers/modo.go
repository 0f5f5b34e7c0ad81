// backend/handlers/modo.go
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"backend/control"
)

// CambioModoRequest es el payload de POST /api/cambiar_modo
type CambioModoRequest struct {
	Modo       string `json:"modo"`
	Confirmado bool   `json:"confirmado"`
}

// CambiarModo maneja POST /api/cambiar_modo delegando toda la lógica de
// transición al controlador de modos.
func (a *API) CambiarModo(w http.ResponseWriter, r *http.Request) {
	var req CambioModoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		responderJSON(w, http.StatusBadRequest, map[string]string{
			"status": "error",
			"msg":    "Falta el parámetro 'modo' en la solicitud",
		})
		return
	}

	usuario, _ := UsuarioDesdeContexto(r.Context())
	resultado := a.Control.CambiarModo(r.Context(), control.Solicitud{
		Modo:       req.Modo,
		Confirmado: req.Confirmado,
		Usuario:    usuario.Username,
		IP:         ObtenerIPReal(r),
		UserAgent:  r.Header.Get("User-Agent"),
	})

	cuerpo := map[string]interface{}{
		"status": resultado.Status,
		"msg":    resultado.Mensaje,
	}
	switch resultado.Status {
	case control.StatusExito:
		cuerpo["estado"] = resultado.Estado
		cuerpo["timestamp"] = time.Now().Format(time.RFC3339)
	case control.StatusInfo:
		cuerpo["estado"] = resultado.Estado
	case control.StatusConfirmacion:
		cuerpo["codigo"] = resultado.Codigo
	}
	responderJSON(w, resultado.CodigoHTTP, cuerpo)
}
