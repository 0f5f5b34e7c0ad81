// backend/handlers/respuestas.go
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// API agrupa las dependencias de todos los handlers HTTP.
type API struct {
	Estado          AlmacenEstado
	Auditoria       RegistroAuditoria
	Usuarios        AlmacenUsuarios
	Configuraciones AlmacenConfiguraciones
	Sesiones        AlmacenSesiones
	Control         ControladorModos

	// DuracionSesion es la vigencia de sesión por defecto; la clave
	// timeout_sesion de la tabla configuraciones la puede sobreescribir.
	DuracionSesion time.Duration
}

func responderJSON(w http.ResponseWriter, codigo int, cuerpo interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(codigo)
	json.NewEncoder(w).Encode(cuerpo)
}

func responderError(w http.ResponseWriter, codigo int, mensaje string) {
	responderJSON(w, codigo, map[string]string{"error": mensaje})
}

// ObtenerIPReal devuelve la IP del cliente incluso detrás de proxies,
// tomando la primera entrada de X-Forwarded-For si está presente.
func ObtenerIPReal(r *http.Request) string {
	if reenviada := r.Header.Get("X-Forwarded-For"); reenviada != "" {
		return strings.TrimSpace(strings.Split(reenviada, ",")[0])
	}
	if host := r.RemoteAddr; host != "" {
		if idx := strings.LastIndex(host, ":"); idx > 0 {
			return host[:idx]
		}
		return host
	}
	return "0.0.0.0"
}

// clampLimite lee el parámetro y lo acota al techo de seguridad.
func clampLimite(valor string, porDefecto, maximo int) int {
	limite := porDefecto
	if valor != "" {
		if n, err := strconv.Atoi(valor); err == nil && n > 0 {
			limite = n
		}
	}
	if limite > maximo {
		limite = maximo
	}
	return limite
}
