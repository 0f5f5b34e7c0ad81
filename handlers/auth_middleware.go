// backend/handlers/auth_middleware.go
package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"backend/models"
	"backend/store"
)

// ctxKey es el tipo que usamos para guardar la identidad en el contexto de
// la petición.
type ctxKey string

const ctxUsuarioKey ctxKey = "usuario"

// UsuarioDesdeContexto recupera la identidad autenticada de la petición.
func UsuarioDesdeContexto(ctx context.Context) (models.UsuarioSesion, bool) {
	us, ok := ctx.Value(ctxUsuarioKey).(models.UsuarioSesion)
	return us, ok
}

// vigenciaSesion resuelve la vigencia efectiva: la clave timeout_sesion de
// la tabla configuraciones manda; si no existe se usa la configuración local.
func (a *API) vigenciaSesion(ctx context.Context) time.Duration {
	segundos := a.Configuraciones.ValorEntero(ctx, "timeout_sesion", int(a.DuracionSesion.Seconds()))
	return time.Duration(segundos) * time.Second
}

// RequiereAutenticacion verifica que la petición incluya un header
// "X-Session-Token" con una sesión activa y deja la identidad en el contexto.
func (a *API) RequiereAutenticacion(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get("X-Session-Token")
		if token == "" {
			responderError(w, http.StatusUnauthorized, "No autorizado. Inicie sesión.")
			return
		}

		usuario, err := a.Sesiones.Validar(r.Context(), token, a.vigenciaSesion(r.Context()))
		if err != nil {
			if errors.Is(err, store.ErrSesionInvalida) {
				responderError(w, http.StatusUnauthorized, "No autorizado. Inicie sesión.")
				return
			}
			log.Println("Middleware: error validando sesión:", err)
			responderError(w, http.StatusInternalServerError, "Error interno al verificar sesión")
			return
		}

		ctx := context.WithValue(r.Context(), ctxUsuarioKey, usuario)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SoloAdmin exige además que el usuario autenticado tenga rol admin.
func (a *API) SoloAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		usuario, ok := UsuarioDesdeContexto(r.Context())
		if !ok {
			responderError(w, http.StatusUnauthorized, "No autorizado. Inicie sesión.")
			return
		}
		if usuario.Rol != "admin" {
			responderError(w, http.StatusForbidden, "Acceso denegado")
			return
		}
		next.ServeHTTP(w, r)
	})
}
