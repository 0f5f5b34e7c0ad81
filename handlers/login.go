// backend/handlers/login.go
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"backend/models"
	"backend/store"
	"backend/utils"
)

// LoginRequest es el payload de POST /login
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login maneja POST /login
func (a *API) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		responderError(w, http.StatusBadRequest, "No se recibieron datos")
		return
	}

	ip := ObtenerIPReal(r)
	userAgent := r.Header.Get("User-Agent")

	if req.Username == "" || req.Password == "" {
		a.auditar(r, models.EventoAuditoria{
			Nivel:    "WARNING",
			Evento:   "LOGIN_FALLIDO",
			Detalles: "Credenciales incompletas",
		})
		responderError(w, http.StatusBadRequest, "Usuario y contraseña requeridos")
		return
	}

	// 1) Buscar usuario y verificar hash
	usuario, err := a.Usuarios.ObtenerPorUsername(r.Context(), req.Username)
	if err != nil && !errors.Is(err, store.ErrUsuarioNoEncontrado) {
		log.Println("Error en login:", err)
		responderError(w, http.StatusInternalServerError, "Error interno del servidor")
		return
	}
	if err != nil || !usuario.Activo || !utils.VerificarPassword(req.Password, usuario.PasswordHash) {
		a.auditar(r, models.EventoAuditoria{
			Nivel:    "WARNING",
			Evento:   "LOGIN_FALLIDO",
			Detalles: fmt.Sprintf("Intento fallido para usuario: %s", req.Username),
		})
		responderError(w, http.StatusUnauthorized, "Credenciales inválidas")
		return
	}

	// 2) Actualizar último acceso
	if err := a.Usuarios.ActualizarUltimoAcceso(r.Context(), usuario.ID); err != nil {
		log.Println("Error al actualizar último acceso:", err)
	}

	// 3) Abrir sesión
	token, err := a.Sesiones.Abrir(r.Context(), usuario.ID, ip, userAgent)
	if err != nil {
		log.Println("Error abriendo sesión:", err)
		responderError(w, http.StatusInternalServerError, "Error interno del servidor")
		return
	}

	// 4) Auditoría
	a.auditar(r, models.EventoAuditoria{
		Usuario:  usuario.Username,
		Evento:   "LOGIN_EXITOSO",
		Detalles: fmt.Sprintf("Usuario %s autenticado correctamente", usuario.Username),
	})
	log.Printf("Login exitoso: %s desde %s", usuario.Username, ip)

	responderJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"msg":    fmt.Sprintf("Bienvenido, %s", usuario.Username),
		"token":  token,
		"rol":    usuario.Rol,
	})
}

// Logout maneja POST /logout
func (a *API) Logout(w http.ResponseWriter, r *http.Request) {
	usuario, _ := UsuarioDesdeContexto(r.Context())

	if token := r.Header.Get("X-Session-Token"); token != "" {
		if err := a.Sesiones.Cerrar(r.Context(), token); err != nil {
			log.Println("Error cerrando sesión:", err)
		}
	}

	a.auditar(r, models.EventoAuditoria{
		Usuario:  usuario.Username,
		Evento:   "LOGOUT",
		Detalles: fmt.Sprintf("Usuario %s cerró sesión", usuario.Username),
	})

	responderJSON(w, http.StatusOK, map[string]string{
		"status": "success",
		"msg":    "Sesión cerrada",
	})
}

// auditar registra un evento capturando IP y user-agent de la petición.
// Mejor esfuerzo: un fallo se escribe al log de proceso y no corta nada.
func (a *API) auditar(r *http.Request, ev models.EventoAuditoria) {
	if ev.Usuario == "" {
		if usuario, ok := UsuarioDesdeContexto(r.Context()); ok {
			ev.Usuario = usuario.Username
		} else {
			ev.Usuario = "anónimo"
		}
	}
	if ev.OrigenIP == "" {
		ev.OrigenIP = ObtenerIPReal(r)
	}
	if ev.UserAgent == "" {
		ev.UserAgent = r.Header.Get("User-Agent")
	}
	if err := a.Auditoria.RegistrarEvento(r.Context(), ev); err != nil {
		log.Println("Error auditando evento:", err)
	}
}
