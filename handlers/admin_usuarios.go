// backend/handlers/admin_usuarios.go
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"backend/models"
	"backend/store"
	"backend/utils"
)

// CrearUsuarioRequest es el payload de POST /api/admin/usuarios
type CrearUsuarioRequest struct {
	Username       string `json:"username"`
	Password       string `json:"password"`
	Rol            string `json:"rol"`
	NombreCompleto string `json:"nombre_completo"`
	Email          string `json:"email"`
}

// ObtenerUsuarios maneja GET /api/admin/usuarios
func (a *API) ObtenerUsuarios(w http.ResponseWriter, r *http.Request) {
	usuarios, err := a.Usuarios.ObtenerTodos(r.Context())
	if err != nil {
		log.Println("Error al obtener usuarios:", err)
		responderError(w, http.StatusInternalServerError, "Error al obtener usuarios")
		return
	}
	responderJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "success",
		"usuarios": usuarios,
	})
}

// CrearUsuario maneja POST /api/admin/usuarios
func (a *API) CrearUsuario(w http.ResponseWriter, r *http.Request) {
	var req CrearUsuarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		responderError(w, http.StatusBadRequest, "Datos inválidos")
		return
	}
	if req.Username == "" || req.Password == "" {
		responderError(w, http.StatusBadRequest, "Username y password requeridos")
		return
	}
	if req.Rol == "" {
		req.Rol = "operador"
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		log.Println("Error generando hash:", err)
		responderError(w, http.StatusInternalServerError, "Error al crear usuario")
		return
	}

	err = a.Usuarios.Crear(r.Context(), req.Username, hash, req.Rol, req.NombreCompleto, req.Email)
	if errors.Is(err, store.ErrUsuarioDuplicado) {
		responderError(w, http.StatusConflict, "El username ya está registrado")
		return
	}
	if err != nil {
		log.Println("Error al crear usuario:", err)
		responderError(w, http.StatusInternalServerError, "Error al crear usuario")
		return
	}

	a.auditar(r, models.EventoAuditoria{
		Evento:   "Usuario creado",
		Detalles: fmt.Sprintf("Nuevo usuario: %s (%s)", req.Username, req.Rol),
	})
	responderJSON(w, http.StatusOK, map[string]string{
		"status": "success",
		"msg":    "Usuario creado correctamente",
	})
}

// ActualizarUsuario maneja PUT /api/admin/usuarios/{id}
func (a *API) ActualizarUsuario(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		responderError(w, http.StatusBadRequest, "ID de usuario inválido")
		return
	}

	var datos map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&datos); err != nil {
		responderError(w, http.StatusBadRequest, "Datos inválidos")
		return
	}

	// Filtrar campos permitidos
	permitidos := []string{"nombre_completo", "email", "rol", "activo"}
	filtrados := make(map[string]interface{})
	for _, campo := range permitidos {
		if valor, ok := datos[campo]; ok {
			filtrados[campo] = valor
		}
	}
	if len(filtrados) == 0 {
		responderError(w, http.StatusBadRequest, "Sin campos válidos para actualizar")
		return
	}

	err = a.Usuarios.Actualizar(r.Context(), id, filtrados)
	if errors.Is(err, store.ErrUsuarioNoEncontrado) {
		responderError(w, http.StatusNotFound, "Usuario no encontrado")
		return
	}
	if err != nil {
		log.Println("Error al actualizar usuario:", err)
		responderError(w, http.StatusInternalServerError, "Error al actualizar usuario")
		return
	}

	campos := make([]string, 0, len(filtrados))
	for campo := range filtrados {
		campos = append(campos, campo)
	}
	a.auditar(r, models.EventoAuditoria{
		Evento:   "Usuario actualizado",
		Detalles: fmt.Sprintf("ID: %d - Campos: %s", id, strings.Join(campos, ", ")),
	})
	responderJSON(w, http.StatusOK, map[string]string{
		"status": "success",
		"msg":    "Usuario actualizado",
	})
}

// EliminarUsuario maneja DELETE /api/admin/usuarios/{id}. El usuario se
// desactiva, nunca se borra la fila.
func (a *API) EliminarUsuario(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		responderError(w, http.StatusBadRequest, "ID de usuario inválido")
		return
	}

	err = a.Usuarios.Desactivar(r.Context(), id)
	if errors.Is(err, store.ErrUsuarioNoEncontrado) {
		responderError(w, http.StatusNotFound, "Usuario no encontrado")
		return
	}
	if err != nil {
		log.Println("Error al eliminar usuario:", err)
		responderError(w, http.StatusInternalServerError, "Error al eliminar usuario")
		return
	}

	a.auditar(r, models.EventoAuditoria{
		Nivel:    "WARNING",
		Evento:   "Usuario eliminado",
		Detalles: fmt.Sprintf("Usuario desactivado ID: %d", id),
	})
	responderJSON(w, http.StatusOK, map[string]string{
		"status": "success",
		"msg":    "Usuario desactivado",
	})
}
