// backend/models/usuario.go
package models

import "time"

// Usuario representa una fila de la tabla usuarios.
// El hash de la contraseña nunca se serializa hacia el cliente.
type Usuario struct {
	ID             int        `json:"id"`
	Username       string     `json:"username"`
	PasswordHash   string     `json:"-"`
	Rol            string     `json:"rol"` // "admin" u "operador"
	NombreCompleto *string    `json:"nombre_completo"`
	Email          *string    `json:"email"`
	Activo         bool       `json:"activo"`
	FechaCreacion  time.Time  `json:"fecha_creacion"`
	UltimoAcceso   *time.Time `json:"ultimo_acceso"`
}

// UsuarioSesion es la identidad resuelta a partir de un token de sesión.
type UsuarioSesion struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Rol      string `json:"rol"`
}
