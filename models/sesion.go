// backend/models/sesion.go
package models

import "time"

// Sesion representa una fila de la tabla sesiones.
type Sesion struct {
	ID          int        `json:"id"`
	UsuarioID   int        `json:"usuario_id"`
	Token       string     `json:"-"`
	FechaInicio time.Time  `json:"fecha_inicio"`
	FechaFin    *time.Time `json:"fecha_fin"`
	IPOrigen    *string    `json:"ip_origen"`
	UserAgent   *string    `json:"user_agent"`
	Activa      bool       `json:"activa"`
}
