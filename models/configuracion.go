// backend/models/configuracion.go
package models

import "time"

// Configuracion representa una fila de la tabla configuraciones.
type Configuracion struct {
	ID             int       `json:"id"`
	Clave          string    `json:"clave"`
	Valor          string    `json:"valor"`
	Tipo           string    `json:"tipo"` // "string", "integer" o "boolean"
	Descripcion    *string   `json:"descripcion"`
	Categoria      *string   `json:"categoria"`
	Actualizado    time.Time `json:"actualizado"`
	ActualizadoPor *string   `json:"actualizado_por"`
}
