// backend/models/log_auditoria.go
package models

import "time"

// LogAuditoria representa una fila de la tabla logs_auditoria.
// Una vez insertada nunca se modifica; solo la limpieza por retención
// puede eliminarla.
type LogAuditoria struct {
	ID           int64     `json:"id"`
	Fecha        time.Time `json:"fecha"`
	Nivel        string    `json:"nivel"` // INFO, WARNING, ERROR, CRITICAL
	Usuario      *string   `json:"usuario"`
	Evento       string    `json:"evento"`
	EstadoPrevio *string   `json:"estado_previo"`
	EstadoNuevo  *string   `json:"estado_nuevo"`
	Detalles     *string   `json:"detalles"`
	OrigenIP     *string   `json:"origen_ip"`
	UserAgent    *string   `json:"user_agent"`
	DuracionMs   *int64    `json:"duracion_ms"`
}

// EventoAuditoria es el payload para insertar un nuevo log.
// Los campos opcionales vacíos se guardan como NULL.
type EventoAuditoria struct {
	Nivel        string
	Usuario      string
	Evento       string
	EstadoPrevio string
	EstadoNuevo  string
	Detalles     string
	OrigenIP     string
	UserAgent    string
	DuracionMs   int64 // 0 = sin duración medida
}

// FiltrosLogs define los predicados opcionales de búsqueda de logs.
// Un campo vacío no impone restricción; los presentes se combinan con AND.
type FiltrosLogs struct {
	Usuario    string     `json:"usuario"`     // coincidencia parcial
	Nivel      string     `json:"nivel"`       // coincidencia exacta
	Evento     string     `json:"evento"`      // coincidencia parcial
	FechaDesde *time.Time `json:"fecha_desde"` // inclusive
	FechaHasta *time.Time `json:"fecha_hasta"` // inclusive
}

// EstadisticasGenerales agrupa las métricas globales del sistema.
type EstadisticasGenerales struct {
	TotalLogs       int            `json:"total_logs"`
	UsuariosActivos int            `json:"usuarios_activos"`
	EventosNivel    map[string]int `json:"eventos_nivel"`
	CambiosHoy      int            `json:"cambios_hoy"`
}

// ActividadUsuario es una fila del ranking de usuarios más activos.
type ActividadUsuario struct {
	Usuario       string    `json:"usuario"`
	TotalAcciones int       `json:"total_acciones"`
	UltimaAccion  time.Time `json:"ultima_accion"`
}

// EventosDia agrupa los eventos de un día dentro de la ventana consultada.
type EventosDia struct {
	Dia          time.Time `json:"dia"`
	TotalEventos int       `json:"total_eventos"`
	Errores      int       `json:"errores"`
	Warnings     int       `json:"warnings"`
}

// CambioModo es una entrada del timeline de cambios de modo.
type CambioModo struct {
	Fecha        time.Time `json:"fecha"`
	Usuario      *string   `json:"usuario"`
	EstadoPrevio *string   `json:"estado_previo"`
	EstadoNuevo  *string   `json:"estado_nuevo"`
	Detalles     *string   `json:"detalles"`
}

// UsoModo resume cuántas veces se activó cada modo y por cuántos usuarios.
type UsoModo struct {
	Modo              string `json:"modo"`
	TotalUsos         int    `json:"total_usos"`
	UsuariosDistintos int    `json:"usuarios_distintos"`
}
