// backend/handlers/interfaces.go
package handlers

import (
	"context"
	"time"

	"backend/control"
	"backend/models"
)

// AlmacenEstado expone la lectura del estado actual del sistema.
type AlmacenEstado interface {
	ObtenerEstado(ctx context.Context) map[string]string
}

// RegistroAuditoria expone las operaciones del log de auditoría que
// consumen los handlers.
type RegistroAuditoria interface {
	RegistrarEvento(ctx context.Context, ev models.EventoAuditoria) error
	UltimosLogs(ctx context.Context, limite int) ([]models.LogAuditoria, error)
	BuscarLogs(ctx context.Context, filtros models.FiltrosLogs, limite int) ([]models.LogAuditoria, error)
	EliminarLogsAntiguos(ctx context.Context, dias int) (int64, error)
	EstadisticasGenerales(ctx context.Context) (models.EstadisticasGenerales, error)
	ActividadPorUsuario(ctx context.Context, limite int) ([]models.ActividadUsuario, error)
	EventosPorDia(ctx context.Context, dias int) ([]models.EventosDia, error)
	TimelineCambiosModo(ctx context.Context, limite int) ([]models.CambioModo, error)
	UsoPorModo(ctx context.Context) ([]models.UsoModo, error)
}

// AlmacenUsuarios expone la gestión de cuentas de usuario.
type AlmacenUsuarios interface {
	ObtenerTodos(ctx context.Context) ([]models.Usuario, error)
	ObtenerPorUsername(ctx context.Context, username string) (models.Usuario, error)
	Crear(ctx context.Context, username, passwordHash, rol, nombreCompleto, email string) error
	Actualizar(ctx context.Context, id int, campos map[string]interface{}) error
	Desactivar(ctx context.Context, id int) error
	ActualizarUltimoAcceso(ctx context.Context, id int) error
}

// AlmacenConfiguraciones expone la tabla clave/valor de configuración.
type AlmacenConfiguraciones interface {
	Listar(ctx context.Context, categoria string) ([]models.Configuracion, error)
	Actualizar(ctx context.Context, clave, valor, usuario string) error
	ValorEntero(ctx context.Context, clave string, defecto int) int
}

// AlmacenSesiones expone el registro de sesiones de login.
type AlmacenSesiones interface {
	Abrir(ctx context.Context, usuarioID int, ip, userAgent string) (string, error)
	Cerrar(ctx context.Context, token string) error
	Validar(ctx context.Context, token string, vigencia time.Duration) (models.UsuarioSesion, error)
}

// ControladorModos ejecuta solicitudes de cambio de modo.
type ControladorModos interface {
	CambiarModo(ctx context.Context, s control.Solicitud) control.Resultado
}
