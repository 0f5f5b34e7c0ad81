// backend/store/auditoria.go
package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"backend/models"
)

// Auditoria es el registro inmutable de acciones del sistema (tabla
// logs_auditoria). Solo se agregan filas; la única eliminación posible es la
// limpieza por retención.
type Auditoria struct {
	pool *pgxpool.Pool
}

func NuevaAuditoria(pool *pgxpool.Pool) *Auditoria {
	return &Auditoria{pool: pool}
}

// RegistrarEvento inserta un log de auditoría. El id y la marca de tiempo
// los asigna el servidor. Quien llama debe tratar un error como "auditoría
// no garantizada": en este sistema la acción principal continúa igualmente.
func (a *Auditoria) RegistrarEvento(ctx context.Context, ev models.EventoAuditoria) error {
	nivel := ev.Nivel
	if nivel == "" {
		nivel = "INFO"
	}
	_, err := a.pool.Exec(ctx, `
		INSERT INTO logs_auditoria
			(nivel, usuario, evento, estado_previo, estado_nuevo,
			 detalles, origen_ip, user_agent, duracion_ms)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`,
		nivel,
		nuloSiVacio(ev.Usuario),
		ev.Evento,
		nuloSiVacio(ev.EstadoPrevio),
		nuloSiVacio(ev.EstadoNuevo),
		nuloSiVacio(ev.Detalles),
		nuloSiVacio(ev.OrigenIP),
		nuloSiVacio(ev.UserAgent),
		nuloSiCero(ev.DuracionMs),
	)
	if err != nil {
		return fmt.Errorf("error al registrar evento %s: %w", ev.Evento, err)
	}
	return nil
}

const columnasLog = `id, fecha, nivel, usuario, evento, estado_previo,
	estado_nuevo, detalles, origen_ip, user_agent, duracion_ms`

// UltimosLogs recupera el historial de eventos más recientes primero.
func (a *Auditoria) UltimosLogs(ctx context.Context, limite int) ([]models.LogAuditoria, error) {
	rows, err := a.pool.Query(ctx, `
		SELECT `+columnasLog+`
		  FROM logs_auditoria
		 ORDER BY id DESC
		 LIMIT $1
	`, limite)
	if err != nil {
		return nil, fmt.Errorf("error al obtener logs: %w", err)
	}
	defer rows.Close()
	return escanearLogs(rows)
}

// BuscarLogs busca logs combinando con AND los filtros presentes. Todos los
// valores de filtro viajan como parámetros enlazados, nunca interpolados en
// el texto de la consulta: es el único punto donde texto libre del usuario
// llega a una consulta.
func (a *Auditoria) BuscarLogs(ctx context.Context, filtros models.FiltrosLogs, limite int) ([]models.LogAuditoria, error) {
	consulta := `SELECT ` + columnasLog + ` FROM logs_auditoria WHERE 1=1`
	var args []interface{}

	if filtros.Usuario != "" {
		args = append(args, "%"+filtros.Usuario+"%")
		consulta += fmt.Sprintf(" AND usuario LIKE $%d", len(args))
	}
	if filtros.Nivel != "" {
		args = append(args, filtros.Nivel)
		consulta += fmt.Sprintf(" AND nivel = $%d", len(args))
	}
	if filtros.Evento != "" {
		args = append(args, "%"+filtros.Evento+"%")
		consulta += fmt.Sprintf(" AND evento LIKE $%d", len(args))
	}
	if filtros.FechaDesde != nil {
		args = append(args, *filtros.FechaDesde)
		consulta += fmt.Sprintf(" AND fecha >= $%d", len(args))
	}
	if filtros.FechaHasta != nil {
		args = append(args, *filtros.FechaHasta)
		consulta += fmt.Sprintf(" AND fecha <= $%d", len(args))
	}

	args = append(args, limite)
	consulta += fmt.Sprintf(" ORDER BY id DESC LIMIT $%d", len(args))

	rows, err := a.pool.Query(ctx, consulta, args...)
	if err != nil {
		return nil, fmt.Errorf("error al buscar logs: %w", err)
	}
	defer rows.Close()
	return escanearLogs(rows)
}

// EliminarLogsAntiguos borra los logs con fecha anterior a ahora menos dias
// y devuelve cuántos eliminó. Es irreversible e idempotente.
func (a *Auditoria) EliminarLogsAntiguos(ctx context.Context, dias int) (int64, error) {
	etiqueta, err := a.pool.Exec(ctx, `
		DELETE FROM logs_auditoria
		 WHERE fecha < NOW() - ($1 * INTERVAL '1 day')
	`, dias)
	if err != nil {
		return 0, fmt.Errorf("error al eliminar logs: %w", err)
	}
	return etiqueta.RowsAffected(), nil
}

// EstadisticasGenerales calcula las métricas globales del panel de admin.
func (a *Auditoria) EstadisticasGenerales(ctx context.Context) (models.EstadisticasGenerales, error) {
	var stats models.EstadisticasGenerales

	err := a.pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM logs_auditoria),
			(SELECT COUNT(*) FROM usuarios WHERE activo),
			(SELECT COUNT(*) FROM logs_auditoria
			  WHERE evento = 'CAMBIO_MODO' AND fecha::date = CURRENT_DATE)
	`).Scan(&stats.TotalLogs, &stats.UsuariosActivos, &stats.CambiosHoy)
	if err != nil {
		return stats, fmt.Errorf("error al obtener estadísticas: %w", err)
	}

	rows, err := a.pool.Query(ctx, `
		SELECT nivel, COUNT(*)
		  FROM logs_auditoria
		 GROUP BY nivel
	`)
	if err != nil {
		return stats, fmt.Errorf("error al agrupar por nivel: %w", err)
	}
	defer rows.Close()

	stats.EventosNivel = make(map[string]int)
	for rows.Next() {
		var nivel string
		var cantidad int
		if err := rows.Scan(&nivel, &cantidad); err != nil {
			return stats, fmt.Errorf("error leyendo histograma de niveles: %w", err)
		}
		stats.EventosNivel[nivel] = cantidad
	}
	return stats, rows.Err()
}

// ActividadPorUsuario devuelve los usuarios más activos con su última acción.
func (a *Auditoria) ActividadPorUsuario(ctx context.Context, limite int) ([]models.ActividadUsuario, error) {
	rows, err := a.pool.Query(ctx, `
		SELECT usuario, COUNT(*) AS total_acciones, MAX(fecha) AS ultima_accion
		  FROM logs_auditoria
		 WHERE usuario IS NOT NULL
		 GROUP BY usuario
		 ORDER BY total_acciones DESC
		 LIMIT $1
	`, limite)
	if err != nil {
		return nil, fmt.Errorf("error al obtener actividad por usuario: %w", err)
	}
	defer rows.Close()

	var actividad []models.ActividadUsuario
	for rows.Next() {
		var fila models.ActividadUsuario
		if err := rows.Scan(&fila.Usuario, &fila.TotalAcciones, &fila.UltimaAccion); err != nil {
			return nil, fmt.Errorf("error leyendo actividad: %w", err)
		}
		actividad = append(actividad, fila)
	}
	return actividad, rows.Err()
}

// EventosPorDia agrupa eventos, errores y warnings por día dentro de la
// ventana de los últimos dias días.
func (a *Auditoria) EventosPorDia(ctx context.Context, dias int) ([]models.EventosDia, error) {
	rows, err := a.pool.Query(ctx, `
		SELECT fecha::date AS dia,
		       COUNT(*) AS total_eventos,
		       COUNT(*) FILTER (WHERE nivel = 'ERROR')   AS errores,
		       COUNT(*) FILTER (WHERE nivel = 'WARNING') AS warnings
		  FROM logs_auditoria
		 WHERE fecha >= NOW() - ($1 * INTERVAL '1 day')
		 GROUP BY fecha::date
		 ORDER BY dia ASC
	`, dias)
	if err != nil {
		return nil, fmt.Errorf("error al obtener eventos por día: %w", err)
	}
	defer rows.Close()

	var eventos []models.EventosDia
	for rows.Next() {
		var fila models.EventosDia
		if err := rows.Scan(&fila.Dia, &fila.TotalEventos, &fila.Errores, &fila.Warnings); err != nil {
			return nil, fmt.Errorf("error leyendo eventos por día: %w", err)
		}
		eventos = append(eventos, fila)
	}
	return eventos, rows.Err()
}

// TimelineCambiosModo devuelve el historial cronológico de cambios de modo.
func (a *Auditoria) TimelineCambiosModo(ctx context.Context, limite int) ([]models.CambioModo, error) {
	rows, err := a.pool.Query(ctx, `
		SELECT fecha, usuario, estado_previo, estado_nuevo, detalles
		  FROM logs_auditoria
		 WHERE evento = 'CAMBIO_MODO'
		 ORDER BY fecha DESC
		 LIMIT $1
	`, limite)
	if err != nil {
		return nil, fmt.Errorf("error al obtener timeline de cambios: %w", err)
	}
	defer rows.Close()

	var timeline []models.CambioModo
	for rows.Next() {
		var fila models.CambioModo
		if err := rows.Scan(&fila.Fecha, &fila.Usuario, &fila.EstadoPrevio, &fila.EstadoNuevo, &fila.Detalles); err != nil {
			return nil, fmt.Errorf("error leyendo timeline: %w", err)
		}
		timeline = append(timeline, fila)
	}
	return timeline, rows.Err()
}

// UsoPorModo resume cuántas veces quedó activo cada modo y cuántos usuarios
// distintos lo activaron.
func (a *Auditoria) UsoPorModo(ctx context.Context) ([]models.UsoModo, error) {
	rows, err := a.pool.Query(ctx, `
		SELECT estado_nuevo AS modo,
		       COUNT(*) AS total_usos,
		       COUNT(DISTINCT usuario) AS usuarios_distintos
		  FROM logs_auditoria
		 WHERE evento = 'CAMBIO_MODO' AND estado_nuevo IS NOT NULL
		 GROUP BY estado_nuevo
		 ORDER BY total_usos DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("error al obtener uso por modo: %w", err)
	}
	defer rows.Close()

	var usos []models.UsoModo
	for rows.Next() {
		var fila models.UsoModo
		if err := rows.Scan(&fila.Modo, &fila.TotalUsos, &fila.UsuariosDistintos); err != nil {
			return nil, fmt.Errorf("error leyendo uso por modo: %w", err)
		}
		usos = append(usos, fila)
	}
	return usos, rows.Err()
}

func escanearLogs(rows pgx.Rows) ([]models.LogAuditoria, error) {
	var logs []models.LogAuditoria
	for rows.Next() {
		var l models.LogAuditoria
		if err := rows.Scan(
			&l.ID, &l.Fecha, &l.Nivel, &l.Usuario, &l.Evento,
			&l.EstadoPrevio, &l.EstadoNuevo, &l.Detalles,
			&l.OrigenIP, &l.UserAgent, &l.DuracionMs,
		); err != nil {
			return nil, fmt.Errorf("error mapeando fila de log: %w", err)
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

func nuloSiVacio(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func nuloSiCero(n int64) *int64 {
	if n <= 0 {
		return nil
	}
	return &n
}
