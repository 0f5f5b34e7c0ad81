package store

import (
	"context"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backend/db"
	"backend/models"
)

// Los tests de este paquete necesitan un PostgreSQL real. Se activan con
// TEST_DATABASE_URL; sin ella cada test se salta.
var pool *pgxpool.Pool

func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		p, err := db.Conectar(ctx, dsn)
		if err != nil {
			cancel()
			log.Fatalf("No se pudo conectar a la base de pruebas: %v", err)
		}
		if err := db.InicializarEsquema(ctx, p); err != nil {
			cancel()
			log.Fatalf("No se pudo inicializar el esquema: %v", err)
		}
		cancel()
		pool = p
	}

	codigo := m.Run()
	if pool != nil {
		pool.Close()
	}
	os.Exit(codigo)
}

func requierePostgres(t *testing.T) {
	t.Helper()
	if pool == nil {
		t.Skip("TEST_DATABASE_URL no definida; se omite el test de integración")
	}
}

func TestEstadoActualizarYObtener(t *testing.T) {
	requierePostgres(t)
	ctx := context.Background()
	estado := NuevoEstado(pool)

	require.NoError(t, estado.ActualizarEstado(ctx, map[string]string{
		"modo_actual": "CINE 3D",
		"carga_cpu":   "88%",
		"latencia":    "24ms",
	}))

	leido := estado.ObtenerEstado(ctx)
	assert.Equal(t, "CINE 3D", leido["modo_actual"])
	assert.Equal(t, "88%", leido["carga_cpu"])
	assert.Equal(t, "24ms", leido["latencia"])

	// Una segunda escritura sobre las mismas claves pisa los valores.
	require.NoError(t, estado.ActualizarEstado(ctx, map[string]string{
		"modo_actual": "STANDBY",
	}))
	assert.Equal(t, "STANDBY", estado.ObtenerEstado(ctx)["modo_actual"])
}

func TestAuditoriaRegistrarYLeer(t *testing.T) {
	requierePostgres(t)
	ctx := context.Background()
	auditoria := NuevaAuditoria(pool)

	marca := fmt.Sprintf("prueba-%d", time.Now().UnixNano())
	require.NoError(t, auditoria.RegistrarEvento(ctx, models.EventoAuditoria{
		Usuario:      marca,
		Evento:       "CAMBIO_MODO",
		EstadoPrevio: "STANDBY",
		EstadoNuevo:  "CINE 3D",
		Detalles:     "Algoritmo Pseudo-3D Activado. Subwoofers: +6dB. Atmos Processing: ON.",
		OrigenIP:     "10.0.0.8",
		UserAgent:    "tests",
		DuracionMs:   12,
	}))

	logs, err := auditoria.UltimosLogs(ctx, 10)
	require.NoError(t, err)
	require.NotEmpty(t, logs)

	// El más reciente primero.
	ultimo := logs[0]
	assert.Equal(t, "INFO", ultimo.Nivel) // nivel por defecto
	require.NotNil(t, ultimo.Usuario)
	assert.Equal(t, marca, *ultimo.Usuario)
	assert.Equal(t, "CAMBIO_MODO", ultimo.Evento)
	require.NotNil(t, ultimo.EstadoNuevo)
	assert.Equal(t, "CINE 3D", *ultimo.EstadoNuevo)
	require.NotNil(t, ultimo.DuracionMs)
	assert.EqualValues(t, 12, *ultimo.DuracionMs)
	for i := 1; i < len(logs); i++ {
		assert.Greater(t, logs[i-1].ID, logs[i].ID)
	}
}

func TestAuditoriaBuscarConFiltros(t *testing.T) {
	requierePostgres(t)
	ctx := context.Background()
	auditoria := NuevaAuditoria(pool)

	marca := fmt.Sprintf("filtro-%d", time.Now().UnixNano())
	require.NoError(t, auditoria.RegistrarEvento(ctx, models.EventoAuditoria{
		Nivel:   "WARNING",
		Usuario: marca,
		Evento:  "LOGIN_FALLIDO",
	}))
	require.NoError(t, auditoria.RegistrarEvento(ctx, models.EventoAuditoria{
		Usuario: marca,
		Evento:  "LOGIN_EXITOSO",
	}))

	encontrados, err := auditoria.BuscarLogs(ctx, models.FiltrosLogs{
		Usuario: marca,
		Nivel:   "WARNING",
	}, 50)
	require.NoError(t, err)
	require.Len(t, encontrados, 1)
	assert.Equal(t, "LOGIN_FALLIDO", encontrados[0].Evento)

	// Coincidencia parcial de evento.
	porEvento, err := auditoria.BuscarLogs(ctx, models.FiltrosLogs{
		Usuario: marca,
		Evento:  "LOGIN",
	}, 50)
	require.NoError(t, err)
	assert.Len(t, porEvento, 2)
}

func TestAuditoriaEliminarLogsAntiguos(t *testing.T) {
	requierePostgres(t)
	ctx := context.Background()
	auditoria := NuevaAuditoria(pool)

	// Con un umbral enorme no debería borrar nada recién insertado.
	require.NoError(t, auditoria.RegistrarEvento(ctx, models.EventoAuditoria{
		Evento: "SISTEMA_INICIADO",
	}))
	eliminados, err := auditoria.EliminarLogsAntiguos(ctx, 3650)
	require.NoError(t, err)
	assert.EqualValues(t, 0, eliminados)

	// Repetir la purga es idempotente.
	otraVez, err := auditoria.EliminarLogsAntiguos(ctx, 3650)
	require.NoError(t, err)
	assert.EqualValues(t, 0, otraVez)
}

func TestUsuariosCicloCompleto(t *testing.T) {
	requierePostgres(t)
	ctx := context.Background()
	usuarios := NuevosUsuarios(pool)

	username := fmt.Sprintf("tecnico-%d", time.Now().UnixNano())
	require.NoError(t, usuarios.Crear(ctx, username, "hash-falso", "operador", "Técnico de Sala", ""))

	// Username duplicado.
	err := usuarios.Crear(ctx, username, "otro-hash", "operador", "", "")
	assert.ErrorIs(t, err, ErrUsuarioDuplicado)

	creado, err := usuarios.ObtenerPorUsername(ctx, username)
	require.NoError(t, err)
	assert.True(t, creado.Activo)
	assert.Equal(t, "operador", creado.Rol)

	require.NoError(t, usuarios.Actualizar(ctx, creado.ID, map[string]interface{}{"rol": "admin"}))
	actualizado, err := usuarios.ObtenerPorUsername(ctx, username)
	require.NoError(t, err)
	assert.Equal(t, "admin", actualizado.Rol)

	require.NoError(t, usuarios.Desactivar(ctx, creado.ID))
	desactivado, err := usuarios.ObtenerPorUsername(ctx, username)
	require.NoError(t, err)
	assert.False(t, desactivado.Activo)

	_, err = usuarios.ObtenerPorUsername(ctx, "no-existe-"+username)
	assert.ErrorIs(t, err, ErrUsuarioNoEncontrado)
}

func TestConfiguracionesValores(t *testing.T) {
	requierePostgres(t)
	ctx := context.Background()
	configs := NuevasConfiguraciones(pool)

	// Sembradas por el esquema inicial.
	todas, err := configs.Listar(ctx, "")
	require.NoError(t, err)
	assert.NotEmpty(t, todas)

	require.NoError(t, configs.Actualizar(ctx, "timeout_sesion", "900", "tests"))
	assert.Equal(t, 900, configs.ValorEntero(ctx, "timeout_sesion", 7200))

	// Clave inexistente: error tipado y valor por defecto.
	err = configs.Actualizar(ctx, "clave-inexistente", "1", "tests")
	assert.ErrorIs(t, err, ErrConfiguracionNoEncontrada)
	assert.Equal(t, 42, configs.ValorEntero(ctx, "clave-inexistente", 42))
}

func TestSesionesAbrirValidarCerrar(t *testing.T) {
	requierePostgres(t)
	ctx := context.Background()
	usuarios := NuevosUsuarios(pool)
	sesiones := NuevasSesiones(pool)

	username := fmt.Sprintf("sesion-%d", time.Now().UnixNano())
	require.NoError(t, usuarios.Crear(ctx, username, "hash-falso", "operador", "", ""))
	usuario, err := usuarios.ObtenerPorUsername(ctx, username)
	require.NoError(t, err)

	token, err := sesiones.Abrir(ctx, usuario.ID, "10.0.0.8", "tests")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	identidad, err := sesiones.Validar(ctx, token, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, username, identidad.Username)
	assert.Equal(t, "operador", identidad.Rol)

	// Vigencia vencida.
	_, err = sesiones.Validar(ctx, token, 0)
	assert.ErrorIs(t, err, ErrSesionInvalida)

	require.NoError(t, sesiones.Cerrar(ctx, token))
	_, err = sesiones.Validar(ctx, token, time.Hour)
	assert.ErrorIs(t, err, ErrSesionInvalida)

	_, err = sesiones.Validar(ctx, "token-inventado", time.Hour)
	assert.ErrorIs(t, err, ErrSesionInvalida)
}
