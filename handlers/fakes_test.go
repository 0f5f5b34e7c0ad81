package handlers

import (
	"context"
	"errors"
	"time"

	"backend/control"
	"backend/models"
	"backend/store"
)

// Dobles en memoria de los almacenes, compartidos por los tests del paquete.

type auditoriaStub struct {
	eventos      []models.EventoAuditoria
	ultimos      []models.LogAuditoria
	encontrados  []models.LogAuditoria
	limitePedido int
	filtros      models.FiltrosLogs
	diasPurga    int
	purgados     int64
	fallar       bool
}

var errStub = errors.New("fallo simulado")

func (a *auditoriaStub) RegistrarEvento(ctx context.Context, ev models.EventoAuditoria) error {
	if a.fallar {
		return errStub
	}
	a.eventos = append(a.eventos, ev)
	return nil
}

func (a *auditoriaStub) UltimosLogs(ctx context.Context, limite int) ([]models.LogAuditoria, error) {
	if a.fallar {
		return nil, errStub
	}
	a.limitePedido = limite
	return a.ultimos, nil
}

func (a *auditoriaStub) BuscarLogs(ctx context.Context, filtros models.FiltrosLogs, limite int) ([]models.LogAuditoria, error) {
	if a.fallar {
		return nil, errStub
	}
	a.filtros = filtros
	a.limitePedido = limite
	return a.encontrados, nil
}

func (a *auditoriaStub) EliminarLogsAntiguos(ctx context.Context, dias int) (int64, error) {
	if a.fallar {
		return 0, errStub
	}
	a.diasPurga = dias
	return a.purgados, nil
}

func (a *auditoriaStub) EstadisticasGenerales(ctx context.Context) (models.EstadisticasGenerales, error) {
	return models.EstadisticasGenerales{}, nil
}

func (a *auditoriaStub) ActividadPorUsuario(ctx context.Context, limite int) ([]models.ActividadUsuario, error) {
	return nil, nil
}

func (a *auditoriaStub) EventosPorDia(ctx context.Context, dias int) ([]models.EventosDia, error) {
	return nil, nil
}

func (a *auditoriaStub) TimelineCambiosModo(ctx context.Context, limite int) ([]models.CambioModo, error) {
	return nil, nil
}

func (a *auditoriaStub) UsoPorModo(ctx context.Context) ([]models.UsoModo, error) {
	return nil, nil
}

type usuariosStub struct {
	porUsername   map[string]models.Usuario
	accesos       []int
	desactivados  []int
	creados       []string
	actualizados  map[int]map[string]interface{}
	errCrear      error
	errActualizar error
	errDesactivar error
}

func nuevoUsuariosStub(usuarios ...models.Usuario) *usuariosStub {
	s := &usuariosStub{
		porUsername:  map[string]models.Usuario{},
		actualizados: map[int]map[string]interface{}{},
	}
	for _, u := range usuarios {
		s.porUsername[u.Username] = u
	}
	return s
}

func (s *usuariosStub) ObtenerTodos(ctx context.Context) ([]models.Usuario, error) {
	todos := make([]models.Usuario, 0, len(s.porUsername))
	for _, u := range s.porUsername {
		todos = append(todos, u)
	}
	return todos, nil
}

func (s *usuariosStub) ObtenerPorUsername(ctx context.Context, username string) (models.Usuario, error) {
	u, ok := s.porUsername[username]
	if !ok {
		return models.Usuario{}, store.ErrUsuarioNoEncontrado
	}
	return u, nil
}

func (s *usuariosStub) Crear(ctx context.Context, username, passwordHash, rol, nombreCompleto, email string) error {
	if s.errCrear != nil {
		return s.errCrear
	}
	s.creados = append(s.creados, username)
	return nil
}

func (s *usuariosStub) Actualizar(ctx context.Context, id int, campos map[string]interface{}) error {
	if s.errActualizar != nil {
		return s.errActualizar
	}
	s.actualizados[id] = campos
	return nil
}

func (s *usuariosStub) Desactivar(ctx context.Context, id int) error {
	if s.errDesactivar != nil {
		return s.errDesactivar
	}
	s.desactivados = append(s.desactivados, id)
	return nil
}

func (s *usuariosStub) ActualizarUltimoAcceso(ctx context.Context, id int) error {
	s.accesos = append(s.accesos, id)
	return nil
}

type sesionesStub struct {
	token    string
	sesion   models.UsuarioSesion
	valida   bool
	cerradas []string
	vigencia time.Duration
	errAbrir error
}

func (s *sesionesStub) Abrir(ctx context.Context, usuarioID int, ip, userAgent string) (string, error) {
	if s.errAbrir != nil {
		return "", s.errAbrir
	}
	return s.token, nil
}

func (s *sesionesStub) Cerrar(ctx context.Context, token string) error {
	s.cerradas = append(s.cerradas, token)
	return nil
}

func (s *sesionesStub) Validar(ctx context.Context, token string, vigencia time.Duration) (models.UsuarioSesion, error) {
	s.vigencia = vigencia
	if !s.valida || token != s.token {
		return models.UsuarioSesion{}, store.ErrSesionInvalida
	}
	return s.sesion, nil
}

type configuracionesStub struct {
	filas   []models.Configuracion
	enteros map[string]int
	cambios map[string]string
}

func (s *configuracionesStub) Listar(ctx context.Context, categoria string) ([]models.Configuracion, error) {
	return s.filas, nil
}

func (s *configuracionesStub) Actualizar(ctx context.Context, clave, valor, usuario string) error {
	if s.cambios == nil {
		s.cambios = map[string]string{}
	}
	s.cambios[clave] = valor
	return nil
}

func (s *configuracionesStub) ValorEntero(ctx context.Context, clave string, defecto int) int {
	if v, ok := s.enteros[clave]; ok {
		return v
	}
	return defecto
}

type controlStub struct {
	solicitud control.Solicitud
	resultado control.Resultado
}

func (s *controlStub) CambiarModo(ctx context.Context, sol control.Solicitud) control.Resultado {
	s.solicitud = sol
	return s.resultado
}

type estadoStub struct {
	datos map[string]string
}

func (s *estadoStub) ObtenerEstado(ctx context.Context) map[string]string {
	return s.datos
}
