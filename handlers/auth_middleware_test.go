package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backend/models"
)

func handlerQueCaptura(capturado *models.UsuarioSesion) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if us, ok := UsuarioDesdeContexto(r.Context()); ok {
			*capturado = us
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequiereAutenticacionSinToken(t *testing.T) {
	api := &API{Sesiones: &sesionesStub{}, Configuraciones: &configuracionesStub{}}

	rec := httptest.NewRecorder()
	api.RequiereAutenticacion(handlerQueCaptura(&models.UsuarioSesion{})).
		ServeHTTP(rec, httptest.NewRequest("GET", "/api/estado", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequiereAutenticacionTokenInvalido(t *testing.T) {
	api := &API{Sesiones: &sesionesStub{token: "valido", valida: true}, Configuraciones: &configuracionesStub{}}

	r := httptest.NewRequest("GET", "/api/estado", nil)
	r.Header.Set("X-Session-Token", "otro-token")
	rec := httptest.NewRecorder()
	api.RequiereAutenticacion(handlerQueCaptura(&models.UsuarioSesion{})).ServeHTTP(rec, r)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequiereAutenticacionDejaLaIdentidadEnContexto(t *testing.T) {
	sesiones := &sesionesStub{
		token:  "token-abc",
		valida: true,
		sesion: models.UsuarioSesion{ID: 3, Username: "operador", Rol: "operador"},
	}
	api := &API{Sesiones: sesiones, Configuraciones: &configuracionesStub{}, DuracionSesion: 2 * time.Hour}

	var capturado models.UsuarioSesion
	r := httptest.NewRequest("GET", "/api/estado", nil)
	r.Header.Set("X-Session-Token", "token-abc")
	rec := httptest.NewRecorder()
	api.RequiereAutenticacion(handlerQueCaptura(&capturado)).ServeHTTP(rec, r)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "operador", capturado.Username)
	assert.Equal(t, 2*time.Hour, sesiones.vigencia)
}

func TestVigenciaDesdeConfiguraciones(t *testing.T) {
	// La clave timeout_sesion de la tabla configuraciones manda sobre la
	// duración local.
	sesiones := &sesionesStub{token: "token-abc", valida: true}
	api := &API{
		Sesiones:        sesiones,
		Configuraciones: &configuracionesStub{enteros: map[string]int{"timeout_sesion": 600}},
		DuracionSesion:  2 * time.Hour,
	}

	r := httptest.NewRequest("GET", "/api/estado", nil)
	r.Header.Set("X-Session-Token", "token-abc")
	api.RequiereAutenticacion(handlerQueCaptura(&models.UsuarioSesion{})).
		ServeHTTP(httptest.NewRecorder(), r)

	assert.Equal(t, 10*time.Minute, sesiones.vigencia)
}

func TestSoloAdmin(t *testing.T) {
	sesiones := &sesionesStub{
		token:  "token-abc",
		valida: true,
		sesion: models.UsuarioSesion{ID: 3, Username: "operador", Rol: "operador"},
	}
	api := &API{Sesiones: sesiones, Configuraciones: &configuracionesStub{}}

	protegido := api.RequiereAutenticacion(api.SoloAdmin(handlerQueCaptura(&models.UsuarioSesion{})))

	r := httptest.NewRequest("GET", "/api/admin/usuarios", nil)
	r.Header.Set("X-Session-Token", "token-abc")
	rec := httptest.NewRecorder()
	protegido.ServeHTTP(rec, r)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	sesiones.sesion.Rol = "admin"
	rec = httptest.NewRecorder()
	r = httptest.NewRequest("GET", "/api/admin/usuarios", nil)
	r.Header.Set("X-Session-Token", "token-abc")
	protegido.ServeHTTP(rec, r)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSoloAdminSinIdentidad(t *testing.T) {
	api := &API{}
	rec := httptest.NewRecorder()
	api.SoloAdmin(handlerQueCaptura(&models.UsuarioSesion{})).
		ServeHTTP(rec, httptest.NewRequest("GET", "/api/admin/usuarios", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
