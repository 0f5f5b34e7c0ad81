package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaludOperativa(t *testing.T) {
	api := &API{
		Estado:    &estadoStub{datos: map[string]string{"modo_actual": "STANDBY"}},
		Auditoria: &auditoriaStub{},
	}

	rec := httptest.NewRecorder()
	api.Salud(rec, httptest.NewRequest("GET", "/salud", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	cuerpo := decodificar(t, rec)
	assert.Equal(t, "success", cuerpo["status"])
	assert.Equal(t, "STANDBY", cuerpo["modo"])
	assert.Equal(t, false, cuerpo["degradado"])
}

func TestSaludDegradada(t *testing.T) {
	// El almacén caído deja el estado centinela con modo ERROR.
	api := &API{
		Estado:    &estadoStub{datos: map[string]string{"modo_actual": "ERROR"}},
		Auditoria: &auditoriaStub{fallar: true},
	}

	rec := httptest.NewRecorder()
	api.Salud(rec, httptest.NewRequest("GET", "/salud", nil))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	cuerpo := decodificar(t, rec)
	assert.Equal(t, "error", cuerpo["status"])
	assert.Equal(t, true, cuerpo["degradado"])
}
