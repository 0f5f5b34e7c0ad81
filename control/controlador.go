// backend/control/controlador.go
package control

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"backend/models"
)

// AlmacenEstado es la vista que el controlador necesita del almacén de estado.
type AlmacenEstado interface {
	ObtenerEstado(ctx context.Context) map[string]string
	ActualizarEstado(ctx context.Context, cambios map[string]string) error
}

// RegistroAuditoria es la vista que el controlador necesita del log de
// auditoría. Un error al registrar nunca bloquea la acción principal.
type RegistroAuditoria interface {
	RegistrarEvento(ctx context.Context, ev models.EventoAuditoria) error
}

// Status etiqueta el desenlace de una solicitud de cambio de modo.
type Status string

const (
	StatusExito        Status = "success"
	StatusError        Status = "error"
	StatusInfo         Status = "info"
	StatusConfirmacion Status = "confirmation_required"
)

// Solicitud es una petición de cambio de modo ya autenticada.
type Solicitud struct {
	Modo       string
	Confirmado bool
	Usuario    string
	IP         string
	UserAgent  string
}

// Resultado es el desenlace estructurado de una solicitud. Nunca expone
// texto de error del motor de almacenamiento.
type Resultado struct {
	Status     Status
	Mensaje    string
	Codigo     string // código distinguible, ej: CONFIRM_SHUTDOWN
	Estado     map[string]string
	CodigoHTTP int
}

// Controlador valida y ejecuta cambios de modo como una unidad lógica
// contra el almacén de estado y el log de auditoría.
type Controlador struct {
	estado    AlmacenEstado
	auditoria RegistroAuditoria
}

func NuevoControlador(estado AlmacenEstado, auditoria RegistroAuditoria) *Controlador {
	return &Controlador{estado: estado, auditoria: auditoria}
}

// CambiarModo ejecuta la transición de modo completa: validación contra el
// catálogo, confirmación para OFF, detección de no-op contra la etiqueta
// resultante del perfil, aplicación del fragmento de estado y registro de
// auditoría. Las dos escrituras (estado y log) son sentencias independientes,
// no una transacción conjunta.
func (c *Controlador) CambiarModo(ctx context.Context, s Solicitud) Resultado {
	inicio := time.Now()

	if strings.TrimSpace(s.Modo) == "" {
		return Resultado{
			Status:     StatusError,
			Mensaje:    "Falta el parámetro 'modo' en la solicitud",
			CodigoHTTP: http.StatusBadRequest,
		}
	}

	nombre, perfil, ok := PerfilPara(s.Modo)
	if !ok {
		return Resultado{
			Status:     StatusError,
			Mensaje:    "Modo inválido. Modos válidos: " + strings.Join(ModosValidos, ", "),
			CodigoHTTP: http.StatusBadRequest,
		}
	}

	// La única acción destructiva del catálogo exige confirmación explícita
	// antes de tocar almacenamiento o auditoría.
	if nombre == "OFF" && !s.Confirmado {
		return Resultado{
			Status:     StatusConfirmacion,
			Mensaje:    "Esta acción requiere confirmación explícita.",
			Codigo:     "CONFIRM_SHUTDOWN",
			CodigoHTTP: http.StatusForbidden,
		}
	}

	estadoActual := c.estado.ObtenerEstado(ctx)
	modoPrevio := estadoActual["modo_actual"]
	if modoPrevio == "" {
		modoPrevio = "UNKNOWN"
	}

	// La comparación de no-op es contra la etiqueta que produciría el perfil
	// (ej: "CINE 3D"), no contra el nombre solicitado.
	if modoPrevio == perfil.ModoActual {
		return Resultado{
			Status:     StatusInfo,
			Mensaje:    fmt.Sprintf("El sistema ya está en modo %s", nombre),
			Estado:     estadoActual,
			CodigoHTTP: http.StatusOK,
		}
	}

	cambios := map[string]string{
		"modo_actual": perfil.ModoActual,
		"carga_cpu":   perfil.CargaCPU,
		"latencia":    perfil.Latencia,
	}
	if err := c.estado.ActualizarEstado(ctx, cambios); err != nil {
		log.Printf("Error crítico en cambio de modo: %v", err)
		c.registrarErrorSistema(ctx, s, err)
		return Resultado{
			Status:     StatusError,
			Mensaje:    "Error interno del servidor. Contacte al administrador.",
			CodigoHTTP: http.StatusInternalServerError,
		}
	}

	duracion := time.Since(inicio)
	if err := c.auditoria.RegistrarEvento(ctx, models.EventoAuditoria{
		Nivel:        "INFO",
		Usuario:      s.Usuario,
		Evento:       "CAMBIO_MODO",
		EstadoPrevio: modoPrevio,
		EstadoNuevo:  perfil.ModoActual,
		Detalles:     fmt.Sprintf("%s (Procesado en %.2fms)", perfil.Detalles, milisegundos(duracion)),
		OrigenIP:     s.IP,
		UserAgent:    s.UserAgent,
		DuracionMs:   duracion.Milliseconds(),
	}); err != nil {
		log.Printf("Error auditando cambio de modo: %v", err)
	}

	log.Printf("Modo cambiado: %s -> %s por %s", modoPrevio, perfil.ModoActual, s.Usuario)

	return Resultado{
		Status:     StatusExito,
		Mensaje:    perfil.Detalles,
		Estado:     cambios,
		CodigoHTTP: http.StatusOK,
	}
}

// registrarErrorSistema deja constancia de un fallo interno. Mejor esfuerzo:
// si la auditoría también falla, solo queda el log de proceso.
func (c *Controlador) registrarErrorSistema(ctx context.Context, s Solicitud, causa error) {
	if err := c.auditoria.RegistrarEvento(ctx, models.EventoAuditoria{
		Nivel:     "ERROR",
		Usuario:   s.Usuario,
		Evento:    "ERROR_SISTEMA",
		Detalles:  fmt.Sprintf("Fallo al cambiar modo: %v", causa),
		OrigenIP:  s.IP,
		UserAgent: s.UserAgent,
	}); err != nil {
		log.Printf("Error auditando fallo de sistema: %v", err)
	}
}

func milisegundos(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000.0
}
