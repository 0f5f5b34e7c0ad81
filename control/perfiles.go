// backend/control/perfiles.go
package control

import "strings"

// PerfilModo es la configuración enlatada asociada a un modo del auditorio.
// El catálogo es estático: nunca cambia en tiempo de ejecución.
type PerfilModo struct {
	ModoActual string // etiqueta resultante; puede diferir del nombre del modo
	CargaCPU   string
	Latencia   string
	Detalles   string
}

// ModosValidos lista los nombres de modo aceptados, en el orden en que se
// muestran en los mensajes de error.
var ModosValidos = []string{"CONFERENCIA", "CINE", "OFF", "STANDBY"}

// Perfiles es el catálogo de configuraciones del hardware simulado.
var Perfiles = map[string]PerfilModo{
	"CONFERENCIA": {
		ModoActual: "CONFERENCIA",
		CargaCPU:   "45%",
		Latencia:   "12ms",
		Detalles:   "Perfil Vocal Activado. Filtro HPF: ON. Compresor: 3:1 @ -20dB.",
	},
	"CINE": {
		ModoActual: "CINE 3D",
		CargaCPU:   "88%",
		Latencia:   "24ms",
		Detalles:   "Algoritmo Pseudo-3D Activado. Subwoofers: +6dB. Atmos Processing: ON.",
	},
	"OFF": {
		ModoActual: "OFF",
		CargaCPU:   "2%",
		Latencia:   "0ms",
		Detalles:   "Sistema Silenciado (MUTE ALL). Amplificadores en Standby.",
	},
	"STANDBY": {
		ModoActual: "STANDBY",
		CargaCPU:   "5%",
		Latencia:   "0ms",
		Detalles:   "Sistema en espera. Procesamiento mínimo activo.",
	},
}

// PerfilPara normaliza el nombre solicitado (mayúsculas, sin espacios
// alrededor) y devuelve el perfil del catálogo si existe.
func PerfilPara(modo string) (string, PerfilModo, bool) {
	nombre := strings.ToUpper(strings.TrimSpace(modo))
	perfil, ok := Perfiles[nombre]
	return nombre, perfil, ok
}
