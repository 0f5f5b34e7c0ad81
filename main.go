// main.go
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	"github.com/robfig/cron/v3"

	"backend/config"
	"backend/control"
	"backend/db"
	"backend/handlers"
	"backend/models"
	"backend/store"
)

func habilitarCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Session-Token")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func main() {
	// 0️⃣ Configuración
	cfg, err := config.Cargar(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatal("Error cargando configuración:", err)
	}

	// 1️⃣ Conexión a la base de datos y esquema
	ctx := context.Background()
	pool, err := db.Conectar(ctx, cfg.BaseDatos.DSN)
	if err != nil {
		log.Fatal("Error conectando a la base de datos:", err)
	}
	defer pool.Close()

	if err := db.InicializarEsquema(ctx, pool); err != nil {
		log.Fatal("Error inicializando esquema:", err)
	}

	// 2️⃣ Almacenes y controlador
	estado := store.NuevoEstado(pool)
	auditoria := store.NuevaAuditoria(pool)
	usuarios := store.NuevosUsuarios(pool)
	configuraciones := store.NuevasConfiguraciones(pool)
	sesiones := store.NuevasSesiones(pool)
	controlador := control.NuevoControlador(estado, auditoria)

	api := &handlers.API{
		Estado:          estado,
		Auditoria:       auditoria,
		Usuarios:        usuarios,
		Configuraciones: configuraciones,
		Sesiones:        sesiones,
		Control:         controlador,
		DuracionSesion:  time.Duration(cfg.Sesiones.DuracionSegundos) * time.Second,
	}

	// 3️⃣ Router y rutas
	r := mux.NewRouter()

	// — PÚBLICAS —
	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "Backend funcionando correctamente")
	}).Methods("GET")
	r.HandleFunc("/salud", api.Salud).Methods("GET")
	r.HandleFunc("/login", api.Login).Methods("POST")

	// — AUTENTICADAS —
	aut := r.PathPrefix("/api").Subrouter()
	aut.Use(api.RequiereAutenticacion)
	aut.HandleFunc("/estado", api.ObtenerEstado).Methods("GET")
	aut.HandleFunc("/cambiar_modo", api.CambiarModo).Methods("POST")
	aut.HandleFunc("/historial", api.ObtenerHistorial).Methods("GET")
	r.Handle("/logout", api.RequiereAutenticacion(http.HandlerFunc(api.Logout))).Methods("POST")

	// — ADMINISTRACIÓN (rol = admin) —
	adm := aut.PathPrefix("/admin").Subrouter()
	adm.Use(api.SoloAdmin)

	// • Usuarios
	adm.HandleFunc("/usuarios", api.ObtenerUsuarios).Methods("GET")
	adm.HandleFunc("/usuarios", api.CrearUsuario).Methods("POST")
	adm.HandleFunc("/usuarios/{id}", api.ActualizarUsuario).Methods("PUT")
	adm.HandleFunc("/usuarios/{id}", api.EliminarUsuario).Methods("DELETE")

	// • Logs
	adm.HandleFunc("/logs/buscar", api.BuscarLogs).Methods("POST")
	adm.HandleFunc("/logs/limpiar", api.LimpiarLogs).Methods("POST")
	adm.HandleFunc("/exportar/logs", api.ExportarLogs).Methods("GET")

	// • Analíticas
	adm.HandleFunc("/estadisticas", api.ObtenerEstadisticas).Methods("GET")
	adm.HandleFunc("/analiticas/usuarios", api.AnaliticaUsuarios).Methods("GET")
	adm.HandleFunc("/analiticas/eventos-diarios", api.EventosDiarios).Methods("GET")
	adm.HandleFunc("/analiticas/timeline-modos", api.TimelineModos).Methods("GET")
	adm.HandleFunc("/analiticas/uso-por-modo", api.UsoPorModo).Methods("GET")

	// • Configuraciones
	adm.HandleFunc("/configuraciones", api.ObtenerConfiguraciones).Methods("GET")
	adm.HandleFunc("/configuraciones/{clave}", api.ActualizarConfiguracion).Methods("PUT")

	// 4️⃣ Limpieza periódica de logs por retención
	planificador := cron.New()
	_, err = planificador.AddFunc(cfg.Logs.CronLimpieza, func() {
		eliminados, err := auditoria.EliminarLogsAntiguos(context.Background(), cfg.Logs.RetencionDias)
		if err != nil {
			log.Printf("Error en limpieza programada de logs: %v", err)
			return
		}
		if eliminados > 0 {
			if err := auditoria.RegistrarEvento(context.Background(), models.EventoAuditoria{
				Usuario:  "system",
				Evento:   "Limpieza de logs",
				Detalles: fmt.Sprintf("Eliminados %d registros anteriores a %d días", eliminados, cfg.Logs.RetencionDias),
			}); err != nil {
				log.Printf("Error auditando limpieza programada: %v", err)
			}
		}
		log.Printf("Limpieza programada: %d logs eliminados", eliminados)
	})
	if err != nil {
		log.Fatal("Expresión cron de limpieza inválida:", err)
	}
	planificador.Start()
	defer planificador.Stop()

	// 5️⃣ Arrancar servidor
	if err := auditoria.RegistrarEvento(ctx, models.EventoAuditoria{
		Usuario:  "system",
		Evento:   "SISTEMA_INICIADO",
		Detalles: "Sistema iniciado correctamente",
	}); err != nil {
		log.Println("Error auditando arranque:", err)
	}

	log.Printf("Servidor corriendo en http://localhost%s", cfg.Servidor.Direccion)
	log.Fatal(http.ListenAndServe(cfg.Servidor.Direccion, habilitarCORS(r)))
}
