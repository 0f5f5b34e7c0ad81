package db

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"

	"backend/utils"
)

// sentencias de creación de la estructura relacional completa. Todas son
// idempotentes: re-ejecutarlas contra una BD ya inicializada no duplica nada.
var tablas = []string{
	`CREATE TABLE IF NOT EXISTS logs_auditoria (
		id BIGSERIAL PRIMARY KEY,
		fecha TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		nivel TEXT NOT NULL DEFAULT 'INFO',
		usuario TEXT,
		evento TEXT NOT NULL,
		estado_previo TEXT,
		estado_nuevo TEXT,
		detalles TEXT,
		origen_ip TEXT,
		user_agent TEXT,
		duracion_ms BIGINT
	)`,
	`CREATE TABLE IF NOT EXISTS estado_sistema (
		clave TEXT PRIMARY KEY,
		valor TEXT NOT NULL,
		actualizado TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS usuarios (
		id SERIAL PRIMARY KEY,
		username TEXT UNIQUE NOT NULL,
		password_hash TEXT NOT NULL,
		rol TEXT NOT NULL DEFAULT 'operador',
		nombre_completo TEXT,
		email TEXT,
		activo BOOLEAN NOT NULL DEFAULT TRUE,
		fecha_creacion TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		ultimo_acceso TIMESTAMPTZ
	)`,
	`CREATE TABLE IF NOT EXISTS configuraciones (
		id SERIAL PRIMARY KEY,
		clave TEXT UNIQUE NOT NULL,
		valor TEXT NOT NULL,
		tipo TEXT NOT NULL DEFAULT 'string',
		descripcion TEXT,
		categoria TEXT,
		actualizado TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		actualizado_por TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS sesiones (
		id SERIAL PRIMARY KEY,
		usuario_id INTEGER NOT NULL REFERENCES usuarios(id),
		token TEXT UNIQUE NOT NULL,
		fecha_inicio TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		fecha_fin TIMESTAMPTZ,
		ip_origen TEXT,
		user_agent TEXT,
		activa BOOLEAN NOT NULL DEFAULT TRUE
	)`,
}

var indices = []string{
	`CREATE INDEX IF NOT EXISTS idx_logs_fecha ON logs_auditoria(fecha DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_logs_usuario ON logs_auditoria(usuario)`,
	`CREATE INDEX IF NOT EXISTS idx_usuarios_username ON usuarios(username)`,
	`CREATE INDEX IF NOT EXISTS idx_sesiones_usuario ON sesiones(usuario_id, activa)`,
	`CREATE INDEX IF NOT EXISTS idx_configuraciones_categoria ON configuraciones(categoria)`,
}

// InicializarEsquema crea las tablas e índices y siembra los datos por
// defecto cuando las tablas están vacías.
func InicializarEsquema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, sentencia := range tablas {
		if _, err := pool.Exec(ctx, sentencia); err != nil {
			return fmt.Errorf("error creando tablas: %w", err)
		}
	}
	for _, sentencia := range indices {
		if _, err := pool.Exec(ctx, sentencia); err != nil {
			return fmt.Errorf("error creando índices: %w", err)
		}
	}

	if err := sembrarEstadoInicial(ctx, pool); err != nil {
		return err
	}
	if err := sembrarUsuarios(ctx, pool); err != nil {
		return err
	}
	if err := sembrarConfiguraciones(ctx, pool); err != nil {
		return err
	}

	log.Println("Estructura de base de datos inicializada correctamente")
	return nil
}

func sembrarEstadoInicial(ctx context.Context, pool *pgxpool.Pool) error {
	estadoInicial := [][2]string{
		{"modo_actual", "STANDBY"},
		{"carga_cpu", "5%"},
		{"latencia", "0ms"},
		{"sistema_activo", "true"},
	}
	for _, par := range estadoInicial {
		if _, err := pool.Exec(ctx, `
			INSERT INTO estado_sistema (clave, valor)
			VALUES ($1, $2)
			ON CONFLICT (clave) DO NOTHING
		`, par[0], par[1]); err != nil {
			return fmt.Errorf("error sembrando estado inicial: %w", err)
		}
	}
	return nil
}

func sembrarUsuarios(ctx context.Context, pool *pgxpool.Pool) error {
	var total int
	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM usuarios`).Scan(&total); err != nil {
		return fmt.Errorf("error comprobando usuarios: %w", err)
	}
	if total > 0 {
		return nil
	}

	porDefecto := []struct {
		username, password, rol, nombre, email string
	}{
		{"admin", "admin123", "admin", "Administrador del Sistema", "admin@universidad.edu"},
		{"operador", "oper123", "operador", "Operador de Audio", "operador@universidad.edu"},
	}
	for _, u := range porDefecto {
		hash, err := utils.HashPassword(u.password)
		if err != nil {
			return fmt.Errorf("error generando hash de %s: %w", u.username, err)
		}
		if _, err := pool.Exec(ctx, `
			INSERT INTO usuarios (username, password_hash, rol, nombre_completo, email)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (username) DO NOTHING
		`, u.username, hash, u.rol, u.nombre, u.email); err != nil {
			return fmt.Errorf("error sembrando usuario %s: %w", u.username, err)
		}
	}
	log.Println("Usuarios por defecto creados: admin, operador")
	return nil
}

func sembrarConfiguraciones(ctx context.Context, pool *pgxpool.Pool) error {
	var total int
	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM configuraciones`).Scan(&total); err != nil {
		return fmt.Errorf("error comprobando configuraciones: %w", err)
	}
	if total > 0 {
		return nil
	}

	porDefecto := []struct {
		clave, valor, tipo, descripcion, categoria string
	}{
		{"max_volumen", "100", "integer", "Volumen máximo permitido", "audio"},
		{"timeout_sesion", "3600", "integer", "Tiempo de sesión en segundos", "seguridad"},
		{"modo_debug", "false", "boolean", "Activar modo debug", "sistema"},
		{"backup_automatico", "true", "boolean", "Realizar backup automático", "sistema"},
	}
	for _, c := range porDefecto {
		if _, err := pool.Exec(ctx, `
			INSERT INTO configuraciones (clave, valor, tipo, descripcion, categoria)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (clave) DO NOTHING
		`, c.clave, c.valor, c.tipo, c.descripcion, c.categoria); err != nil {
			return fmt.Errorf("error sembrando configuración %s: %w", c.clave, err)
		}
	}
	return nil
}
