// backend/store/configuraciones.go
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cast"

	"backend/models"
)

// ErrConfiguracionNoEncontrada se devuelve al actualizar una clave inexistente.
var ErrConfiguracionNoEncontrada = errors.New("configuración no encontrada")

// Configuraciones gestiona la tabla clave/valor configuraciones.
type Configuraciones struct {
	pool *pgxpool.Pool
}

func NuevasConfiguraciones(pool *pgxpool.Pool) *Configuraciones {
	return &Configuraciones{pool: pool}
}

// Listar devuelve las configuraciones, opcionalmente filtradas por categoría.
func (c *Configuraciones) Listar(ctx context.Context, categoria string) ([]models.Configuracion, error) {
	consulta := `
		SELECT id, clave, valor, tipo, descripcion, categoria, actualizado, actualizado_por
		  FROM configuraciones`
	var args []interface{}
	if categoria != "" {
		consulta += ` WHERE categoria = $1 ORDER BY clave`
		args = append(args, categoria)
	} else {
		consulta += ` ORDER BY categoria, clave`
	}

	rows, err := c.pool.Query(ctx, consulta, args...)
	if err != nil {
		return nil, fmt.Errorf("error al obtener configuraciones: %w", err)
	}
	defer rows.Close()

	var configs []models.Configuracion
	for rows.Next() {
		var cfg models.Configuracion
		if err := rows.Scan(
			&cfg.ID, &cfg.Clave, &cfg.Valor, &cfg.Tipo,
			&cfg.Descripcion, &cfg.Categoria, &cfg.Actualizado, &cfg.ActualizadoPor,
		); err != nil {
			return nil, fmt.Errorf("error mapeando configuración: %w", err)
		}
		configs = append(configs, cfg)
	}
	return configs, rows.Err()
}

// Obtener devuelve una configuración por clave.
func (c *Configuraciones) Obtener(ctx context.Context, clave string) (models.Configuracion, error) {
	var cfg models.Configuracion
	err := c.pool.QueryRow(ctx, `
		SELECT id, clave, valor, tipo, descripcion, categoria, actualizado, actualizado_por
		  FROM configuraciones
		 WHERE clave = $1
	`, clave).Scan(
		&cfg.ID, &cfg.Clave, &cfg.Valor, &cfg.Tipo,
		&cfg.Descripcion, &cfg.Categoria, &cfg.Actualizado, &cfg.ActualizadoPor,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return cfg, ErrConfiguracionNoEncontrada
	}
	if err != nil {
		return cfg, fmt.Errorf("error al obtener configuración %s: %w", clave, err)
	}
	return cfg, nil
}

// Actualizar cambia el valor de una clave dejando constancia de quién lo hizo.
func (c *Configuraciones) Actualizar(ctx context.Context, clave, valor, usuario string) error {
	etiqueta, err := c.pool.Exec(ctx, `
		UPDATE configuraciones
		   SET valor = $1, actualizado = NOW(), actualizado_por = $2
		 WHERE clave = $3
	`, valor, nuloSiVacio(usuario), clave)
	if err != nil {
		return fmt.Errorf("error al actualizar configuración %s: %w", clave, err)
	}
	if etiqueta.RowsAffected() == 0 {
		return ErrConfiguracionNoEncontrada
	}
	return nil
}

// ValorEntero lee una configuración declarada "integer" y la convierte.
// Devuelve defecto si la clave no existe o el valor no es convertible.
func (c *Configuraciones) ValorEntero(ctx context.Context, clave string, defecto int) int {
	cfg, err := c.Obtener(ctx, clave)
	if err != nil {
		return defecto
	}
	valor, err := cast.ToIntE(cfg.Valor)
	if err != nil {
		return defecto
	}
	return valor
}

// ValorBooleano lee una configuración declarada "boolean" y la convierte.
func (c *Configuraciones) ValorBooleano(ctx context.Context, clave string, defecto bool) bool {
	cfg, err := c.Obtener(ctx, clave)
	if err != nil {
		return defecto
	}
	valor, err := cast.ToBoolE(cfg.Valor)
	if err != nil {
		return defecto
	}
	return valor
}
