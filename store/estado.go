// backend/store/estado.go
package store

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Estado es el dueño del estado actual del sistema (tabla estado_sistema):
// una fila por clave, siempre con el último valor. No guarda histórico.
type Estado struct {
	pool *pgxpool.Pool
}

func NuevoEstado(pool *pgxpool.Pool) *Estado {
	return &Estado{pool: pool}
}

// ObtenerEstado devuelve todos los pares clave/valor del estado actual.
// Ante un fallo de almacenamiento no propaga el error: registra la causa y
// devuelve un estado degradado para que el dashboard siga siendo renderizable.
func (e *Estado) ObtenerEstado(ctx context.Context) map[string]string {
	rows, err := e.pool.Query(ctx, `SELECT clave, valor FROM estado_sistema`)
	if err != nil {
		log.Printf("Error al obtener estado: %v", err)
		return estadoDegradado()
	}
	defer rows.Close()

	estado := make(map[string]string)
	for rows.Next() {
		var clave, valor string
		if err := rows.Scan(&clave, &valor); err != nil {
			log.Printf("Error leyendo estado: %v", err)
			return estadoDegradado()
		}
		estado[clave] = valor
	}
	if err := rows.Err(); err != nil {
		log.Printf("Error recorriendo estado: %v", err)
		return estadoDegradado()
	}
	return estado
}

// ActualizarEstado inserta o sobreescribe cada clave de cambios refrescando
// su marca de tiempo. Todas las claves de una misma llamada se aplican dentro
// de una transacción: o entran todas o la llamada falla completa. Escritores
// concurrentes se resuelven con última-escritura-gana por clave.
func (e *Estado) ActualizarEstado(ctx context.Context, cambios map[string]string) error {
	tx, err := e.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("error abriendo transacción de estado: %w", err)
	}
	defer tx.Rollback(ctx)

	for clave, valor := range cambios {
		if _, err := tx.Exec(ctx, `
			INSERT INTO estado_sistema (clave, valor, actualizado)
			VALUES ($1, $2, NOW())
			ON CONFLICT (clave) DO UPDATE SET
				valor = EXCLUDED.valor,
				actualizado = EXCLUDED.actualizado
		`, clave, valor); err != nil {
			return fmt.Errorf("error actualizando clave %s: %w", clave, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("error confirmando actualización de estado: %w", err)
	}
	return nil
}

func estadoDegradado() map[string]string {
	return map[string]string{
		"modo_actual": "ERROR",
		"carga_cpu":   "0%",
		"latencia":    "0ms",
	}
}
