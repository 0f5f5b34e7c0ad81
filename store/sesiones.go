// backend/store/sesiones.go
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"backend/models"
)

// ErrSesionInvalida se devuelve cuando el token no corresponde a una sesión
// activa y vigente.
var ErrSesionInvalida = errors.New("sesión inválida o expirada")

// Sesiones gestiona la tabla sesiones.
type Sesiones struct {
	pool *pgxpool.Pool
}

func NuevasSesiones(pool *pgxpool.Pool) *Sesiones {
	return &Sesiones{pool: pool}
}

// Abrir registra una nueva sesión para el usuario y devuelve su token.
func (s *Sesiones) Abrir(ctx context.Context, usuarioID int, ip, userAgent string) (string, error) {
	token := uuid.NewString()
	_, err := s.pool.Exec(ctx, `
		INSERT INTO sesiones (usuario_id, token, ip_origen, user_agent)
		VALUES ($1, $2, $3, $4)
	`, usuarioID, token, nuloSiVacio(ip), nuloSiVacio(userAgent))
	if err != nil {
		return "", fmt.Errorf("error al abrir sesión: %w", err)
	}
	return token, nil
}

// Cerrar marca la sesión del token como terminada.
func (s *Sesiones) Cerrar(ctx context.Context, token string) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE sesiones
		   SET activa = FALSE, fecha_fin = NOW()
		 WHERE token = $1 AND activa
	`, token)
	if err != nil {
		return fmt.Errorf("error al cerrar sesión: %w", err)
	}
	return nil
}

// Validar resuelve un token a la identidad de su usuario. La sesión debe
// estar activa, no exceder la vigencia máxima y pertenecer a un usuario activo.
func (s *Sesiones) Validar(ctx context.Context, token string, vigencia time.Duration) (models.UsuarioSesion, error) {
	var us models.UsuarioSesion
	err := s.pool.QueryRow(ctx, `
		SELECT u.id, u.username, u.rol
		  FROM sesiones se
		  JOIN usuarios u ON u.id = se.usuario_id
		 WHERE se.token = $1
		   AND se.activa
		   AND se.fecha_inicio > NOW() - ($2 * INTERVAL '1 second')
		   AND u.activo
	`, token, int64(vigencia.Seconds())).Scan(&us.ID, &us.Username, &us.Rol)
	if errors.Is(err, pgx.ErrNoRows) {
		return us, ErrSesionInvalida
	}
	if err != nil {
		return us, fmt.Errorf("error al validar sesión: %w", err)
	}
	return us, nil
}
