// backend/store/usuarios.go
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"backend/models"
)

// ErrUsuarioDuplicado se devuelve al crear un usuario cuyo username ya existe.
var ErrUsuarioDuplicado = errors.New("el username ya está registrado")

// ErrUsuarioNoEncontrado se devuelve cuando el usuario buscado no existe.
var ErrUsuarioNoEncontrado = errors.New("usuario no encontrado")

// camposActualizables son las únicas columnas que admite Actualizar.
var camposActualizables = map[string]bool{
	"nombre_completo": true,
	"email":           true,
	"rol":             true,
	"activo":          true,
}

// Usuarios gestiona la tabla usuarios.
type Usuarios struct {
	pool *pgxpool.Pool
}

func NuevosUsuarios(pool *pgxpool.Pool) *Usuarios {
	return &Usuarios{pool: pool}
}

// ObtenerTodos devuelve todos los usuarios, los más recientes primero.
func (u *Usuarios) ObtenerTodos(ctx context.Context) ([]models.Usuario, error) {
	rows, err := u.pool.Query(ctx, `
		SELECT id, username, rol, nombre_completo, email, activo,
		       fecha_creacion, ultimo_acceso
		  FROM usuarios
		 ORDER BY fecha_creacion DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("error al obtener usuarios: %w", err)
	}
	defer rows.Close()

	var usuarios []models.Usuario
	for rows.Next() {
		var us models.Usuario
		if err := rows.Scan(
			&us.ID, &us.Username, &us.Rol, &us.NombreCompleto, &us.Email,
			&us.Activo, &us.FechaCreacion, &us.UltimoAcceso,
		); err != nil {
			return nil, fmt.Errorf("error mapeando usuario: %w", err)
		}
		usuarios = append(usuarios, us)
	}
	return usuarios, rows.Err()
}

// ObtenerPorUsername busca un usuario por su username, incluyendo el hash
// de contraseña para la verificación de login.
func (u *Usuarios) ObtenerPorUsername(ctx context.Context, username string) (models.Usuario, error) {
	var us models.Usuario
	err := u.pool.QueryRow(ctx, `
		SELECT id, username, password_hash, rol, nombre_completo, email,
		       activo, fecha_creacion, ultimo_acceso
		  FROM usuarios
		 WHERE username = $1
	`, username).Scan(
		&us.ID, &us.Username, &us.PasswordHash, &us.Rol, &us.NombreCompleto,
		&us.Email, &us.Activo, &us.FechaCreacion, &us.UltimoAcceso,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return us, ErrUsuarioNoEncontrado
	}
	if err != nil {
		return us, fmt.Errorf("error al buscar usuario: %w", err)
	}
	return us, nil
}

// Crear inserta un nuevo usuario con su hash de contraseña ya calculado.
func (u *Usuarios) Crear(ctx context.Context, username, passwordHash, rol string, nombreCompleto, email string) error {
	_, err := u.pool.Exec(ctx, `
		INSERT INTO usuarios (username, password_hash, rol, nombre_completo, email)
		VALUES ($1, $2, $3, $4, $5)
	`, username, passwordHash, rol, nuloSiVacio(nombreCompleto), nuloSiVacio(email))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrUsuarioDuplicado
		}
		return fmt.Errorf("error al crear usuario: %w", err)
	}
	return nil
}

// Actualizar modifica los campos indicados de un usuario. Solo acepta las
// columnas de camposActualizables; cualquier otra clave se descarta.
func (u *Usuarios) Actualizar(ctx context.Context, id int, campos map[string]interface{}) error {
	consulta := "UPDATE usuarios SET "
	var args []interface{}
	for campo, valor := range campos {
		if !camposActualizables[campo] {
			continue
		}
		args = append(args, valor)
		if len(args) > 1 {
			consulta += ", "
		}
		consulta += fmt.Sprintf("%s = $%d", campo, len(args))
	}
	if len(args) == 0 {
		return errors.New("sin campos válidos para actualizar")
	}
	args = append(args, id)
	consulta += fmt.Sprintf(" WHERE id = $%d", len(args))

	etiqueta, err := u.pool.Exec(ctx, consulta, args...)
	if err != nil {
		return fmt.Errorf("error al actualizar usuario %d: %w", id, err)
	}
	if etiqueta.RowsAffected() == 0 {
		return ErrUsuarioNoEncontrado
	}
	return nil
}

// Desactivar marca un usuario como inactivo. No se borran filas de usuarios.
func (u *Usuarios) Desactivar(ctx context.Context, id int) error {
	etiqueta, err := u.pool.Exec(ctx, `UPDATE usuarios SET activo = FALSE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error al desactivar usuario %d: %w", id, err)
	}
	if etiqueta.RowsAffected() == 0 {
		return ErrUsuarioNoEncontrado
	}
	return nil
}

// ActualizarUltimoAcceso refresca la marca de último acceso tras un login.
func (u *Usuarios) ActualizarUltimoAcceso(ctx context.Context, id int) error {
	_, err := u.pool.Exec(ctx, `UPDATE usuarios SET ultimo_acceso = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error al actualizar último acceso: %w", err)
	}
	return nil
}
