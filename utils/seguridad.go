package utils

import (
	"golang.org/x/crypto/bcrypt"
)

// HashPassword genera el hash bcrypt de una contraseña en claro.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerificarPassword compara una contraseña en claro contra su hash guardado.
func VerificarPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
