// Package password реализует функции для безопасного хеширования и проверки паролей.
//
// GetHash создает scrypt-хеш пароля со случайной солью для безопасного хранения.
// CompareHash сравнивает сохранённый хеш с введённым паролем за постоянное время.
//
// Формат хранения: hex(ключ) + "." + hex(соль).
package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/scrypt"
)

// Параметры KDF. keyLen 64 и соль 16 байт — формат, с которым уже
// выпущены хеши в базе, менять нельзя без миграции.
const (
	scryptN = 16384
	scryptR = 8
	scryptP = 1
	keyLen  = 64
	saltLen = 16
)

// ErrMismatch возвращается, когда пароль не соответствует хешу.
var ErrMismatch = errors.New("password does not match hash")

// GetHash принимает пароль пользователя и возвращает его scrypt-хэш
// в формате hex(ключ).hex(соль).
func GetHash(password string) (string, error) {
	const op = "password.GetHash"
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	key, err := scrypt.Key([]byte(password), salt, scryptN, scryptR, scryptP, keyLen)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return hex.EncodeToString(key) + "." + hex.EncodeToString(salt), nil
}

// CompareHash сравнивает сохранённый хеш с введённым паролем.
//
// Возвращает nil при совпадении, ErrMismatch при несовпадении.
// Некорректный формат сохранённого хеша не приводит к панике —
// возвращается ошибка.
func CompareHash(storedHash, externalPassword string) error {
	const op = "password.CompareHash"
	hashHex, saltHex, ok := strings.Cut(storedHash, ".")
	if !ok {
		return fmt.Errorf("%s: malformed stored hash", op)
	}
	storedKey, err := hex.DecodeString(hashHex)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	salt, err := hex.DecodeString(saltHex)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	derived, err := scrypt.Key([]byte(externalPassword), salt, scryptN, scryptR, scryptP, keyLen)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if len(storedKey) != len(derived) || subtle.ConstantTimeCompare(storedKey, derived) != 1 {
		return fmt.Errorf("%s: %w", op, ErrMismatch)
	}
	return nil
}
