package auth

import (
	"errors"
	"fmt"

	"github.com/alexedwards/argon2id"
)

var ErrWrongPassword = errors.New("wrong password")

// PasswordHasher wraps argon2id so stores only ever see opaque hashes.
type PasswordHasher struct {
	params *argon2id.Params
}

func NewPasswordHasher() *PasswordHasher {
	return &PasswordHasher{params: argon2id.DefaultParams}
}

func (h *PasswordHasher) Hash(password string) (string, error) {
	hash, err := argon2id.CreateHash(password, h.params)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return hash, nil
}

func (h *PasswordHasher) Compare(password, hash string) error {
	match, err := argon2id.ComparePasswordAndHash(password, hash)
	if err != nil {
		return fmt.Errorf("comparing password: %w", err)
	}
	if !match {
		return ErrWrongPassword
	}
	return nil
}
