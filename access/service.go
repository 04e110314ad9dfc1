package access

import (
	"crypto/subtle"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"vetflow/vetting"
)

var (
	// ErrInvalidPassword signals a wrong password for the requested role.
	ErrInvalidPassword = errors.New("access: invalid password")
	// ErrUnknownRole signals a role with no configured secret.
	ErrUnknownRole = errors.New("access: unknown role")
)

// Secret holds one role's access credential. When Hash is set it is a bcrypt
// hash and takes precedence; otherwise Plain is compared in constant time.
type Secret struct {
	Hash  string
	Plain string
}

// Verifier checks the static per-role passwords that gate the bot. There are
// no user accounts and no tokens: one shared secret per direction.
type Verifier struct {
	secrets map[vetting.Role]Secret
}

// NewVerifier builds a Verifier from the configured role secrets.
func NewVerifier(secrets map[vetting.Role]Secret) (*Verifier, error) {
	for role, sec := range secrets {
		if sec.Hash == "" && sec.Plain == "" {
			return nil, fmt.Errorf("access: empty secret for role %q", role)
		}
	}
	return &Verifier{secrets: secrets}, nil
}

// Verify checks password against the secret configured for role.
func (v *Verifier) Verify(role vetting.Role, password string) error {
	sec, ok := v.secrets[role]
	if !ok {
		return ErrUnknownRole
	}

	if sec.Hash != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(sec.Hash), []byte(password)); err != nil {
			return ErrInvalidPassword
		}
		return nil
	}

	if subtle.ConstantTimeCompare([]byte(sec.Plain), []byte(password)) != 1 {
		return ErrInvalidPassword
	}
	return nil
}
