package sessiongate

import (
	"context"
	"errors"
)

const (
	usernameMinLength = 4
	usernameMaxLength = 25
	passwordMinLength = 8
)

// Register validates and stores a new identity. Presence is checked first,
// then shape: the username must be alphanumeric and between 4 and 25
// characters, the password at least 8 characters and repeated exactly in
// Confirm. The stored hash comes from HashForStorage, so every registration
// gets a fresh salt under current parameters.
func (e *Engine) Register(ctx context.Context, req RegisterRequest) error {
	if e == nil || e.store == nil || e.hasher == nil {
		return ErrEngineNotReady
	}
	if req.Username == "" || req.Password == "" || req.Confirm == "" {
		return ErrMalformedInput
	}
	if !validUsername(req.Username) {
		return ErrMalformedInput
	}
	if len(req.Password) < passwordMinLength {
		e.emitAudit(ctx, auditEventRegister, req.Username, false, ErrPasswordPolicy, map[string]string{
			"reason": "password_too_short",
		})
		return ErrPasswordPolicy
	}
	if req.Password != req.Confirm {
		e.emitAudit(ctx, auditEventRegister, req.Username, false, ErrPasswordPolicy, map[string]string{
			"reason": "confirmation_mismatch",
		})
		return ErrPasswordPolicy
	}

	hash, err := e.hasher.Hash(req.Password)
	if err != nil {
		return err
	}

	err = e.store.StoreIdentity(ctx, IdentityRecord{
		Username:     req.Username,
		PasswordHash: hash,
		Email:        req.Email,
	})
	if err != nil {
		if errors.Is(err, ErrDuplicateIdentity) {
			e.emitAudit(ctx, auditEventRegister, req.Username, false, ErrDuplicateIdentity, nil)
			return ErrDuplicateIdentity
		}
		return err
	}

	e.emitAudit(ctx, auditEventRegister, req.Username, true, nil, nil)
	return nil
}

func validUsername(username string) bool {
	if len(username) < usernameMinLength || len(username) > usernameMaxLength {
		return false
	}
	for _, r := range username {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}
