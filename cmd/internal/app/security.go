package app

import (
	"crypto/rand"
	"errors"
	"fmt"

	"guestbook/cmd/security/token"
)

// Keys are the per-purpose keys derived from the root secret.
type Keys struct {
	LinkHash    []byte
	SessionSign []byte
	// Ephemeral is set when no secret was configured and a random one was generated.
	Ephemeral bool
}

// DeriveKeys expands cfg.Secret into purpose-bound keys. A missing secret yields random keys, so
// sessions and unused links do not survive a restart. A secret that is set but too short is an error.
func DeriveKeys(cfg Config) (Keys, error) {
	secret := []byte(cfg.Secret)
	ephemeral := false
	if len(secret) == 0 {
		secret = make([]byte, token.MinSecretBytes)
		if _, err := rand.Read(secret); err != nil {
			return Keys{}, err
		}
		ephemeral = true
	}

	linkKey, err := token.DeriveKey(secret, token.PurposeLinkHash, 32)
	if err != nil {
		return Keys{}, secretError(err)
	}
	sessionKey, err := token.DeriveKey(secret, token.PurposeSessionSign, 32)
	if err != nil {
		return Keys{}, secretError(err)
	}
	return Keys{LinkHash: linkKey, SessionSign: sessionKey, Ephemeral: ephemeral}, nil
}

func secretError(err error) error {
	if errors.Is(err, token.ErrKeyTooShort) {
		return fmt.Errorf("security policy: %sSECRET is too short (min %d bytes)", EnvPrefix, token.MinSecretBytes)
	}
	return err
}
