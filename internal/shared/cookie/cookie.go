// Package cookie seals the session ID into a tamper-proof browser cookie
// using AES-GCM. The cookie name is part of the sealed plaintext so a value
// cannot be replayed under a different name.
package cookie

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

const cookieName = "session"

var ErrInvalidValue = errors.New("invalid cookie value")

func encrypt(sessionID uuid.UUID, secret []byte) (string, error) {
	block, err := aes.NewCipher(secret)
	if err != nil {
		return "", err
	}

	aesGCM, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, aesGCM.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	// ":" cannot appear in a cookie name, so it is a safe separator.
	plaintext := fmt.Sprintf("%s:%s", cookieName, sessionID.String())

	sealed := aesGCM.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.URLEncoding.EncodeToString(sealed), nil
}

func decrypt(value string, secret []byte) (uuid.UUID, error) {
	raw, err := base64.URLEncoding.DecodeString(value)
	if err != nil {
		return uuid.Nil, ErrInvalidValue
	}

	block, err := aes.NewCipher(secret)
	if err != nil {
		return uuid.Nil, err
	}

	aesGCM, err := cipher.NewGCM(block)
	if err != nil {
		return uuid.Nil, err
	}

	nonceSize := aesGCM.NonceSize()
	if len(raw) < nonceSize {
		return uuid.Nil, ErrInvalidValue
	}

	plaintext, err := aesGCM.Open(nil, raw[:nonceSize], raw[nonceSize:], nil)
	if err != nil {
		return uuid.Nil, ErrInvalidValue
	}

	name, idStr, ok := strings.Cut(string(plaintext), ":")
	if !ok || name != cookieName {
		return uuid.Nil, ErrInvalidValue
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, ErrInvalidValue
	}
	return id, nil
}

// Get extracts the session ID from the request's session cookie.
func Get(r *http.Request, secret []byte) (uuid.UUID, error) {
	c, err := r.Cookie(cookieName)
	if err != nil {
		return uuid.Nil, err
	}
	return decrypt(c.Value, secret)
}

// Set writes the sealed session cookie on the response.
func Set(w http.ResponseWriter, sessionID uuid.UUID, secret []byte) error {
	value, err := encrypt(sessionID, secret)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    value,
		HttpOnly: true,
		Path:     "/",
		Secure:   true,
	})
	return nil
}

// Delete expires the session cookie on the response.
func Delete(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    "",
		HttpOnly: true,
		Path:     "/",
		Secure:   true,
		MaxAge:   -1,
	})
}
