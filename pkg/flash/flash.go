package flash

import (
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"time"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

const minSecretLength = 32

// Level classifies a flash message.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Message is a one-shot notice shown on the next page the client loads.
type Message struct {
	Level Level  `json:"level"`
	Text  string `json:"text"`
}

// Warning is a shortcut for a warning-level message.
func Warning(text string) Message {
	return Message{Level: LevelWarning, Text: text}
}

// Manager writes and consumes encrypted flash cookies.
type Manager struct {
	// aeads[0] seals, all of them open, so older secrets keep working during rotation.
	aeads []cipher.AEAD
	opts  Options
}

// New creates a Manager. Every secret must be at least 32 characters.
func New(secrets []string, opts ...Option) (*Manager, error) {
	secrets = slices.DeleteFunc(slices.Clone(secrets), func(s string) bool { return s == "" })
	if len(secrets) == 0 {
		return nil, ErrNoSecret
	}

	m := &Manager{opts: applyOptions(defaultOptions(), opts)}
	for i, s := range secrets {
		if len(s) < minSecretLength {
			return nil, fmt.Errorf("%w: secret %d has %d chars, need at least %d", ErrSecretTooShort, i, len(s), minSecretLength)
		}
		aead, err := newAEAD(s)
		if err != nil {
			return nil, err
		}
		m.aeads = append(m.aeads, aead)
	}
	return m, nil
}

// Set replaces the pending flash messages with msgs.
func (m *Manager) Set(w http.ResponseWriter, msgs ...Message) error {
	if len(msgs) == 0 {
		return nil
	}
	data, err := json.Marshal(msgs)
	if err != nil {
		return fmt.Errorf("flash: marshal: %w", err)
	}
	value, err := m.seal(data)
	if err != nil {
		return err
	}

	http.SetCookie(w, m.cookie(value, m.opts.MaxAge))
	return nil
}

// Pop returns the pending messages and deletes the cookie.
// A missing cookie yields no messages and no error. A cookie that fails
// authentication is deleted as well and reported as ErrInvalidCookie.
func (m *Manager) Pop(w http.ResponseWriter, r *http.Request) ([]Message, error) {
	c, err := r.Cookie(m.opts.Name)
	if errors.Is(err, http.ErrNoCookie) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("flash: read cookie: %w", err)
	}

	m.clear(w)

	data, err := m.open(c.Value)
	if err != nil {
		return nil, err
	}
	var msgs []Message
	if err := json.Unmarshal(data, &msgs); err != nil {
		return nil, errors.Join(ErrInvalidCookie, err)
	}
	return msgs, nil
}

func (m *Manager) clear(w http.ResponseWriter) {
	c := m.cookie("", -1)
	c.Expires = time.Unix(0, 0)
	http.SetCookie(w, c)
}

func (m *Manager) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     m.opts.Name,
		Value:    value,
		Path:     m.opts.Path,
		Domain:   m.opts.Domain,
		MaxAge:   maxAge,
		Secure:   m.opts.Secure,
		HttpOnly: true,
		SameSite: m.opts.SameSite,
	}
}

func (m *Manager) seal(plaintext []byte) (string, error) {
	aead := m.aeads[0]
	nonce := make([]byte, aead.NonceSize(), aead.NonceSize()+len(plaintext)+aead.Overhead())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("flash: nonce: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(aead.Seal(nonce, nonce, plaintext, []byte(m.opts.Name))), nil
}

func (m *Manager) open(value string) ([]byte, error) {
	raw, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return nil, ErrInvalidCookie
	}
	for _, aead := range m.aeads {
		if len(raw) < aead.NonceSize() {
			return nil, ErrInvalidCookie
		}
		nonce, ciphertext := raw[:aead.NonceSize()], raw[aead.NonceSize():]
		if plaintext, err := aead.Open(nil, nonce, ciphertext, []byte(m.opts.Name)); err == nil {
			return plaintext, nil
		}
	}
	return nil, ErrInvalidCookie
}

// newAEAD derives a 256-bit XChaCha20-Poly1305 key from secret.
func newAEAD(secret string) (cipher.AEAD, error) {
	key := make([]byte, chacha20poly1305.KeySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), nil, []byte("flash")), key); err != nil {
		return nil, fmt.Errorf("flash: derive key: %w", err)
	}
	return chacha20poly1305.NewX(key)
}
