package flash_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tenants/pkg/flash"
)

const (
	secret    = "this-is-a-very-long-secret-key-32-chars-long"
	oldSecret = "this-is-old-very-long-secret-key-32-chars-ok"
)

// carry copies cookies set on a response onto a new request.
func carry(t *testing.T, w *httptest.ResponseRecorder) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range w.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		secrets []string
		wantErr error
	}{
		{name: "no secrets", secrets: nil, wantErr: flash.ErrNoSecret},
		{name: "empty secrets", secrets: []string{"", ""}, wantErr: flash.ErrNoSecret},
		{name: "secret too short", secrets: []string{"short"}, wantErr: flash.ErrSecretTooShort},
		{name: "valid", secrets: []string{secret}},
		{name: "rotation", secrets: []string{secret, oldSecret}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m, err := flash.New(tt.secrets)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, m)
		})
	}
}

func TestManager_SetPop(t *testing.T) {
	t.Parallel()

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()

		m, err := flash.New([]string{secret}, flash.WithDomain("example.com"))
		require.NoError(t, err)

		w := httptest.NewRecorder()
		msg := flash.Warning("The requested tenant [acme] was not found.")
		require.NoError(t, m.Set(w, msg))

		cookies := w.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, flash.DefaultCookieName, cookies[0].Name)
		assert.Equal(t, "example.com", cookies[0].Domain)
		assert.True(t, cookies[0].HttpOnly)
		assert.NotContains(t, cookies[0].Value, "acme")

		rw := httptest.NewRecorder()
		msgs, err := m.Pop(rw, carry(t, w))
		require.NoError(t, err)
		assert.Equal(t, []flash.Message{msg}, msgs)

		deleted := rw.Result().Cookies()
		require.Len(t, deleted, 1)
		assert.Negative(t, deleted[0].MaxAge)
	})

	t.Run("no cookie", func(t *testing.T) {
		t.Parallel()

		m, err := flash.New([]string{secret})
		require.NoError(t, err)

		w := httptest.NewRecorder()
		msgs, err := m.Pop(w, httptest.NewRequest(http.MethodGet, "/", nil))
		require.NoError(t, err)
		assert.Empty(t, msgs)
		assert.Empty(t, w.Result().Cookies())
	})

	t.Run("nothing to set", func(t *testing.T) {
		t.Parallel()

		m, err := flash.New([]string{secret})
		require.NoError(t, err)

		w := httptest.NewRecorder()
		require.NoError(t, m.Set(w))
		assert.Empty(t, w.Result().Cookies())
	})

	t.Run("tampered cookie", func(t *testing.T) {
		t.Parallel()

		m, err := flash.New([]string{secret})
		require.NoError(t, err)

		w := httptest.NewRecorder()
		require.NoError(t, m.Set(w, flash.Warning("hello")))
		c := w.Result().Cookies()[0]

		b := []byte(c.Value)
		i := len(b) / 2
		if b[i] == 'A' {
			b[i] = 'B'
		} else {
			b[i] = 'A'
		}

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: c.Name, Value: string(b)})

		rw := httptest.NewRecorder()
		_, err = m.Pop(rw, req)
		assert.ErrorIs(t, err, flash.ErrInvalidCookie)
		require.Len(t, rw.Result().Cookies(), 1)
	})

	t.Run("garbage cookie", func(t *testing.T) {
		t.Parallel()

		m, err := flash.New([]string{secret})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: flash.DefaultCookieName, Value: "not*base64"})

		_, err = m.Pop(httptest.NewRecorder(), req)
		assert.ErrorIs(t, err, flash.ErrInvalidCookie)
	})

	t.Run("other secret cannot read", func(t *testing.T) {
		t.Parallel()

		writer, err := flash.New([]string{secret})
		require.NoError(t, err)
		reader, err := flash.New([]string{strings.Repeat("x", 40)})
		require.NoError(t, err)

		w := httptest.NewRecorder()
		require.NoError(t, writer.Set(w, flash.Warning("hello")))

		_, err = reader.Pop(httptest.NewRecorder(), carry(t, w))
		assert.ErrorIs(t, err, flash.ErrInvalidCookie)
	})

	t.Run("rotated secret still reads", func(t *testing.T) {
		t.Parallel()

		old, err := flash.New([]string{oldSecret})
		require.NoError(t, err)
		rotated, err := flash.New([]string{secret, oldSecret})
		require.NoError(t, err)

		w := httptest.NewRecorder()
		require.NoError(t, old.Set(w, flash.Message{Level: flash.LevelInfo, Text: "saved"}))

		msgs, err := rotated.Pop(httptest.NewRecorder(), carry(t, w))
		require.NoError(t, err)
		require.Len(t, msgs, 1)
		assert.Equal(t, "saved", msgs[0].Text)
	})

	t.Run("cookie name binds ciphertext", func(t *testing.T) {
		t.Parallel()

		a, err := flash.New([]string{secret}, flash.WithName("a"))
		require.NoError(t, err)
		b, err := flash.New([]string{secret}, flash.WithName("b"))
		require.NoError(t, err)

		w := httptest.NewRecorder()
		require.NoError(t, a.Set(w, flash.Warning("hello")))
		c := w.Result().Cookies()[0]

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "b", Value: c.Value})
		_, err = b.Pop(httptest.NewRecorder(), req)
		assert.ErrorIs(t, err, flash.ErrInvalidCookie)
	})
}

func TestNewFromConfig(t *testing.T) {
	t.Parallel()

	m, err := flash.NewFromConfig(flash.Config{
		Secrets: " " + secret + " , " + oldSecret,
		Name:    "notice",
		Domain:  "example.com",
		MaxAge:  60,
		Secure:  true,
	})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	require.NoError(t, m.Set(w, flash.Warning("hi")))
	c := w.Result().Cookies()[0]
	assert.Equal(t, "notice", c.Name)
	assert.Equal(t, 60, c.MaxAge)
	assert.True(t, c.Secure)

	_, err = flash.NewFromConfig(flash.Config{})
	assert.ErrorIs(t, err, flash.ErrNoSecret)
}
