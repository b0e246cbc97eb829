package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pujanggalabs/puspagen/internal/auth"
	"github.com/pujanggalabs/puspagen/internal/config"
	"github.com/pujanggalabs/puspagen/internal/models"
	"github.com/pujanggalabs/puspagen/internal/poem"
)

// memStore is an in-memory store.Store for handler tests.
type memStore struct {
	accounts  map[string]*models.Account
	creations []models.Creation
	nextID    int64
}

func newMemStore() *memStore {
	return &memStore{accounts: make(map[string]*models.Account), nextID: 1}
}

func (m *memStore) FindByEmail(_ context.Context, email string) (*models.Account, error) {
	if acct, ok := m.accounts[email]; ok {
		copied := *acct
		return &copied, nil
	}
	return nil, nil
}

func (m *memStore) CreateAccount(_ context.Context, email, token string, credit int) (*models.Account, error) {
	acct := &models.Account{ID: m.nextID, Email: email, Token: token, Credit: credit, CreatedAt: time.Now()}
	m.nextID++
	m.accounts[email] = acct
	copied := *acct
	return &copied, nil
}

func (m *memStore) FindByID(_ context.Context, id int64) (*models.Account, error) {
	for _, acct := range m.accounts {
		if acct.ID == id {
			copied := *acct
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *memStore) UpdateCredit(_ context.Context, id int64, credit int) error {
	for _, acct := range m.accounts {
		if acct.ID == id {
			acct.Credit = credit
			return nil
		}
	}
	return nil
}

func (m *memStore) InsertCreation(_ context.Context, creation models.Creation) error {
	m.creations = append(m.creations, creation)
	return nil
}

func (m *memStore) ListCreations(_ context.Context, poetID int64, limit int) ([]models.Creation, error) {
	var out []models.Creation
	for i := len(m.creations) - 1; i >= 0 && len(out) < limit; i-- {
		if m.creations[i].Poet == poetID {
			out = append(out, m.creations[i])
		}
	}
	return out, nil
}

// mockMailer records token sends instead of dialing a relay.
type mockMailer struct {
	sent []string
	err  error
}

func (m *mockMailer) SendToken(to, token string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, to+":"+token)
	return nil
}

type stubGenerator struct {
	response string
	err      error
}

func (g *stubGenerator) Generate(context.Context, string) (string, error) {
	if g.err != nil {
		return "", g.err
	}
	return g.response, nil
}

// setupTestServer initializes a test instance of the web server.
func setupTestServer(t *testing.T, gen poem.Generator) (*Server, *memStore, *mockMailer) {
	miniRedis, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(miniRedis.Close)

	redisClient := redis.NewClient(&redis.Options{Addr: miniRedis.Addr()})

	cfg := &config.Config{
		Server: config.ServerConfig{
			Port:           ":8080",
			MaxRequests:    1000,
			RequestTimeout: time.Minute,
			Environment:    "development",
		},
		Session: config.SessionConfig{
			Secret: "test-secret",
			TTL:    24 * time.Hour,
		},
		App: config.AppConfig{
			ContactEmail:  "admin@example.com",
			InitialCredit: 10,
			HistoryLimit:  20,
		},
	}

	st := newMemStore()
	notifier := &mockMailer{}
	poems := poem.NewService(st, gen, redisClient)

	server := NewServer(cfg, st, notifier, poems)
	return server, st, notifier
}

func postForm(path string, values url.Values) *http.Request {
	req := httptest.NewRequest("POST", path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func sessionCookie(t *testing.T, server *Server, acct *models.Account) string {
	signed, err := auth.NewSessionToken(server.cfg.Session.Secret, acct.Email, acct.Token, acct.ID, time.Hour)
	require.NoError(t, err)
	return auth.SessionCookie + "=" + signed
}

func body(t *testing.T, resp *http.Response) string {
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func TestHandleIndex(t *testing.T) {
	server, _, _ := setupTestServer(t, &stubGenerator{})

	resp, err := server.app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body(t, resp), "Minta Token")
}

func TestHandleRequestToken(t *testing.T) {
	t.Run("invalid email", func(t *testing.T) {
		server, st, notifier := setupTestServer(t, &stubGenerator{})

		resp, err := server.app.Test(postForm("/", url.Values{"email": {"not-an-email"}}))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Contains(t, body(t, resp), "Email tidak valid")
		assert.Empty(t, st.accounts)
		assert.Empty(t, notifier.sent)
	})

	t.Run("disposable email", func(t *testing.T) {
		server, _, notifier := setupTestServer(t, &stubGenerator{})

		resp, err := server.app.Test(postForm("/", url.Values{"email": {"budi@mailinator.com"}}))
		require.NoError(t, err)
		assert.Contains(t, body(t, resp), "Email tidak valid")
		assert.Empty(t, notifier.sent)
	})

	t.Run("new email creates account and mails token", func(t *testing.T) {
		server, st, notifier := setupTestServer(t, &stubGenerator{})

		resp, err := server.app.Test(postForm("/", url.Values{"email": {" Budi@Example.com "}}))
		require.NoError(t, err)
		assert.Contains(t, body(t, resp), "Token telah dikirim ke email Anda.")

		acct, ok := st.accounts["budi@example.com"]
		require.True(t, ok, "email must be stored trimmed and lowercased")
		assert.Len(t, acct.Token, 8)
		assert.Equal(t, 10, acct.Credit)

		require.Len(t, notifier.sent, 1)
		assert.Equal(t, "budi@example.com:"+acct.Token, notifier.sent[0])
	})

	t.Run("returning email resends existing token", func(t *testing.T) {
		server, st, notifier := setupTestServer(t, &stubGenerator{})
		st.accounts["budi@example.com"] = &models.Account{ID: 1, Email: "budi@example.com", Token: "A1B2C3D4", Credit: 3}

		resp, err := server.app.Test(postForm("/", url.Values{"email": {"budi@example.com"}}))
		require.NoError(t, err)
		assert.Contains(t, body(t, resp), "Token telah dikirim")

		require.Len(t, notifier.sent, 1)
		assert.Equal(t, "budi@example.com:A1B2C3D4", notifier.sent[0])
		assert.Len(t, st.accounts, 1)
	})

	t.Run("delivery failure", func(t *testing.T) {
		server, _, notifier := setupTestServer(t, &stubGenerator{})
		notifier.err = errors.New("relay down")

		resp, err := server.app.Test(postForm("/", url.Values{"email": {"budi@example.com"}}))
		require.NoError(t, err)
		assert.Contains(t, body(t, resp), "Gagal mengirim email. Hubungi admin.")
	})
}

func TestHandleLogin(t *testing.T) {
	t.Run("unknown email", func(t *testing.T) {
		server, _, _ := setupTestServer(t, &stubGenerator{})

		resp, err := server.app.Test(postForm("/login", url.Values{"email": {"nobody@example.com"}, "token": {"A1B2C3D4"}}))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
		assert.Equal(t, "/", resp.Header.Get("Location"))
		assert.Contains(t, resp.Header.Get("Set-Cookie"), flashCookie)
	})

	t.Run("token mismatch", func(t *testing.T) {
		server, st, _ := setupTestServer(t, &stubGenerator{})
		st.accounts["budi@example.com"] = &models.Account{ID: 1, Email: "budi@example.com", Token: "A1B2C3D4", Credit: 3}

		resp, err := server.app.Test(postForm("/login", url.Values{"email": {"budi@example.com"}, "token": {"WRONG123"}}))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
		assert.Equal(t, "/", resp.Header.Get("Location"))

		flash := resp.Header.Get("Set-Cookie")
		decoded, _ := url.QueryUnescape(flash)
		assert.Contains(t, decoded, `Token tidak cocok.`)
		assert.Contains(t, decoded, `"WRONG123"`)
		assert.Contains(t, decoded, `"A1B2C3D4"`)

		// No session minted.
		assert.NotContains(t, flash, auth.SessionCookie)
	})

	t.Run("successful login mints session", func(t *testing.T) {
		server, st, _ := setupTestServer(t, &stubGenerator{})
		st.accounts["budi@example.com"] = &models.Account{ID: 1, Email: "budi@example.com", Token: "A1B2C3D4", Credit: 3}

		resp, err := server.app.Test(postForm("/login", url.Values{"email": {"Budi@Example.com"}, "token": {" A1B2C3D4 "}}))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
		assert.Equal(t, "/generate", resp.Header.Get("Location"))
		assert.Contains(t, resp.Header.Get("Set-Cookie"), auth.SessionCookie+"=")
	})
}

func TestSessionGate(t *testing.T) {
	server, st, _ := setupTestServer(t, &stubGenerator{})
	st.accounts["budi@example.com"] = &models.Account{ID: 1, Email: "budi@example.com", Token: "A1B2C3D4", Credit: 3}

	t.Run("no cookie redirects", func(t *testing.T) {
		for _, path := range []string{"/generate", "/history"} {
			resp, err := server.app.Test(httptest.NewRequest("GET", path, nil))
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
			assert.Equal(t, "/", resp.Header.Get("Location"))
		}
	})

	t.Run("tampered cookie redirects", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/generate", nil)
		req.Header.Set("Cookie", auth.SessionCookie+"=not.a.token")
		resp, err := server.app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
		assert.Equal(t, "/", resp.Header.Get("Location"))
	})

	t.Run("expired cookie redirects", func(t *testing.T) {
		signed, err := auth.NewSessionToken("test-secret", "budi@example.com", "A1B2C3D4", 1, -time.Minute)
		require.NoError(t, err)
		req := httptest.NewRequest("GET", "/generate", nil)
		req.Header.Set("Cookie", auth.SessionCookie+"="+signed)
		resp, err := server.app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	})

	t.Run("valid cookie admits", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/generate", nil)
		req.Header.Set("Cookie", sessionCookie(t, server, st.accounts["budi@example.com"]))
		resp, err := server.app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Contains(t, body(t, resp), "Sisa kredit: 3")
	})
}

func TestHandleGenerate(t *testing.T) {
	t.Run("success decrements credit and persists", func(t *testing.T) {
		server, st, _ := setupTestServer(t, &stubGenerator{response: "Tentu, ini puisinya:\n\nBaris satu\n\nBaris dua"})
		st.accounts["budi@example.com"] = &models.Account{ID: 1, Email: "budi@example.com", Token: "A1B2C3D4", Credit: 5}

		req := postForm("/generate", url.Values{"genre": {"puisi"}, "title": {"Musim"}})
		req.Header.Set("Cookie", sessionCookie(t, server, st.accounts["budi@example.com"]))
		resp, err := server.app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		page := body(t, resp)
		assert.Contains(t, page, "Baris satu")
		assert.Contains(t, page, "Sisa kredit: 4")

		assert.Equal(t, 4, st.accounts["budi@example.com"].Credit)
		require.Len(t, st.creations, 1)
		assert.Equal(t, "Baris satu\n\nBaris dua", st.creations[0].Text)
		assert.Equal(t, "Musim", st.creations[0].Title)
	})

	t.Run("empty title flashes validation error", func(t *testing.T) {
		server, st, _ := setupTestServer(t, &stubGenerator{response: "anything"})
		st.accounts["budi@example.com"] = &models.Account{ID: 1, Email: "budi@example.com", Token: "A1B2C3D4", Credit: 5}

		req := postForm("/generate", url.Values{"genre": {"puisi"}, "title": {"  "}})
		req.Header.Set("Cookie", sessionCookie(t, server, st.accounts["budi@example.com"]))
		resp, err := server.app.Test(req)
		require.NoError(t, err)

		assert.Contains(t, body(t, resp), "Masukkan judul atau tema.")
		assert.Equal(t, 5, st.accounts["budi@example.com"].Credit)
		assert.Empty(t, st.creations)
	})

	t.Run("zero credit renders quota page", func(t *testing.T) {
		server, st, _ := setupTestServer(t, &stubGenerator{response: "anything"})
		st.accounts["budi@example.com"] = &models.Account{ID: 1, Email: "budi@example.com", Token: "A1B2C3D4", Credit: 0}

		req := postForm("/generate", url.Values{"genre": {"puisi"}, "title": {"Musim"}})
		req.Header.Set("Cookie", sessionCookie(t, server, st.accounts["budi@example.com"]))
		resp, err := server.app.Test(req)
		require.NoError(t, err)

		page := body(t, resp)
		assert.Contains(t, page, "Kuota Habis")
		assert.Contains(t, page, "admin@example.com")
		assert.Empty(t, st.creations)
	})

	t.Run("generator failure shown, credit kept", func(t *testing.T) {
		server, st, _ := setupTestServer(t, &stubGenerator{err: errors.New("model overloaded")})
		st.accounts["budi@example.com"] = &models.Account{ID: 1, Email: "budi@example.com", Token: "A1B2C3D4", Credit: 5}

		req := postForm("/generate", url.Values{"genre": {"puisi"}, "title": {"Musim"}})
		req.Header.Set("Cookie", sessionCookie(t, server, st.accounts["budi@example.com"]))
		resp, err := server.app.Test(req)
		require.NoError(t, err)

		page := body(t, resp)
		assert.Contains(t, page, "Exception saat menghubungi Gemini/Gemma API")
		assert.Contains(t, page, "model overloaded")
		assert.Equal(t, 5, st.accounts["budi@example.com"].Credit)
		assert.Empty(t, st.creations)
	})
}

func TestHandleHistory(t *testing.T) {
	server, st, _ := setupTestServer(t, &stubGenerator{})
	st.accounts["budi@example.com"] = &models.Account{ID: 1, Email: "budi@example.com", Token: "A1B2C3D4", Credit: 5}
	st.accounts["siti@example.com"] = &models.Account{ID: 2, Email: "siti@example.com", Token: "Z9Y8X7W6", Credit: 5}

	for i := 0; i < 3; i++ {
		st.creations = append(st.creations, models.Creation{Poet: 1, Title: fmt.Sprintf("Karya %d", i), Text: "isi", Type: "puisi"})
	}
	st.creations = append(st.creations, models.Creation{Poet: 2, Title: "Milik Siti", Text: "isi", Type: "puisi"})

	req := httptest.NewRequest("GET", "/history", nil)
	req.Header.Set("Cookie", sessionCookie(t, server, st.accounts["budi@example.com"]))
	resp, err := server.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	page := body(t, resp)
	assert.Contains(t, page, "Karya 0")
	assert.Contains(t, page, "Karya 2")
	assert.NotContains(t, page, "Milik Siti", "history must be scoped to the caller's account")
}

func TestHandleLogout(t *testing.T) {
	server, st, _ := setupTestServer(t, &stubGenerator{})
	st.accounts["budi@example.com"] = &models.Account{ID: 1, Email: "budi@example.com", Token: "A1B2C3D4", Credit: 5}

	resp, err := server.app.Test(httptest.NewRequest("GET", "/logout", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))

	// Cookie cleared with an epoch expiry.
	setCookie := resp.Header.Get("Set-Cookie")
	assert.Contains(t, setCookie, auth.SessionCookie+"=")
	assert.Contains(t, setCookie, "1970")
}

func TestShutdown(t *testing.T) {
	server, _, _ := setupTestServer(t, &stubGenerator{})

	resp, err := server.app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	assert.NoError(t, server.Shutdown())
}
