package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/cyclemate/internal/models"
	"github.com/terraincognita07/cyclemate/internal/services"
)

const testSecretKey = "0123456789abcdef0123456789abcdef"

type memoryLockRepository struct {
	mu   sync.Mutex
	hash string
}

func (repo *memoryLockRepository) LoadPasscodeHash() (string, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	return repo.hash, nil
}

func (repo *memoryLockRepository) SavePasscodeHash(hash string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	repo.hash = hash
	return nil
}

func (repo *memoryLockRepository) ClearPasscodeHash() error {
	return repo.SavePasscodeHash("")
}

type testApp struct {
	app     *fiber.App
	handler *Handler
	state   *services.StateService
}

func newTestApp(t *testing.T, initial models.AppState, now time.Time) testApp {
	t.Helper()

	state := services.NewStateService(initial, nil)
	handler, err := NewHandler(Dependencies{
		State:     state,
		Lock:      services.NewLockService(&memoryLockRepository{}),
		SecretKey: testSecretKey,
		Digest:    services.DigestOptions{PrePeriodAlertDays: 2, ImportantDateLeadDays: 3},
		Clock:     func() time.Time { return now },
	})
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}

	app := fiber.New()
	RegisterRoutes(app, handler)
	return testApp{app: app, handler: handler, state: state}
}

func (harness testApp) do(t *testing.T, method string, path string, body string, cookies ...*http.Cookie) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	request := httptest.NewRequest(method, path, reader)
	if body != "" {
		request.Header.Set("Content-Type", "application/json")
	}
	for _, cookie := range cookies {
		request.AddCookie(cookie)
	}

	response, err := harness.app.Test(request, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return response
}

func decodeJSON(t *testing.T, response *http.Response) map[string]any {
	t.Helper()
	defer response.Body.Close()

	payload := map[string]any{}
	if err := json.NewDecoder(response.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return payload
}

func responseCookie(response *http.Response, name string) *http.Cookie {
	for _, cookie := range response.Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}

func assertStatus(t *testing.T, response *http.Response, want int) {
	t.Helper()
	if response.StatusCode != want {
		body, _ := io.ReadAll(response.Body)
		t.Fatalf("expected status %d, got %d: %s", want, response.StatusCode, string(body))
	}
}

func mustDate(t *testing.T, raw string) time.Time {
	t.Helper()
	parsed, ok := services.ParseDate(raw)
	if !ok {
		t.Fatalf("parse date %q", raw)
	}
	return parsed
}
