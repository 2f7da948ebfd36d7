// ABOUTME: Shared test harness for the synchronizer suite
// ABOUTME: Provides an in-memory mirror database and a stub Maximo OSLC server
package sync

import (
	"database/sql"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/gogreenverze/MaximoWin-sub000/db"
	"github.com/gogreenverze/MaximoWin-sub000/oslc"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	if err != nil {
		t.Fatalf("Failed to open test db: %v", err)
	}
	if err := db.InitSchema(database); err != nil {
		t.Fatalf("Failed to init schema: %v", err)
	}
	return database
}

// stubMaximo serves canned OSLC responses per resource. Unregistered
// resources return an empty member list; resources marked failing return
// HTTP 500.
type stubMaximo struct {
	bodies   map[string]string
	failing  map[string]bool
	whoami   string
	requests []string
	queries  []url.Values
	server   *httptest.Server
}

func newStubMaximo(t *testing.T) *stubMaximo {
	t.Helper()
	stub := &stubMaximo{
		bodies:  map[string]string{},
		failing: map[string]bool{},
		whoami:  `{"spi:loginID": "maxadmin", "spi:personId": "MAXADMIN", "spi:defaultSite": "BEDFORD"}`,
	}
	stub.server = httptest.NewServer(http.HandlerFunc(stub.handle))
	t.Cleanup(stub.server.Close)
	return stub
}

func (s *stubMaximo) handle(w http.ResponseWriter, r *http.Request) {
	s.requests = append(s.requests, r.URL.Path)

	if r.URL.Path == "/oslc/whoami" {
		if s.failing["whoami"] {
			http.Error(w, "whoami unavailable", http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, s.whoami)
		return
	}

	resource := strings.TrimPrefix(r.URL.Path, "/oslc/os/")
	s.queries = append(s.queries, r.URL.Query())
	if s.failing[resource] {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	if body, ok := s.bodies[resource]; ok {
		fmt.Fprint(w, body)
		return
	}
	fmt.Fprint(w, `{"member": []}`)
}

func (s *stubMaximo) setBody(resource, body string) {
	s.bodies[resource] = body
}

func (s *stubMaximo) setFailing(resource string) {
	s.failing[resource] = true
}

func (s *stubMaximo) client() *oslc.Client {
	return oslc.NewClient(oslc.ClientConfig{
		BaseURL:           s.server.URL,
		APIKey:            "test-key",
		RequestsPerSecond: 1000,
	}, zap.NewNop())
}

func tableCount(t *testing.T, database *sql.DB, table string) int {
	t.Helper()
	var count int
	if err := database.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&count); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return count
}
