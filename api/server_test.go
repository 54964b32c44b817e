package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lookbusy1344/tinybasic/config"
)

func TestHealthEndpoint(t *testing.T) {
	server := NewServer(0, config.DefaultConfig())
	ts := httptest.NewServer(server.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q", ct)
	}
}

func TestWebSocketSession(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Interpreter.FilesRoot = t.TempDir()
	server := NewServer(0, cfg)
	ts := httptest.NewServer(server.Handler())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// Store a line, then run.
	for _, line := range []string{`10 PRINT "over the wire"`, "20 END", "RUN"} {
		if err := conn.WriteMessage(websocket.TextMessage, []byte(line)); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	// Collect output frames until the program's print arrives.
	deadline := time.Now().Add(5 * time.Second)
	var collected strings.Builder
	for time.Now().Before(deadline) {
		if err := conn.SetReadDeadline(time.Now().Add(time.Second)); err != nil {
			t.Fatal(err)
		}
		_, message, err := conn.ReadMessage()
		if err != nil {
			break
		}
		collected.WriteString(string(message))
		if strings.Contains(collected.String(), "over the wire\n") {
			return
		}
	}
	t.Fatalf("program output not received; got %q", collected.String())
}
