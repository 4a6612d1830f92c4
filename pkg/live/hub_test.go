package live

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func dialHub(t *testing.T, hub *Hub) (*websocket.Conn, func()) {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(hub.Handler))
	url := "ws" + strings.TrimPrefix(srv.URL, "http")

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		srv.Close()
		t.Fatalf("dial failed: %v", err)
	}

	return conn, func() {
		conn.Close()
		srv.Close()
	}
}

func waitForClients(t *testing.T, hub *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if hub.ClientCount() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("ClientCount() = %d, want %d", hub.ClientCount(), want)
}

func TestBroadcastReachesClient(t *testing.T) {
	hub := NewHub(nil)
	conn, cleanup := dialHub(t, hub)
	defer cleanup()

	waitForClients(t, hub, 1)
	hub.Broadcast("pokemon", "<div>bulbasaur</div>")

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var frag Fragment
	if err := conn.ReadJSON(&frag); err != nil {
		t.Fatalf("ReadJSON failed: %v", err)
	}

	if frag.Topic != "pokemon" {
		t.Errorf("Topic = %q, want pokemon", frag.Topic)
	}
	if frag.HTML != "<div>bulbasaur</div>" {
		t.Errorf("HTML = %q", frag.HTML)
	}
}

func TestBroadcastInOrder(t *testing.T) {
	hub := NewHub(nil)
	conn, cleanup := dialHub(t, hub)
	defer cleanup()

	waitForClients(t, hub, 1)
	hub.Broadcast("title", "one")
	hub.Broadcast("title", "two")

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	var first, second Fragment
	if err := conn.ReadJSON(&first); err != nil {
		t.Fatalf("first ReadJSON failed: %v", err)
	}
	if err := conn.ReadJSON(&second); err != nil {
		t.Fatalf("second ReadJSON failed: %v", err)
	}

	if first.HTML != "one" || second.HTML != "two" {
		t.Errorf("got %q then %q, want one then two", first.HTML, second.HTML)
	}
}

func TestClientRemovedOnDisconnect(t *testing.T) {
	hub := NewHub(nil)
	conn, cleanup := dialHub(t, hub)
	defer cleanup()

	waitForClients(t, hub, 1)
	conn.Close()
	waitForClients(t, hub, 0)

	// Broadcasting to no clients must not panic.
	hub.Broadcast("title", "late")
}

func TestBroadcastDuringDisconnect(t *testing.T) {
	hub := NewHub(nil)
	srv := httptest.NewServer(http.HandlerFunc(hub.Handler))
	defer srv.Close()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")

	// Broadcast continuously while clients connect and disconnect.
	// Clients never read, so the slow-client drop path races the
	// disconnect-driven drop in readPump.
	stop := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
					hub.Broadcast("title", "<h1>storm</h1>")
				}
			}
		}()
	}

	for i := 0; i < 20; i++ {
		conn, _, err := websocket.DefaultDialer.Dial(url, nil)
		if err != nil {
			close(stop)
			wg.Wait()
			t.Fatalf("dial failed: %v", err)
		}
		time.Sleep(time.Millisecond)
		conn.Close()
	}

	close(stop)
	wg.Wait()
	waitForClients(t, hub, 0)
}

func TestBroadcastWithNoClients(t *testing.T) {
	hub := NewHub(nil)
	hub.Broadcast("fetch", "<div></div>")

	if hub.ClientCount() != 0 {
		t.Errorf("ClientCount() = %d, want 0", hub.ClientCount())
	}
}
