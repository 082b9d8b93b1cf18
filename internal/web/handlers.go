package web

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// StatusResponse is the payload of the console health endpoints.
type StatusResponse struct {
	Status         string `json:"status"`
	Service        string `json:"service"`
	SupervisorAddr string `json:"supervisor_address"`
}

// Event is one message on the live console event stream.
type Event struct {
	ID   string    `json:"id"`
	Type string    `json:"type"`
	Time time.Time `json:"time"`
}

const indexPage = `<!DOCTYPE html>
<html>
<head><title>Quasar Console</title></head>
<body>
<h1>Quasar</h1>
<p>Supervisor web console. See /status for service health.</p>
</body>
</html>
`

// builtinHandlers returns the console's own handler registrations. They
// are merged first, so config-supplied and plugin-supplied entries with
// the same pattern take precedence.
func builtinHandlers() map[string]HandlerFactory {
	return map[string]HandlerFactory{
		"/":            indexHandler,
		"/health":      statusHandler,
		"/status":      statusHandler,
		"/api/cluster": clusterHandler,
		"/ws/events":   eventsHandler,
	}
}

func indexHandler(supervisorAddr string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(indexPage))
	})
}

func statusHandler(supervisorAddr string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, StatusResponse{
			Status:         "ok",
			Service:        "quasar-web",
			SupervisorAddr: supervisorAddr,
		})
	})
}

func clusterHandler(supervisorAddr string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"supervisor_address": supervisorAddr,
		})
	})
}

var eventsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The console is same-origin in practice but may sit behind a proxy;
	// CORS is enforced at the router layer.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// eventsHandler streams heartbeat events over a websocket until the
// client disconnects. Each connection is independent; no state is shared
// between requests.
func eventsHandler(supervisorAddr string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := eventsUpgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer func() { _ = conn.Close() }()

		ticker := time.NewTicker(5 * time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-r.Context().Done():
				return
			case t := <-ticker.C:
				ev := Event{ID: uuid.NewString(), Type: "heartbeat", Time: t}
				if err := conn.WriteJSON(ev); err != nil {
					return
				}
			}
		}
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
