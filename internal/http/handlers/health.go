package handlers

import "net/http"

// Health is the liveness probe. It checks nothing downstream; the load
// balancer only needs to know the process is serving.
func (a *App) Health(w http.ResponseWriter, _ *http.Request) {
	a.json(w, http.StatusOK, map[string]string{"status": "ok"})
}
