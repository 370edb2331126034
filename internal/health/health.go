package health

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/jusunglee/hypua"
)

// Pinger is anything whose liveness can be checked, such as the document
// archive.
type Pinger interface {
	Ping(ctx context.Context) error
}

type response struct {
	Status    string `json:"status"`
	Database  string `json:"database"`
	TableSize int    `json:"table_size"`
}

// Handler reports service health. It answers 503 when the database does not
// respond within two seconds.
func Handler(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		resp := response{Status: "ok", Database: "ok", TableSize: hypua.TableSize()}
		status := http.StatusOK
		if err := db.Ping(ctx); err != nil {
			resp.Status = "degraded"
			resp.Database = err.Error()
			status = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(resp)
	}
}
