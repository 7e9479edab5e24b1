package operator

import (
	"context"
	"net/http"
	"strconv"

	"gp-dashboard/internal/storage"
)

type ctxKey struct{}

// Extract reads the operator identity headers and stores an Operator in the
// request context so write handlers can attribute their changes. Requests
// without the header are attributed to "system" (timer-triggered runs).
func Extract(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		op := storage.Operator{
			Name: r.Header.Get("X-Operator"),
		}
		if op.Name == "" {
			op.Name = "system"
		}
		if lvl, err := strconv.Atoi(r.Header.Get("X-Operator-Level")); err == nil {
			op.Level = lvl
		}

		ctx := context.WithValue(r.Context(), ctxKey{}, op)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func FromContext(ctx context.Context) storage.Operator {
	if op, ok := ctx.Value(ctxKey{}).(storage.Operator); ok {
		return op
	}
	return storage.Operator{Name: "system"}
}
