package handler

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	apiContext "github.com/dtroode/jobtracker-server/internal/api/http/context"
)

var testContextManager = apiContext.NewManager()

// serve routes a single request through a chi router mounting h at pattern.
// A non-nil userID is placed in the request context as the authenticated caller.
func serve(h http.HandlerFunc, method, pattern, target, body string, userID uuid.UUID) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if userID != uuid.Nil {
				req = req.WithContext(testContextManager.SetUserIDToContext(req.Context(), userID))
			}
			next.ServeHTTP(w, req)
		})
	})
	r.Method(method, pattern, h)

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}
