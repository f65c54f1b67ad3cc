package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestInitIsIdempotent(t *testing.T) {
	Init()
	Init()

	if overlayLookupsTotal == nil || httpRequestsTotal == nil || batchEntitiesTotal == nil {
		t.Fatal("Init() did not initialize metrics collectors")
	}
}

func TestObserveOverlay(t *testing.T) {
	Init()
	counter := overlayLookupsTotal.WithLabelValues("author", OverlayHit)
	before := testutil.ToFloat64(counter)
	ObserveOverlay("author", OverlayHit, 3)
	ObserveOverlay("author", OverlayHit, 0)
	if got := testutil.ToFloat64(counter) - before; got != 3 {
		t.Fatalf("expected 3 hits recorded, got %f", got)
	}
}

func TestObserveTranslator(t *testing.T) {
	ObserveTranslator("ok", 150*time.Millisecond)
	if val := testutil.ToFloat64(translatorRequestsTotal.WithLabelValues("ok")); val < 1 {
		t.Fatalf("expected translator request counted, got %f", val)
	}
}

func TestMiddleware(t *testing.T) {
	Init()
	r := chi.NewRouter()
	r.Use(Middleware)
	r.Get("/things/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/things/42", nil))

	if rec.Code != http.StatusTeapot {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	if val := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/things/{id}", "418")); val != 1 {
		t.Fatalf("expected one request for route pattern, got %f", val)
	}
}
