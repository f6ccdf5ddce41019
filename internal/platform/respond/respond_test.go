package respond

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/fxamacker/cbor/v2"
	"github.com/go-chi/chi/v5"

	appmiddleware "github.com/janisto/fistfuel/internal/platform/middleware"
)

func TestNotFoundHandlerReturnsProblemDetails(t *testing.T) {
	router := chi.NewRouter()
	router.NotFound(NotFoundHandler())

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/missing", nil))

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
	if ct := resp.Header().Get("Content-Type"); ct != contentTypeProblemJSON {
		t.Fatalf("expected %s, got %q", contentTypeProblemJSON, ct)
	}
	if link := resp.Header().Get("Link"); !strings.Contains(link, errorSchemaPath) || !strings.Contains(link, "describedBy") {
		t.Fatalf("expected Link header with schema, got %q", link)
	}

	var p problem
	if err := json.Unmarshal(resp.Body.Bytes(), &p); err != nil {
		t.Fatalf("failed to unmarshal problem: %v", err)
	}
	if p.Status != http.StatusNotFound || p.Title != "Not Found" || p.Detail != "resource not found" {
		t.Fatalf("unexpected problem: %+v", p)
	}
	if !strings.HasPrefix(p.Schema, "http://") {
		t.Fatalf("expected http schema URL, got %q", p.Schema)
	}
}

func TestMethodNotAllowedHandlerListsAllowedMethods(t *testing.T) {
	router := chi.NewRouter()
	router.MethodNotAllowed(MethodNotAllowedHandler())
	router.Get("/v1/profile", func(w http.ResponseWriter, r *http.Request) {})
	router.Put("/v1/profile", func(w http.ResponseWriter, r *http.Request) {})

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/v1/profile", nil))

	if resp.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", resp.Code)
	}
	allow := resp.Header().Get("Allow")
	if !strings.Contains(allow, http.MethodGet) || !strings.Contains(allow, http.MethodPut) {
		t.Fatalf("expected Allow to list GET and PUT, got %q", allow)
	}

	var p problem
	if err := json.Unmarshal(resp.Body.Bytes(), &p); err != nil {
		t.Fatalf("failed to unmarshal problem: %v", err)
	}
	if !strings.Contains(p.Detail, "POST") {
		t.Fatalf("expected detail to mention POST, got %s", p.Detail)
	}
}

func TestNotFoundHandlerReturnsCBORWhenAccepted(t *testing.T) {
	router := chi.NewRouter()
	router.NotFound(NotFoundHandler())

	req := httptest.NewRequest(http.MethodGet, "/missing", nil)
	req.Header.Set("Accept", "application/cbor")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if ct := resp.Header().Get("Content-Type"); ct != contentTypeProblemCBOR {
		t.Fatalf("expected %s, got %q", contentTypeProblemCBOR, ct)
	}
	var p problem
	if err := cbor.Unmarshal(resp.Body.Bytes(), &p); err != nil {
		t.Fatalf("failed to decode CBOR problem: %v", err)
	}
	if p.Status != http.StatusNotFound {
		t.Fatalf("unexpected status: %d", p.Status)
	}
}

func TestRecovererReturnsProblemDetails(t *testing.T) {
	router := chi.NewRouter()
	router.Use(appmiddleware.RequestID(), Recoverer())
	api := humachi.New(router, huma.DefaultConfig("Test", "test"))
	huma.Get(api, "/panic", func(ctx context.Context, _ *struct{}) (*struct{}, error) {
		panic("boom")
	})

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/panic", nil))

	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
	var p problem
	if err := json.Unmarshal(resp.Body.Bytes(), &p); err != nil {
		t.Fatalf("failed to unmarshal problem: %v", err)
	}
	if p.Detail != "internal server error" {
		t.Fatalf("unexpected detail: %q", p.Detail)
	}
	if strings.Contains(resp.Body.String(), "boom") {
		t.Fatal("panic value must not leak into the response")
	}
}

func TestRecovererRePanicsOnErrAbortHandler(t *testing.T) {
	router := chi.NewRouter()
	router.Use(Recoverer())
	router.Get("/abort", func(w http.ResponseWriter, r *http.Request) {
		panic(http.ErrAbortHandler)
	})

	defer func() {
		rec := recover()
		err, ok := rec.(error)
		if !ok || !errors.Is(err, http.ErrAbortHandler) {
			t.Fatalf("expected http.ErrAbortHandler to be re-panicked, got %v", rec)
		}
	}()

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/abort", nil))
	t.Fatal("expected panic to propagate, but handler returned normally")
}

func TestRecovererSkipsWriteWhenHeaderAlreadyWritten(t *testing.T) {
	router := chi.NewRouter()
	router.Use(Recoverer())
	router.Get("/partial", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("partial response"))
		panic(errors.New("panic after write"))
	})

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/partial", nil))

	if resp.Code != http.StatusOK || resp.Body.String() != "partial response" {
		t.Fatalf("expected original response preserved, got %d %q", resp.Code, resp.Body.String())
	}
}

func TestSchemaURLUsesHTTPS(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/missing", nil)
	req.Host = "example.com"
	req.Header.Set("X-Forwarded-Proto", "https")
	if got := schemaURL(req); got != "https://example.com"+errorSchemaPath {
		t.Fatalf("unexpected schema URL %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/missing", nil)
	req.Host = "secure.example.com"
	req.TLS = &tls.ConnectionState{}
	if got := schemaURL(req); !strings.HasPrefix(got, "https://secure.example.com") {
		t.Fatalf("unexpected schema URL %q", got)
	}
}

func TestSelectFormat(t *testing.T) {
	tests := []struct {
		accept string
		cbor   bool
	}{
		{"", false},
		{"*/*", false},
		{"application/*", false},
		{"application/json", false},
		{"application/cbor", true},
		{"application/problem+cbor", true},
		{"application/*+cbor", true},
		{"application/*+json", false},
		{"application/json;q=0.5, application/cbor", true},
		{"application/cbor;q=0.5, application/json", false},
		{"application/cbor, application/json", false},
		{"application/json;q=0, application/cbor;q=0", false},
		{"*/*;q=0", false},
		{"text/html", false},
	}
	for _, tt := range tests {
		t.Run(tt.accept, func(t *testing.T) {
			if got := selectFormat(tt.accept); got != tt.cbor {
				t.Fatalf("selectFormat(%q) = %v, want %v", tt.accept, got, tt.cbor)
			}
		})
	}
}

func TestParseAccept(t *testing.T) {
	ranges := parseAccept("text, , application/json;q=2.0, application/cbor;q=invalid")
	if len(ranges) != 3 {
		t.Fatalf("expected 3 ranges, got %d", len(ranges))
	}
	if ranges[0].typ != "text" || ranges[0].subtype != "*" {
		t.Fatalf("expected text/*, got %s/%s", ranges[0].typ, ranges[0].subtype)
	}
	for _, r := range ranges[1:] {
		if r.q != 1.0 {
			t.Fatalf("expected q=1.0 for invalid q, got %f", r.q)
		}
	}
}

func TestEnsureVaryNoDuplicates(t *testing.T) {
	h := http.Header{}
	h.Set("Vary", "Accept-Encoding, origin")
	ensureVary(h, "Origin", "Accept", "Accept", "")

	seen := map[string]int{}
	for _, v := range h.Values("Vary") {
		for part := range strings.SplitSeq(v, ",") {
			seen[strings.ToLower(strings.TrimSpace(part))]++
		}
	}
	for _, want := range []string{"accept-encoding", "origin", "accept"} {
		if seen[want] != 1 {
			t.Fatalf("expected %s once in Vary, got %v", want, h.Values("Vary"))
		}
	}
}

func TestAllowedMethodsNilRouteContext(t *testing.T) {
	if got := allowedMethods(httptest.NewRequest(http.MethodGet, "/", nil)); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
}
