// Package respond renders RFC 9457 problem details for failures that happen
// outside a Huma operation: unknown routes, wrong methods and panics.
package respond

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"slices"
	"strconv"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/fxamacker/cbor/v2"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/janisto/fistfuel/internal/platform/logging"
)

const (
	contentTypeProblemJSON = "application/problem+json"
	contentTypeProblemCBOR = "application/problem+cbor"
	errorSchemaPath        = "/schemas/ErrorModel.json"
)

// problem mirrors huma.ErrorModel with the $schema pointer the API adds to
// its own error bodies.
type problem struct {
	Schema string              `json:"$schema,omitempty"`
	Title  string              `json:"title,omitempty"`
	Status int                 `json:"status,omitempty"`
	Detail string              `json:"detail,omitempty"`
	Errors []*huma.ErrorDetail `json:"errors,omitempty"`
}

// NotFoundHandler answers unknown routes with a 404 problem.
func NotFoundHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeProblem(w, r, http.StatusNotFound, "resource not found")
	}
}

// MethodNotAllowedHandler answers with a 405 problem and an Allow header
// listing the methods the matched route does support.
func MethodNotAllowedHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if allow := allowedMethods(r); len(allow) > 0 {
			w.Header().Set("Allow", strings.Join(allow, ", "))
		}
		writeProblem(w, r, http.StatusMethodNotAllowed, fmt.Sprintf("method %s not allowed", r.Method))
	}
}

// Recoverer turns panics into 500 problems. http.ErrAbortHandler is
// re-panicked so net/http can abort the connection. When the handler already
// started a response nothing more is written.
func Recoverer() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rw := &responseWriter{ResponseWriter: w}
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(rec)
				}
				var err error
				switch v := rec.(type) {
				case error:
					err = v
				default:
					err = fmt.Errorf("%v", v)
				}
				logging.LogError(r.Context(), "panic recovered", err,
					zap.String("stack", string(debug.Stack())))
				if rw.wroteHeader {
					return
				}
				writeProblem(rw, r, http.StatusInternalServerError, "internal server error")
			}()
			next.ServeHTTP(rw, r)
		})
	}
}

func writeProblem(w http.ResponseWriter, r *http.Request, status int, detail string) {
	schema := schemaURL(r)
	body := problem{
		Schema: schema,
		Title:  http.StatusText(status),
		Status: status,
		Detail: detail,
	}

	ensureVary(w.Header(), "Origin", "Accept")
	w.Header().Set("Link", "<"+schema+`>; rel="describedBy"`)

	var (
		payload []byte
		err     error
	)
	if selectFormat(r.Header.Get("Accept")) {
		w.Header().Set("Content-Type", contentTypeProblemCBOR)
		payload, err = cbor.Marshal(body)
	} else {
		w.Header().Set("Content-Type", contentTypeProblemJSON)
		var sb strings.Builder
		enc := json.NewEncoder(&sb)
		enc.SetEscapeHTML(false)
		err = enc.Encode(body)
		payload = []byte(sb.String())
	}
	if err != nil {
		logging.LogError(r.Context(), "failed to encode problem", err)
		w.WriteHeader(status)
		return
	}
	w.WriteHeader(status)
	if _, err := w.Write(payload); err != nil {
		logging.LogError(r.Context(), "failed to write problem", err)
	}
}

func schemaURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https") {
		scheme = "https"
	}
	return scheme + "://" + r.Host + errorSchemaPath
}

// ensureVary appends values to the Vary header, skipping ones already present.
func ensureVary(h http.Header, values ...string) {
	seen := make(map[string]struct{})
	for _, v := range h.Values("Vary") {
		for part := range strings.SplitSeq(v, ",") {
			if p := strings.TrimSpace(part); p != "" {
				seen[strings.ToLower(p)] = struct{}{}
			}
		}
	}
	for _, v := range values {
		key := strings.ToLower(v)
		if _, ok := seen[key]; ok || v == "" {
			continue
		}
		seen[key] = struct{}{}
		h.Add("Vary", v)
	}
}

type mediaRange struct {
	typ     string
	subtype string
	q       float64
}

func parseAccept(header string) []mediaRange {
	var ranges []mediaRange
	for part := range strings.SplitSeq(header, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		params := strings.Split(part, ";")
		mr := mediaRange{q: 1.0}
		typ, sub, ok := strings.Cut(strings.TrimSpace(params[0]), "/")
		if !ok {
			sub = "*"
		}
		mr.typ = strings.ToLower(typ)
		mr.subtype = strings.ToLower(sub)
		for _, p := range params[1:] {
			k, v, ok := strings.Cut(strings.TrimSpace(p), "=")
			if !ok || !strings.EqualFold(k, "q") {
				continue
			}
			if q, err := strconv.ParseFloat(v, 64); err == nil && q >= 0 && q <= 1 {
				mr.q = q
			}
		}
		ranges = append(ranges, mr)
	}
	return ranges
}

// quality returns the best q value the ranges grant to application/<subtype>
// with the given structured suffix, and how specific the match was.
func quality(ranges []mediaRange, subtype, suffix string) (float64, int) {
	best, specificity := 0.0, -1
	for _, mr := range ranges {
		s := -1
		switch {
		case mr.typ == "application" && (mr.subtype == subtype || mr.subtype == "problem+"+suffix):
			s = 3
		case mr.typ == "application" && mr.subtype == "*+"+suffix:
			s = 2
		case mr.typ == "application" && mr.subtype == "*":
			s = 1
		case mr.typ == "*":
			s = 0
		}
		if s > specificity {
			best, specificity = mr.q, s
		}
	}
	return best, specificity
}

// selectFormat reports whether CBOR should be used. JSON wins ties and is the
// fallback whenever neither format is acceptable.
func selectFormat(accept string) bool {
	if accept == "" {
		return false
	}
	ranges := parseAccept(accept)
	cborQ, cborSpec := quality(ranges, "cbor", "cbor")
	jsonQ, jsonSpec := quality(ranges, "json", "json")
	if cborQ <= 0 {
		return false
	}
	if cborQ > jsonQ {
		return true
	}
	return cborQ == jsonQ && cborSpec > jsonSpec
}

// allowedMethods probes the chi route tree for every method that matches the
// request path.
func allowedMethods(r *http.Request) []string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil || rctx.Routes == nil {
		return nil
	}
	routePath := rctx.RoutePath
	if routePath == "" {
		routePath = r.URL.RawPath
		if routePath == "" {
			routePath = r.URL.Path
		}
		if routePath == "" {
			routePath = "/"
		}
	}
	candidates := []string{
		http.MethodGet,
		http.MethodHead,
		http.MethodPost,
		http.MethodPut,
		http.MethodPatch,
		http.MethodDelete,
		http.MethodOptions,
	}
	var allowed []string
	for _, m := range candidates {
		if rctx.Routes.Match(chi.NewRouteContext(), m, routePath) && !slices.Contains(allowed, m) {
			allowed = append(allowed, m)
		}
	}
	return allowed
}

// responseWriter records whether a response has started so Recoverer does not
// write a second status line.
type responseWriter struct {
	http.ResponseWriter
	wroteHeader bool
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.wroteHeader = true
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	rw.wroteHeader = true
	return rw.ResponseWriter.Write(b)
}

func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}
