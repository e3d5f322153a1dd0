package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/example/go-phonecodes/internal/phonecode"
	"github.com/example/go-phonecodes/internal/phonecodes"
	"github.com/example/go-phonecodes/internal/server"
	"github.com/example/go-phonecodes/internal/symtab"
)

// stubConverter implements server.Converter for tests.
type stubConverter struct {
	out string
	err error
}

func (s *stubConverter) Convert(_ string, _, _ phonecode.Alphabet, _ ...phonecodes.Option) (string, error) {
	return s.out, s.err
}

func (s *stubConverter) Pairs() []symtab.Key { return nil }

func (s *stubConverter) Reduction(string) (*symtab.Reduction, bool) { return nil, false }

func (s *stubConverter) Reductions() []*symtab.Reduction { return nil }

func newService(t *testing.T, opts ...phonecodes.ServiceOption) *phonecodes.Service {
	t.Helper()
	svc, err := phonecodes.NewDefaultService(opts...)
	if err != nil {
		t.Fatalf("NewDefaultService: %v", err)
	}
	return svc
}

func post(h http.Handler, path, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return body
}

// ---------------------------------------------------------------------------
// GET /health
// ---------------------------------------------------------------------------

func TestHealth_Returns200WithStatusOK(t *testing.T) {
	h := server.NewHandler(&stubConverter{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("want 200, got %d", rec.Code)
	}

	body := decodeBody(t, rec)
	if body["status"] != "ok" {
		t.Errorf("want status=ok, got %q", body["status"])
	}

	if _, ok := body["version"]; !ok {
		t.Error("want version field in response")
	}
}

// ---------------------------------------------------------------------------
// X-Request-ID
// ---------------------------------------------------------------------------

func TestRequestID_GeneratedWhenMissing(t *testing.T) {
	h := server.NewHandler(&stubConverter{})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	id := rec.Header().Get(server.RequestIDHeader)
	if _, err := uuid.Parse(id); err != nil {
		t.Errorf("X-Request-ID = %q; want a UUID: %v", id, err)
	}
}

func TestRequestID_EchoedWhenProvided(t *testing.T) {
	h := server.NewHandler(&stubConverter{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(server.RequestIDHeader, "abc-123")
	h.ServeHTTP(rec, req)

	if got := rec.Header().Get(server.RequestIDHeader); got != "abc-123" {
		t.Errorf("X-Request-ID = %q; want abc-123", got)
	}
}

func TestRequestID_SetOnErrors(t *testing.T) {
	h := server.NewHandler(&stubConverter{})

	rec := post(h, "/convert", "not json")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("want 400, got %d", rec.Code)
	}
	if rec.Header().Get(server.RequestIDHeader) == "" {
		t.Error("want X-Request-ID on error response")
	}
}

// ---------------------------------------------------------------------------
// GET /alphabets, GET /reductions
// ---------------------------------------------------------------------------

func TestAlphabets_ListsPairs(t *testing.T) {
	h := server.NewHandler(newService(t))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/alphabets", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("want 200, got %d", rec.Code)
	}

	var body struct {
		Alphabets []string `json:"alphabets"`
		Pairs     []struct {
			From     string `json:"from"`
			To       string `json:"to"`
			Language string `json:"language"`
		} `json:"pairs"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}

	if len(body.Alphabets) != len(phonecode.Alphabets()) {
		t.Errorf("alphabets = %v", body.Alphabets)
	}

	found := map[string]bool{}
	for _, p := range body.Pairs {
		found[p.From+">"+p.To+":"+p.Language] = true
	}
	for _, want := range []string{"arpabet>ipa:", "ipa>arpabet:", "callhome>ipa:cmn", "disc>ipa:deu"} {
		if !found[want] {
			t.Errorf("pair %s missing from %v", want, body.Pairs)
		}
	}
}

func TestAlphabets_RejectsPost(t *testing.T) {
	h := server.NewHandler(&stubConverter{})

	rec := post(h, "/alphabets", "{}")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("want 405, got %d", rec.Code)
	}
}

func TestReductions_ListsBuiltIns(t *testing.T) {
	h := server.NewHandler(newService(t))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reductions", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("want 200, got %d", rec.Code)
	}

	var body []struct {
		Name   string `json:"name"`
		Source string `json:"source"`
		Pairs  int    `json:"pairs"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}

	names := map[string]string{}
	for _, r := range body {
		names[r.Name] = r.Source
		if r.Pairs == 0 {
			t.Errorf("reduction %s has no pairs", r.Name)
		}
	}
	if names["timit-standard"] != "timit" || names["timit-shared"] != "timit" || names["buckeye-shared"] != "buckeye" {
		t.Errorf("reductions = %v", names)
	}
}

func TestReductions_EmptyIsArray(t *testing.T) {
	h := server.NewHandler(&stubConverter{})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reductions", nil))

	if got := rec.Body.String(); got != "[]\n" {
		t.Errorf("body = %q; want []", got)
	}
}

// ---------------------------------------------------------------------------
// POST /convert
// ---------------------------------------------------------------------------

func TestConvert_Success(t *testing.T) {
	h := server.NewHandler(newService(t))
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "arpabet to ipa",
			body: `{"input":"DH IH S IH Z AH0 T EH1 S T","from":"arpabet","to":"ipa","language":"eng"}`,
			want: "ð ɪ s ɪ z ə t ˈɛ s t",
		},
		{
			name: "buckeye with reduction",
			body: `{"input":"B AHN NX AAN NX AH","from":"buckeye","to":"ipa","reduction":"buckeye-shared"}`,
			want: "b ə n ɑ n ə",
		},
		{
			name: "custom mapping",
			body: `{"input":"AHN AH","from":"buckeye","to":"ipa","mapping":[["ʌ","ə"]]}`,
			want: "ʌ\u0303 ə",
		},
		{
			name: "ipa to disc default language",
			body: `{"input":"aɪ","from":"ipa","to":"disc"}`,
			want: "W",
		},
		{
			name: "alphabet alias",
			body: `{"input":"t_h","from":"X-SAMPA","to":"ipa"}`,
			want: "tʰ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(h, "/convert", tt.body)
			if rec.Code != http.StatusOK {
				t.Fatalf("want 200, got %d: %s", rec.Code, rec.Body.String())
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q", ct)
			}
			body := decodeBody(t, rec)
			if body["output"] != tt.want {
				t.Errorf("output = %q; want %q", body["output"], tt.want)
			}
		})
	}
}

func TestConvert_Errors(t *testing.T) {
	h := server.NewHandler(newService(t, phonecodes.WithStrict(true)))
	tests := []struct {
		name string
		body string
		want int
	}{
		{"invalid json", `{"input":`, http.StatusBadRequest},
		{"missing input", `{"from":"arpabet","to":"ipa"}`, http.StatusBadRequest},
		{"unknown from", `{"input":"AA","from":"klingon","to":"ipa"}`, http.StatusBadRequest},
		{"unknown to", `{"input":"AA","from":"arpabet","to":""}`, http.StatusBadRequest},
		{"callhome without language", `{"input":"a","from":"callhome","to":"ipa"}`, http.StatusBadRequest},
		{"unsupported symbol", `{"input":"DH XYZ","from":"arpabet","to":"ipa"}`, http.StatusBadRequest},
		{"neither side ipa", `{"input":"AA","from":"arpabet","to":"xsampa"}`, http.StatusUnprocessableEntity},
		{"ipa to timit", `{"input":"ɑ","from":"ipa","to":"timit"}`, http.StatusUnprocessableEntity},
		{"timit closure", `{"input":"tcl t","from":"timit","to":"arpabet"}`, http.StatusUnprocessableEntity},
		{"unknown reduction", `{"input":"AA","from":"arpabet","to":"ipa","reduction":"nope"}`, http.StatusBadRequest},
		{"mapping and reduction", `{"input":"AA","from":"arpabet","to":"ipa","reduction":"timit-shared","mapping":[["a","b"]]}`, http.StatusBadRequest},
		{"malformed mapping", `{"input":"AA","from":"arpabet","to":"ipa","mapping":[["a"]]}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(h, "/convert", tt.body)
			if rec.Code != tt.want {
				t.Fatalf("want %d, got %d: %s", tt.want, rec.Code, rec.Body.String())
			}
			if decodeBody(t, rec)["error"] == "" {
				t.Error("want non-empty error field")
			}
		})
	}
}

func TestConvert_MethodNotAllowed(t *testing.T) {
	h := server.NewHandler(&stubConverter{})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/convert", nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("want 405, got %d", rec.Code)
	}
}

func TestConvert_InternalError(t *testing.T) {
	h := server.NewHandler(&stubConverter{err: context.Canceled})

	rec := post(h, "/convert", `{"input":"AA","from":"arpabet","to":"ipa"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("want 500, got %d", rec.Code)
	}
}

// ---------------------------------------------------------------------------
// POST /remap
// ---------------------------------------------------------------------------

func TestRemap(t *testing.T) {
	h := server.NewHandler(newService(t))
	tests := []struct {
		name     string
		body     string
		wantCode int
		want     string
	}{
		{"reduction", `{"input":"h ɚ ɾ\u0303 ɨ","reduction":"timit-shared"}`, http.StatusOK, "h ɹ\u0329 n ɪ"},
		{"mapping", `{"input":"ʌ ʌ\u0303","mapping":[["ʌ","ə"]]}`, http.StatusOK, "ə ʌ\u0303"},
		{"no dictionary", `{"input":"ʌ"}`, http.StatusBadRequest, ""},
		{"empty key", `{"input":"ʌ","mapping":[["","ə"]]}`, http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(h, "/remap", tt.body)
			if rec.Code != tt.wantCode {
				t.Fatalf("want %d, got %d: %s", tt.wantCode, rec.Code, rec.Body.String())
			}
			if tt.wantCode != http.StatusOK {
				return
			}
			if got := decodeBody(t, rec)["output"]; got != tt.want {
				t.Errorf("output = %q; want %q", got, tt.want)
			}
		})
	}
}
