package server_test

import (
	"context"
	"log/slog"
	"net/http"
	"testing"

	"github.com/example/go-phonecodes/internal/server"
)

// capturingHandler captures all slog records during a test.
type capturingHandler struct {
	records []slog.Record
}

func (c *capturingHandler) Enabled(_ context.Context, _ slog.Level) bool { return true }
func (c *capturingHandler) Handle(_ context.Context, r slog.Record) error {
	c.records = append(c.records, r)
	return nil
}
func (c *capturingHandler) WithAttrs(attrs []slog.Attr) slog.Handler { return c }
func (c *capturingHandler) WithGroup(name string) slog.Handler       { return c }

func (c *capturingHandler) attrMap(idx int) map[string]any {
	m := make(map[string]any)
	c.records[idx].Attrs(func(a slog.Attr) bool {
		m[a.Key] = a.Value.Any()
		return true
	})
	return m
}

func TestConvert_LogsRequest(t *testing.T) {
	cap := &capturingHandler{}
	h := server.NewHandler(&stubConverter{out: "ɑ"}, server.WithLogger(slog.New(cap)))

	rec := post(h, "/convert", `{"input":"AA","from":"arpabet","to":"ipa"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("want 200, got %d", rec.Code)
	}

	if len(cap.records) == 0 {
		t.Fatal("want at least one log record, got none")
	}

	last := len(cap.records) - 1
	if cap.records[last].Message != "conversion complete" {
		t.Errorf("message = %q; want %q", cap.records[last].Message, "conversion complete")
	}

	attrs := cap.attrMap(last)
	if attrs["from"] != "arpabet" || attrs["to"] != "ipa" {
		t.Errorf("attrs = %v; want from=arpabet to=ipa", attrs)
	}
	if attrs["input_len"] != int64(2) {
		t.Errorf("input_len = %v; want 2", attrs["input_len"])
	}
	if attrs["request_id"] != rec.Header().Get(server.RequestIDHeader) {
		t.Errorf("request_id = %v; want response header %q", attrs["request_id"], rec.Header().Get(server.RequestIDHeader))
	}
	if _, ok := attrs["duration_ms"]; !ok {
		t.Error("want duration_ms attribute")
	}
}

func TestConvert_LogsRejection(t *testing.T) {
	cap := &capturingHandler{}
	h := server.NewHandler(newService(t), server.WithLogger(slog.New(cap)))

	rec := post(h, "/convert", `{"input":"a","from":"callhome","to":"ipa"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("want 400, got %d", rec.Code)
	}

	for i, r := range cap.records {
		if r.Message == "conversion rejected" {
			if cap.attrMap(i)["error"] == "" {
				t.Error("want error attribute")
			}
			return
		}
	}
	t.Error("no conversion rejected record")
}
