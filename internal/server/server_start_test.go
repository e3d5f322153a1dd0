package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/example/go-phonecodes/internal/config"
)

func freeAddr(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	addr := ln.Addr().String()
	ln.Close()
	return addr
}

func TestStart_LifecycleConvertAndShutdown(t *testing.T) {
	addr := freeAddr(t)

	cfg := config.DefaultConfig()
	cfg.Server.ListenAddr = addr

	s := New(cfg, nil).WithShutdownTimeout(2 * time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)

	go func() {
		errCh <- s.Start(ctx)
	}()

	client := &http.Client{Timeout: 2 * time.Second}

	var err error
	for range 50 {
		if err = ProbeHTTP(addr); err == nil {
			break
		}

		time.Sleep(20 * time.Millisecond)
	}

	if err != nil {
		t.Fatalf("server never became ready: %v", err)
	}

	resp, err := client.Post(fmt.Sprintf("http://%s/convert", addr), "application/json",
		strings.NewReader(`{"input":"HH AH0 L OW1","from":"arpabet","to":"ipa"}`))
	if err != nil {
		t.Fatalf("POST /convert: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("/convert status = %d; want 200", resp.StatusCode)
	}

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode /convert: %v", err)
	}

	if body["output"] != "h ə l ˈoʊ" {
		t.Errorf("output = %q; want %q", body["output"], "h ə l ˈoʊ")
	}

	// Graceful shutdown.
	cancel()

	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("Start() returned error on shutdown: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Start() did not return within 5s of context cancel")
	}
}

func TestStart_BadTablesDir(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Server.ListenAddr = freeAddr(t)
	cfg.Tables.Dir = "/nonexistent/tables"

	err := New(cfg, nil).Start(context.Background())
	if err == nil || !strings.Contains(err.Error(), "initialize service") {
		t.Fatalf("Start() = %v; want initialize service error", err)
	}
}

func TestProbeHTTP_Unreachable(t *testing.T) {
	if err := ProbeHTTP(freeAddr(t)); err == nil {
		t.Error("ProbeHTTP() = nil; want error for closed port")
	}
}
