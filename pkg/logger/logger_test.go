package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestLoggerInit(t *testing.T) {
	if err := Init(); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() {
		if err := Sync(); err != nil {
			t.Errorf("failed to sync logger: %v", err)
		}
	}()

	if Get() == nil {
		t.Fatal("logger is nil after initialization")
	}
}

func TestLoggerJSONFields(t *testing.T) {
	var buf bytes.Buffer
	if err := InitWith(&buf, FormatJSON); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	ctx := context.Background()
	Get().With(String("component", "store")).Info(ctx, "upserted",
		String("name", "Alice"),
		Int("entries", 6),
		Bool("replaced", true),
		Duration("took", time.Millisecond),
		Error(errors.New("boom")),
	)

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if rec["msg"] != "upserted" {
		t.Errorf("unexpected msg: %v", rec["msg"])
	}
	if rec["component"] != "store" || rec["name"] != "Alice" {
		t.Errorf("missing fields: %v", rec)
	}
	if rec["entries"] != float64(6) || rec["replaced"] != true {
		t.Errorf("wrong typed fields: %v", rec)
	}
	src, _ := rec["source"].(string)
	if !strings.Contains(src, "logger_test.go:") {
		t.Errorf("source should point at the caller, got %q", src)
	}
}

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	if err := InitWith(&buf, FormatText); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	ctx := context.Background()

	Get().Debug(ctx, "hidden")
	if buf.Len() != 0 {
		t.Fatalf("debug should be filtered at info level, got %q", buf.String())
	}

	if err := SetLevelString("DEBUG"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	Get().Debug(ctx, "shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("debug should be emitted after SetLevelString, got %q", buf.String())
	}

	if err := SetLevelString("loud"); err == nil {
		t.Error("expected error for unknown level")
	}
	_ = SetLevelString("info")
}

func TestLoggerNamed(t *testing.T) {
	var buf bytes.Buffer
	if err := InitWith(&buf, FormatJSON); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	Named("http").Info(context.Background(), "request", String("path", "/"))
	if !strings.Contains(buf.String(), `"http":{`) {
		t.Errorf("named logger should group fields, got %q", buf.String())
	}
}

func TestParseFormat(t *testing.T) {
	cases := map[string]Format{"": FormatText, "TEXT": FormatText, " json ": FormatJSON}
	for in, want := range cases {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("expected error for unknown format")
	}
	if err := InitWith(&bytes.Buffer{}, Format("xml")); err == nil {
		t.Error("expected InitWith to reject unknown format")
	}
}

func TestNop(t *testing.T) {
	l := Nop()
	l.Error(context.Background(), "dropped")
	l.Named("x").With(String("k", "v")).Info(context.Background(), "dropped")
}
