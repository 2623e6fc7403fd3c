package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func TestInfoCarriesContextFields(t *testing.T) {
	var buf bytes.Buffer
	logg := New(Options{ServiceName: "test", Output: &buf})

	ctx := logg.WithRequestID(context.Background(), "req-123")
	ctx = logg.WithOrderNumber(ctx, "POD-00001")
	logg.Info(ctx, "hello")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log output is not JSON: %v", err)
	}
	if entry["request_id"] != "req-123" {
		t.Errorf("request_id = %v", entry["request_id"])
	}
	if entry["po_number"] != "POD-00001" {
		t.Errorf("po_number = %v", entry["po_number"])
	}
	if entry["service"] != "test" {
		t.Errorf("service = %v", entry["service"])
	}
}

func TestParseLevel(t *testing.T) {
	if ParseLevel("debug") != zerolog.DebugLevel {
		t.Errorf("debug not parsed")
	}
	if ParseLevel("") != zerolog.InfoLevel {
		t.Errorf("empty should default to info")
	}
	if ParseLevel("nonsense") != zerolog.InfoLevel {
		t.Errorf("unknown should default to info")
	}
}
