package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func restoreGlobal(t *testing.T) {
	t.Helper()
	prev := current.Load()
	t.Cleanup(func() { current.Store(prev) })
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "", want: FormatText},
		{in: "text", want: FormatText},
		{in: "JSON", want: FormatJSON},
		{in: "logfmt", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSetup(t *testing.T) {
	restoreGlobal(t)
	var buf bytes.Buffer
	Setup(&buf, FormatJSON, false)

	if IsDebug() {
		t.Error("debug should be disabled")
	}
	Get().Debug("hidden")
	ForUnit("orders").Info("loading unit", "name", "Orders")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 record, got %q", buf.String())
	}
	var record map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &record); err != nil {
		t.Fatalf("expected a JSON record: %v", err)
	}
	if record["msg"] != "loading unit" || record["unit"] != "orders" || record["name"] != "Orders" {
		t.Errorf("unexpected record %v", record)
	}
}

func TestSetup_Debug(t *testing.T) {
	restoreGlobal(t)
	var buf bytes.Buffer
	Setup(&buf, FormatText, true)

	if !IsDebug() {
		t.Error("debug should be enabled")
	}
	ForUnit("orders").Debug("building assembly inventory")
	if got := buf.String(); !strings.Contains(got, "level=DEBUG") || !strings.Contains(got, "unit=orders") {
		t.Errorf("expected a debug text record for the unit, got %q", got)
	}
}

func TestGet_Fallback(t *testing.T) {
	restoreGlobal(t)
	current.Store(nil)

	if Get() == nil {
		t.Fatal("expected a fallback logger")
	}
	if IsDebug() {
		t.Error("debug should be disabled before setup")
	}

	SetGlobal(nil, true)
	if Get() == nil || !IsDebug() {
		t.Error("expected a fallback debug logger")
	}
}
