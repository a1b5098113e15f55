package version

import (
	"strings"
	"testing"
)

func TestApp(t *testing.T) {
	v := App()
	if v == "" {
		t.Fatal("expected a version")
	}
	if strings.ContainsAny(v, " \n") {
		t.Errorf("version must be trimmed, got %q", v)
	}
}

func TestString(t *testing.T) {
	s := String()
	if !strings.HasPrefix(s, "modulestore v"+App()+"@") {
		t.Errorf("unexpected banner %q", s)
	}
	if !strings.Contains(s, Platform()) {
		t.Errorf("expected the platform in %q", s)
	}
}
