package version

import "testing"

func TestInfoString(t *testing.T) {
	tests := []struct {
		name string
		info Info
		want string
	}{
		{"bare", Info{Version: "dev", BuildTime: "unknown"}, "dev"},
		{"release", Info{Version: "1.2.0", BuildTime: "2026-03-01", GoVersion: "go1.25.0", Revision: "0123456789abcdef"}, "1.2.0 (go1.25.0, 01234567, built 2026-03-01)"},
		{"dirty", Info{Version: "dev", BuildTime: "unknown", Revision: "abc", Dirty: true}, "dev (abc+dirty)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.info.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCheck(t *testing.T) {
	if msg := (Info{Version: "1.0.0", Revision: "abc"}).Check(); msg != "" {
		t.Errorf("Check() = %q, want empty", msg)
	}
	if msg := (Info{Version: "dev"}).Check(); msg == "" {
		t.Error("Check() should warn for an untraceable dev build")
	}
	if msg := (Info{Version: "1.0.0", Revision: "abc", Dirty: true}).Check(); msg == "" {
		t.Error("Check() should warn for a dirty build")
	}
}
