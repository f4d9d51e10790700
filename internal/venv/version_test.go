package venv

import "testing"

func TestParsePythonVersion(t *testing.T) {
	tests := []struct {
		line    string
		want    string
		wantErr bool
	}{
		{"Python 3.11.4", "3.11.4", false},
		{"3.12.1", "3.12.1", false},
		{"Python 3.13.0rc1", "3.13.0-rc1", false},
		{"Python 3.14.0a2", "3.14.0-a2", false},
		{"Python 3.12.0+", "3.12.0", false},
		{"  Python 2.7.18 ", "2.7.18", false},
		{"PyPy 7.3", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			v, err := ParsePythonVersion(tt.line)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error, got %v", v)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := v.String(); got != tt.want {
				t.Errorf("ParsePythonVersion(%q) = %s, want %s", tt.line, got, tt.want)
			}
		})
	}
}

func TestMeetsMinimum(t *testing.T) {
	tests := []struct {
		line string
		min  string
		want bool
	}{
		{"Python 3.11.4", "3.8", true},
		{"Python 3.8.0", "3.8", true},
		{"Python 3.7.17", "3.8", false},
		{"Python 2.7.18", "3", false},
		{"Python 3.8.0rc1", "3.8", false},
	}

	for _, tt := range tests {
		t.Run(tt.line+">="+tt.min, func(t *testing.T) {
			got, err := MeetsMinimum(tt.line, tt.min)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("MeetsMinimum(%q, %q) = %v, want %v", tt.line, tt.min, got, tt.want)
			}
		})
	}
}

func TestMeetsMinimum_BadFloor(t *testing.T) {
	if _, err := MeetsMinimum("Python 3.11.4", "three"); err == nil {
		t.Fatal("expected error for unparsable minimum")
	}
}
