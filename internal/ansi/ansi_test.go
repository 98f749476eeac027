package ansi

import "testing"

func TestWrap(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		enabled bool
		codes   []string
		want    string
	}{
		{"disabled", false, []string{Red}, "x"},
		{"no codes", true, nil, "x"},
		{"single", true, []string{Red}, Red + "x" + Reset},
		{"stacked", true, []string{Bold, Green}, Bold + Green + "x" + Reset},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Wrap(tt.enabled, "x", tt.codes...); got != tt.want {
				t.Errorf("Wrap() = %q, want %q", got, tt.want)
			}
		})
	}
}
