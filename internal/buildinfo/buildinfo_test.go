package buildinfo

import "testing"

func TestString(t *testing.T) {
	defer func(v, c string) { Version, Commit = v, c }(Version, Commit)

	tests := []struct {
		version, commit string
		want, short     string
	}{
		{"dev", "unknown", "dev", "dev"},
		{"v1.2.0", "unknown", "v1.2.0", "v1.2.0"},
		{"dev", "0123456789abcdef", "dev (01234567)", "0123456789abcdef"},
		{"", "", "dev", "dev"},
	}
	for _, tt := range tests {
		Version, Commit = tt.version, tt.commit
		if got := String(); got != tt.want {
			t.Fatalf("String() with %q/%q = %q, want %q", tt.version, tt.commit, got, tt.want)
		}
		if got := Short(); got != tt.short {
			t.Fatalf("Short() with %q/%q = %q, want %q", tt.version, tt.commit, got, tt.short)
		}
	}
}
