package utils

import "testing"

func TestHumanSize(t *testing.T) {
	cases := []struct {
		n    int64
		want string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{1048576, "1.0 MB"},
		{5 * 1024 * 1024 * 1024, "5.0 GB"},
	}
	for _, tc := range cases {
		if got := HumanSize(tc.n); got != tc.want {
			t.Errorf("HumanSize(%d) = %q, want %q", tc.n, got, tc.want)
		}
	}
}

func TestGenerateRandomHex(t *testing.T) {
	a, err := GenerateRandomHex(16)
	if err != nil {
		t.Fatalf("Failed to generate random hex: %v", err)
	}
	if len(a) != 32 {
		t.Errorf("Expected 32 hex characters, got %d", len(a))
	}

	b, err := GenerateRandomHex(16)
	if err != nil {
		t.Fatalf("Failed to generate random hex: %v", err)
	}
	if a == b {
		t.Error("Two generated keys must not collide")
	}
}
