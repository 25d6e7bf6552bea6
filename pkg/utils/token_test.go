package utils

import "testing"

func TestValidAdminToken(t *testing.T) {
	const secret = "s3cret-Token"

	tests := []struct {
		name  string
		token string
		want  bool
	}{
		{name: "exact match", token: secret, want: true},
		{name: "empty", token: "", want: false},
		{name: "wrong case", token: "S3CRET-TOKEN", want: false},
		{name: "prefix", token: "s3cret", want: false},
		{name: "suffix added", token: secret + " ", want: false},
		{name: "other", token: "wrong", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidAdminToken(tt.token, secret); got != tt.want {
				t.Errorf("ValidAdminToken(%q) = %v, want %v", tt.token, got, tt.want)
			}
		})
	}
}

func TestValidAdminTokenEmptySecret(t *testing.T) {
	if ValidAdminToken("", "") {
		t.Error("empty token must not validate against empty secret")
	}
	if ValidAdminToken("anything", "") {
		t.Error("no token validates when the secret is unset")
	}
}

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"Bearer abc", "abc"},
		{"bearer abc", "abc"},
		{"Bearer   abc  ", "abc"},
		{"Basic abc", ""},
		{"Bearer", ""},
		{"", ""},
		{"abc", ""},
	}
	for _, tt := range tests {
		if got := ExtractBearerToken(tt.header); got != tt.want {
			t.Errorf("ExtractBearerToken(%q) = %q, want %q", tt.header, got, tt.want)
		}
	}
}
