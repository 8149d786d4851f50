package auth

import "testing"

func TestParseTokens(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		access  string
		refresh string
		subject string
		wantErr bool
	}{
		{"envelope camelCase", `{"data":{"accessToken":"a","refreshToken":"r","user":{"id":"u1"}}}`, "a", "r", "u1", false},
		{"bare snake_case", `{"access_token":"a","refresh_token":"r"}`, "a", "r", "", false},
		{"token only", `{"token":"a","user":{"email":"ops@example.com"}}`, "a", "", "ops@example.com", false},
		{"missing token", `{"data":{"user":{"id":"u1"}}}`, "", "", "", true},
		{"not json", `oops`, "", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseTokens([]byte(tt.body))
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got.AccessToken != tt.access || got.RefreshToken != tt.refresh || got.Subject != tt.subject {
				t.Errorf("got %+v", got)
			}
		})
	}
}
