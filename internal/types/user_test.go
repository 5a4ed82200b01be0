package types

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestUserJSON_NeverCarriesSecrets(t *testing.T) {
	user := User{
		Username: "ana",
		Password: "bcrypt-hash-material",
		Salt:     "salt-material",
		Role:     RoleStudent,
	}
	raw, err := json.Marshal(user)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	body := string(raw)
	if strings.Contains(body, "bcrypt-hash-material") || strings.Contains(body, "salt-material") {
		t.Fatalf("secret material leaked into JSON: %s", body)
	}
	if strings.Contains(body, "\"password\"") || strings.Contains(body, "\"salt\"") {
		t.Fatalf("secret keys present in JSON: %s", body)
	}
}

func TestSanitized_ClearsSecretFields(t *testing.T) {
	user := User{Username: "ana", Password: "hash", Salt: "salt"}
	clean := user.Sanitized()
	if clean.Password != "" || clean.Salt != "" {
		t.Fatalf("sanitized copy kept secrets: %+v", clean)
	}
	if user.Password != "hash" {
		t.Fatalf("sanitize must copy, not mutate the original")
	}
}

func TestDisplayName_FallsBackToUsername(t *testing.T) {
	cases := []struct {
		first, last, want string
	}{
		{"Rosa", "Diaz", "Rosa Diaz"},
		{"Rosa", "", "Rosa"},
		{"", "Diaz", "Diaz"},
		{"", "", "ana"},
	}
	for _, tc := range cases {
		u := &User{Username: "ana", FirstName: tc.first, LastName: tc.last}
		if got := u.DisplayName(); got != tc.want {
			t.Fatalf("DisplayName(%q,%q) = %q, want %q", tc.first, tc.last, got, tc.want)
		}
	}
}
