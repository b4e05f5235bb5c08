package auth

import "testing"

func TestIsPasswordValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		password string
		want     bool
	}{
		{name: "valid", password: "Valid123!", want: true},
		{name: "too short", password: "short1!", want: false},
		{name: "no uppercase", password: "alllowercase1!", want: false},
		{name: "no lowercase", password: "ALLUPPERCASE1!", want: false},
		{name: "no digit", password: "NoDigits!!", want: false},
		{name: "no special", password: "NoSpecial123", want: false},
		{name: "whitespace is not special", password: "NoSpecial 123", want: false},
		{name: "empty", password: "", want: false},
		{name: "exactly eight", password: "Abcdef1!", want: true},
		{name: "unicode letters", password: "Пароль1!", want: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsPasswordValid(tc.password); got != tc.want {
				t.Fatalf("IsPasswordValid(%q) = %v, want %v", tc.password, got, tc.want)
			}
		})
	}
}
