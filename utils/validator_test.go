package utils

import (
	"strings"
	"testing"
)

type signupForm struct {
	Username             string `validate:"required,nameok"`
	Email                string `validate:"required,email"`
	Password             string `validate:"required,pwdmin"`
	PasswordConfirmation string `validate:"required,eqfield=Password"`
}

func TestValidateStruct(t *testing.T) {
	valid := signupForm{
		Username:             "Ann O'Neil",
		Email:                "ann@example.com",
		Password:             "secret1",
		PasswordConfirmation: "secret1",
	}

	cases := []struct {
		name    string
		mutate  func(*signupForm)
		wantErr bool
	}{
		{"valid", func(f *signupForm) {}, false},
		{"missing username", func(f *signupForm) { f.Username = "" }, true},
		{"bad username chars", func(f *signupForm) { f.Username = "a<b>" }, true},
		{"bad email", func(f *signupForm) { f.Email = "not-an-email" }, true},
		{"short password", func(f *signupForm) { f.Password = "abc"; f.PasswordConfirmation = "abc" }, true},
		{"confirmation mismatch", func(f *signupForm) { f.PasswordConfirmation = "other1" }, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			form := valid
			tc.mutate(&form)
			err := ValidateStruct(&form)
			if tc.wantErr && err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestGenerateOrderIDFormat(t *testing.T) {
	id := GenerateOrderID(42)
	if !strings.HasPrefix(id, "TDE-") {
		t.Fatalf("order id %q missing TDE- prefix", id)
	}
	if !strings.HasSuffix(id, "42") {
		t.Fatalf("order id %q missing user id suffix", id)
	}
}
