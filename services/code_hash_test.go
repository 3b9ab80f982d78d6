package services

import (
	"strings"
	"testing"
)

func TestVerificationCodeRoundTrip(t *testing.T) {
	hash, err := HashVerificationCode("483920")
	if err != nil {
		t.Fatalf("HashVerificationCode: %v", err)
	}
	if !strings.Contains(hash, "$") {
		t.Fatalf("hash %q missing salt separator", hash)
	}

	match, err := VerifyCode(hash, "483920")
	if err != nil {
		t.Fatalf("VerifyCode: %v", err)
	}
	if !match {
		t.Error("correct code did not verify")
	}

	match, err = VerifyCode(hash, "483921")
	if err != nil {
		t.Fatalf("VerifyCode: %v", err)
	}
	if match {
		t.Error("wrong code verified")
	}
}

func TestVerificationCodeHashesAreSalted(t *testing.T) {
	first, err := HashVerificationCode("123456")
	if err != nil {
		t.Fatalf("HashVerificationCode: %v", err)
	}
	second, err := HashVerificationCode("123456")
	if err != nil {
		t.Fatalf("HashVerificationCode: %v", err)
	}
	if first == second {
		t.Error("identical codes produced identical hashes; salt missing")
	}
}

func TestVerifyCodeRejectsMalformedHash(t *testing.T) {
	if _, err := VerifyCode("not-a-valid-hash", "123456"); err == nil {
		t.Error("malformed stored hash should error")
	}
}
