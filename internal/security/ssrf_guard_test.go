package security

import (
	"testing"
	"time"
)

// SSRFGuardService 인터페이스 구현 검증
var _ SSRFGuardService = (*ssrfGuard)(nil)

func TestValidateURL_AllowsPublicHTTPS(t *testing.T) {
	guard := NewSSRFGuard()

	urls := []string{
		"https://www.bloter.net/news/article/12345",
		"http://example.com/story",
		"https://news.example.co.kr/economy/2026/08/28/",
	}
	for _, u := range urls {
		if err := guard.ValidateURL(u); err != nil {
			t.Errorf("ValidateURL(%q) = %v, want nil", u, err)
		}
	}
}

func TestValidateURL_RejectsDisallowedScheme(t *testing.T) {
	guard := NewSSRFGuard()

	urls := []string{
		"ftp://example.com/file",
		"file:///etc/passwd",
		"javascript:alert(1)",
		"gopher://example.com/",
	}
	for _, u := range urls {
		if err := guard.ValidateURL(u); err == nil {
			t.Errorf("ValidateURL(%q) = nil, want error", u)
		}
	}
}

func TestValidateURL_RejectsPrivateAndLoopbackIP(t *testing.T) {
	guard := NewSSRFGuard()

	urls := []string{
		"http://10.0.0.5/internal",
		"http://172.16.1.1/admin",
		"http://192.168.0.10/",
		"http://127.0.0.1:8080/",
		"http://169.254.169.254/latest/meta-data/",
		"http://[::1]/",
	}
	for _, u := range urls {
		if err := guard.ValidateURL(u); err == nil {
			t.Errorf("ValidateURL(%q) = nil, want error", u)
		}
	}
}

func TestValidateURL_RejectsLocalhost(t *testing.T) {
	guard := NewSSRFGuard()

	if err := guard.ValidateURL("http://localhost/secret"); err == nil {
		t.Error("ValidateURL(localhost) = nil, want error")
	}
	if err := guard.ValidateURL("http://LOCALHOST/secret"); err == nil {
		t.Error("ValidateURL(LOCALHOST) = nil, want error")
	}
}

func TestValidateURL_RejectsEmptyAndMalformed(t *testing.T) {
	guard := NewSSRFGuard()

	if err := guard.ValidateURL(""); err == nil {
		t.Error("ValidateURL(\"\") = nil, want error")
	}
	if err := guard.ValidateURL("http://"); err == nil {
		t.Error("ValidateURL(no host) = nil, want error")
	}
}

func TestNewSafeClient_ReturnsClient(t *testing.T) {
	guard := NewSSRFGuard()

	client := guard.NewSafeClient(10*time.Second, 2*1024*1024)
	if client == nil {
		t.Fatal("expected non-nil client")
	}
}
