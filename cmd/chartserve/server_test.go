package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestPageCarriesThemeChrome(t *testing.T) {
	t.Parallel()

	srv, err := newServer(demoConfig(), "demo", demoTheme())
	if err != nil {
		t.Fatalf("newServer: %v", err)
	}

	rec := httptest.NewRecorder()
	srv.handlePage(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	body := rec.Body.String()
	for _, want := range []string{
		":root {",
		"--surface: #fdfdfb;",
		`<body class="wtk-page">`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("page missing %q:\n%s", want, body)
		}
	}
}

func TestPageWithoutThemeRendersPlainShell(t *testing.T) {
	t.Parallel()

	srv, err := newServer(demoConfig(), "demo", nil)
	if err != nil {
		t.Fatalf("newServer: %v", err)
	}

	rec := httptest.NewRecorder()
	srv.handlePage(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if strings.Contains(rec.Body.String(), ":root") {
		t.Fatal("nil theme produced CSS variables")
	}
}
