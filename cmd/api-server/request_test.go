package main

import (
	"net/http/httptest"
	"testing"
	"time"
)

func TestTimeQueryParams(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/sessoes?de='2026-03-01%2010:00:00%20UTC'", nil)

	got, ok, err := timeQueryParams(r, "de")
	if err != nil {
		t.Fatalf("timeQueryParams error: %v", err)
	}
	if !ok {
		t.Fatal("timeQueryParams ok = false for present param")
	}

	want := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("parsed time = %v, want %v", got, want)
	}

	_, ok, err = timeQueryParams(r, "ate")
	if err != nil || ok {
		t.Errorf("absent param: ok = %v, err = %v; want false, nil", ok, err)
	}
}

func TestOptionalIDQueryParams(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/projetos?sessao_id=7&camara_id=abc", nil)

	if got := optionalIDQueryParams(r, "sessao_id"); got == nil || *got != 7 {
		t.Errorf("sessao_id = %v, want 7", got)
	}
	if got := optionalIDQueryParams(r, "camara_id"); got != nil {
		t.Errorf("malformed camara_id = %v, want nil", got)
	}
	if got := optionalIDQueryParams(r, "missing"); got != nil {
		t.Errorf("missing param = %v, want nil", got)
	}
}

func TestDefaultIntQueryParams(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/projetos?limit=10", nil)

	if got := defaultIntQueryParams(r, "limit", 50); got != 10 {
		t.Errorf("limit = %d, want 10", got)
	}
	if got := defaultIntQueryParams(r, "offset", 0); got != 0 {
		t.Errorf("offset fallback = %d, want 0", got)
	}
}
