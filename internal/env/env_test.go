package env

import (
	"testing"
	"time"
)

func TestGetString(t *testing.T) {
	t.Setenv("CAMARA_TEST_STR", "valor")

	if got := GetString("CAMARA_TEST_STR", "def"); got != "valor" {
		t.Errorf("GetString() = %q, want %q", got, "valor")
	}
	if got := GetString("CAMARA_TEST_MISSING", "def"); got != "def" {
		t.Errorf("GetString() fallback = %q, want %q", got, "def")
	}
}

func TestGetInt(t *testing.T) {
	t.Setenv("CAMARA_TEST_INT", "8080")
	t.Setenv("CAMARA_TEST_BAD_INT", "oitenta")

	if got := GetInt("CAMARA_TEST_INT", 1); got != 8080 {
		t.Errorf("GetInt() = %d, want 8080", got)
	}
	if got := GetInt("CAMARA_TEST_BAD_INT", 1); got != 1 {
		t.Errorf("GetInt() on malformed value = %d, want fallback 1", got)
	}
}

func TestGetBool(t *testing.T) {
	t.Setenv("CAMARA_TEST_BOOL", "true")

	if got := GetBool("CAMARA_TEST_BOOL", false); !got {
		t.Error("GetBool() = false, want true")
	}
	if got := GetBool("CAMARA_TEST_MISSING", true); !got {
		t.Error("GetBool() fallback = false, want true")
	}
}

func TestGetDuration(t *testing.T) {
	t.Setenv("CAMARA_TEST_DUR", "15m")

	if got := GetDuration("CAMARA_TEST_DUR", time.Second); got != 15*time.Minute {
		t.Errorf("GetDuration() = %v, want 15m", got)
	}
}
