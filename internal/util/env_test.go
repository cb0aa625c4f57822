package util

import (
	"testing"
	"time"
)

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("UNET_STR", "value")
	t.Setenv("UNET_EMPTY", "")
	t.Setenv("UNET_NUM", "2.5")
	t.Setenv("UNET_INT", "7")
	t.Setenv("UNET_BAD_INT", "seven")
	t.Setenv("UNET_BOOL", "true")
	t.Setenv("UNET_BAD_BOOL", "yes")
	t.Setenv("UNET_DUR", "45s")
	t.Setenv("UNET_ZERO_DUR", "0")
	t.Setenv("UNET_BAD_DUR", "soon")

	if got := GetEnv("UNET_STR"); got != "value" {
		t.Fatalf("GetEnv = %q", got)
	}
	if got := GetEnv("UNET_MISSING"); got != "" {
		t.Fatalf("GetEnv missing = %q", got)
	}
	if got := GetEnvString("UNET_EMPTY", "fallback"); got != "fallback" {
		t.Fatalf("GetEnvString empty = %q", got)
	}
	if got := GetEnvNumeric("UNET_NUM", 1); got != 2.5 {
		t.Fatalf("GetEnvNumeric = %v", got)
	}
	if got := GetEnvInt("UNET_INT", 1); got != 7 {
		t.Fatalf("GetEnvInt = %v", got)
	}
	if got := GetEnvInt("UNET_BAD_INT", 3); got != 3 {
		t.Fatalf("GetEnvInt bad = %v", got)
	}
	if got := GetEnvBool("UNET_BOOL", false); !got {
		t.Fatal("GetEnvBool = false")
	}
	if got := GetEnvBool("UNET_BAD_BOOL", false); got {
		t.Fatal("GetEnvBool bad = true")
	}
	if got := GetEnvDuration("UNET_DUR", time.Minute); got != 45*time.Second {
		t.Fatalf("GetEnvDuration = %v", got)
	}
	if got := GetEnvDuration("UNET_ZERO_DUR", time.Minute); got != 0 {
		t.Fatalf("GetEnvDuration zero = %v", got)
	}
	if got := GetEnvDuration("UNET_BAD_DUR", time.Minute); got != time.Minute {
		t.Fatalf("GetEnvDuration bad = %v", got)
	}
}
