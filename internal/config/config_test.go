package config

import "testing"

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("GEARR_SERVER_URL", "http://gearr.local:8080")
	t.Setenv("GEARR_TOKEN", "")
	t.Setenv("GEARR_FETCH_TIMEOUT_SECONDS", "")
	t.Setenv("GEARR_ROW_HEIGHT", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ServerURL != "http://gearr.local:8080" {
		t.Errorf("expected server URL, got %q", cfg.ServerURL)
	}
	if cfg.FetchTimeoutSeconds != DefaultFetchTimeoutSeconds {
		t.Errorf("expected default timeout %d, got %d", DefaultFetchTimeoutSeconds, cfg.FetchTimeoutSeconds)
	}
	if cfg.RowHeight != DefaultRowHeight {
		t.Errorf("expected default row height %d, got %d", DefaultRowHeight, cfg.RowHeight)
	}
	if cfg.ViewportHeight != DefaultViewportHeight {
		t.Errorf("expected default viewport height %d, got %d", DefaultViewportHeight, cfg.ViewportHeight)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("GEARR_SERVER_URL", "http://gearr.local")
	t.Setenv("GEARR_TOKEN", "tok123")
	t.Setenv("GEARR_FETCH_TIMEOUT_SECONDS", "30")
	t.Setenv("GEARR_ROW_HEIGHT", "18")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Token != "tok123" {
		t.Errorf("expected token from env, got %q", cfg.Token)
	}
	if cfg.FetchTimeoutSeconds != 30 {
		t.Errorf("expected timeout 30, got %d", cfg.FetchTimeoutSeconds)
	}
	if cfg.RowHeight != 18 {
		t.Errorf("expected row height 18, got %d", cfg.RowHeight)
	}
}

func TestLoad_InvalidIntFallsBack(t *testing.T) {
	t.Setenv("GEARR_SERVER_URL", "http://gearr.local")
	t.Setenv("GEARR_FETCH_TIMEOUT_SECONDS", "soon")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.FetchTimeoutSeconds != DefaultFetchTimeoutSeconds {
		t.Errorf("expected fallback timeout, got %d", cfg.FetchTimeoutSeconds)
	}
}

func TestLoad_RejectsBadValues(t *testing.T) {
	t.Setenv("GEARR_SERVER_URL", "http://gearr.local")
	t.Setenv("GEARR_FETCH_TIMEOUT_SECONDS", "0")

	if _, err := Load(); err == nil {
		t.Error("expected error for zero timeout")
	}
}

func TestValidate(t *testing.T) {
	cfg := &Config{}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for missing server URL")
	}
	cfg.ServerURL = "http://gearr.local"
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
