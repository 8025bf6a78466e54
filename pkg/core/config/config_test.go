package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadAssumptionsMissingFileUsesDefaults(t *testing.T) {
	assume, err := LoadAssumptions(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Missing file should not error: %v", err)
	}
	if assume.VacancyRate != 0.05 || assume.HoldYears != 10 {
		t.Errorf("Defaults not applied: %+v", assume)
	}
}

func TestLoadAssumptionsOverlays(t *testing.T) {
	path := filepath.Join(t.TempDir(), "assumptions.yaml")
	content := "vacancy_rate: 0.08\nhold_years: 7\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	assume, err := LoadAssumptions(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if assume.VacancyRate != 0.08 {
		t.Errorf("Override not applied, vacancy %f", assume.VacancyRate)
	}
	if assume.HoldYears != 7 {
		t.Errorf("Override not applied, hold years %d", assume.HoldYears)
	}
	// Untouched fields keep their defaults.
	if assume.AppreciationRate != 0.04 {
		t.Errorf("Default lost, appreciation %f", assume.AppreciationRate)
	}
}

func TestLoadAssumptionsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	if err := os.WriteFile(path, []byte("vacancy_rate: [not a rate"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadAssumptions(path); err == nil {
		t.Error("Expected an error for malformed yaml")
	}
}

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("RENTCAST_API_KEY", "abc")
	cfg := FromEnv()
	if cfg.Port != "8080" {
		t.Errorf("Default port should be 8080, got %q", cfg.Port)
	}
	if cfg.RentCastAPIKey != "abc" {
		t.Errorf("API key not read, got %q", cfg.RentCastAPIKey)
	}
}
