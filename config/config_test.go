package config

import (
	"os"
	"testing"
)

func TestNewReadsEnvAndDefaults(t *testing.T) {
	t.Setenv("PORT", "9191")
	t.Setenv("GEMINI_MODEL", "")
	os.Unsetenv("GEMINI_MODEL")
	t.Setenv("UPLOAD_FOLDER", "")
	os.Unsetenv("UPLOAD_FOLDER")

	cfg := New()

	if cfg.Port != 9191 {
		t.Errorf("Port = %d, want 9191", cfg.Port)
	}
	if cfg.GeminiModel != "gemini-2.5-flash" {
		t.Errorf("GeminiModel = %q, want default", cfg.GeminiModel)
	}
	if cfg.UploadFolder != "spots" {
		t.Errorf("UploadFolder = %q, want default", cfg.UploadFolder)
	}
}
