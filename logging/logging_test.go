package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewRejectsBadConfig(t *testing.T) {
	for _, cfg := range []Config{
		{Level: "loud"},
		{Format: "xml"},
		{Output: "printer"},
		{Output: "file"},
	} {
		if _, err := New(cfg); err == nil {
			t.Errorf("expected error for %+v", cfg)
		}
	}
}

func TestNewFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.log")
	log, err := New(Config{Level: "debug", Format: "json", Output: "file", File: path})
	if err != nil {
		t.Fatal(err)
	}
	log.Info("stage finished")
	log.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"msg":"stage finished"`) {
		t.Errorf("unexpected log contents: %s", data)
	}
}

func TestNewNone(t *testing.T) {
	log, err := New(Config{Output: "none"})
	if err != nil {
		t.Fatal(err)
	}
	log.Error("discarded")
}
