package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadEnvFromKeepsExistingValues(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, ".env", strings.Join([]string{
		"# comment",
		"COURSEMAP_TEST_A=from-file",
		"export COURSEMAP_TEST_B=\"quoted value\"",
		"COURSEMAP_TEST_C=ignored",
		"not a pair",
	}, "\n"))

	t.Setenv("COURSEMAP_TEST_C", "from-env")
	// t.Setenv restores these on cleanup even when LoadEnvFrom sets them.
	t.Setenv("COURSEMAP_TEST_A", "")
	os.Unsetenv("COURSEMAP_TEST_A")
	t.Setenv("COURSEMAP_TEST_B", "")
	os.Unsetenv("COURSEMAP_TEST_B")

	if err := LoadEnvFrom(filepath.Join(dir, "missing.env"), path); err != nil {
		t.Fatalf("LoadEnvFrom() error = %v", err)
	}

	tests := map[string]string{
		"COURSEMAP_TEST_A": "from-file",
		"COURSEMAP_TEST_B": "quoted value",
		"COURSEMAP_TEST_C": "from-env",
	}
	for key, want := range tests {
		if got := os.Getenv(key); got != want {
			t.Errorf("%s = %q, want %q", key, got, want)
		}
	}
}

func TestGetEnvTyped(t *testing.T) {
	t.Setenv("CM_INT", "12")
	t.Setenv("CM_BAD_INT", "twelve")
	t.Setenv("CM_BOOL", "yes")
	t.Setenv("CM_LIST", "csv, json,,md ")

	if got := GetEnvInt("CM_INT", 1); got != 12 {
		t.Errorf("GetEnvInt() = %d, want 12", got)
	}
	if got := GetEnvInt("CM_BAD_INT", 1); got != 1 {
		t.Errorf("GetEnvInt(bad) = %d, want default", got)
	}
	if got := GetEnvBool("CM_BOOL", false); !got {
		t.Errorf("GetEnvBool() = %v, want true", got)
	}
	if got := GetEnvList("CM_LIST", nil); !reflect.DeepEqual(got, []string{"csv", "json", "md"}) {
		t.Errorf("GetEnvList() = %v", got)
	}
	if got := GetEnv("CM_UNSET_VALUE", "fallback"); got != "fallback" {
		t.Errorf("GetEnv() = %q, want fallback", got)
	}
}

func TestLoadRunPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "coursemap.toml", `
[stores]
used = "garmin.db"
reference = "reference.db"

[output]
dir = "out"
formats = ["csv", "xlsx"]

[matching]
workers = 4
new_only = true

[server]
port = 9090
`)
	t.Setenv(EnvPrefix+"WORKERS", "8")

	run, err := LoadRun(path)
	if err != nil {
		t.Fatalf("LoadRun() error = %v", err)
	}

	if run.Stores.Used != "garmin.db" || run.Stores.Reference != "reference.db" {
		t.Errorf("Stores = %+v", run.Stores)
	}
	if run.Matching.Workers != 8 {
		t.Errorf("Workers = %d, want env override 8", run.Matching.Workers)
	}
	if !run.Matching.NewOnly {
		t.Error("NewOnly = false, want true from file")
	}
	if run.Server.Port != 9090 || run.Server.Host != "localhost" {
		t.Errorf("Server = %+v, want file port and default host", run.Server)
	}
	if !run.WantsFormat(FormatXLSX) || run.WantsFormat(FormatJSON) {
		t.Errorf("Formats = %v", run.Output.Formats)
	}
}

func TestLoadRunDefaults(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("LOG_JSON", "")
	run, err := LoadRun("")
	if err != nil {
		t.Fatalf("LoadRun() error = %v", err)
	}
	if !reflect.DeepEqual(run, DefaultRun()) {
		t.Errorf("LoadRun(\"\") = %+v, want defaults", run)
	}
}

func TestLoadRunRejectsBadConfig(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		content string
	}{
		{"unknown key", "[matching]\nthreads = 2\n"},
		{"bad workers", "[matching]\nworkers = 0\n"},
		{"bad format", "[output]\nformats = [\"pdf\"]\n"},
		{"bad port", "[server]\nport = 70000\n"},
		{"not toml", "[[["},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, dir, strings.ReplaceAll(tt.name, " ", "_")+".toml", tt.content)
			if _, err := LoadRun(path); err == nil {
				t.Errorf("LoadRun() accepted %q", tt.content)
			}
		})
	}
}
