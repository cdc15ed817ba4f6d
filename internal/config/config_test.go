package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points XDG and the working directory at fresh temp dirs and clears
// every STYLEWIZ_ variable so the host environment cannot leak into a test.
func isolate(t *testing.T) string {
	t.Helper()

	tmpDir := t.TempDir()
	origWd, _ := os.Getwd()
	t.Cleanup(func() { _ = os.Chdir(origWd) })
	require.NoError(t, os.Chdir(tmpDir))

	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "config"))
	for _, key := range envKeys {
		name := "STYLEWIZ_" + strings.ToUpper(key)
		t.Setenv(name, "")
		_ = os.Unsetenv(name)
	}
	return tmpDir
}

func TestGlobalPath(t *testing.T) {
	t.Run("with XDG_CONFIG_HOME set", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "/custom/config")
		assert.Equal(t, "/custom/config/stylewiz/stylewiz.yml", GlobalPath())
	})

	t.Run("without XDG_CONFIG_HOME", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "")
		got := GlobalPath()
		assert.True(t, filepath.IsAbs(got), "GlobalPath() should be absolute, got %s", got)
		assert.Equal(t, "stylewiz.yml", filepath.Base(got))
	})
}

func TestProjectPath(t *testing.T) {
	assert.Equal(t, "stylewiz.yml", ProjectPath())
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "", cfg.Model)
	assert.Equal(t, GeneratorStub, cfg.Generator)
	assert.Equal(t, 2*time.Second, cfg.StubDelay)
	assert.Equal(t, ".stylewiz", cfg.DataDir)
	assert.Equal(t, ".", cfg.ExportDir)
	assert.Equal(t, "pillar", cfg.ContentType)
	assert.True(t, cfg.History)
	assert.False(t, Exists())
}

func TestLoadPrecedence(t *testing.T) {
	isolate(t)

	globalPath := GlobalPath()
	require.NoError(t, os.MkdirAll(filepath.Dir(globalPath), 0755))
	require.NoError(t, os.WriteFile(globalPath, []byte("model: global/model\nexport_dir: exports\nstub_delay: 5s\n"), 0644))
	require.NoError(t, os.WriteFile(ProjectPath(), []byte("model: project/model\n"), 0644))

	t.Run("project overrides global", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "project/model", cfg.Model)
		assert.Equal(t, "exports", cfg.ExportDir, "unset project keys fall back to global")
		assert.Equal(t, 5*time.Second, cfg.StubDelay)
		assert.True(t, Exists())
	})

	t.Run("env overrides files", func(t *testing.T) {
		t.Setenv("STYLEWIZ_MODEL", "env/model")
		t.Setenv("STYLEWIZ_HISTORY", "false")
		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "env/model", cfg.Model)
		assert.False(t, cfg.History)
	})
}

func TestLoadDotEnv(t *testing.T) {
	isolate(t)

	require.NoError(t, os.WriteFile(".env", []byte("STYLEWIZ_API_KEY=secret-from-dotenv\nSTYLEWIZ_MODEL=dotenv/model\n"), 0644))
	t.Cleanup(func() {
		_ = os.Unsetenv("STYLEWIZ_API_KEY")
		_ = os.Unsetenv("STYLEWIZ_MODEL")
	})

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "secret-from-dotenv", cfg.APIKey)
	assert.Equal(t, "dotenv/model", cfg.Model)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "defaults are valid", mutate: func(c *Config) {}},
		{
			name:    "http needs endpoint",
			mutate:  func(c *Config) { c.Generator = GeneratorHTTP },
			wantErr: "requires an endpoint",
		},
		{
			name: "http with endpoint",
			mutate: func(c *Config) {
				c.Generator = GeneratorHTTP
				c.Endpoint = "http://localhost:8080/generate"
			},
		},
		{
			name:    "unknown generator",
			mutate:  func(c *Config) { c.Generator = "grpc" },
			wantErr: "unknown generator",
		},
		{
			name:    "negative delay",
			mutate:  func(c *Config) { c.StubDelay = -time.Second },
			wantErr: "must not be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadRejectsInvalidGenerator(t *testing.T) {
	isolate(t)
	t.Setenv("STYLEWIZ_GENERATOR", "carrier-pigeon")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown generator")
}

func TestWriteGlobal(t *testing.T) {
	isolate(t)

	cfg := Defaults()
	cfg.Model = "test/model"
	cfg.ExportDir = "out"
	cfg.StubDelay = 1500 * time.Millisecond

	require.NoError(t, WriteGlobal(cfg))

	data, err := os.ReadFile(GlobalPath())
	require.NoError(t, err)

	content := string(data)
	for _, field := range []string{
		"model: test/model",
		"generator: stub",
		"export_dir: out",
		"stub_delay: 1.5s",
		"content_type: pillar",
		"history: true",
	} {
		assert.Contains(t, content, field)
	}

	loaded, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "test/model", loaded.Model)
	assert.Equal(t, 1500*time.Millisecond, loaded.StubDelay)
}

func TestWriteProject(t *testing.T) {
	isolate(t)

	cfg := Defaults()
	cfg.Model = "project/model"
	cfg.APIKey = "k"

	require.NoError(t, WriteProject(cfg))

	info, err := os.Stat(ProjectPath())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "project/model", loaded.Model)
	assert.Equal(t, "k", loaded.APIKey)
}
