// filepath: internal/cli/root_test.go
package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"lanupload/internal/config"
	"mime/multipart"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper to reset the global config and flags between tests
func resetGlobals() {
	cfg = nil
	cfgFile = defaultConfigPath
	logLevel = ""
	host = ""
	port = 0
	storageRoot = ""
	maxFileSize = ""
	maxTotalSize = ""
	publicHost = ""
	auditEnabled = false
	noAnnounce = false
}

func TestConfigPrecedence(t *testing.T) {
	// RootCmd.Execute() would start the server, so the loading logic is
	// exercised through initializeConfig directly.

	t.Run("Defaults", func(t *testing.T) {
		resetGlobals()
		cfgFile = filepath.Join(t.TempDir(), "nonexistent.toml")

		err := initializeConfig(&cobra.Command{})
		require.NoError(t, err)

		assert.Equal(t, 8000, cfg.Server.Port)
		assert.Equal(t, "0.0.0.0", cfg.Server.Host)
		assert.Equal(t, "info", cfg.Logging.Level)
		assert.Equal(t, int64(10<<30), cfg.Limits.MaxTotalBytes)
		assert.True(t, cfg.Announce.Enabled)
	})

	t.Run("Environment Overrides Defaults", func(t *testing.T) {
		resetGlobals()
		cfgFile = filepath.Join(t.TempDir(), "nonexistent.toml")
		t.Setenv("LANUPLOAD_PORT", "9090")
		t.Setenv("LANUPLOAD_LOG_LEVEL", "warn")
		t.Setenv("LANUPLOAD_MAX_FILE_SIZE", "1MB")
		t.Setenv("LANUPLOAD_NO_ANNOUNCE", "true")

		err := initializeConfig(&cobra.Command{})
		require.NoError(t, err)

		assert.Equal(t, 9090, cfg.Server.Port)
		assert.Equal(t, "warn", cfg.Logging.Level)
		assert.Equal(t, int64(1<<20), cfg.Limits.MaxFileBytes)
		assert.False(t, cfg.Announce.Enabled)
	})

	t.Run("Flags Override Environment", func(t *testing.T) {
		resetGlobals()
		cfgFile = filepath.Join(t.TempDir(), "nonexistent.toml")
		t.Setenv("LANUPLOAD_PORT", "9090")

		port = 7070

		err := initializeConfig(&cobra.Command{})
		require.NoError(t, err)

		assert.Equal(t, 7070, cfg.Server.Port)
	})

	t.Run("Config File Loading", func(t *testing.T) {
		resetGlobals()

		content := []byte(`
[server]
port = 6060
max_file_size = "5MB"
max_total_size = "6MB"
[logging]
level = "error"
`)
		tmpFile := filepath.Join(t.TempDir(), "test_config.toml")
		require.NoError(t, os.WriteFile(tmpFile, content, 0644))
		t.Setenv("LANUPLOAD_CONFIG_PATH", tmpFile)

		err := initializeConfig(&cobra.Command{})
		require.NoError(t, err)

		assert.Equal(t, 6060, cfg.Server.Port)
		assert.Equal(t, "error", cfg.Logging.Level)
		assert.Equal(t, int64(5<<20), cfg.Limits.MaxFileBytes)
		assert.Equal(t, int64(6<<20), cfg.Limits.MaxTotalBytes)
	})

	t.Run("Invalid Limits", func(t *testing.T) {
		resetGlobals()
		cfgFile = filepath.Join(t.TempDir(), "nonexistent.toml")
		maxFileSize = "2GB"
		maxTotalSize = "1GB"

		err := initializeConfig(&cobra.Command{})
		assert.Error(t, err)
	})

	t.Run("Broken Config File", func(t *testing.T) {
		resetGlobals()
		tmpFile := filepath.Join(t.TempDir(), "broken.toml")
		require.NoError(t, os.WriteFile(tmpFile, []byte("[server\nport = "), 0644))
		cfgFile = tmpFile

		err := initializeConfig(&cobra.Command{})
		assert.ErrorContains(t, err, "failed to load configuration")
	})
}

func TestApplyOverrides(t *testing.T) {
	resetGlobals()
	defer resetGlobals()
	c := config.Default()

	// registerFlags resets the bound variables to their defaults.
	cmd := &cobra.Command{}
	registerFlags(cmd)
	require.NoError(t, cmd.Flags().Set("audit-enabled", "true"))

	port = 9999
	logLevel = "debug"
	storageRoot = "/srv/drop"

	applyOverrides(c, cmd, newEnv())

	assert.Equal(t, 9999, c.Server.Port)
	assert.Equal(t, "debug", c.Logging.Level)
	assert.Equal(t, "/srv/drop", c.Storage.Root)
	assert.True(t, c.Logging.AuditEnabled)
}

func TestApplyOverrides_S3FromEnvironment(t *testing.T) {
	resetGlobals()
	t.Setenv("LANUPLOAD_STORAGE_BACKEND", "s3")
	t.Setenv("LANUPLOAD_S3_BUCKET", "drops")
	t.Setenv("LANUPLOAD_S3_ENDPOINT", "http://minio:9000")

	c := config.Default()
	applyOverrides(c, &cobra.Command{}, newEnv())

	assert.Equal(t, config.BackendS3, c.Storage.Backend)
	assert.Equal(t, "drops", c.Storage.S3.Bucket)
	assert.Equal(t, "http://minio:9000", c.Storage.S3.Endpoint)
	require.NoError(t, c.ParseAndValidate())
}

func TestInitConfigCommand(t *testing.T) {
	resetGlobals()
	defer resetGlobals()
	cfgFile = filepath.Join(t.TempDir(), "config.toml")

	var out bytes.Buffer
	initConfigCmd.SetOut(&out)
	require.NoError(t, initConfigCmd.RunE(initConfigCmd, nil))
	assert.Contains(t, out.String(), cfgFile)

	loaded, err := config.LoadConfig(cfgFile)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), loaded)

	err = initConfigCmd.RunE(initConfigCmd, nil)
	assert.ErrorContains(t, err, "already exists")
}

func TestServe(t *testing.T) {
	root := t.TempDir()
	c := config.Default()
	c.Storage.Root = root
	c.Storage.TempDir = t.TempDir()
	c.Server.MaxFileSize = "1KB"
	c.Server.MaxTotalSize = "2KB"
	c.Announce.Enabled = false
	require.NoError(t, c.ParseAndValidate())

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	baseURL := fmt.Sprintf("http://%s", ln.Addr())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serve(ctx, c, ln, io.Discard) }()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", "hello.txt")
	require.NoError(t, err)
	_, err = part.Write([]byte("hello lan"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	resp, err := http.Post(baseURL+"/upload", writer.FormDataContentType(), body)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	data, err := os.ReadFile(filepath.Join(root, "hello.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello lan", string(data))

	resp, err = http.Get(baseURL + "/metrics")
	require.NoError(t, err)
	metricsBody, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Contains(t, string(metricsBody), `lanupload_uploads_total{result="stored"} 1`)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestSpillTarget(t *testing.T) {
	target := spillTarget("/var/tmp/lanupload")
	assert.Equal(t, "/var/tmp/lanupload", target.Dir)
	assert.Equal(t, "lanupload-", target.Prefix)
	assert.Equal(t, ".part", target.Suffix)

	assert.Equal(t, os.TempDir(), spillTarget("").Dir)
}
