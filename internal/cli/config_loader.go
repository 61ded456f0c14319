// filepath: internal/cli/config_loader.go
package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"lanupload/internal/config"
	"lanupload/internal/logging"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	envPrefix         = "LANUPLOAD"
	defaultConfigPath = "config.toml"
)

var (
	// Global config object populated by flags/env/file
	cfg *config.Config

	// Flags variables
	cfgFile      string
	logLevel     string
	host         string
	port         int
	storageRoot  string
	maxFileSize  string
	maxTotalSize string
	publicHost   string
	auditEnabled bool
	noAnnounce   bool
)

func registerFlags(cmd *cobra.Command) {
	addGlobalFlags(cmd.PersistentFlags())
	addServerFlags(cmd.Flags())
}

// addGlobalFlags defines flags that can be used for each command.
func addGlobalFlags(flags *pflag.FlagSet) {
	flags.StringVar(&cfgFile, "config_path", defaultConfigPath, "Path to the base configuration file. (Env: LANUPLOAD_CONFIG_PATH)")
	flags.StringVar(&logLevel, "log-level", "", "Logging level (debug, info, warn, error). (Env: LANUPLOAD_LOG_LEVEL)")
}

func addServerFlags(flags *pflag.FlagSet) {
	flags.StringVar(&host, "host", "", "Address to bind. (Env: LANUPLOAD_HOST)")
	flags.IntVar(&port, "port", 0, "Port for the HTTP server. (Env: LANUPLOAD_PORT)")
	flags.StringVar(&storageRoot, "storage-root", "", "Directory uploads are written to. (Env: LANUPLOAD_STORAGE_ROOT)")
	flags.StringVar(&maxFileSize, "max-file-size", "", "Largest accepted file (e.g. '2GB'). (Env: LANUPLOAD_MAX_FILE_SIZE)")
	flags.StringVar(&maxTotalSize, "max-total-size", "", "Largest accepted request payload (e.g. '10GB'). (Env: LANUPLOAD_MAX_TOTAL_SIZE)")
	flags.StringVar(&publicHost, "public-host", "", "Host name shown in the announced URL. (Env: LANUPLOAD_PUBLIC_HOST)")
	flags.BoolVar(&auditEnabled, "audit-enabled", false, "Enable detailed audit logging. (Env: LANUPLOAD_AUDIT_ENABLED=true)")
	flags.BoolVar(&noAnnounce, "no-announce", false, "Do not print the URL banner and QR code. (Env: LANUPLOAD_NO_ANNOUNCE=true)")
}

// newEnv reads LANUPLOAD_* variables; keys use underscores, e.g. "s3_bucket".
func newEnv() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	return v
}

// initializeConfig loads and overrides configuration values.
func initializeConfig(cmd *cobra.Command) error {
	env := newEnv()

	// 1. Check environment variable for config path first
	if envPath := env.GetString("config_path"); envPath != "" && cfgFile == defaultConfigPath {
		cfgFile = envPath
	}

	var err error
	cfg, err = config.LoadConfig(cfgFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg = config.Default()
		} else {
			return fmt.Errorf("failed to load configuration from %s: %w", cfgFile, err)
		}
	}

	// 2. Apply Overrides (Env Vars and CLI Flags)
	applyOverrides(cfg, cmd, env)

	// 3. Validate
	if err := cfg.ParseAndValidate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// 4. Initialize Logging
	logging.Init(cfg.Logging.Level)

	return nil
}

func applyOverrides(c *config.Config, cmd *cobra.Command, env *viper.Viper) {
	setString := func(key string, dst *string) {
		if v := env.GetString(key); v != "" {
			*dst = v
		}
	}

	// --- Environment Variables ---
	setString("host", &c.Server.Host)
	if p := env.GetInt("port"); p != 0 {
		c.Server.Port = p
	}
	setString("log_level", &c.Logging.Level)
	setString("max_file_size", &c.Server.MaxFileSize)
	setString("max_total_size", &c.Server.MaxTotalSize)
	setString("max_memory_size", &c.Server.MaxMemorySize)
	setString("storage_backend", &c.Storage.Backend)
	setString("storage_root", &c.Storage.Root)
	setString("temp_dir", &c.Storage.TempDir)
	setString("s3_bucket", &c.Storage.S3.Bucket)
	setString("s3_region", &c.Storage.S3.Region)
	setString("s3_endpoint", &c.Storage.S3.Endpoint)
	setString("s3_access_key", &c.Storage.S3.AccessKey)
	setString("s3_secret_key", &c.Storage.S3.SecretKey)
	setString("s3_prefix", &c.Storage.S3.Prefix)
	setString("public_host", &c.Announce.PublicHost)
	if env.IsSet("audit_enabled") {
		c.Logging.AuditEnabled = env.GetBool("audit_enabled")
	}
	if env.GetBool("no_announce") {
		c.Announce.Enabled = false
	}

	// --- CLI Flags ---
	if host != "" {
		c.Server.Host = host
	}
	if port != 0 {
		c.Server.Port = port
	}
	if logLevel != "" {
		c.Logging.Level = logLevel
	}
	if storageRoot != "" {
		c.Storage.Root = storageRoot
	}
	if maxFileSize != "" {
		c.Server.MaxFileSize = maxFileSize
	}
	if maxTotalSize != "" {
		c.Server.MaxTotalSize = maxTotalSize
	}
	if publicHost != "" {
		c.Announce.PublicHost = publicHost
	}
	if cmd.Flags().Changed("audit-enabled") {
		c.Logging.AuditEnabled = auditEnabled
	}
	if noAnnounce {
		c.Announce.Enabled = false
	}
}
