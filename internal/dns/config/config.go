package config

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// AppConfig holds configuration values parsed from environment variables for
// the embedded DNS server: where it listens, where its zone data and
// intercept overrides live, which upstreams it forwards to, and how it logs.
type AppConfig struct {
	// ListenAddr is the "host:port" the UDP and TCP transports bind to. An
	// empty host (e.g. ":53") binds all interfaces.
	ListenAddr string `koanf:"listen_addr" validate:"required,hostname_port"`

	// Env is the runtime environment, either "dev" or "prod".
	Env string `koanf:"env" validate:"required,oneof=dev prod"`

	// LogLevel controls log verbosity: "debug", "info", "warn", or "error".
	LogLevel string `koanf:"log_level" validate:"required,oneof=debug info warn error"`

	// ZoneDir is the directory zoneresolver loads zone files from.
	ZoneDir string `koanf:"zone_dir" validate:"required"`

	// Servers is the list of upstream DNS servers proxyresolver forwards to,
	// in ip:port form.
	Servers []string `koanf:"servers" validate:"required,dive,ip_port"`

	// InterceptDBPath is the bbolt database backing interceptresolver's
	// per-domain overrides. Empty disables the intercept layer entirely.
	InterceptDBPath string `koanf:"intercept_db_path"`
}

// DEFAULT_APP_CONFIG defines the default application configuration for the
// embedded DNS server.
var DEFAULT_APP_CONFIG = AppConfig{
	ListenAddr:      ":53",
	Env:             "prod",
	LogLevel:        "info",
	ZoneDir:         "/etc/kestrel/zones/",
	Servers:         []string{"1.1.1.1:53", "1.0.0.1:53"},
	InterceptDBPath: "",
}

// validIPPort validates that a field is a "host:port" string with a
// resolvable numeric IP host, used for upstream servers where "any
// interface" makes no sense.
func validIPPort(fl validator.FieldLevel) bool {
	addr := fl.Field().String()
	ip, port, err := net.SplitHostPort(addr)
	if err != nil || ip == "" || port == "" {
		return false
	}
	if net.ParseIP(ip) == nil {
		return false
	}
	portNum, err := strconv.ParseUint(port, 10, 16)
	return err == nil && portNum > 0 && portNum < 65536
}

// validHostnamePort validates a "host:port" string where host may be empty
// (bind-all), used for the server's own listen address.
func validHostnamePort(fl validator.FieldLevel) bool {
	addr := fl.Field().String()
	host, port, err := net.SplitHostPort(addr)
	if err != nil || port == "" {
		return false
	}
	if host != "" && net.ParseIP(host) == nil {
		return false
	}
	portNum, err := strconv.ParseUint(port, 10, 16)
	return err == nil && portNum > 0 && portNum < 65536
}

// envLoader loads environment variables with the prefix "KESTREL_", lower-
// casing keys and splitting comma/space-separated values into slices (so
// KESTREL_SERVERS="1.1.1.1:53,1.0.0.1:53" populates the Servers slice).
var envLoader = func(k *koanf.Koanf) error {
	return k.Load(env.Provider(".", env.Opt{
		Prefix: "KESTREL_",
		TransformFunc: func(key, value string) (string, any) {
			key = strings.ToLower(strings.TrimPrefix(key, "KESTREL_"))
			value = strings.TrimSpace(value)

			if value == "" {
				return key, value
			}

			if strings.Contains(value, " ") || strings.Contains(value, ",") {
				parts := strings.FieldsFunc(value, func(r rune) bool {
					return r == ' ' || r == ','
				})
				return key, parts
			}

			return key, value
		},
	}), nil)
}

// defaultLoader loads DEFAULT_APP_CONFIG into k using the structs provider.
var defaultLoader = func(k *koanf.Koanf) error {
	return k.Load(structs.Provider(DEFAULT_APP_CONFIG, "koanf"), nil)
}

// registerValidation registers this package's custom validation tags.
var registerValidation = func(v *validator.Validate) error {
	if err := v.RegisterValidation("ip_port", validIPPort); err != nil {
		return err
	}
	return v.RegisterValidation("hostname_port", validHostnamePort)
}

// Load parses environment variables into an AppConfig, applying defaults and
// running struct validation.
func Load() (*AppConfig, error) {
	k := koanf.New(".")

	if err := defaultLoader(k); err != nil {
		return nil, fmt.Errorf("error loading default config: %w", err)
	}

	if err := envLoader(k); err != nil {
		return nil, fmt.Errorf("error loading env: %w", err)
	}

	var cfg AppConfig
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := registerValidation(validate); err != nil {
		return nil, fmt.Errorf("error registering validation: %w", err)
	}

	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	return &cfg, nil
}
