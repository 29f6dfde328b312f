// Package config provides configuration loading and validation for
// chatbridge.
//
// Configuration is read from a YAML file, filled in with defaults,
// optionally overridden from CHATBRIDGE_* environment variables, and
// validated before use. The resulting Config is immutable for the
// lifetime of the process; changing provider settings requires a restart.
//
// Example:
//
//	cfg, err := config.LoadConfigWithEnvOverrides("chatbridge.yaml")
//	if err != nil {
//		log.Fatal(err)
//	}
package config
