// Package config manages user-level settings stored at ~/.venvctl/config.yaml.
// Values are layered by Viper: built-in defaults, then the config file (checked
// against an embedded JSON schema), then VENVCTL_* environment variables, then
// flags bound by the CLI. Current returns the merged result as a typed Config.
package config
