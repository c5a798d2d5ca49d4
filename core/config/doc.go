// Package config provides type-safe environment variable loading with caching
// using Go generics. Each configuration type is loaded once and cached for
// subsequent calls.
//
// The package automatically loads .env files on first use and uses the
// caarlos0/env library for parsing environment variables into struct fields.
//
// Basic usage:
//
//	import "github.com/dmitrymomot/smtpmail/core/config"
//
//	type MailerConfig struct {
//		Host     string `env:"SMTP_HOST" yaml:"host"`
//		Port     int    `env:"SMTP_PORT" envDefault:"587" yaml:"port"`
//		Username string `env:"SMTP_USERNAME" yaml:"username"`
//	}
//
//	func main() {
//		var cfg MailerConfig
//
//		// Load with error handling
//		if err := config.Load(&cfg); err != nil {
//			log.Fatal(err)
//		}
//
//		// Or panic on failure (useful for startup)
//		config.MustLoad(&cfg)
//	}
//
// # Caching Behavior
//
// Each configuration type is loaded only once per application lifetime:
//
//	var cfg1 MailerConfig
//	config.Load(&cfg1) // Loads from environment
//
//	var cfg2 MailerConfig
//	config.Load(&cfg2) // Returns cached value, cfg1 == cfg2
//
// # YAML Files
//
// LoadFile uses a YAML file as the base layer; environment variables that
// are set override it. Results of LoadFile are not cached:
//
//	var cfg MailerConfig
//	if err := config.LoadFile("mailer.yaml", &cfg); err != nil {
//		log.Fatal(err)
//	}
package config
