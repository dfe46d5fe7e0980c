// Package config loads the CLI demonstrator's PostgreSQL connection
// settings: the analyzer needs a live connection for both the catalog
// loader and the probe, and this is how the rest of the codebase gets such
// settings off disk/env.
package config

import "fmt"

// Database holds the connection settings for the PostgreSQL instance the
// analyzer probes against.
type Database struct {
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`
	Name     string `koanf:"dbname"`
	SSLMode  string `koanf:"sslmode"`
}

// Config is the top-level configuration document.
type Config struct {
	Database Database `koanf:"database"`
}

// DSN renders d as a libpq connection string suitable for pgx.Connect.
func (d Database) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}
