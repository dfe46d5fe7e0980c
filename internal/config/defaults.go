package config

// Default connection settings, used as the confmap layer's base values
// before the config file and environment are applied on top.
const (
	DefaultHost    = "localhost"
	DefaultPort    = 5432
	DefaultSSLMode = "disable"
)

func defaultsMap() map[string]interface{} {
	return map[string]interface{}{
		"database.host":    DefaultHost,
		"database.port":    DefaultPort,
		"database.sslmode": DefaultSSLMode,
	}
}
