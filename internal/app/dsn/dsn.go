package dsn

import (
	"fmt"
	"os"
	"strings"
)

// FromEnv builds a postgres DSN from DB_* variables. Returns "" when DB_HOST is unset.
func FromEnv() string {
	host, ok := os.LookupEnv("DB_HOST")
	if !ok || host == "" {
		return ""
	}
	port := getenv("DB_PORT", "5432")
	user := getenv("DB_USER", "postgres")
	pass := os.Getenv("DB_PASS")
	dbname := getenv("DB_NAME", "order_ledger")
	sslmode := getenv("DB_SSLMODE", "disable")

	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		quote(host), quote(port), quote(user), quote(pass), quote(dbname), quote(sslmode))
}

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

// quote renders a key=value connection string value, single-quoting it when
// it is empty or holds spaces, quotes or backslashes.
func quote(v string) string {
	if v != "" && !strings.ContainsAny(v, " \t\n'\\") {
		return v
	}
	return "'" + quoteEscaper.Replace(v) + "'"
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
