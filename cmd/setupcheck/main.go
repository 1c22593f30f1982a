// Command setupcheck verifies the local environment before first run: it
// reports missing required settings and placeholder values left over from
// the example configuration.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

var requiredVars = []string{
	"APP_OAUTH_CLIENT_ID",
	"APP_OAUTH_CLIENT_SECRET",
	"APP_SESSION_SECRET",
	"APP_STORAGE_BUCKET",
}

// One of these is enough to reach the database.
var dbVars = []string{
	"APP_DB_DSN",
	"APP_DB_HOST",
}

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Println("note: no .env file found, checking the process environment only")
	}

	problems := checkEnv(os.Getenv)

	if len(problems) == 0 {
		fmt.Println("setup check passed: all required configuration is present")
		return
	}

	fmt.Printf("setup check found %d problem(s):\n", len(problems))
	for _, p := range problems {
		fmt.Println("  - " + p)
	}
	os.Exit(1)
}

func checkEnv(getenv func(string) string) []string {
	var problems []string

	for _, key := range requiredVars {
		value := getenv(key)
		switch {
		case value == "":
			problems = append(problems, key+" is not set")
		case isPlaceholder(value):
			problems = append(problems, key+" still has a placeholder value")
		}
	}

	dbConfigured := false
	for _, key := range dbVars {
		if v := getenv(key); v != "" && !isPlaceholder(v) {
			dbConfigured = true
			break
		}
	}
	if !dbConfigured {
		problems = append(problems, "database is not configured: set APP_DB_DSN or the APP_DB_* variables")
	}

	if secret := getenv("APP_SESSION_SECRET"); secret != "" && len(secret) < 32 {
		problems = append(problems, fmt.Sprintf("APP_SESSION_SECRET must be at least 32 characters (got %d)", len(secret)))
	}

	return problems
}

// isPlaceholder catches values copied straight from the example env file.
func isPlaceholder(value string) bool {
	return strings.HasPrefix(strings.ToLower(value), "your_")
}
