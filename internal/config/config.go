package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// The three secrets come from the environment of whatever triggers the run,
// they are never read from files committed next to the code.
const (
	EnvUserEmail    = "DIGI1_USER_EMAIL"
	EnvUserPassword = "DIGI1_USER_PASSWORD"
	EnvPathSecret   = "PATH_SECRET"
)

type Config struct {
	UserEmail    string
	UserPassword string
	PathSecret   string
}

// Load reads the configuration from the environment, picking up an optional
// .env file for local development first.
func Load() (Config, error) {
	godotenv.Load()

	c := Config{
		UserEmail:    os.Getenv(EnvUserEmail),
		UserPassword: os.Getenv(EnvUserPassword),
		PathSecret:   os.Getenv(EnvPathSecret),
	}
	return c, c.Check()
}

func (c Config) Check() error {
	missing := make([]string, 0)
	if len(c.UserEmail) == 0 {
		missing = append(missing, EnvUserEmail)
	}
	if len(c.UserPassword) == 0 {
		missing = append(missing, EnvUserPassword)
	}
	if len(c.PathSecret) == 0 {
		missing = append(missing, EnvPathSecret)
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing environment variables: %s", strings.Join(missing, ", "))
	}
	return nil
}
