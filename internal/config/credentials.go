package config

// Credentials holds the storefront login used by the session bootstrap
type Credentials struct {
	Username string
	Password string
}

// LoadCredentials loads the login from environment variables. Both default to
// the empty string; a bad login surfaces as a failed bootstrap, not here.
func LoadCredentials(getenv func(string) string) Credentials {
	return Credentials{
		Username: getenv("USER_NAME"),
		Password: getenv("PASSWORD"),
	}
}
