// Command devtoken prints an admin bearer token signed with the configured
// JWT secret, for calling the admin API against a local server.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/config"
)

func main() {
	var (
		subject string
		role    string
		ttl     time.Duration
	)

	flag.StringVar(&subject, "sub", "local-admin", "Subject claim of the token")
	flag.StringVar(&role, "role", "", "Role claim (default: the configured admin role)")
	flag.DurationVar(&ttl, "ttl", 12*time.Hour, "Token lifetime")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	token, err := issue(cfg.Auth, subject, role, ttl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to sign token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(token)
}

func issue(cfg config.AuthConfig, subject, role string, ttl time.Duration) (string, error) {
	v := auth.NewJWTVerifier(cfg)
	if role == "" {
		role = v.AdminRole()
	}
	return v.Sign(subject, role, ttl)
}
