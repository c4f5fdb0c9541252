package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"starmap-server/internal/auth"
	"starmap-server/internal/shared/config"
)

func main() {
	subject := flag.String("subject", "admin", "Token subject")
	role := flag.String("role", auth.RoleAdmin, "Token role (admin or reader)")
	ttl := flag.Duration("ttl", 0, "Token lifetime; defaults to JWT_EXPIRATION")
	flag.Parse()

	if err := config.Init(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	cfg := config.GlobalConfig

	lifetime := *ttl
	if lifetime <= 0 {
		lifetime = cfg.Auth.TokenExpiration
	}

	if *role != auth.RoleAdmin && *role != auth.RoleReader {
		fmt.Fprintf(os.Stderr, "unknown role %q\n", *role)
		os.Exit(2)
	}

	token, err := auth.GenerateJWT(*subject, *role, cfg.Auth.JWTSecret, lifetime)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "Token for %s (%s) expires at %s\n", *subject, *role, time.Now().Add(lifetime).Format(time.RFC3339))
	fmt.Println(token)
}
