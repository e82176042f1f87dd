package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/HerbHall/curvefit/internal/auth"
	"github.com/HerbHall/curvefit/internal/server"
)

// runToken prints a signed access token for -subject using auth.jwt_secret.
func runToken(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("token", flag.ContinueOnError)
	fs.SetOutput(stderr)
	subject := fs.String("subject", "", "token subject (required)")
	ttl := fs.Duration("ttl", 0, "token lifetime (default auth.access_token_ttl)")
	configPath := fs.String("config", "", "path to configuration file")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *subject == "" {
		fmt.Fprintln(stderr, "token: -subject is required")
		return 2
	}

	v, err := server.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "token: load configuration: %v\n", err)
		return 1
	}
	secret := v.GetString("auth.jwt_secret")
	if secret == "" {
		fmt.Fprintln(stderr, "token: auth.jwt_secret is not configured (set CF_AUTH_JWT_SECRET)")
		return 1
	}

	tokens := auth.NewTokenService([]byte(secret), v.GetDuration("auth.access_token_ttl"))
	token, err := tokens.IssueAccessToken(*subject, *ttl)
	if err != nil {
		fmt.Fprintf(stderr, "token: %v\n", err)
		return 1
	}
	fmt.Fprintln(stdout, token)
	return 0
}
