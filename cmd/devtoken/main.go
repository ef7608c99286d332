// Command devtoken mints a bearer token for local development.
//
// It signs with JWT_SECRET exactly like the API does, so the token is accepted by a locally
// running server as long as the user id exists in its store:
//
//	go run ./cmd/devtoken --user 0190c6a4-... --ttl 15m
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/Overland-East-Bay/trip-journal-api/internal/domain"
	"github.com/Overland-East-Bay/trip-journal-api/internal/platform/auth/tokencodec"
	"github.com/Overland-East-Bay/trip-journal-api/internal/platform/auth/tokenissuer"
	"github.com/Overland-East-Bay/trip-journal-api/internal/platform/config"
)

func main() {
	app := &cli.App{
		Name:  "devtoken",
		Usage: "mint an access token for a local user",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "user",
				Aliases:  []string{"u"},
				Usage:    "user id to place in the token subject",
				Required: true,
			},
			&cli.DurationFlag{
				Name:  "ttl",
				Usage: "token lifetime; defaults to JWT_ACCESS_TTL",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "print token metadata as JSON",
			},
		},
		Action: mint,
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func mint(c *cli.Context) error {
	_ = godotenv.Load()

	jwtCfg, err := config.LoadJWTConfigFromEnv()
	if err != nil {
		return err
	}
	ttl := jwtCfg.AccessTTL
	if c.IsSet("ttl") {
		ttl = c.Duration("ttl")
	}

	issuer := tokenissuer.New(tokencodec.New(jwtCfg.Leeway), jwtCfg.Keys(), ttl)
	tok, err := issuer.Mint(domain.UserID(c.String("user")), time.Now())
	if err != nil {
		return err
	}

	if !c.Bool("json") {
		fmt.Fprintln(c.App.Writer, tok.Value)
		return nil
	}
	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]any{
		"token":      tok.Value,
		"sub":        c.String("user"),
		"issued_at":  tok.IssuedAt,
		"expires_at": tok.ExpiresAt,
	})
}
