// Command tokengen mints a development access token for a user id, signed
// with the server's secret. It reads the same configuration as the server.
//
//	tokengen -u 6f1c1d5e-4d0b-4a57-9d7c-3b1f0f7e2a11 -s secretKey -t 1440
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/dmitrijs2005/gophnotes/internal/flagx"
	"github.com/dmitrijs2005/gophnotes/internal/server/auth"
	"github.com/dmitrijs2005/gophnotes/internal/server/config"
	"github.com/google/uuid"
)

func main() {
	cfg := config.LoadConfig()

	var userID string
	fs := flag.NewFlagSet("tokengen", flag.ExitOnError)
	fs.StringVar(&userID, "u", "", "user id (a random one is generated when empty)")
	_ = fs.Parse(flagx.FilterArgs(os.Args[1:], []string{"-u"}))

	if userID == "" {
		userID = uuid.NewString()
	}

	token, err := auth.GenerateToken(userID, []byte(cfg.SecretKey), cfg.AccessTokenValidityDuration)
	if err != nil {
		log.Fatalf("generate token: %v", err)
	}

	fmt.Fprintf(os.Stderr, "user id: %s\n", userID)
	fmt.Println(token)
}
