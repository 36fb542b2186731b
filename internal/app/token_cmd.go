package app

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/hitoshi/shopapi/internal/token"
)

// runToken は指定ユーザーのBearerクレデンシャルを発行し、wに1行で出力する。
//
//	shopapi token -user <id> [-ttl 1h]
func runToken(w io.Writer, args []string, secret string) error {
	fs := flag.NewFlagSet("token", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	userID := fs.String("user", "", "subject user ID (required)")
	ttl := fs.Duration("ttl", time.Hour, "credential lifetime")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("invalid token arguments: %w", err)
	}

	if *userID == "" {
		return errors.New("token: -user is required")
	}

	signed, err := token.NewManager(secret).Issue(*userID, *ttl)
	if err != nil {
		return fmt.Errorf("failed to issue token: %w", err)
	}

	_, err = fmt.Fprintln(w, signed)
	return err
}
