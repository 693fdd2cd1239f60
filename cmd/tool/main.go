// Command tool holds operator helpers: minting access tokens for load tests,
// reporting daily signups and removing accounts from the user collection.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	zlog "github.com/rs/zerolog/log"

	"github.com/baechuer/credential-service/internal/config"
	"github.com/baechuer/credential-service/internal/domain"
	"github.com/baechuer/credential-service/internal/infrastructure/db/mongo"
	"github.com/baechuer/credential-service/internal/infrastructure/security"
	"github.com/baechuer/credential-service/internal/logger"
)

const usage = `usage:
  tool tokens  [-n 1000] [-out tests/load/tokens.csv]
  tool signups [-days 30]
  tool delete-user -id <hex>`

func main() {
	logger.Init()
	if err := config.LoadDotEnv(); err != nil {
		zlog.Warn().Err(err).Msg("ignoring unreadable .env")
	}

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "tokens":
		err = runTokens(os.Args[2:])
	case "signups":
		err = runSignups(os.Args[2:], os.Stdout)
	case "delete-user":
		err = runDeleteUser(os.Args[2:], os.Stdout)
	default:
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		zlog.Error().Err(err).Str("cmd", os.Args[1]).Msg("tool failed")
		os.Exit(1)
	}
}

func runTokens(args []string) error {
	fs := flag.NewFlagSet("tokens", flag.ContinueOnError)
	n := fs.Int("n", 1000, "number of tokens")
	out := fs.String("out", "tests/load/tokens.csv", "output file, - for stdout")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	issuer, err := security.NewJWTIssuer(cfg.JWTSecret, cfg.JWTIssuer, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	if err != nil {
		return err
	}

	var w io.Writer = os.Stdout
	if *out != "-" {
		f, err := os.Create(*out)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	if err := mintTokens(w, issuer, *n); err != nil {
		return err
	}
	zlog.Info().Int("count", *n).Str("out", *out).Msg("tokens written")
	return nil
}

// mintTokens writes n access tokens, one per line, each for a fresh subject.
func mintTokens(w io.Writer, issuer *security.JWTIssuer, n int) error {
	bw := bufio.NewWriter(w)
	for i := 0; i < n; i++ {
		tok, err := issuer.IssueAccessToken(uuid.NewString())
		if err != nil {
			return err
		}
		if _, err := bw.WriteString(tok.Token + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func runSignups(args []string, w io.Writer) error {
	fs := flag.NewFlagSet("signups", flag.ContinueOnError)
	days := fs.Int("days", 30, "look-back window in days")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *days <= 0 {
		return fmt.Errorf("days must be positive, got %d", *days)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, closeStore, err := openUserStore(ctx, "signups")
	if err != nil {
		return err
	}
	defer closeStore()

	rows, err := store.SignupsPerDay(ctx, time.Now().AddDate(0, 0, -*days))
	if err != nil {
		return err
	}
	return writeSignups(w, rows)
}

func openUserStore(ctx context.Context, cmd string) (*mongo.UserStore, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if cfg.StoreDriver != config.StoreMongo {
		return nil, nil, fmt.Errorf("%s needs STORE_DRIVER=%s", cmd, config.StoreMongo)
	}

	client, db, err := config.NewMongo(ctx, cfg.Mongo)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() { _ = client.Disconnect(context.Background()) }
	return mongo.NewUserStore(db, logger.Logger), closeFn, nil
}

func runDeleteUser(args []string, w io.Writer) error {
	fs := flag.NewFlagSet("delete-user", flag.ContinueOnError)
	id := fs.String("id", "", "user id (hex ObjectID)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		return fmt.Errorf("delete-user needs -id")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, closeStore, err := openUserStore(ctx, "delete-user")
	if err != nil {
		return err
	}
	defer closeStore()

	return deleteUser(ctx, store, *id, w)
}

type userDeleter interface {
	DeleteByID(ctx context.Context, id string) (domain.User, bool, error)
}

func deleteUser(ctx context.Context, store userDeleter, id string, w io.Writer) error {
	u, found, err := store.DeleteByID(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("user %s not found", id)
	}
	zlog.Info().Str("user_id", u.Hex()).Msg("user deleted")
	_, err = fmt.Fprintf(w, "deleted\t%s\t%s\n", u.Hex(), u.Email)
	return err
}

func writeSignups(w io.Writer, rows []mongo.DailySignups) error {
	var total int64
	for _, r := range rows {
		if _, err := fmt.Fprintf(w, "%s\t%d\n", r.Day, r.Count); err != nil {
			return err
		}
		total += r.Count
	}
	_, err := fmt.Fprintf(w, "total\t%d\n", total)
	return err
}
