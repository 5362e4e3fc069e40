// Command jwtctl encodes, verifies and inspects HMAC-signed tokens from the
// command line. The key and issuer settings come from the JWT_* environment
// variables, optionally loaded from a .env file.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	jwt "github.com/cybergodev/hsjwt"
	"github.com/cybergodev/hsjwt/internal/logattr"
)

const usage = `usage: jwtctl <command> [flags] [token]

commands:
  encode    sign claims (JSON from -claims or stdin)
  decode    verify a token and print its header and claims
  inspect   print a token's header and claims WITHOUT verifying it
`

var errUsage = errors.New("invalid usage")

func main() {
	ctx := context.Background()
	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if err != errUsage && !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "jwtctl: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return errUsage
	}

	log := newLogger(stderr, os.Getenv("JWTCTL_LOG_LEVEL"))

	cmd, args := args[0], args[1:]
	switch cmd {
	case "encode":
		return runEncode(ctx, log, args, stdin, stdout, stderr)
	case "decode":
		return runDecode(ctx, log, args, stdin, stdout, stderr)
	case "inspect":
		return runInspect(ctx, log, args, stdin, stdout, stderr)
	case "help", "-h", "-help", "--help":
		fmt.Fprint(stdout, usage)
		return nil
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n%s", cmd, usage)
		return errUsage
	}
}

func newLogger(w io.Writer, level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}

func runEncode(ctx context.Context, log *slog.Logger, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("encode", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		envFile = fs.String("env", ".env", "dotenv file to load before reading JWT_* variables")
		claims  = fs.String("claims", "", "claims as a JSON object; read from stdin when empty")
		alg     = fs.String("alg", "", "signing method, overrides JWT_SIGNING_METHOD")
		raw     = fs.Bool("raw", false, "sign the claims exactly as given, without iss/iat/exp/jti stamping or key strength checks")
		refresh = fs.Bool("refresh", false, "issue a refresh token instead of an access token")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := jwt.LoadConfig(*envFile)
	if err != nil {
		return err
	}
	if *alg != "" {
		cfg.SigningMethod = jwt.SigningMethod(*alg)
	}
	cfg.Logger = log

	input := *claims
	if input == "" {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return fmt.Errorf("failed to read claims: %w", err)
		}
		input = string(b)
	}

	var set jwt.ClaimSet
	if err := json.Unmarshal([]byte(strings.TrimSpace(input)), &set); err != nil {
		return fmt.Errorf("failed to parse claims: %w", err)
	}

	var token string
	if *raw {
		token, err = jwt.EncodeWithMethod(set, []byte(cfg.SecretKey), cfg.SigningMethod)
	} else {
		token, err = issue(cfg, set, *refresh)
	}
	if err != nil {
		return err
	}

	log.DebugContext(ctx, "token encoded", logattr.Algorithm(string(cfg.SigningMethod)))
	_, err = fmt.Fprintln(stdout, token)
	return err
}

func issue(cfg jwt.Config, claims jwt.ClaimSet, refresh bool) (string, error) {
	p, err := jwt.NewFromConfig(cfg)
	if err != nil {
		return "", err
	}
	defer p.Close()

	if refresh {
		return p.IssueRefresh(claims)
	}
	return p.Issue(claims)
}

func runDecode(ctx context.Context, log *slog.Logger, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("decode", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		envFile = fs.String("env", ".env", "dotenv file to load before reading JWT_* variables")
		iss     = fs.String("iss", "", "required issuer")
		aud     = fs.String("aud", "", "required audience")
		noExp   = fs.Bool("no-exp", false, "skip the expiration check")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := jwt.LoadConfig(*envFile)
	if err != nil {
		return err
	}

	token, err := readToken(fs.Args(), stdin)
	if err != nil {
		return err
	}

	opts := []jwt.ParserOption{jwt.WithLeeway(cfg.Leeway)}
	if *iss != "" {
		opts = append(opts, jwt.WithIssuer(*iss))
	}
	if *aud != "" {
		opts = append(opts, jwt.WithAudience(*aud))
	}
	if *noExp {
		opts = append(opts, jwt.WithoutExpirationCheck())
	}

	tok, err := jwt.Decode(token, []byte(cfg.SecretKey), opts...)
	if err != nil {
		log.DebugContext(ctx, "token rejected", logattr.Error(err))
		return err
	}
	return printToken(stdout, tok.Header, tok.Claims)
}

func runInspect(ctx context.Context, log *slog.Logger, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("inspect", flag.ContinueOnError)
	fs.SetOutput(stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}

	token, err := readToken(fs.Args(), stdin)
	if err != nil {
		return err
	}

	tok, err := jwt.DecodeUnverified(token, jwt.WithoutExpirationCheck(), jwt.WithoutNotBeforeCheck())
	if err != nil {
		log.DebugContext(ctx, "token rejected", logattr.Error(err))
		return err
	}

	fmt.Fprintln(stderr, "WARNING: signature NOT verified; do not trust these claims")
	return printToken(stdout, tok.Header, tok.Claims)
}

func readToken(args []string, stdin io.Reader) (string, error) {
	if len(args) > 1 {
		return "", fmt.Errorf("%w: expected one token, got %d arguments", errUsage, len(args))
	}
	if len(args) == 1 {
		return strings.TrimSpace(args[0]), nil
	}

	line, err := bufio.NewReader(stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read token: %w", err)
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return "", fmt.Errorf("%w: no token given", errUsage)
	}
	return line, nil
}

func printToken(w io.Writer, header jwt.Header, claims jwt.ClaimSet) error {
	out := struct {
		Header jwt.Header   `json:"header"`
		Claims jwt.ClaimSet `json:"claims"`
	}{header, claims}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
