// Command emailcheck validates email addresses given as arguments or read
// from a file, printing one JSON object per address.
//
//	emailcheck user@example.com
//	emailcheck --no-mx -f addresses.txt
//	emailcheck -c emailcheck.toml --nameserver 1.1.1.1 user@example.com
//
// The exit status is 0 if every address is valid, 2 if any is not and 1 on
// usage or configuration errors.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/alexflint/go-arg"
	"github.com/pkg/errors"

	"github.com/optimode/emailcheck"
)

type args struct {
	Emails      []string       `arg:"positional" help:"addresses to validate"`
	File        string         `arg:"-f,--file" help:"read addresses from file, one per line (- for stdin)"`
	Config      string         `arg:"-c,--config" help:"TOML configuration file"`
	NoRegexp    bool           `arg:"--no-regexp" help:"skip the pattern check"`
	NoTLD       bool           `arg:"--no-tld" help:"skip the top level domain check"`
	NoMX        bool           `arg:"--no-mx" help:"skip the MX lookup"`
	Timeout     time.Duration  `arg:"--timeout" help:"MX lookup timeout per attempt [default: 250ms]"`
	MaxAttempts *int           `arg:"--max-attempts" help:"MX lookup attempt limit [default: 2]"`
	Nameservers []string       `arg:"--nameserver,separate" help:"query this nameserver directly (repeatable)"`
	TLDFile     string         `arg:"--tld-file" help:"IANA TLD list to use instead of the embedded one"`
	Workers     int            `arg:"-w,--workers" help:"concurrent validations [default: 5]"`
	CacheTTL    *time.Duration `arg:"--cache-ttl" help:"cache MX answers for this long, 0 disables [default: 5m]"`
	Verbose     bool           `arg:"-v,--verbose" help:"log each address"`
}

func (args) Description() string {
	return "Validates email addresses by pattern, top level domain and MX records."
}

// output is the JSON line printed per address.
type output struct {
	Email  string                   `json:"email"`
	Valid  bool                     `json:"valid"`
	Kind   emailcheck.Kind          `json:"kind,omitempty"`
	Error  string                   `json:"error,omitempty"`
	Hint   string                   `json:"suggestion,omitempty"`
	Checks []emailcheck.CheckResult `json:"checks"`
}

const (
	exitOK      = 0
	exitError   = 1
	exitInvalid = 2
)

func main() {
	var a args
	p := arg.MustParse(&a)
	if len(a.Emails) == 0 && a.File == "" {
		p.Fail("give addresses as arguments or with --file")
	}

	level := slog.LevelInfo
	if a.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	code, err := run(ctx, a, os.Stdin, os.Stdout, logger)
	if err != nil {
		logger.Error("emailcheck failed", "error", err)
	}
	stop()
	os.Exit(code)
}

func run(ctx context.Context, a args, stdin io.Reader, stdout io.Writer, logger *slog.Logger) (int, error) {
	cfg, err := loadConfig(a.Config)
	if err != nil {
		return exitError, err
	}
	cfg.applyArgs(a)

	v, err := buildValidator(cfg)
	if err != nil {
		return exitError, err
	}

	emails := a.Emails
	if a.File != "" {
		fromFile, err := readAddresses(a.File, stdin)
		if err != nil {
			return exitError, err
		}
		emails = append(emails, fromFile...)
	}

	logger.Debug("validating", "addresses", len(emails), "checks", fmt.Sprintf("%+v", cfg.Checks),
		"timeout", cfg.MX.Timeout, "max_attempts", cfg.MX.MaxAttempts)

	start := time.Now()
	results, err := v.ValidateMany(ctx, emails, cfg.Checks, emailcheck.ConcurrencyOptions{Workers: cfg.Workers})
	if err != nil {
		return exitError, err
	}

	enc := json.NewEncoder(stdout)
	invalid := 0
	for _, r := range results {
		out := output{Email: r.Email, Valid: r.Valid, Checks: r.Checks}
		var verr *emailcheck.ValidationError
		if errors.As(r.Err(), &verr) {
			out.Kind = verr.Kind
			out.Error = verr.Message
			invalid++
			if c, ok := r.CheckFor(emailcheck.LevelTLD); ok {
				out.Hint = c.Suggestion
			}
		}
		logger.Debug("validated", "email", redactEmail(r.Email), "valid", r.Valid, "kind", out.Kind)
		if err := enc.Encode(out); err != nil {
			return exitError, errors.Wrap(err, "writing result")
		}
	}

	logger.Info("done", "total", len(results), "invalid", invalid, "elapsed", time.Since(start).Round(time.Millisecond))

	if invalid > 0 {
		return exitInvalid, nil
	}
	return exitOK, nil
}

// readAddresses reads one address per line; blank lines and # comments
// are skipped. A path of "-" reads stdin.
func readAddresses(path string, stdin io.Reader) ([]string, error) {
	r := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, errors.Wrap(err, "opening address file")
		}
		defer f.Close()
		r = f
	}

	var out []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "reading addresses")
	}
	return out, nil
}
