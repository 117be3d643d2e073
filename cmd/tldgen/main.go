// Command tldgen regenerates the embedded top-level-domain list from the
// IANA registry file, either downloaded or read from disk.
//
//	go run ./cmd/tldgen -o tld/tlds.txt
//	go run ./cmd/tldgen -i tlds-alpha-by-domain.txt -o tld/tlds.txt
package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"regexp"
	"time"

	"github.com/alexflint/go-arg"
	"github.com/pkg/errors"
	"golang.org/x/exp/slices"

	"github.com/optimode/emailcheck/tld"
)

type args struct {
	Input   string        `arg:"-i,--input" help:"read the registry from this file instead of downloading it"`
	URL     string        `arg:"--url" default:"https://data.iana.org/TLD/tlds-alpha-by-domain.txt" help:"registry URL"`
	Output  string        `arg:"-o,--output" default:"tlds.txt" help:"file to write"`
	Timeout time.Duration `arg:"--timeout" default:"30s" help:"download timeout"`
}

func main() {
	var a args
	arg.MustParse(&a)
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	n, err := run(context.Background(), a, http.DefaultClient)
	if err != nil {
		logger.Error("tldgen failed", "error", err)
		os.Exit(1)
	}
	logger.Info("wrote TLD list", "entries", n, "output", a.Output)
}

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

func run(ctx context.Context, a args, client httpDoer) (int, error) {
	var src []byte
	var err error
	source := a.URL
	if a.Input != "" {
		source = a.Input
		src, err = os.ReadFile(a.Input)
		if err != nil {
			return 0, errors.Wrap(err, "reading registry")
		}
	} else {
		src, err = download(ctx, client, a.URL, a.Timeout)
		if err != nil {
			return 0, err
		}
	}

	var buf bytes.Buffer
	n, err := generate(bytes.NewReader(src), &buf, source)
	if err != nil {
		return 0, err
	}
	if err := os.WriteFile(a.Output, buf.Bytes(), 0o644); err != nil {
		return 0, errors.Wrap(err, "writing list")
	}
	return n, nil
}

func download(ctx context.Context, client httpDoer, url string, timeout time.Duration) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "building request")
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "downloading %s", url)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("downloading %s: status %d", url, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", url)
	}
	return body, nil
}

var labelRe = regexp.MustCompile(`^[a-z0-9-]+$`)

// generate parses a registry file and writes the lower-cased entries, one
// per line, sorted. It refuses input that does not look like a registry.
func generate(r io.Reader, w io.Writer, source string) (int, error) {
	list, err := tld.Parse(r)
	if err != nil {
		return 0, err
	}
	entries := list.Entries()
	if len(entries) == 0 {
		return 0, errors.New("registry has no entries")
	}
	if i := slices.IndexFunc(entries, func(e string) bool { return !labelRe.MatchString(e) }); i >= 0 {
		return 0, errors.Errorf("registry entry %q is not a domain label", entries[i])
	}

	if _, err := fmt.Fprintf(w, "# Generated by tldgen from %s, %d entries\n", source, len(entries)); err != nil {
		return 0, err
	}
	for _, e := range entries {
		if _, err := fmt.Fprintln(w, e); err != nil {
			return 0, err
		}
	}
	return len(entries), nil
}
