// Command zetactl lists, takes and administers Zeta Exams mock tests from a
// terminal.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/pflag"

	"zetaexams/internal/client"
	models "zetaexams/internal/models"
)

const usage = `Usage: zetactl [flags] <command> [args]

Commands:
  tests                        list mock tests
  take <test-id>               take a timed mock test
  import questions <file>      bulk import question bank lines (admin)
  import mocktest <file>       create a mock test from question lines (admin)
  admin tests                  list tests with their question counts (admin)
  delete <test-id>             delete a test and its attempts (admin)

Flags:
`

type options struct {
	server   string
	output   string
	email    string
	password string
	timeout  time.Duration
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func main() {
	var opts options
	flags := pflag.NewFlagSet("zetactl", pflag.ExitOnError)
	flags.SetInterspersed(false)
	flags.StringVarP(&opts.server, "server", "s", envOr("ZETA_API_URL", "http://localhost:5000"), "API base URL")
	flags.StringVarP(&opts.output, "output", "o", formatTable, "output format: table, json or yaml")
	flags.StringVar(&opts.email, "email", os.Getenv("ZETA_ADMIN_EMAIL"), "admin email for admin commands")
	flags.StringVar(&opts.password, "password", os.Getenv("ZETA_ADMIN_PASSWORD"), "admin password for admin commands")
	flags.DurationVar(&opts.timeout, "timeout", client.DefaultTimeout, "request timeout")
	flags.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flags.PrintDefaults()
	}
	_ = flags.Parse(os.Args[1:])

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, opts, flags.Args(), os.Stdin, os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			flags.Usage()
			os.Exit(2)
		}
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}

var errUsage = errors.New("usage")

func run(ctx context.Context, opts options, args []string, in io.Reader, out io.Writer) error {
	if len(args) == 0 || !validFormat(opts.output) {
		return errUsage
	}
	api := client.New(opts.server, opts.timeout)
	p := printer{out: out, format: opts.output}

	switch args[0] {
	case "tests":
		tests, err := api.ListTests(ctx)
		if err != nil {
			return err
		}
		return p.tests(tests)
	case "take":
		if len(args) != 2 {
			return errUsage
		}
		return runTake(ctx, api, args[1], in, out, p)
	case "import":
		if len(args) < 3 {
			return errUsage
		}
		if err := login(ctx, api, opts); err != nil {
			return err
		}
		return runImport(ctx, api, args[1], args[2], args[3:], out)
	case "admin":
		if len(args) != 2 || args[1] != "tests" {
			return errUsage
		}
		if err := login(ctx, api, opts); err != nil {
			return err
		}
		tests, err := api.AdminTests(ctx)
		if err != nil {
			return err
		}
		return p.adminTests(tests)
	case "delete":
		if len(args) != 2 {
			return errUsage
		}
		if err := login(ctx, api, opts); err != nil {
			return err
		}
		n, err := api.DeleteMockTest(ctx, args[1])
		if err != nil {
			return err
		}
		green.Fprintf(out, "Mock test deleted, %d attempts removed\n", n)
		return nil
	}
	return errUsage
}

func login(ctx context.Context, api *client.Client, opts options) error {
	if opts.email == "" || opts.password == "" {
		return errors.New("admin commands need --email and --password (or ZETA_ADMIN_EMAIL and ZETA_ADMIN_PASSWORD)")
	}
	_, err := api.Login(ctx, opts.email, opts.password)
	return err
}

func runImport(ctx context.Context, api *client.Client, kind, file string, rest []string, out io.Writer) error {
	data, err := os.ReadFile(file)
	if err != nil {
		return err
	}

	switch kind {
	case "questions":
		sum, err := api.ImportQuestions(ctx, string(data))
		if err != nil {
			return err
		}
		green.Fprintf(out, "%d questions uploaded successfully", sum.Inserted)
		if sum.Skipped > 0 {
			yellow.Fprintf(out, ", %d lines skipped", sum.Skipped)
		}
		fmt.Fprintln(out)
		return nil
	case "mocktest":
		req, err := mockTestRequest(rest, string(data))
		if err != nil {
			return err
		}
		created, err := api.CreateMockTest(ctx, req)
		if err != nil {
			return err
		}
		green.Fprintf(out, "Mock test %q created with %d questions (id %s)\n",
			created.Test.TestName, created.Test.TotalQuestions, created.Test.ID.Hex())
		if created.Skipped > 0 {
			yellow.Fprintf(out, "%d lines skipped\n", created.Skipped)
		}
		return nil
	}
	return errUsage
}

// mockTestRequest reads the import mocktest flags. Marking is only sent when
// one of its flags was given.
func mockTestRequest(args []string, csvData string) (models.MockTestRequest, error) {
	fs := pflag.NewFlagSet("import mocktest", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	name := fs.String("name", "", "test name (required)")
	duration := fs.Int("duration", models.DefaultDuration, "duration in minutes")
	total := fs.Int("total-questions", 0, "question count used for scoring (default: parsed count)")
	positive := fs.Float64("positive", models.DefaultPositive, "points per correct answer")
	negative := fs.Float64("negative", models.DefaultNegative, "points per incorrect answer")
	if err := fs.Parse(args); err != nil {
		return models.MockTestRequest{}, fmt.Errorf("%v: %w", err, errUsage)
	}
	if strings.TrimSpace(*name) == "" {
		return models.MockTestRequest{}, errors.New("--name is required")
	}

	req := models.MockTestRequest{
		TestName:       *name,
		CSVData:        csvData,
		Duration:       *duration,
		TotalQuestions: *total,
	}
	if fs.Changed("positive") || fs.Changed("negative") {
		req.Marking = &models.Marking{Positive: *positive, Negative: *negative}
	}
	return req, nil
}
