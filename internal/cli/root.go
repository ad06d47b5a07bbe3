package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/deplic/pkg/integrations"
	"github.com/matzehuels/deplic/pkg/integrations/pypi"
	"github.com/matzehuels/deplic/pkg/license"
	"github.com/matzehuels/deplic/pkg/pipeline"
	"github.com/matzehuels/deplic/pkg/report"
)

// reportFlags holds the flags that are not layered through viper.
type reportFlags struct {
	output  string
	dev     bool
	names   []string
	check   string
	env     bool
	refresh bool
}

// reportCommand creates the root "deplic PROJECT..." command.
func (c *CLI) reportCommand() *cobra.Command {
	flags := &reportFlags{}

	cmd := &cobra.Command{
		Use:   "deplic PROJECT [PROJECT...]",
		Short: "Report the licenses of a Python project's dependencies",
		Long: `deplic collects the dependencies declared by a Python project and reports
the license metadata published on PyPI for each of them.

A PROJECT is a directory, a single manifest file, a git repository URL
(GitHub, GitLab or any http(s)/ssh remote) or, with --env, a Python
interpreter or virtualenv whose installed packages are reported.

Supported manifests: requirements*.txt, Pipfile, Pipfile.lock,
pyproject.toml (build-system and Poetry), poetry.lock, setup.py and
conda environment files.

Settings can also be given as environment variables: DEPLIC_WORKERS,
DEPLIC_FORMAT, DEPLIC_INDEX_URL, DEPLIC_TIMEOUT, DEPLIC_RETRIES,
DEPLIC_CACHE and DEPLIC_CACHE_TTL.`,
		Example: `  # Report a local project as a table
  deplic .

  # Write JSON for a remote repository
  deplic https://github.com/psf/requests -f json -o licenses.json

  # Fail when a dependency uses a banned license
  deplic . --check deplic.ini`,
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runReport(cmd, args, flags)
		},
	}

	f := cmd.Flags()
	f.IntP(keyWorkers, "w", 0, "number of concurrent lookups (0 = number of CPUs)")
	f.StringP(keyFormat, "f", string(report.DefaultFormat), "output format: "+strings.Join(report.Formats(), ", "))
	f.StringVarP(&flags.output, "output", "o", "", "also write the report to this file")
	f.BoolVarP(&flags.dev, "dev", "d", false, "include dev packages from Pipfile and Pipfile.lock")
	f.StringArrayVarP(&flags.names, "name", "n", nil, "custom manifest name or glob pattern (repeatable)")
	f.StringVarP(&flags.check, "check", "c", "", "INI file with a [deplic] banned list; exit 1 on a match")
	f.BoolVarP(&flags.env, "env", "e", false, "treat PROJECT as a Python interpreter or virtualenv")
	f.String(keyIndexURL, pypi.DefaultBaseURL, "package index JSON API base URL")
	f.Duration(keyTimeout, integrations.DefaultTimeout, "per-request timeout")
	f.Int(keyRetries, 0, "extra attempts for transient index failures")
	f.String(keyCache, "file", "response cache: file, file:DIR, memory, none or redis://...")
	f.Duration(keyCacheTTL, pipeline.DefaultCacheTTL, "how long index responses are cached")
	f.BoolVar(&flags.refresh, "refresh", false, "ignore cached index responses")
	registerFlagCompletions(cmd)

	return cmd
}

func (c *CLI) runReport(cmd *cobra.Command, refs []string, flags *reportFlags) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	settings, err := newSettings(cmd.Flags())
	if err != nil {
		return err
	}
	format := settings.GetString(keyFormat)
	if _, err := report.ParseFormat(format); err != nil {
		return err
	}

	runner, err := c.newRunner(settings.GetString(keyCache), settings.GetDuration(keyCacheTTL))
	if err != nil {
		return err
	}
	defer runner.Cache.Close()
	runner.Logger = logger

	var spinner *Spinner
	opts := pipeline.Options{
		Names:    flags.names,
		Env:      flags.env,
		Dev:      flags.dev,
		Workers:  settings.GetInt(keyWorkers),
		IndexURL: settings.GetString(keyIndexURL),
		Timeout:  settings.GetDuration(keyTimeout),
		Retries:  settings.GetInt(keyRetries),
		CacheTTL: settings.GetDuration(keyCacheTTL),
		Refresh:  flags.refresh,
		DenyList: flags.check,
		BeforeFetch: func(n int) {
			printInfo("Found %s dependencies", StyleNumber.Render(fmt.Sprint(n)))
			spinner = newSpinnerWithContext(ctx, fmt.Sprintf("Fetching license data for %d packages...", n))
			spinner.Start()
		},
	}

	prog := newProgress(logger)
	result, err := runner.Execute(ctx, refs, opts)
	if spinner != nil {
		if err != nil {
			spinner.Stop()
		} else {
			spinner.StopWithSuccess(fmt.Sprintf("Resolved %d of %d packages", len(result.Records), len(result.Packages)))
		}
	}
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Finished run %s", result.RunID))
	printStats(result)
	if n := result.Stats.Fetch.Failed; n > 0 {
		printWarning("No license data for %d package(s)", n)
	}

	if err := report.Write(c.Out, format, result.Records); err != nil {
		return err
	}
	if flags.output != "" {
		if err := writeReportFile(flags.output, format, result.Records); err != nil {
			return err
		}
	}

	if result.Banned {
		printBanned(result.Violations)
		return result.Err()
	}
	if flags.check != "" {
		printSuccess("No banned licenses found")
	}
	return nil
}

// writeReportFile renders records into path, replacing any existing file.
func writeReportFile(path, format string, records []license.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	if err := report.Write(f, format, records); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("write output file: %w", err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	printSuccess("Report written")
	printFile(abs)
	return nil
}
