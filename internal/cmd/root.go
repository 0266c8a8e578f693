// Package cmd provides the CLI commands for adeptkey.
package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/wethinkt/go-adeptkey/internal/adept"
	"github.com/wethinkt/go-adeptkey/internal/config"
	"github.com/wethinkt/go-adeptkey/internal/i18n"
	"github.com/wethinkt/go-adeptkey/internal/platform"
	"github.com/wethinkt/go-adeptkey/internal/runlog"
)

// Exit codes.
const (
	exitOK       = 0
	exitFailure  = 1 // recovery failed for a known reason
	exitInternal = 2 // anything else
)

// global flags
var (
	logPath    string
	verbose    bool
	outputJSON bool
	hivePath   string
	adeDir     string
	maxInner   int
)

// cfg is loaded once per invocation by the root pre-run hook.
var cfg config.Config

// rootCmd is the root command for the CLI.
var rootCmd = &cobra.Command{
	Use:   "adeptkey [OUTPATH]",
	Short: "Recover the Adobe ADEPT private license key of this machine",
	Long: `adeptkey recovers the private license key that Adobe Digital Editions
stores after activation, and writes it as a DER file.

On Windows the key is read from the registry and unprotected with DPAPI.
On macOS it is read from activation.dat. Running without a subcommand is
the same as "adeptkey recover".

Commands:
  recover   Recover and save keys (default)
  inspect   List the stored credential groups without decrypting
  entropy   Print the machine fingerprint used to protect the device key

Examples:
  adeptkey                          # Save keys in the current directory
  adeptkey ~/keys                   # Save keys in ~/keys
  adeptkey mykey.der                # Save the first key to mykey.der
  adeptkey inspect --hive NTUSER.DAT  # Inspect an offline hive`,
	Args:              cobra.MaximumNArgs(1),
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		runlog.Log.Close()
	},
	RunE: runRecover,
}

// setup loads the configuration and starts localization and logging.
func setup(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg = loaded

	i18n.Init(i18n.ResolveLocale(cfg.Language))

	path := logPath
	if path == "" {
		path = cfg.LogFile
	}
	if err := runlog.Init(path); err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	if verbose {
		runlog.Log.SetConsole(cmd.ErrOrStderr(), runlog.LevelDebug)
	}
	return nil
}

// platformOptions merges flags over the configuration.
func platformOptions() platform.Options {
	dir, explicit := cfg.ResolveADEDir()
	if adeDir != "" {
		dir, explicit = adeDir, true
	}
	n := cfg.MaxInnerEntries
	if maxInner > 0 {
		n = maxInner
	}
	return platform.Options{
		Hive:           hivePath,
		ADEDir:         dir,
		ADEDirExplicit: explicit,
		MaxInner:       n,
	}
}

// Main runs the CLI and returns the process exit code.
func Main() int {
	return execute(os.Args[1:], os.Stdout, os.Stderr)
}

func execute(args []string, stdout, stderr io.Writer) int {
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	return exitCode(rootCmd.Execute(), stderr)
}

// exitCode prints err and maps it to an exit code. Domain errors get their
// localized headline; anything else is printed in full.
func exitCode(err error, w io.Writer) int {
	if err == nil {
		return exitOK
	}

	var de *adept.Error
	if !errors.As(err, &de) {
		runlog.Log.Error("Command failed", "error", err)
		fmt.Fprintf(w, "adeptkey: %+v\n", err)
		return exitInternal
	}

	runlog.Log.Error("Recovery failed", "kind", de.Kind, "error", err)
	fmt.Fprintln(w, headline(de))
	if verbose && de.Error() != headline(de) {
		fmt.Fprintf(w, "  %v\n", de)
	}
	return exitFailure
}

func headline(e *adept.Error) string {
	switch e.Kind {
	case adept.NotActivated:
		return i18n.T("error.notActivated", adept.ErrNotActivated.Msg)
	case adept.NoCredentials:
		return i18n.T("error.noCredentials", adept.ErrNoCredentials.Msg)
	case adept.Unwrap:
		return i18n.T("error.unwrap", adept.ErrUnwrap.Msg)
	case adept.NoKeyFound:
		return i18n.T("error.noKeyFound", adept.ErrNoKeyFound.Msg)
	case adept.UnsupportedPlatform:
		return i18n.T("error.unsupportedPlatform", adept.ErrUnsupportedPlatform.Msg)
	default:
		return e.Msg
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	pf.StringVar(&logPath, "log", "", "write a diagnostic log to this file")
	pf.BoolVar(&outputJSON, "json", false, "output as JSON")
	pf.StringVar(&hivePath, "hive", "", "read an offline NTUSER.DAT instead of the live registry")
	pf.StringVar(&adeDir, "ade-dir", "", "directory searched for activation.dat")
	pf.IntVar(&maxInner, "max-inner", 0, "entries scanned per credential group (default from config, 16)")

	for _, c := range []*cobra.Command{rootCmd, recoverCmd} {
		addRecoverFlags(c)
	}

	rootCmd.AddCommand(recoverCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(entropyCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(languageCmd)
	rootCmd.AddCommand(docsCmd)
}
