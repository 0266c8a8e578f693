package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/awnumar/memguard"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/wethinkt/go-adeptkey/internal/adept"
	"github.com/wethinkt/go-adeptkey/internal/i18n"
	"github.com/wethinkt/go-adeptkey/internal/keyfile"
	"github.com/wethinkt/go-adeptkey/internal/platform"
	"github.com/wethinkt/go-adeptkey/internal/runlog"
	"github.com/wethinkt/go-adeptkey/internal/tui"
)

var (
	pickKeys bool
	dryRun   bool
	force    bool
)

var recoverCmd = &cobra.Command{
	Use:   "recover [OUTPATH]",
	Short: "Recover and save the private license keys",
	Long: `Recover every private license key of the activated Adobe Digital Editions
account and save each as DER.

If OUTPATH is a directory (the default is the current directory, or
output_dir from the config file), each key is written to
adobekey{n}_uuid_{name}.der, skipping numbers that are already taken.
Otherwise only the first key is written, to OUTPATH itself. A missing
OUTPATH ending in a path separator is created as a directory.

Examples:
  adeptkey recover                 # Save keys in the current directory
  adeptkey recover --pick ~/keys   # Choose which keys to save
  adeptkey recover --dry-run --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRecover,
}

func addRecoverFlags(c *cobra.Command) {
	c.Flags().BoolVar(&pickKeys, "pick", false, "choose interactively which keys to save")
	c.Flags().BoolVar(&dryRun, "dry-run", false, "show where keys would be saved without writing")
	c.Flags().BoolVarP(&force, "force", "f", false, "overwrite OUTPATH without asking")
}

// isTerminal is replaced in tests.
var isTerminal = func(v any) bool {
	f, ok := v.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// savedKey is one entry of the JSON output.
type savedKey struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Size int    `json:"size"`
}

type recoverOutput struct {
	Platform string     `json:"platform"`
	DryRun   bool       `json:"dry_run,omitempty"`
	Keys     []savedKey `json:"keys"`
}

func runRecover(cmd *cobra.Command, args []string) error {
	outpath := cfg.OutputDir
	if len(args) == 1 {
		outpath = args[0]
	}
	if outpath == "" {
		outpath = "."
	}

	p, err := platform.Detect(platformOptions())
	if err != nil {
		return err
	}
	keys, err := adept.Recover(p)
	if err != nil {
		return err
	}
	defer wipeKeys(keys)

	interactive := isTerminal(cmd.InOrStdin()) && isTerminal(cmd.ErrOrStderr())

	if pickKeys {
		if !interactive {
			return errors.New("--pick needs an interactive terminal")
		}
		keys, err = pick(cmd, keys)
		if err != nil {
			return err
		}
		if keys == nil {
			fmt.Fprintln(cmd.ErrOrStderr(), i18n.T("recover.cancelled", "Cancelled, nothing was saved"))
			return nil
		}
	}

	targets, err := keyfile.Plan(outpath, keys)
	if err != nil {
		return fmt.Errorf("plan output files: %w", err)
	}

	if !dryRun && !force && interactive && len(targets) == 1 && fileExists(targets[0].Path) {
		ok, err := confirmOverwrite(cmd, targets[0].Path)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(cmd.ErrOrStderr(), i18n.T("recover.cancelled", "Cancelled, nothing was saved"))
			return nil
		}
	}

	if !dryRun {
		if err := keyfile.Write(targets); err != nil {
			return err
		}
		runlog.Log.Info("Saved keys", "count", len(targets), "outpath", outpath)
	}

	out := recoverOutput{Platform: p.Name(), DryRun: dryRun}
	for _, t := range targets {
		out.Keys = append(out.Keys, savedKey{Name: t.Key.Name, Path: t.Path, Size: len(t.Key.Bytes)})
	}
	if outputJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}
	printSaved(cmd.OutOrStdout(), out)
	return nil
}

func pick(cmd *cobra.Command, keys []adept.Key) ([]adept.Key, error) {
	options := make([]tui.KeyOption, len(keys))
	for i, k := range keys {
		options[i] = tui.KeyOption{
			Name:   k.Name,
			Detail: i18n.Tn("recover.keySize", "{{.Count}} byte", "{{.Count}} bytes", len(k.Bytes)),
		}
	}
	title := i18n.Tn("recover.pickTitle", "{{.Count}} key found", "{{.Count}} keys found", len(keys))
	selected, err := tui.PickKeys(title, options, cmd.InOrStdin(), cmd.ErrOrStderr())
	if err != nil {
		return nil, fmt.Errorf("key picker: %w", err)
	}
	if selected == nil {
		return nil, nil
	}
	picked := make([]adept.Key, 0, len(selected))
	for _, i := range selected {
		picked = append(picked, keys[i])
	}
	return picked, nil
}

func confirmOverwrite(cmd *cobra.Command, path string) (bool, error) {
	result, err := tui.Confirm(tui.ConfirmOptions{
		Prompt: i18n.Tf("recover.overwrite", "%s already exists. Overwrite it?", path),
		Input:  cmd.InOrStdin(),
		Output: cmd.ErrOrStderr(),
	})
	if err != nil {
		return false, fmt.Errorf("confirm: %w", err)
	}
	return result == tui.ConfirmYes, nil
}

func printSaved(w io.Writer, out recoverOutput) {
	msgID, msg := "recover.saved", "Saved a key to %s"
	if out.DryRun {
		msgID, msg = "recover.wouldSave", "Would save a key to %s"
	}

	if !isTerminal(w) {
		for _, k := range out.Keys {
			fmt.Fprintln(w, i18n.Tf(msgID, msg, k.Path))
		}
		return
	}

	s := tui.GetStyles()
	fmt.Fprintln(w, s.Title.Render(i18n.Tn("recover.count", "{{.Count}} key", "{{.Count}} keys", len(out.Keys))))
	for _, k := range out.Keys {
		fmt.Fprintf(w, "%s %s %s\n",
			s.Success.Render("✓"),
			i18n.Tf(msgID, msg, s.Path.Render(k.Path)),
			s.Muted.Render("("+k.Name+")"))
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}

func wipeKeys(keys []adept.Key) {
	for _, k := range keys {
		memguard.WipeBytes(k.Bytes)
	}
}
