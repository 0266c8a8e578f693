package cmd

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"github.com/wethinkt/go-adeptkey/internal/config"
	"github.com/wethinkt/go-adeptkey/internal/i18n"
)

var languageCmd = &cobra.Command{
	Use:   "language [lang]",
	Short: "Get or set the display language",
	Long: `Get or set the display language. Use a BCP 47 tag (e.g., en, de).

Examples:
  adeptkey language      # show current language
  adeptkey language de   # set to German`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		available := i18n.Available()

		if len(args) == 0 {
			fmt.Fprintln(out, i18n.Tf("language.current", "Current language: %s", i18n.ResolveLocale(cfg.Language)))
			fmt.Fprintln(out, i18n.Tf("language.available", "Available: %s", strings.Join(available, ", ")))
			return nil
		}

		tag, err := language.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid language tag %q: %w", args[0], err)
		}
		base, _ := tag.Base()
		if !slices.Contains(available, tag.String()) && !slices.Contains(available, base.String()) {
			return fmt.Errorf("no translation for %s (available: %s)", tag, strings.Join(available, ", "))
		}

		// Save only the file contents, not the environment overrides.
		saved, err := config.LoadFile()
		if err != nil {
			return err
		}
		saved.Language = tag.String()
		if err := config.Save(saved); err != nil {
			return err
		}
		i18n.Init(saved.Language)
		fmt.Fprintln(out, i18n.Tf("language.set", "Language set to: %s", saved.Language))
		return nil
	},
}
