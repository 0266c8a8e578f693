package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/wethinkt/go-adeptkey/internal/adept"
	"github.com/wethinkt/go-adeptkey/internal/i18n"
	"github.com/wethinkt/go-adeptkey/internal/platform"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "List the stored credential groups without decrypting",
	Long: `List the credential groups of the activation store: index, declared
type, display name, and how many privateLicenseKey entries each holds.
Nothing is unprotected, so --hive works on every operating system.

Examples:
  adeptkey inspect
  adeptkey inspect --hive /mnt/win/Users/me/NTUSER.DAT --json`,
	Args: cobra.NoArgs,
	RunE: runInspect,
}

func runInspect(cmd *cobra.Command, args []string) error {
	p, err := platform.Detect(platformOptions())
	if err != nil {
		return err
	}
	inspector, ok := p.(adept.Inspector)
	if !ok {
		return fmt.Errorf("platform %s cannot be inspected", p.Name())
	}
	report, err := inspector.Inspect()
	if err != nil {
		return err
	}

	if outputJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	printReport(cmd.OutOrStdout(), report)
	return nil
}

func printReport(out io.Writer, r adept.Report) {
	fmt.Fprintf(out, "%s %s (%s)\n", i18n.T("inspect.store", "Store:"), r.Store, r.Platform)
	if !r.Modified.IsZero() {
		fmt.Fprintf(out, "%s %s\n", i18n.T("inspect.modified", "Modified:"), i18n.RelativeTime(r.Modified))
	}
	if len(r.Groups) == 0 {
		fmt.Fprintln(out, i18n.T("inspect.empty", "No credential groups"))
		return
	}
	fmt.Fprintln(out)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
		i18n.T("inspect.header.index", "Index"),
		i18n.T("inspect.header.type", "Type"),
		i18n.T("inspect.header.name", "Name"),
		i18n.T("inspect.header.keys", "Keys"))
	for _, g := range r.Groups {
		typ := g.Type
		if typ == "" {
			typ = "-"
		}
		name := g.Name
		if !g.Accepted() {
			name = "-"
		}
		fmt.Fprintf(w, "%04d\t%s\t%s\t%d\n", g.Index, typ, name, g.Payloads)
	}
	w.Flush()
}
