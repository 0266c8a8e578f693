package cmd

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wethinkt/go-adeptkey/internal/adept"
	"github.com/wethinkt/go-adeptkey/internal/fingerprint"
	"github.com/wethinkt/go-adeptkey/internal/platform"
	"github.com/wethinkt/go-adeptkey/internal/runlog"
)

var entropyCmd = &cobra.Command{
	Use:   "entropy",
	Short: "Print the machine fingerprint that protects the device key",
	Long: `Print the inputs of the machine fingerprint (volume serial, CPU vendor
and signature, account name) and the resulting 32-byte entropy in hex.

The account name recorded with the device key is used when ADE is
activated; otherwise the name of the current user is shown.`,
	Args: cobra.NoArgs,
	RunE: runEntropy,
}

type fingerprinter interface {
	Fingerprint() (fingerprint.Info, error)
}

func runEntropy(cmd *cobra.Command, args []string) error {
	p, err := platform.Detect(platformOptions())
	if err != nil {
		return err
	}
	fp, ok := p.(fingerprinter)
	if !ok {
		return adept.Errorf(adept.UnsupportedPlatform, nil, "%s does not use a machine fingerprint", p.Name())
	}

	info, err := fp.Fingerprint()
	if errors.Is(err, adept.ErrNotActivated) {
		runlog.Log.Debug("Not activated, using the current account", "error", err)
		info, err = fingerprint.Derive(fingerprint.NewHostProbe(), nil)
		if errors.Is(err, fingerprint.ErrUnsupported) {
			err = adept.NewError(adept.UnsupportedPlatform, err, adept.ErrUnsupportedPlatform.Msg)
		}
	}
	if err != nil {
		return err
	}

	if outputJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	}
	fmt.Fprint(cmd.OutOrStdout(), info.String())
	return nil
}
