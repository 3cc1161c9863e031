package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/vibe-rsid/internal/rsidvar"
	"github.com/inodb/vibe-rsid/internal/variantkey"
)

func tableLayout() (rsidvar.Layout, error) {
	return rsidvar.ParseLayout(viper.GetString("tables.layout"))
}

// openRV opens the configured RV table.
func openRV() (*rsidvar.RVTable, string, error) {
	path := viper.GetString("tables.rv")
	if path == "" {
		return nil, "", fmt.Errorf("no RV table configured (use --rv or 'vibe-rsid config set tables.rv <path>')")
	}
	layout, err := tableLayout()
	if err != nil {
		return nil, "", err
	}
	t, err := rsidvar.OpenRV(path, layout)
	if err != nil {
		return nil, "", err
	}
	logger.Debug("opened table",
		zap.String("kind", "rv"),
		zap.String("path", path),
		zap.Uint64("rows", t.Rows()),
		zap.Stringer("layout", layout))
	return t, path, nil
}

// openVR opens the configured VR table.
func openVR() (*rsidvar.VRTable, string, error) {
	path := viper.GetString("tables.vr")
	if path == "" {
		return nil, "", fmt.Errorf("no VR table configured (use --vr or 'vibe-rsid config set tables.vr <path>')")
	}
	layout, err := tableLayout()
	if err != nil {
		return nil, "", err
	}
	t, err := rsidvar.OpenVR(path, layout)
	if err != nil {
		return nil, "", err
	}
	logger.Debug("opened table",
		zap.String("kind", "vr"),
		zap.String("path", path),
		zap.Uint64("rows", t.Rows()),
		zap.Stringer("layout", layout))
	return t, path, nil
}

// parsePosition parses a 1-based position into a 0-based VariantKey position.
// Positions past the key range are rejected.
func parsePosition(cmd *cobra.Command, s string) (uint32, error) {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil || n < 1 || n-1 > variantkey.MaxPos {
		return 0, usageError{
			err: fmt.Errorf("invalid position %q (expected 1..%d)", s, variantkey.MaxPos+1),
			cmd: cmd.CommandPath(),
		}
	}
	return uint32(n - 1), nil
}

// parseEndPosition is parsePosition for region ends, which are clamped to
// the key range instead of rejected.
func parseEndPosition(cmd *cobra.Command, s string) (uint32, error) {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil || n < 1 {
		return 0, usageError{err: fmt.Errorf("invalid position %q", s), cmd: cmd.CommandPath()}
	}
	return uint32(min(n-1, variantkey.MaxPos)), nil
}
