package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "idphoto",
	Short: "Create print-ready ID photos from portrait shots",
	Long: `idphoto detects the face in a portrait photo, removes the background,
crops to an exact physical print size and optionally packs copies onto a
print sheet. Output PNGs carry DPI metadata so print software reports
the correct physical size.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			logrus.SetLevel(logrus.DebugLevel)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
