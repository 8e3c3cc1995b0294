// Command hugocodes serves the portfolio site and its terminal rendition.
package main

import (
	"fmt"
	"os"

	_ "github.com/joho/godotenv/autoload"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "hugocodes",
	Short: "Cyberpunk portfolio",
	Long:  "hugocodes serves the neon portfolio over HTTP, or renders it in the terminal with the same typing, glitch and scroll effects.",
	// errors are printed once by main
	SilenceErrors: true,
	SilenceUsage:  true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
