package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/charmbracelet/lipgloss"
	"github.com/itsmostafa/gobf/internal/version"
	"github.com/spf13/cobra"
)

var errorStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("196"))

var rootCmd = &cobra.Command{
	Use:   "gobf",
	Short: "Interpreter for the eight-instruction byte tape language",
	Long: `gobf runs programs written in the classic eight-instruction esoteric
language on a 30,000 cell tape of wrapping bytes.

  >  move right     <  move left
  +  increment      -  decrement
  .  output byte    ,  input byte
  [  loop start     ]  loop end`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.Version = version.Version
	rootCmd.SetVersionTemplate(fmt.Sprintf("gobf %s\n", version.String()))
}

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	// a second interrupt gets the default behavior and kills the process
	context.AfterFunc(ctx, stop)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
}

func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "%s %v\n", errorStyle.Render("error:"), err)
}
