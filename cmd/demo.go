package cmd

import (
	"github.com/itsmostafa/gobf/internal/config"
	"github.com/itsmostafa/gobf/internal/session"
	"github.com/spf13/cobra"
)

// helloWorld prints "Hello World!\n"
const helloWorld = "++++++++[>++++[>++>+++>+++>+<<<<-]>+>+>->>+[<]<-]>>.>---.+++++++..+++.>>.<-.<.+++.------.--------.>>+.>++."

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run the built-in hello world program",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return session.Run(cmd.Context(), session.Config{
			Source: helloWorld,
			Interp: config.Default(),
			Stdin:  cmd.InOrStdin(),
			Stdout: cmd.OutOrStdout(),
			Stderr: cmd.ErrOrStderr(),
		})
	},
}

func init() {
	rootCmd.AddCommand(demoCmd)
}
