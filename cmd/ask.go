package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/CharlesKozel/linpeas-agent-test/pkg/llm"
)

var askSystemPrompt string

var askCmd = &cobra.Command{
	Use:   "ask <prompt>",
	Short: "Send one prompt to the configured model",
	Long: `Sends a single prompt to the OpenAI API and prints the reply. The model
and API key come from OPENAI_MODEL and OPENAI_API_KEY (a .env file is
loaded if present).`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVar(&askSystemPrompt, "system",
		"You are an assistant supporting an authorized penetration test.",
		"System prompt for the model")
}

func runAsk(cmd *cobra.Command, args []string) error {
	client, err := llm.NewClientFromEnv()
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), client.Prompt(cmd.Context(), args[0], askSystemPrompt))
	return nil
}
