package review

import "github.com/spf13/cobra"

var ReviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Contribution review commands (moderator)",
	Long:  "List, approve and reject pending community contributions",
}
