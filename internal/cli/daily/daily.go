package daily

import "github.com/spf13/cobra"

var DailyCmd = &cobra.Command{
	Use:   "daily",
	Short: "Daily hadith commands",
	Long:  "Read the daily hadith selection",
}
