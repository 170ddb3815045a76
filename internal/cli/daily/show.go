package daily

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the daily selection",
	Long:  "Display today's hadith selection, or a past day's with --date",
	RunE: func(cmd *cobra.Command, args []string) error {
		date, _ := cmd.Flags().GetString("date")

		path := "/api/v1/daily"
		if date != "" {
			path = "/api/v1/daily/" + date
		}

		serverURL := fmt.Sprintf("http://%s:%d%s",
			viper.GetString("server.host"),
			viper.GetInt("server.http_port"),
			path)

		resp, err := http.Get(serverURL)
		if err != nil {
			return fmt.Errorf("failed to fetch daily selection: %w", err)
		}
		defer resp.Body.Close()

		respBody, _ := io.ReadAll(resp.Body)
		var result map[string]interface{}
		json.Unmarshal(respBody, &result)

		if result["success"] != true {
			return fmt.Errorf("failed: %v", result["error"])
		}

		selection := result["data"].(map[string]interface{})
		items := selection["items"].([]interface{})

		fmt.Printf("\nআজকের হাদিস — %s\n", selection["date_key"])
		if theme, ok := selection["theme"].(string); ok && theme != "" {
			fmt.Printf("Theme: %s\n", theme)
		}
		fmt.Println()

		for i, item := range items {
			hadith := item.(map[string]interface{})

			fmt.Printf("%d. %s\n", i+1, hadith["bangla_text"].(string))
			if narrator, ok := hadith["narrator"].(string); ok && narrator != "" {
				fmt.Printf("   Narrator: %s\n", narrator)
			}
			fmt.Printf("   Grade: %s\n", hadith["grade"].(string))
			fmt.Printf("   Reference: %s\n", hadith["reference"].(string))
			fmt.Println()
		}

		return nil
	},
}

func init() {
	showCmd.Flags().String("date", "", "Date in YYYY-MM-DD format (default today)")
	DailyCmd.AddCommand(showCmd)
}
