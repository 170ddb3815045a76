package schedule

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List upcoming schedules",
	Long:  "View pinned selections from a starting date onward",
	RunE: func(cmd *cobra.Command, args []string) error {
		token := viper.GetString("user.token")
		if token == "" {
			return fmt.Errorf("not logged in. Please run: hadisctl auth login")
		}

		from, _ := cmd.Flags().GetString("from")

		serverURL := fmt.Sprintf("http://%s:%d/api/v1/admin/schedule",
			viper.GetString("server.host"),
			viper.GetInt("server.http_port"))
		if from != "" {
			serverURL += "?from=" + from
		}

		req, _ := http.NewRequest("GET", serverURL, nil)
		req.Header.Set("Authorization", "Bearer "+token)

		client := &http.Client{}
		resp, err := client.Do(req)
		if err != nil {
			return fmt.Errorf("failed to list schedules: %w", err)
		}
		defer resp.Body.Close()

		respBody, _ := io.ReadAll(resp.Body)
		var result map[string]interface{}
		json.Unmarshal(respBody, &result)

		if result["success"] != true {
			return fmt.Errorf("failed: %v", result["error"])
		}

		schedules := result["data"].([]interface{})
		if len(schedules) == 0 {
			fmt.Println("No upcoming schedules.")
			return nil
		}

		fmt.Printf("\nUpcoming schedules (%d):\n\n", len(schedules))
		for _, item := range schedules {
			sched := item.(map[string]interface{})
			ids := sched["hadith_ids"].([]interface{})

			fmt.Printf("%s  (%d hadith)\n", sched["date_key"], len(ids))
			if theme, ok := sched["theme"].(string); ok && theme != "" {
				fmt.Printf("  Theme: %s\n", theme)
			}
			for _, id := range ids {
				fmt.Printf("  - %v\n", id)
			}
			fmt.Println()
		}

		return nil
	},
}

func init() {
	listCmd.Flags().String("from", "", "Start date in YYYY-MM-DD format (default today)")
	ScheduleCmd.AddCommand(listCmd)
}
