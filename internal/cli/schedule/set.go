package schedule

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var setCmd = &cobra.Command{
	Use:   "set",
	Short: "Pin a day's selection",
	Long:  "Pin specific hadith ids to a date so the resolver serves them as-is",
	RunE: func(cmd *cobra.Command, args []string) error {
		token := viper.GetString("user.token")
		if token == "" {
			return fmt.Errorf("not logged in. Please run: hadisctl auth login")
		}

		date, _ := cmd.Flags().GetString("date")
		ids, _ := cmd.Flags().GetString("ids")
		theme, _ := cmd.Flags().GetString("theme")

		if date == "" || ids == "" {
			return fmt.Errorf("--date and --ids are required")
		}

		hadithIDs := strings.Split(ids, ",")
		for i := range hadithIDs {
			hadithIDs[i] = strings.TrimSpace(hadithIDs[i])
		}

		body := map[string]interface{}{
			"date_key":   date,
			"hadith_ids": hadithIDs,
			"theme":      theme,
		}

		jsonBody, _ := json.Marshal(body)
		serverURL := fmt.Sprintf("http://%s:%d/api/v1/admin/schedule",
			viper.GetString("server.host"),
			viper.GetInt("server.http_port"))

		req, _ := http.NewRequest("PUT", serverURL, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)

		client := &http.Client{}
		resp, err := client.Do(req)
		if err != nil {
			return fmt.Errorf("failed to set schedule: %w", err)
		}
		defer resp.Body.Close()

		respBody, _ := io.ReadAll(resp.Body)
		var result map[string]interface{}
		json.Unmarshal(respBody, &result)

		if result["success"] != true {
			return fmt.Errorf("failed: %v", result["error"])
		}

		fmt.Printf("✓ Schedule set for %s (%d hadith)\n", date, len(hadithIDs))
		return nil
	},
}

func init() {
	setCmd.Flags().String("date", "", "Date in YYYY-MM-DD format")
	setCmd.Flags().String("ids", "", "Comma separated hadith ids")
	setCmd.Flags().String("theme", "", "Optional theme for the day")
	ScheduleCmd.AddCommand(setCmd)
}
