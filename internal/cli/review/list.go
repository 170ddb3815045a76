package review

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
	Short: "List pending contributions",
	Long:  "View community contributions awaiting review",
	RunE: func(cmd *cobra.Command, args []string) error {
		token := viper.GetString("user.token")
		if token == "" {
			return fmt.Errorf("not logged in. Please run: hadisctl auth login")
		}

		serverURL := fmt.Sprintf("http://%s:%d/api/v1/contributions",
			viper.GetString("server.host"),
			viper.GetInt("server.http_port"))

		req, _ := http.NewRequest("GET", serverURL, nil)
		req.Header.Set("Authorization", "Bearer "+token)

		client := &http.Client{}
		resp, err := client.Do(req)
		if err != nil {
			return fmt.Errorf("failed to list contributions: %w", err)
		}
		defer resp.Body.Close()

		respBody, _ := io.ReadAll(resp.Body)
		var result map[string]interface{}
		json.Unmarshal(respBody, &result)

		if result["success"] != true {
			return fmt.Errorf("failed: %v", result["error"])
		}

		page := result["data"].(map[string]interface{})
		contributions := page["data"].([]interface{})

		if len(contributions) == 0 {
			fmt.Println("No pending contributions.")
			return nil
		}

		fmt.Printf("\nPending contributions (%d):\n\n", len(contributions))
		for i, item := range contributions {
			contrib := item.(map[string]interface{})
			submission := contrib["submission"].(map[string]interface{})

			fmt.Printf("%d. %s\n", i+1, contrib["id"].(string))
			if username, ok := contrib["username"].(string); ok && username != "" {
				fmt.Printf("   Submitted by: %s\n", username)
			}
			fmt.Printf("   Book: %s\n", submission["book_id"])
			fmt.Printf("   Grade: %s\n", submission["grade"])
			fmt.Printf("   Text: %s\n", truncate(submission["bangla_text"].(string), 80))
			fmt.Println()
		}

		return nil
	},
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}

func init() {
	ReviewCmd.AddCommand(listCmd)
}
