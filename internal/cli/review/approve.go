package review

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var approveCmd = &cobra.Command{
	Use:   "approve <contribution-id>",
	Short: "Approve a contribution",
	Long:  "Approve a pending contribution and publish it as a verified hadith",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		note, _ := cmd.Flags().GetString("note")
		return reviewContribution(args[0], "approve", note)
	},
}

var rejectCmd = &cobra.Command{
	Use:   "reject <contribution-id>",
	Short: "Reject a contribution",
	Long:  "Reject a pending contribution with an optional note for the submitter",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		note, _ := cmd.Flags().GetString("note")
		return reviewContribution(args[0], "reject", note)
	},
}

func reviewContribution(id, action, note string) error {
	token := viper.GetString("user.token")
	if token == "" {
		return fmt.Errorf("not logged in. Please run: hadisctl auth login")
	}

	body := map[string]string{"note": note}
	jsonBody, _ := json.Marshal(body)

	serverURL := fmt.Sprintf("http://%s:%d/api/v1/contributions/%s/%s",
		viper.GetString("server.host"),
		viper.GetInt("server.http_port"),
		id, action)

	req, _ := http.NewRequest("POST", serverURL, bytes.NewReader(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to %s contribution: %w", action, err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	var result map[string]interface{}
	json.Unmarshal(respBody, &result)

	if result["success"] != true {
		return fmt.Errorf("failed: %v", result["error"])
	}

	if action == "approve" {
		fmt.Printf("✓ Contribution %s approved\n", id)
		if data, ok := result["data"].(map[string]interface{}); ok {
			if hadithID, ok := data["id"].(string); ok {
				fmt.Printf("  Published as: %s\n", hadithID)
			}
		}
	} else {
		fmt.Printf("✓ Contribution %s rejected\n", id)
	}

	return nil
}

func init() {
	approveCmd.Flags().String("note", "", "Review note")
	rejectCmd.Flags().String("note", "", "Review note")
	ReviewCmd.AddCommand(approveCmd)
	ReviewCmd.AddCommand(rejectCmd)
}
