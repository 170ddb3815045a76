package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"amarhadis/internal/cli/auth"
	"amarhadis/internal/cli/config"
	"amarhadis/internal/cli/daily"
	"amarhadis/internal/cli/review"
	"amarhadis/internal/cli/schedule"
)

var rootCmd = &cobra.Command{
	Use:   "hadisctl",
	Short: "Amar Hadis command line client",
	Long:  "Read the daily hadith, manage schedules and review contributions from the terminal",
}

func initConfig() {
	viper.SetDefault("server.host", "localhost")
	viper.SetDefault("server.http_port", 8080)

	home, err := os.UserHomeDir()
	if err != nil {
		return
	}

	viper.AddConfigPath(filepath.Join(home, ".amarhadis"))
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Missing config is fine, defaults apply until the first login writes one.
	viper.ReadInConfig()
}

func main() {
	cobra.OnInitialize(initConfig)

	rootCmd.AddCommand(auth.AuthCmd)
	rootCmd.AddCommand(config.ConfigCmd)
	rootCmd.AddCommand(daily.DailyCmd)
	rootCmd.AddCommand(schedule.ScheduleCmd)
	rootCmd.AddCommand(review.ReviewCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
