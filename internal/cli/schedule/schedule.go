package schedule

import "github.com/spf13/cobra"

var ScheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Schedule commands (admin)",
	Long:  "Pin and inspect upcoming daily selections",
}
