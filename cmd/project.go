package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var projectCmd = &cobra.Command{
	Use:   "project <id>",
	Short: "Open a project page directly",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("project id %q: not a number", args[0])
		}
		c, err := loadContent(cmd)
		if err != nil {
			return err
		}
		if _, err := c.Project(id); err != nil {
			return err
		}
		return runApp(cmd, id)
	},
}

func init() {
	projectCmd.Flags().String("policy", "", "Approach timeline: run-once or cyclic (default from content)")
	projectCmd.Flags().Bool("no-journal", false, "Do not record visits")
}
