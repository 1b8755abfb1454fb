package client

import (
	"github.com/spf13/cobra"
)

// NewRoot constructs a root Cobra command for the switflake client.
// It registers the id command group.
func NewRoot(baseURL BaseURLFunc) *cobra.Command {
	root := &cobra.Command{
		Use:   "switflake",
		Short: "Switflake client commands",
	}
	root.AddCommand(NewIDCommand(baseURL))
	return root
}
