package main

import (
	"fmt"

	"github.com/OFFIS-RIT/actorlink/internal/db/migrations"
	"github.com/OFFIS-RIT/actorlink/pkg/store"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:       "migrate up|down",
	Short:     "Apply or roll back the relation store schema",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"up", "down"},
	RunE: func(cmd *cobra.Command, args []string) error {
		var dir migrations.Direction
		switch args[0] {
		case "up":
			dir = migrations.Up
		case "down":
			dir = migrations.Down
		default:
			return fmt.Errorf("unknown direction %q, want up or down", args[0])
		}
		if err := store.Migrate(databaseURL, dir); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), styles.OK.Render("Migrated "+args[0]))
		return nil
	},
}
