package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

// snapshotCommand creates the snapshot cache management command.
func (c *CLI) snapshotCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Manage the layout snapshot cache",
	}

	cmd.AddCommand(c.snapshotListCommand())
	cmd.AddCommand(c.snapshotClearCommand())
	cmd.AddCommand(c.snapshotPathCommand())

	return cmd
}

// snapshotListCommand creates the "snapshot ls" subcommand.
func (c *CLI) snapshotListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ls",
		Short: "List cached layout snapshots",
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, err := c.newFileCache()
			if err != nil {
				return fmt.Errorf("open snapshot cache: %w", err)
			}
			defer fc.Close()

			count := 0
			var total int64
			err = filepath.Walk(fc.Dir(), func(path string, info os.FileInfo, err error) error {
				if err != nil || info.IsDir() {
					return nil
				}
				count++
				total += info.Size()
				printDetail("%s (%d bytes)", filepath.Base(path), info.Size())
				return nil
			})
			if err != nil {
				return err
			}

			if count == 0 {
				printInfo("Snapshot cache is empty")
				return nil
			}
			printKeyValue("Entries", fmt.Sprintf("%d", count))
			printKeyValue("Total size", fmt.Sprintf("%d bytes", total))
			return nil
		},
	}
}

// snapshotClearCommand creates the "snapshot clear" subcommand.
func (c *CLI) snapshotClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached layout snapshots",
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, err := c.newFileCache()
			if err != nil {
				return fmt.Errorf("open snapshot cache: %w", err)
			}
			defer fc.Close()

			if err := fc.Clear(); err != nil {
				return err
			}
			printSuccess("Cleared snapshot cache")
			printDetail("Directory: %s", fc.Dir())
			return nil
		},
	}
}

// snapshotPathCommand creates the "snapshot path" subcommand.
func (c *CLI) snapshotPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the snapshot cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, err := c.newFileCache()
			if err != nil {
				return fmt.Errorf("open snapshot cache: %w", err)
			}
			defer fc.Close()
			fmt.Println(fc.Dir())
			return nil
		},
	}
}
