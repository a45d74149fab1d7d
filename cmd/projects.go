package main

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"promptcraft_server/internal/storage"
)

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "Inspect and move saved projects",
}

var projectsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved projects",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := storage.Open(cmd.Context(), cfg.DatabasePath)
		if err != nil {
			return err
		}
		defer store.Close()

		projects, err := store.ListProjects(cmd.Context())
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tCOMPONENTS\tUPDATED")
		for _, p := range projects {
			fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", p.ID, p.Name, len(p.Schema.Components), p.UpdatedAt.Format("2006-01-02 15:04"))
		}
		return tw.Flush()
	},
}

var projectsExportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Write all projects as a JSON array (stdout by default)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := storage.Open(cmd.Context(), cfg.DatabasePath)
		if err != nil {
			return err
		}
		defer store.Close()

		data, err := store.ExportProjects(cmd.Context())
		if err != nil {
			return err
		}
		if len(args) == 0 || args[0] == "-" {
			_, err = cmd.OutOrStdout().Write(append(data, '\n'))
			return err
		}
		if err := os.WriteFile(args[0], data, 0o644); err != nil {
			return fmt.Errorf("cannot write %s: %w", args[0], err)
		}
		return nil
	},
}

var projectsImportCmd = &cobra.Command{
	Use:   "import <file|->",
	Short: "Replace all projects with the contents of an export file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := readInput(cmd, args[0])
		if err != nil {
			return err
		}
		store, err := storage.Open(cmd.Context(), cfg.DatabasePath)
		if err != nil {
			return err
		}
		defer store.Close()

		ok, err := store.ImportProjects(cmd.Context(), data)
		if err != nil {
			return err
		}
		if !ok {
			return errors.New("import rejected: expected a JSON array of projects")
		}
		projects, err := store.ListProjects(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "imported %d projects\n", len(projects))
		return nil
	},
}

func init() {
	projectsCmd.AddCommand(projectsListCmd, projectsExportCmd, projectsImportCmd)
}
