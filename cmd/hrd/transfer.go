package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/warp/hr-records/factory"
)

var (
	exportOut  string
	importList string
	logsJSON   bool
)

var exportCmd = &cobra.Command{
	Use:       "export <module> [list]",
	Short:     "Print a list as JSON",
	Long:      "Prints a module's primary list, or the named link list, in its persisted layout.",
	Args:      cobra.RangeArgs(1, 2),
	ValidArgs: factory.Names,
	RunE: func(cmd *cobra.Command, args []string) error {
		mods, err := openModules(cmd.Context())
		if err != nil {
			return err
		}
		list := ""
		if len(args) == 2 {
			list = args[1]
		}
		c, err := mods.Collection(args[0], list)
		if err != nil {
			return err
		}

		data, err := c.Export()
		if err != nil {
			return err
		}
		if exportOut == "" || exportOut == "-" {
			_, err = cmd.OutOrStdout().Write(append(data, '\n'))
			return err
		}
		return os.WriteFile(exportOut, data, 0o640)
	},
}

var importCmd = &cobra.Command{
	Use:   "import <module> <file>",
	Short: "Append a JSON array of records to a list",
	Long: `Appends every record of a JSON array file to a list, verbatim. Anything
other than an array of objects is rejected and nothing is imported.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		mods, err := openModules(cmd.Context())
		if err != nil {
			return err
		}
		c, err := mods.Collection(args[0], importList)
		if err != nil {
			return err
		}

		payload, err := os.ReadFile(args[1])
		if err != nil {
			return err
		}
		n, err := c.Import(cmd.Context(), payload)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "imported %d records into %s (%d total)\n", n, c.Name(), c.Len())
		return nil
	},
}

var logsCmd = &cobra.Command{
	Use:       "logs <module>",
	Short:     "Print a module's audit log",
	Args:      cobra.ExactArgs(1),
	ValidArgs: factory.Names,
	RunE: func(cmd *cobra.Command, args []string) error {
		mods, err := openModules(cmd.Context())
		if err != nil {
			return err
		}
		d, ok := mods.Lookup(args[0])
		if !ok {
			return fmt.Errorf("unknown module %q (want one of %v)", args[0], factory.Names)
		}

		entries := d.Log.Entries()
		if logsJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(entries)
		}

		t := table.New().
			Border(lipgloss.NormalBorder()).
			Headers("TIMESTAMP", "ACTION", "DETAILS")
		for _, e := range entries {
			t.Row(e.Timestamp.String(), string(e.Action), e.Details)
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), t.Render())
		return err
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "output", "o", "", "write to file instead of stdout")
	importCmd.Flags().StringVar(&importList, "list", "", "target list (default: the module's records)")
	logsCmd.Flags().BoolVar(&logsJSON, "json", false, "print entries as JSON")
}
