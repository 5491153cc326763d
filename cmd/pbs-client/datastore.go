package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wy414012/proxmox-backup/internal/form"
)

var datastoreCmd = &cobra.Command{
	Use:   "datastore",
	Short: "Manage datastore configuration records",
}

var datastoreListCmd = &cobra.Command{
	Use:   "list",
	Short: "List datastore configuration records",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient(cmd.Context())
		if err != nil {
			return err
		}

		datastores, err := client.ListDatastores(cmd.Context())
		if err != nil {
			return err
		}

		for _, ds := range datastores {
			comment := ""
			if ds.Comment != nil {
				comment = *ds.Comment
			}
			fmt.Printf("%-20s %-40s %s\n", ds.Name, ds.Path, comment)
		}
		return nil
	},
}

var datastoreCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a datastore",
	RunE: func(cmd *cobra.Command, args []string) error {
		values, err := fieldValues(cmd)
		if err != nil {
			return err
		}

		schema := form.Datastore()
		if err := schema.Validate(form.ModeCreate, values); err != nil {
			return err
		}

		client, err := newClient(cmd.Context())
		if err != nil {
			return err
		}

		if err := client.CreateDatastore(cmd.Context(), schema.Insert(values)); err != nil {
			return err
		}

		fmt.Printf("datastore %s created\n", values["name"])
		return nil
	},
}

var datastoreUpdateCmd = &cobra.Command{
	Use:   "update <name>",
	Short: "Update a datastore in place",
	Long: `Update replaces fields of an existing datastore. Changed values are
given as flags; --clear marks a previously set field for removal on the
server, which is different from leaving it untouched.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		values, err := fieldValues(cmd)
		if err != nil {
			return err
		}
		clears, err := cmd.Flags().GetStringSlice("clear")
		if err != nil {
			return err
		}

		schema := form.Datastore()
		if err := schema.Validate(form.ModeEdit, values); err != nil {
			return err
		}
		for _, field := range clears {
			if _, ok := schema.Field(field); !ok {
				return fmt.Errorf("unknown field: %s", field)
			}
		}

		client, err := newClient(cmd.Context())
		if err != nil {
			return err
		}

		// The replace payload is computed against the stored record so
		// cleared fields become explicit delete markers.
		existing, err := client.GetDatastore(cmd.Context(), name)
		if err != nil {
			return err
		}
		previous := existing.Values()

		merged := make(map[string]string, len(previous))
		for k, v := range previous {
			merged[k] = v
		}
		for k, v := range values {
			if v != "" {
				merged[k] = v
			}
		}
		for _, field := range clears {
			merged[field] = ""
		}

		payload, deletes := schema.Replace(merged, previous)
		if err := client.UpdateDatastore(cmd.Context(), name, payload, deletes); err != nil {
			return err
		}

		fmt.Printf("datastore %s updated\n", name)
		return nil
	},
}

// editableFlags are the schema fields exposed as flags on create/update.
var editableFlags = []string{
	"path", "comment", "gc-schedule", "prune-schedule", "verify-schedule",
	"keep-last", "keep-hourly", "keep-daily", "keep-weekly", "keep-monthly", "keep-yearly",
}

func init() {
	for _, cmd := range []*cobra.Command{datastoreCreateCmd, datastoreUpdateCmd} {
		for _, name := range editableFlags {
			cmd.Flags().String(name, "", "")
		}
	}
	datastoreCreateCmd.Flags().String("name", "", "datastore name (required)")
	datastoreUpdateCmd.Flags().StringSlice("clear", nil, "fields to clear on the server")

	datastoreCmd.AddCommand(datastoreListCmd)
	datastoreCmd.AddCommand(datastoreCreateCmd)
	datastoreCmd.AddCommand(datastoreUpdateCmd)
}

// fieldValues collects schema field flags that were actually set.
func fieldValues(cmd *cobra.Command) (map[string]string, error) {
	values := make(map[string]string)

	names := editableFlags
	if cmd.Flags().Lookup("name") != nil {
		names = append([]string{"name"}, names...)
	}
	for _, name := range names {
		value, err := cmd.Flags().GetString(name)
		if err != nil {
			return nil, err
		}
		if value != "" {
			values[name] = value
		}
	}

	return values, nil
}
