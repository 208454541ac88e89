package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

type setCmdConfig struct {
	*datasetConfig
	setOutput string
}

func setCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &setCmdConfig{datasetConfig: &datasetConfig{rootCmdConfig: rootConfig}}
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Copy a dataset",
		Long:  `Copy a dataset from a CSV file, a SQL database or a MongoDB collection onto another`,
		Run: func(cmd *cobra.Command, args []string) {
			err := config.Validate()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			ctx := config.Context()
			schema, err := config.schema()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(2)
			}
			ds, err := config.readDataset(ctx, schema)
			if err != nil {
				fmt.Fprintf(os.Stderr, "reading input set: %v\n", err)
				os.Exit(3)
			}
			count, err := config.writeDataset(ctx, config.setOutput, ds)
			if err != nil {
				fmt.Fprintf(os.Stderr, "writing output set: %v\n", err)
				os.Exit(4)
			}
			config.Logf("Done")
			config.Logf("Copied %d of %d records", count, ds.Count())
		},
	}
	config.addFlags(cmd, "copy")
	cmd.PersistentFlags().StringVarP(&(config.setOutput), "output", "o", "", "path to a CSV (.csv) or SQLite3 (.db) file, or a PostgreSQL or MongoDB connection URL to dump the set onto (defaults to STDOUT, as CSV)")
	return cmd
}

func (scc *setCmdConfig) Validate() error {
	if scc.setOutput != "" && scc.setOutput == scc.dataInput {
		return fmt.Errorf("input and output flags cannot be set to the same value")
	}
	return scc.datasetConfig.Validate()
}
