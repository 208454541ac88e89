package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tbehner/tdidt/dataset/inputsample"
	"github.com/tbehner/tdidt/feature"
)

type classifyCmdConfig struct {
	*datasetConfig
	treeInput   string
	interactive bool
}

type stdoutFeatureValueRequester struct{}

func classifyCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &classifyCmdConfig{datasetConfig: &datasetConfig{rootCmdConfig: rootConfig}}
	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Classify records with a tree",
		Long: `Use a tree to classify the records of a dataset, printing the identifier and the predicted outcome of each,
or to classify a single record answering questions about the features the tree tests on it`,
		Run: func(cmd *cobra.Command, args []string) {
			err := config.Validate()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			ctx := config.Context()
			tree, err := loadTree(ctx, config.treeInput)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(2)
			}
			if config.interactive {
				outcome, err := tree.Classify(ctx, inputsample.New(os.Stdin, tree.Schema, stdoutFeatureValueRequester{}))
				if err != nil {
					fmt.Fprintln(os.Stderr, err)
					os.Exit(3)
				}
				fmt.Printf("Predicted outcome is %s\n", formatOutcome(outcome))
				return
			}
			schema, err := config.schema()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(4)
			}
			if schema == nil {
				schema = tree.Schema
			}
			ds, err := config.readDataset(ctx, schema)
			if err != nil {
				fmt.Fprintf(os.Stderr, "reading dataset: %v\n", err)
				os.Exit(5)
			}
			config.Logf("Classifying %d records...", ds.Count())
			for _, r := range ds.Records() {
				outcome, err := tree.Classify(ctx, r)
				if err != nil {
					fmt.Fprintf(os.Stderr, "classifying record %s: %v\n", r.ID(), err)
					os.Exit(6)
				}
				fmt.Printf("%s,%s\n", r.ID(), formatOutcome(outcome))
			}
			config.Logf("Done")
		},
	}
	config.addFlags(cmd, "classify")
	cmd.PersistentFlags().StringVarP(&(config.treeInput), "tree", "t", "", "path to a file from which the tree to classify with will be read and parsed as JSON (required)")
	cmd.PersistentFlags().BoolVar(&(config.interactive), "interactive", false, "classify a single record whose feature values are requested on STDOUT and read from STDIN")
	return cmd
}

func (ccc *classifyCmdConfig) Validate() error {
	if ccc.treeInput == "" {
		return fmt.Errorf("required tree flag was not set")
	}
	if ccc.interactive && ccc.dataInput != "" {
		return fmt.Errorf("cannot set both interactive and input flags at the same time")
	}
	return ccc.datasetConfig.Validate()
}

func formatOutcome(outcome bool) string {
	if outcome {
		return "yes"
	}
	return "no"
}

func (stdoutFeatureValueRequester) RequestValueFor(f feature.Feature) error {
	switch f := f.(type) {
	case *feature.CategoricalFeature:
		if len(f.AvailableValues()) > 0 {
			fmt.Printf("Please provide the record's %s:\n(valid values are %v)\n", f.Name(), f.AvailableValues())
			return nil
		}
		fmt.Printf("Please provide the record's %s:\n", f.Name())
	case *feature.NumericFeature:
		fmt.Printf("Please provide the record's %s:\n(valid values are real numbers)\n", f.Name())
	case *feature.BooleanFeature:
		fmt.Printf("Please provide the record's %s:\n(valid values are yes or no)\n", f.Name())
	default:
		return fmt.Errorf("unknown feature type %T", f)
	}
	return nil
}

func (stdoutFeatureValueRequester) RejectValueFor(f feature.Feature, value string) error {
	switch f := f.(type) {
	case *feature.CategoricalFeature:
		fmt.Printf("%s is not a valid value for the record's %s. Please provide one of %v.\n", value, f.Name(), f.AvailableValues())
	case *feature.NumericFeature:
		fmt.Printf("%s is not a valid value for the record's %s. Please provide a real number.\n", value, f.Name())
	case *feature.BooleanFeature:
		fmt.Printf("%s is not a valid value for the record's %s. Please provide yes or no.\n", value, f.Name())
	default:
		return fmt.Errorf("unknown feature type %T", f)
	}
	return nil
}
