package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tbehner/tdidt"
	"github.com/tbehner/tdidt/feature"
	fjson "github.com/tbehner/tdidt/feature/json"
	"github.com/tbehner/tdidt/tree"
	tjson "github.com/tbehner/tdidt/tree/json"
	"github.com/tbehner/tdidt/tree/redisstore"
	"gopkg.in/redis.v5"
)

type growCmdConfig struct {
	*datasetConfig
	output      string
	redisAddr   string
	redisPrefix string
	redisDB     int
}

func growCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &growCmdConfig{datasetConfig: &datasetConfig{rootCmdConfig: rootConfig}}
	cmd := &cobra.Command{
		Use:   "grow",
		Short: "Grow a tree from a dataset",
		Long:  `Grow a decision tree that predicts the outcome of the records of a dataset from their features.`,
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
			trainingSet, err := config.readDataset(ctx, schema)
			if err != nil {
				fmt.Fprintf(os.Stderr, "reading training set: %v\n", err)
				os.Exit(3)
			}
			opts := []tdidt.Option{tdidt.WithLogger(config.logger)}
			if config.redisAddr != "" {
				rc, ns := config.redisNodeStore(trainingSet.Schema())
				defer rc.Close()
				opts = append(opts, tdidt.WithNodeStore(ns))
			}
			t, err := tdidt.Grow(ctx, trainingSet, trainingSet.Schema().Features(), opts...)
			if err != nil {
				fmt.Fprintf(os.Stderr, "growing the tree: %v\n", err)
				os.Exit(4)
			}
			config.Logf("Done")
			config.Logf("%v", t)
			err = outputTree(ctx, config.output, t)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(5)
			}
		},
	}
	config.addFlags(cmd, "grow the tree")
	cmd.PersistentFlags().StringVarP(&(config.output), "output", "o", "", "path to a file to which the generated tree will be written in JSON format (defaults to STDOUT)")
	cmd.PersistentFlags().StringVar(&(config.redisAddr), "redis", "", "address of a redis server on which to keep the nodes of the tree while growing it (defaults to keeping them in memory)")
	cmd.PersistentFlags().StringVar(&(config.redisPrefix), "redis-prefix", "tdidt", "prefix of the keys under which nodes are kept on redis")
	cmd.PersistentFlags().IntVar(&(config.redisDB), "redis-db", 0, "redis database on which nodes are kept")
	return cmd
}

func (gcc *growCmdConfig) Validate() error {
	if gcc.redisAddr != "" && gcc.redisPrefix == "" {
		return fmt.Errorf("redis-prefix flag cannot be empty when using redis")
	}
	return gcc.datasetConfig.Validate()
}

func (gcc *growCmdConfig) redisNodeStore(schema *feature.Schema) (*redis.Client, tree.NodeStore) {
	gcc.Logf("Keeping nodes on redis at %s under prefix %s...", gcc.redisAddr, gcc.redisPrefix)
	rc := redis.NewClient(&redis.Options{Addr: gcc.redisAddr, DB: gcc.redisDB})
	nencdec := tjson.NewNodeEncodeDecoder(fjson.NewCriteriaEncodeDecoder(schema))
	return rc, redisstore.New(rc, gcc.redisPrefix, nencdec)
}
