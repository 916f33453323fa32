package main

import (
	"fmt"
	"math"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	cfg "github.com/johnrychristian11/conflict-resolution-tki/config"
	"github.com/johnrychristian11/conflict-resolution-tki/orchestrator"
	"github.com/johnrychristian11/conflict-resolution-tki/tki"
)

type rootOpts struct {
	configPath string
	logLevel   string

	conf *cfg.Root
	log  *logrus.Logger
}

func newRootCmd() *cobra.Command {
	o := &rootOpts{}
	root := &cobra.Command{
		Use:           "tki",
		Short:         "Classify conversation turns into Thomas-Kilmann conflict styles",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			conf, err := cfg.Load(o.configPath)
			if err != nil {
				return err
			}
			lvl := conf.Pipeline.LogLvl
			if o.logLevel != "" {
				lvl = o.logLevel
			}
			o.conf = conf
			o.log = cfg.NewLogger(lvl, conf.Pipeline.LogFormat, cmd.ErrOrStderr())
			return nil
		},
	}
	root.PersistentFlags().StringVar(&o.configPath, "config", "", "path to config.yaml (default: config/$CONFIG_ENV/config.yaml)")
	root.PersistentFlags().StringVar(&o.logLevel, "log-level", "", "override pipeline.log_level")

	root.AddCommand(newAnalyzeCmd(o), newClassifyCmd(), newVersionCmd(o))
	return root
}

func newAnalyzeCmd(o *rootOpts) *cobra.Command {
	var (
		outDir    string
		noAI      bool
		noPersist bool
	)
	cmd := &cobra.Command{
		Use:   "analyze [conversation.yaml]",
		Short: "Analyse every turn of a conversation and suggest resolutions",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := filepath.Join(o.conf.Paths.Data, "conversations", "sample.yaml")
			if len(args) == 1 {
				path = args[0]
			}
			if outDir != "" {
				o.conf.Paths.Outputs = outDir
			}

			opts := []orchestrator.Option{
				orchestrator.WithLogger(o.log),
				orchestrator.WithOutput(cmd.OutOrStdout()),
			}
			if noAI {
				opts = append(opts, orchestrator.WithoutAI())
			}
			if noPersist {
				opts = append(opts, orchestrator.WithoutPersist())
			}

			o.log.WithField("conversation", path).Info("analysis starting")
			return orchestrator.NewPipeline(o.conf, opts...).Run(cmd.Context(), path)
		},
	}
	cmd.Flags().StringVar(&outDir, "out", "", "directory for session output (overrides paths.outputs)")
	cmd.Flags().BoolVar(&noAI, "no-ai", false, "skip the AI resolution request")
	cmd.Flags().BoolVar(&noPersist, "no-persist", false, "do not write the session bundle")
	return cmd
}

func newClassifyCmd() *cobra.Command {
	var tension, assertiveness float64
	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Map a tension/assertiveness pair to a TKI style",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := unitInterval("tension", tension); err != nil {
				return err
			}
			if err := unitInterval("assertiveness", assertiveness); err != nil {
				return err
			}
			style := tki.Classify(tension, assertiveness)
			fmt.Fprintln(cmd.OutOrStdout(), style.Label())
			fmt.Fprintln(cmd.OutOrStdout(), tki.Explain(tension, assertiveness))
			return nil
		},
	}
	cmd.Flags().Float64Var(&tension, "tension", 0, "tension score in [0,1]")
	cmd.Flags().Float64Var(&assertiveness, "assertiveness", 0.5, "assertiveness score in [0,1]")
	return cmd
}

func unitInterval(flag string, v float64) error {
	if math.IsNaN(v) || v < 0 || v > 1 {
		return fmt.Errorf("--%s must be in [0,1], got %v", flag, v)
	}
	return nil
}

func newVersionCmd(o *rootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the pipeline name and version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", o.conf.Pipeline.Name, o.conf.Pipeline.Version)
		},
	}
}
