package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"tourprep/pkg"
	"tourprep/pkg/config"
)

var logLevel string
var logFormat string
var configFile string

// loadConfig reads the --config file when given and lets explicitly set flags override it.
func loadConfig(overrides func(cfg *config.Config)) (config.Config, error) {
	cfg := config.Default()
	if configFile != "" {
		var err error
		cfg, err = config.Load(configFile)
		if err != nil {
			return config.Config{}, err
		}
	}
	overrides(&cfg)
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid settings: %w", err)
	}
	return cfg, nil
}

func PrepareCommand() *cobra.Command {

	var inputFile string
	var splitFile string
	var metadataFile string
	var format string
	var delimiter string
	var metricsFile string
	var seed uint64
	var testFraction float64

	var cmd = &cobra.Command{
		Use:   "prepare -i dataFile [--split-output file] [--metadata-output file]",
		Short: "Builds the binary feature matrix, the stratified train/test split and the location group metadata",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			cfg, err := loadConfig(func(cfg *config.Config) {
				if flags.Changed("input") {
					cfg.Input = inputFile
				}
				if flags.Changed("split-output") {
					cfg.SplitOutput = splitFile
				}
				if flags.Changed("metadata-output") {
					cfg.MetadataOutput = metadataFile
				}
				if flags.Changed("format") {
					cfg.Format = format
				}
				if flags.Changed("delimiter") {
					cfg.Delimiter = delimiter
				}
				if flags.Changed("metrics-file") {
					cfg.MetricsFile = metricsFile
				}
				if flags.Changed("random-seed") {
					cfg.Seed = seed
				}
				if flags.Changed("test-fraction") {
					cfg.TestFraction = testFraction
				}
			})
			if err != nil {
				return err
			}
			if cfg.Input == "" {
				return fmt.Errorf("no input file: set --input or input in the config file")
			}
			_, err = pkg.Prepare(cfg)
			return err
		},
	}

	cmd.Flags().StringVarP(&inputFile, "input", "i", "", "name of the input data file")
	cmd.Flags().StringVarP(&splitFile, "split-output", "s", "processed_data.gob", "name of the file to save the train/test split to")
	cmd.Flags().StringVarP(&metadataFile, "metadata-output", "o", "model_metadata.gob", "name of the file to save the metadata bundle to")
	cmd.Flags().StringVarP(&format, "format", "f", "gob", "artifact format: gob or msgpack")
	cmd.Flags().StringVarP(&delimiter, "delimiter", "d", ",", "input field delimiter")
	cmd.Flags().StringVarP(&metricsFile, "metrics-file", "", "", "write run metrics to this prometheus textfile (optional)")
	cmd.Flags().Uint64VarP(&seed, "random-seed", "x", 42, "random seed of the train/test split")
	cmd.Flags().Float64VarP(&testFraction, "test-fraction", "t", 0.2, "share of every group that goes to the test set")

	return cmd
}

func InspectCommand() *cobra.Command {
	var metadataFile string
	var format string
	var group string
	var label int

	var cmd = &cobra.Command{
		Use:   "inspect -m metadataFile [--group key | --label id]",
		Short: "Shows the feature schema and location groups of a metadata bundle",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := pkg.Inspect(pkg.InspectParameters{
				MetadataFile: metadataFile,
				Format:       format,
				Group:        group,
				Label:        label,
			})
			return err
		},
	}

	cmd.Flags().StringVarP(&metadataFile, "metadata", "m", "", "name of the metadata file")
	cmd.Flags().StringVarP(&format, "format", "f", "gob", "artifact format: gob or msgpack")
	cmd.Flags().StringVarP(&group, "group", "g", "", "list the locations of this group key")
	cmd.Flags().IntVarP(&label, "label", "l", -1, "decode this label and list its locations")

	_ = cmd.MarkFlagRequired("metadata")

	return cmd
}

func RootCommand() *cobra.Command {
	root := &cobra.Command{Use: "tourprep", PersistentPreRunE: setupLogging, SilenceUsage: true}

	root.PersistentFlags().StringVarP(&logLevel, "log-level", "", "info", "Logging level: info error or debug")
	root.PersistentFlags().StringVarP(&logFormat, "log-format", "", "pretty", "Logging format: pretty or json")
	root.PersistentFlags().StringVarP(&configFile, "config", "c", "", "YAML configuration file (optional)")

	root.AddCommand(PrepareCommand())
	root.AddCommand(InspectCommand())
	return root
}

func main() {
	if err := RootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func setupLogging(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	if configFile != "" {
		cfg, err := config.Load(configFile)
		if err != nil {
			return err
		}
		if !flags.Changed("log-level") {
			logLevel = cfg.Logging.Level
		}
		if !flags.Changed("log-format") {
			logFormat = cfg.Logging.Format
		}
	}

	switch logLevel {
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	default:
		return fmt.Errorf("invalid logging level %q", logLevel)
	}

	switch logFormat {
	case "pretty":
		setupPrettyLogging()
	case "json":
	default:
		return fmt.Errorf("invalid log format %q", logFormat)
	}
	return nil
}

func setupPrettyLogging() {
	writer := zerolog.ConsoleWriter{Out: os.Stderr}
	writer.FormatFieldValue = func(i interface{}) string {
		switch v := i.(type) {
		case json.Number:
			val, _ := v.Float64()
			return fmt.Sprintf("%.3f", val)
		default:
			return fmt.Sprintf("%s", i)
		}

	}
	log.Logger = log.Output(writer)

}
