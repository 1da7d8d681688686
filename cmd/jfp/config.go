package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/matsen/journalfp/internal/config"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Get or set configuration values",
	Long: `Get or set configuration values.

Usage:
  jfp config                               # Show all config
  jfp config records-dir                   # Get specific value
  jfp config records-dir /data/abstracts   # Set value
  jfp config rate 2                        # Set service request rate

Keys:
  records-dir  Directory of per-journal abstract record files
  service-url  Fingerprint service base URL
  rate         Service requests per second
  lemma-dict   Path to the lemma dictionary TSV`,
	Args: cobra.MaximumNArgs(2),
	RunE: runConfig,
}

// ConfigResponse is the response for showing all config values.
type ConfigResponse struct {
	RecordsDir    string  `json:"records_dir,omitempty"`
	ServiceURL    string  `json:"service_url,omitempty"`
	RatePerSecond float64 `json:"rate_per_second,omitempty"`
	LemmaDict     string  `json:"lemma_dict,omitempty"`
}

func runConfig(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	cfg := mustLoadConfig(repoRoot)

	// No args: show all config
	if len(args) == 0 {
		if humanOutput {
			fmt.Printf("records-dir: %s\n", cfg.RecordsDir)
			fmt.Printf("service-url: %s\n", cfg.ServiceURL)
			fmt.Printf("rate:        %g\n", cfg.RatePerSecond)
			fmt.Printf("lemma-dict:  %s\n", cfg.LemmaDict)
		} else {
			outputJSON(ConfigResponse{
				RecordsDir:    cfg.RecordsDir,
				ServiceURL:    cfg.ServiceURL,
				RatePerSecond: cfg.RatePerSecond,
				LemmaDict:     cfg.LemmaDict,
			})
		}
		return nil
	}

	key := args[0]
	normalizedKey := normalizeKey(key)

	// One arg: get specific value
	if len(args) == 1 {
		switch normalizedKey {
		case "records-dir":
			printConfigValue("records_dir", cfg.RecordsDir)
		case "service-url":
			printConfigValue("service_url", cfg.ServiceURL)
		case "rate":
			printConfigValue("rate_per_second", strconv.FormatFloat(cfg.RatePerSecond, 'g', -1, 64))
		case "lemma-dict":
			printConfigValue("lemma_dict", cfg.LemmaDict)
		default:
			exitWithError(ExitError, "unknown configuration key: %s", key)
		}
		return nil
	}

	// Two args: set value
	value := args[1]

	switch normalizedKey {
	case "records-dir":
		expandedValue := config.ExpandPath(value)
		if err := config.ValidateRecordsDir(expandedValue); err != nil {
			exitWithError(ExitConfigError, "%v", err)
		}
		cfg.RecordsDir = expandedValue

	case "service-url":
		cfg.ServiceURL = value

	case "rate":
		rate, err := strconv.ParseFloat(value, 64)
		if err != nil || rate <= 0 {
			exitWithError(ExitError, "rate must be a positive number, got %q", value)
		}
		cfg.RatePerSecond = rate

	case "lemma-dict":
		cfg.LemmaDict = config.ExpandPath(value)

	default:
		exitWithError(ExitError, "unknown configuration key: %s", key)
	}

	if err := cfg.Save(repoRoot); err != nil {
		exitWithError(ExitError, "saving config: %v", err)
	}

	if humanOutput {
		fmt.Printf("Updated %s to %s\n", normalizedKey, value)
	} else {
		outputJSON(UpdateResponse{
			Status: "updated",
			Key:    normalizedKey,
			Value:  value,
		})
	}

	return nil
}

// printConfigValue prints a single config value in the selected format.
func printConfigValue(jsonKey, value string) {
	if humanOutput {
		fmt.Println(value)
	} else {
		outputJSON(map[string]string{jsonKey: value})
	}
}

// normalizeKey converts key formats (records-dir, records_dir) to a consistent format.
func normalizeKey(key string) string {
	key = strings.ToLower(key)
	key = strings.ReplaceAll(key, "_", "-")
	return key
}
