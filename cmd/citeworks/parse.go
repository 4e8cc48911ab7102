// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/citeworks/internal/alloc"
	"github.com/pdiddy/citeworks/internal/extract"
	"github.com/pdiddy/citeworks/internal/parse"
	"github.com/pdiddy/citeworks/pkg/types"
)

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse raw citation lines into reference markup",
	Long: `Parse sends raw citation lines (one per line, blank lines skipped) to the
reference-parsing inference service and renders each structured result as a
bibliography entry with a fresh id and a sequential label.

The API key is read from --api-key, the parser.api_key config value, or the
.secrets/parser-api-key file, in that order.`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func runParse(cmd *cobra.Command, args []string) error {
	text, err := readInput(args[0])
	if err != nil {
		return err
	}

	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if s := strings.TrimSpace(line); s != "" {
			lines = append(lines, s)
		}
	}
	if len(lines) == 0 {
		return fmt.Errorf("no citation lines in %s", args[0])
	}

	cfg := parserConfig(cmd)
	backend := parse.NewHTTPBackend(cfg)

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(len(lines))*timeout)
	defer cancel()

	refs, err := parse.ParseReferences(ctx, backend, lines, cfg.MaxRetries)
	if err != nil {
		return err
	}

	floor, _ := cmd.Flags().GetInt("floor")
	a := alloc.New("", []string{extract.PrefixBib}, alloc.Options{Floor: floor})

	var b strings.Builder
	for i, ref := range refs {
		b.WriteString(parse.BuildBibReference(ref, a.Next(extract.PrefixBib), strconv.Itoa(i+1)))
		b.WriteString("\n")
	}

	outPath, _ := cmd.Flags().GetString("output")
	return writeOutput(outPath, strings.TrimRight(b.String(), "\n"))
}

// parserConfig resolves the inference-service settings: flags win over the
// config file; the API key additionally falls back to the secrets directory.
func parserConfig(cmd *cobra.Command) types.ParserConfig {
	cfg := types.ParserConfig{
		Endpoint:   viper.GetString("parser.endpoint"),
		Model:      viper.GetString("parser.model"),
		APIKey:     viper.GetString("parser.api_key"),
		MaxRetries: viper.GetInt("parser.max_retries"),
	}
	cfg.Timeout = viper.GetDuration("parser.timeout")
	cfg.UserAgent = viper.GetString("parser.user_agent")

	if v, _ := cmd.Flags().GetString("endpoint"); v != "" {
		cfg.Endpoint = v
	}
	if v, _ := cmd.Flags().GetString("model"); v != "" {
		cfg.Model = v
	}
	if v, _ := cmd.Flags().GetInt("max-retries"); v > 0 {
		cfg.MaxRetries = v
	}
	if v, _ := cmd.Flags().GetDuration("timeout"); v > 0 {
		cfg.Timeout = v
	}
	apiKey, _ := cmd.Flags().GetString("api-key")
	cfg.APIKey = secretDefault("parser-api-key", firstNonEmpty(apiKey, cfg.APIKey))
	return cfg
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func init() {
	parseCmd.Flags().String("output", "", "output file (default: stdout)")
	parseCmd.Flags().String("endpoint", "", "inference service URL")
	parseCmd.Flags().String("model", "", "model identifier sent with each request")
	parseCmd.Flags().String("api-key", "", "inference service API key")
	parseCmd.Flags().Int("max-retries", 0, "retry attempts on rate-limited calls (0 = config or default)")
	parseCmd.Flags().Duration("timeout", 0, "per-request timeout (0 = config or default)")
	parseCmd.Flags().Int("floor", 0, "identifier allocation floor (0 = built-in default)")

	rootCmd.AddCommand(parseCmd)
}
