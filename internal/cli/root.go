// Package cmd implements the readview command-line wrapper: a thin
// local-file front end over the readability engine. It does no network
// fetching and no byte-to-DOM parsing of its own beyond handing a file
// to golang.org/x/net/html.Parse.
package cmd

import (
	"fmt"
	"net/url"
	"os"

	"github.com/readview/readview/readability"
	"github.com/spf13/cobra"
	"golang.org/x/net/html"
)

var (
	cfgFile   string
	inputPath string
	baseURL   string
	format    string

	stripUnlikely      bool
	weightClasses      bool
	cleanConditionally bool
)

var rootCmd = &cobra.Command{
	Use:   "readview",
	Short: "Extract the readable article from a local HTML file.",
	Long: `readview runs the readability extraction engine against a locally
stored HTML file and prints the resulting article as HTML, plain text,
or a JSON metadata record.

It never fetches URLs itself; feed it a file you already downloaded.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if inputPath == "" {
			return fmt.Errorf("--input is required")
		}

		cfg, err := buildConfig()
		if err != nil {
			return err
		}

		f, err := os.Open(inputPath)
		if err != nil {
			return fmt.Errorf("open input: %w", err)
		}
		defer f.Close()

		doc, err := html.Parse(f)
		if err != nil {
			return fmt.Errorf("parse input: %w", err)
		}

		article, err := readability.Extract(doc, cfg)
		if err != nil {
			if readability.SeverityOf(err) == readability.SeverityRecoverable {
				fmt.Fprintf(os.Stderr, "warning: %s\n", err)
			}
			return err
		}

		return render(cmd, article)
	},
}

func render(cmd *cobra.Command, article readability.Article) error {
	switch format {
	case "text":
		fmt.Fprintln(cmd.OutOrStdout(), article.TextContent)
	case "json":
		fmt.Fprintf(cmd.OutOrStdout(), "{\"title\":%q,\"byline\":%q,\"excerpt\":%q,\"site_name\":%q,\"direction\":%q,\"length\":%d}\n",
			article.Title, article.Byline, article.Excerpt, article.SiteName, article.Direction, article.Length)
	case "html", "":
		fmt.Fprintln(cmd.OutOrStdout(), article.Content)
	default:
		return fmt.Errorf("unknown --format %q (want html, text, or json)", format)
	}
	return nil
}

func buildConfig() (readability.Config, error) {
	if cfgFile != "" {
		return readability.WithConfigFile(cfgFile)
	}

	builder := readability.NewConfig().
		WithStripUnlikely(stripUnlikely).
		WithWeightClasses(weightClasses).
		WithCleanConditionally(cleanConditionally)

	if baseURL != "" {
		u, err := url.Parse(baseURL)
		if err != nil {
			return readability.Config{}, fmt.Errorf("parse --base-url: %w", err)
		}
		builder = builder.WithBaseURL(u).WithURLOverride(true)
	}

	return builder.Build()
}

// Execute runs the root command. Called by cmd/readview/main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().StringVar(&inputPath, "input", "", "path to a local HTML file")
	rootCmd.Flags().StringVar(&cfgFile, "config", "", "JSON config file path, overrides the flags below")
	rootCmd.Flags().StringVar(&baseURL, "base-url", "", "base URL to resolve relative links and images against")
	rootCmd.Flags().StringVar(&format, "format", "html", "output format: html, text, or json")
	rootCmd.Flags().BoolVar(&stripUnlikely, "strip-unlikely", true, "drop nodes that look like navigation/ads/boilerplate")
	rootCmd.Flags().BoolVar(&weightClasses, "weight-classes", true, "use class/id name heuristics when scoring")
	rootCmd.Flags().BoolVar(&cleanConditionally, "clean-conditionally", true, "run the fishy-content conditional cleaning pass")
}

func resetFlagsForTest() {
	cfgFile = ""
	inputPath = ""
	baseURL = ""
	format = "html"
	stripUnlikely = true
	weightClasses = true
	cleanConditionally = true
}
