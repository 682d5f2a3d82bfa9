package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/memvault-cli/internal/core/domain"
)

var (
	searchFolders       []string
	searchFolder        string
	searchMode          string
	searchLimit         int
	searchMinScore      float64
	searchVectorWeight  float64
	searchLexicalWeight float64
	searchJSON          bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the vault",
	Long: `Ranks items against the query. The default hybrid mode fuses vector
similarity with lexical keyword relevance; vector and keywordBoost
modes are also available.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringSliceVarP(&searchFolders, "scope", "s", nil, "folder ids to search (repeatable)")
	searchCmd.Flags().StringVarP(&searchFolder, "folder", "f", "", "narrow the scope to a single folder")
	searchCmd.Flags().StringVarP(&searchMode, "mode", "M", "", "scoring mode: vector, keywordBoost or hybrid")
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 0, "maximum number of results")
	searchCmd.Flags().Float64Var(&searchMinScore, "min-score", math.NaN(), "drop results scoring below this")
	searchCmd.Flags().Float64Var(&searchVectorWeight, "vector-weight", math.NaN(), "hybrid vector weight")
	searchCmd.Flags().Float64Var(&searchLexicalWeight, "lexical-weight", math.NaN(), "hybrid lexical weight")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if searchService == nil {
		return errors.New("search service not configured")
	}

	opts := domain.SearchOptions{
		Scope:         searchFolders,
		FolderID:      folderPtr(searchFolder),
		Mode:          domain.SearchMode(searchMode),
		Limit:         searchLimit,
		MinScore:      optionalFloat(searchMinScore),
		VectorWeight:  optionalFloat(searchVectorWeight),
		LexicalWeight: optionalFloat(searchLexicalWeight),
	}

	results, err := searchService.Search(cmd.Context(), args[0], opts)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, results)
	}
	return outputSearchTable(cmd, results)
}

// optionalFloat maps an unset (NaN-defaulted) flag to nil.
func optionalFloat(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}

func outputSearchJSON(cmd *cobra.Command, results []domain.SearchResult) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, results []domain.SearchResult) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i := range results {
		title := domain.StringValue(results[i].Item.Title)
		if title == "" {
			title = results[i].Item.ID
		}

		cmd.Printf("  [%d] %s (%.3f)\n", i+1, title, results[i].Score)
		if description := domain.StringValue(results[i].Item.DescriptionAI); description != "" {
			cmd.Printf("      %s\n", description)
		}
		if results[i].ReadURL != "" {
			cmd.Printf("      %s\n", results[i].ReadURL)
		}
		cmd.Println()
	}
	return nil
}
