package cli

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/memvault-cli/internal/core/domain"
)

// resetSearchFlags restores the flag-bound package vars; cobra keeps
// their values across Execute calls.
func resetSearchFlags() {
	searchFolders = nil
	searchFolder = ""
	searchMode = ""
	searchLimit = 0
	searchMinScore = math.NaN()
	searchVectorWeight = math.NaN()
	searchLexicalWeight = math.NaN()
	searchJSON = false
}

func TestSearchCmd_Use(t *testing.T) {
	assert.Equal(t, "search [query]", searchCmd.Use)
}

func TestSearchCmd_Short(t *testing.T) {
	assert.Equal(t, "Search the vault", searchCmd.Short)
}

func TestSearchCmd_RequiresExactlyOneArg(t *testing.T) {
	_, err := executeCommand("search")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestSearchCmd_HasScopeFlag(t *testing.T) {
	flag := searchCmd.Flags().Lookup("scope")
	require.NotNil(t, flag)
	assert.Equal(t, "s", flag.Shorthand)
}

func TestSearchCmd_HasModeFlag(t *testing.T) {
	flag := searchCmd.Flags().Lookup("mode")
	require.NotNil(t, flag)
	assert.Equal(t, "M", flag.Shorthand)
}

func TestSearchCmd_HasLimitFlag(t *testing.T) {
	flag := searchCmd.Flags().Lookup("limit")
	require.NotNil(t, flag)
	assert.Equal(t, "n", flag.Shorthand)
}

func TestSearchCmd_PassesOptions(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	defer resetSearchFlags()

	_, err := executeCommand("search", "beach sunset",
		"--scope", "f1", "--scope", "f2",
		"--folder", "f1",
		"--mode", "vector",
		"--limit", "5",
		"--min-score", "0.4",
	)
	require.NoError(t, err)

	stub := searchService.(*stubSearch)
	assert.Equal(t, []string{"f1", "f2"}, stub.lastOpt.Scope)
	require.NotNil(t, stub.lastOpt.FolderID)
	assert.Equal(t, "f1", *stub.lastOpt.FolderID)
	assert.Equal(t, domain.SearchModeVector, stub.lastOpt.Mode)
	assert.Equal(t, 5, stub.lastOpt.Limit)
	require.NotNil(t, stub.lastOpt.MinScore)
	assert.InDelta(t, 0.4, *stub.lastOpt.MinScore, 1e-9)
	assert.Nil(t, stub.lastOpt.VectorWeight)
	assert.Nil(t, stub.lastOpt.LexicalWeight)
}

func TestSearchCmd_UnsetFloatsStayNil(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	defer resetSearchFlags()

	_, err := executeCommand("search", "anything")
	require.NoError(t, err)

	stub := searchService.(*stubSearch)
	assert.Nil(t, stub.lastOpt.MinScore)
	assert.Nil(t, stub.lastOpt.VectorWeight)
	assert.Nil(t, stub.lastOpt.LexicalWeight)
	assert.Nil(t, stub.lastOpt.FolderID)
}

func TestSearchCmd_TableOutput(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	defer resetSearchFlags()

	searchService = &stubSearch{results: []domain.SearchResult{
		{
			Item: domain.Item{
				ID:            "item-1",
				Title:         domain.StringPtr("Beach day"),
				DescriptionAI: domain.StringPtr("A sunny beach with waves"),
			},
			Score:   0.91,
			ReadURL: "file:///blobs/media/item-1.mp4",
		},
	}}

	out, err := executeCommand("search", "beach")

	require.NoError(t, err)
	assert.Contains(t, out, "Results:")
	assert.Contains(t, out, "[1] Beach day (0.910)")
	assert.Contains(t, out, "A sunny beach with waves")
	assert.Contains(t, out, "file:///blobs/media/item-1.mp4")
}

func TestSearchCmd_NoResults(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	defer resetSearchFlags()

	out, err := executeCommand("search", "nothing matches")

	require.NoError(t, err)
	assert.Contains(t, out, "No results found.")
}

func TestSearchCmd_JSONOutput(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	defer resetSearchFlags()

	searchService = &stubSearch{results: []domain.SearchResult{
		{Item: domain.Item{ID: "item-1"}, Score: 0.5},
	}}

	out, err := executeCommand("search", "--json", "beach")

	require.NoError(t, err)
	assert.Contains(t, out, "\"Score\"")
	assert.Contains(t, out, "item-1")
}

func TestSearchCmd_TitleFallsBackToID(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	defer resetSearchFlags()

	searchService = &stubSearch{results: []domain.SearchResult{
		{Item: domain.Item{ID: "item-9"}, Score: 0.2},
	}}

	out, err := executeCommand("search", "beach")

	require.NoError(t, err)
	assert.Contains(t, out, "[1] item-9 (0.200)")
}
