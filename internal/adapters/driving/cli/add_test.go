package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/memvault-cli/internal/core/domain"
	"github.com/custodia-labs/memvault-cli/internal/core/ports/driving"
)

func TestAddCmd_Use(t *testing.T) {
	assert.Equal(t, "add [url]", addCmd.Use)
}

func TestAddCmd_Short(t *testing.T) {
	assert.Equal(t, "Ingest a media URL or local file", addCmd.Short)
}

func TestAddCmd_RequiresExactlyOneArg(t *testing.T) {
	out, err := executeCommand("add")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
	_ = out
}

func TestAddCmd_HasFolderFlag(t *testing.T) {
	flag := addCmd.Flags().Lookup("folder")
	require.NotNil(t, flag)
	assert.Equal(t, "f", flag.Shorthand)
}

func TestAddCmd_HasWaitFlag(t *testing.T) {
	flag := addCmd.Flags().Lookup("wait")
	require.NotNil(t, flag)
	assert.Equal(t, "w", flag.Shorthand)
	assert.Equal(t, "false", flag.DefValue)
}

func TestAddCmd_RegistersAndQueues(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	defer func() { addFolder = "" }()

	out, err := executeCommand("add", "https://example.com/v/abc", "--folder", "holidays")

	require.NoError(t, err)
	assert.Contains(t, out, "Registered ")
	assert.Contains(t, out, "Queued for ingestion.")

	stub := ingestor.(*stubIngestor)
	require.Len(t, stub.enqueued, 1)

	item, err := store.ItemStore().Get(context.Background(), stub.enqueued[0])
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, item.Status)
	assert.Equal(t, "https://example.com/v/abc", domain.StringValue(item.SourceURL))
	require.NotNil(t, item.FolderID)
	assert.Equal(t, "holidays", *item.FolderID)
}

func TestAddCmd_WaitRunsSynchronously(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	defer func() { addWait = false }()

	out, err := executeCommand("add", "https://example.com/v/def", "--wait")

	require.NoError(t, err)
	assert.Contains(t, out, "Completed ")

	stub := ingestor.(*stubIngestor)
	assert.Len(t, stub.ran, 1)
	assert.Empty(t, stub.enqueued)
}

func TestPrintRunResult(t *testing.T) {
	tests := []struct {
		name   string
		result driving.RunResult
		want   []string
	}{
		{
			name:   "completed",
			result: driving.RunResult{ItemID: "i1", Outcome: driving.OutcomeCompleted},
			want:   []string{"Completed i1"},
		},
		{
			name: "completed with soft failures",
			result: driving.RunResult{
				ItemID:       "i2",
				Outcome:      driving.OutcomeCompleted,
				SoftFailures: []string{"transcription"},
			},
			want: []string{"Completed i2", "warning: transcription failed"},
		},
		{
			name:   "duplicate",
			result: driving.RunResult{ItemID: "i3", Outcome: driving.OutcomeDuplicate},
			want:   []string{"Completed i3 (duplicate media, enrichment reused)"},
		},
		{
			name:   "failed",
			result: driving.RunResult{ItemID: "i4", Outcome: driving.OutcomeFailed, Reason: "download error"},
			want:   []string{"Failed i4: download error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := new(bytes.Buffer)
			addCmd.SetOut(buf)
			defer addCmd.SetOut(nil)

			printRunResult(addCmd, &tt.result)

			for _, want := range tt.want {
				assert.Contains(t, buf.String(), want)
			}
		})
	}
}
