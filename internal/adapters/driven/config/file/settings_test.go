package file

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	settings, err := Load(t.TempDir())
	require.NoError(t, err)

	pipeline := settings.PipelineConfig()
	assert.Equal(t, 3, pipeline.FrameCount)
	assert.True(t, pipeline.EnableTranscription)
	assert.Equal(t, "en", pipeline.Language)

	ranking := settings.RankingConfig()
	assert.Equal(t, 0.7, ranking.VectorWeight)
	assert.Equal(t, 0.3, ranking.LexicalWeight)
	assert.Equal(t, 10, ranking.DefaultLimit)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	content := `
data_dir = "/srv/memvault/data"

[openai]
api_key = "file-key"
embedding_model = "text-embedding-3-large"

[pipeline]
frame_count = 5
enable_transcription = false
worker_count = 4
acquire_timeout_seconds = 120

[search]
vector_weight = 0.5
lexical_weight = 0.5
default_limit = 25
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0o600))

	settings, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "/srv/memvault/data", settings.DataDir)
	assert.Equal(t, "text-embedding-3-large", settings.OpenAI.EmbeddingModel)

	pipeline := settings.PipelineConfig()
	assert.Equal(t, 5, pipeline.FrameCount)
	assert.False(t, pipeline.EnableTranscription)
	assert.Equal(t, 4, pipeline.WorkerCount)
	assert.Equal(t, 2*time.Minute, pipeline.AcquireTimeout)

	ranking := settings.RankingConfig()
	assert.Equal(t, 0.5, ranking.VectorWeight)
	assert.Equal(t, 0.5, ranking.LexicalWeight)
	assert.Equal(t, 25, ranking.DefaultLimit)
}

func TestLoad_EnvKeyWins(t *testing.T) {
	dir := t.TempDir()
	content := "[openai]\napi_key = \"file-key\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0o600))
	t.Setenv("OPENAI_API_KEY", "env-key")

	settings, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "env-key", settings.OpenAI.APIKey)
}

func TestLoad_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("not = [toml"), 0o600))

	_, err := Load(dir)
	assert.Error(t, err)
}
