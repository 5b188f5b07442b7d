// pkg/envfile/envfile_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: Memory FS (afero)
// PURPOSE: Verify .env provisioning for local and hosted providers and KEY=VALUE upserts

package envfile_test

import (
	"testing"

	"github.com/arthur-debert/postgen/pkg/config"
	"github.com/arthur-debert/postgen/pkg/envfile"
	"github.com/arthur-debert/postgen/pkg/filesystem"
	"github.com/arthur-debert/postgen/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dir = "/project"

func newFS(t *testing.T, files map[string]string) types.FS {
	t.Helper()
	fs := filesystem.NewMemory()
	require.NoError(t, fs.MkdirAll(dir, 0755))
	for name, content := range files {
		require.NoError(t, fs.WriteFile(dir+"/"+name, []byte(content), 0644))
	}
	return fs
}

func cfgFor(provider string) *config.Config {
	return &config.Config{LLMProvider: provider, EnvFile: ".env", APIKeyFile: ".temp_api_key"}
}

func readEnv(t *testing.T, fs types.FS) string {
	t.Helper()
	data, err := fs.ReadFile(dir + "/.env")
	require.NoError(t, err)
	return string(data)
}

func TestSetup_LocalProviders(t *testing.T) {
	tests := []struct {
		provider string
		want     string
	}{
		{"Ollama (Local)", "OLLAMA_BASE_URL=http://localhost:11434\n"},
		{"LM Studio (Local)", "LM_STUDIO_BASE_URL=http://localhost:1234\n"},
	}
	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			fs := newFS(t, nil)

			outcome, err := envfile.Setup(fs, dir, cfgFor(tt.provider))
			require.NoError(t, err)

			assert.Equal(t, envfile.OutcomeLocal, outcome)
			assert.Equal(t, tt.want, readEnv(t, fs))
		})
	}
}

func TestSetup_LocalProviderKeepsExistingEnv(t *testing.T) {
	fs := newFS(t, map[string]string{".env": "CUSTOM=1\n"})

	outcome, err := envfile.Setup(fs, dir, cfgFor("Ollama (Local)"))
	require.NoError(t, err)

	assert.Equal(t, envfile.OutcomeSkipped, outcome)
	assert.Equal(t, "CUSTOM=1\n", readEnv(t, fs))
}

func TestSetup_HostedProviderStoresKeyAndDeletesKeyFile(t *testing.T) {
	fs := newFS(t, map[string]string{
		".temp_api_key": "  sk-secret \n",
		".env":          "OTHER=x\nANTHROPIC_API_KEY=stale\n",
	})

	outcome, err := envfile.Setup(fs, dir, cfgFor("Anthropic"))
	require.NoError(t, err)

	assert.Equal(t, envfile.OutcomeKeyWritten, outcome)
	assert.Equal(t, "OTHER=x\nANTHROPIC_API_KEY=sk-secret\n", readEnv(t, fs))
	_, err = fs.Stat(dir + "/.temp_api_key")
	assert.Error(t, err, "key file must be deleted")
}

func TestSetup_HostedProviderCreatesEnv(t *testing.T) {
	fs := newFS(t, map[string]string{".temp_api_key": "key-123"})

	_, err := envfile.Setup(fs, dir, cfgFor("Azure OpenAI"))
	require.NoError(t, err)

	assert.Equal(t, "AZURE_OPENAI_API_KEY=key-123\n", readEnv(t, fs))
}

func TestSetup_NoOpCases(t *testing.T) {
	t.Run("provider None", func(t *testing.T) {
		fs := newFS(t, map[string]string{".temp_api_key": "k"})
		outcome, err := envfile.Setup(fs, dir, cfgFor("None"))
		require.NoError(t, err)
		assert.Equal(t, envfile.OutcomeNone, outcome)
		_, err = fs.Stat(dir + "/.env")
		assert.Error(t, err)
	})

	t.Run("no key file", func(t *testing.T) {
		fs := newFS(t, nil)
		outcome, err := envfile.Setup(fs, dir, cfgFor("OpenAI"))
		require.NoError(t, err)
		assert.Equal(t, envfile.OutcomeSkipped, outcome)
	})

	t.Run("empty key", func(t *testing.T) {
		fs := newFS(t, map[string]string{".temp_api_key": "   \n"})
		outcome, err := envfile.Setup(fs, dir, cfgFor("OpenAI"))
		require.NoError(t, err)
		assert.Equal(t, envfile.OutcomeSkipped, outcome)
		_, err = fs.Stat(dir + "/.temp_api_key")
		assert.Error(t, err, "key file is consumed even when empty")
	})

	t.Run("unknown provider", func(t *testing.T) {
		fs := newFS(t, map[string]string{".temp_api_key": "k"})
		outcome, err := envfile.Setup(fs, dir, cfgFor("Mystery"))
		require.NoError(t, err)
		assert.Equal(t, envfile.OutcomeSkipped, outcome)
		_, err = fs.Stat(dir + "/.env")
		assert.Error(t, err)
	})
}

func TestUpsert(t *testing.T) {
	t.Run("appends to file without trailing newline", func(t *testing.T) {
		fs := newFS(t, map[string]string{".env": "A=1"})
		require.NoError(t, envfile.Upsert(fs, dir+"/.env", "B", "2"))
		assert.Equal(t, "A=1\nB=2\n", readEnv(t, fs))
	})

	t.Run("replaces only exact key", func(t *testing.T) {
		fs := newFS(t, map[string]string{".env": "KEY_EXTRA=x\nKEY=old\n"})
		require.NoError(t, envfile.Upsert(fs, dir+"/.env", "KEY", "new"))
		assert.Equal(t, "KEY_EXTRA=x\nKEY=new\n", readEnv(t, fs))

		value, ok, err := envfile.Lookup(fs, dir+"/.env", "KEY")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "new", value)
	})

	t.Run("rejects bad keys", func(t *testing.T) {
		fs := newFS(t, nil)
		assert.Error(t, envfile.Upsert(fs, dir+"/.env", "", "v"))
		assert.Error(t, envfile.Upsert(fs, dir+"/.env", "A=B", "v"))
	})
}

func TestLookup_MissingFile(t *testing.T) {
	fs := newFS(t, nil)

	_, ok, err := envfile.Lookup(fs, dir+"/.env", "ANY")
	require.NoError(t, err)
	assert.False(t, ok)
}
