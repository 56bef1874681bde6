package vault

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/seu-repo/dreamweaver/pkg/config"
)

func fakeVault(t *testing.T, secrets map[string]map[string]interface{}) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-token", r.Header.Get("X-Vault-Token"))

		data, ok := secrets[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"errors":[]}`))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"data": map[string]interface{}{"data": data},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGetSecret(t *testing.T) {
	srv := fakeVault(t, map[string]map[string]interface{}{
		"/v1/secret/data/anthropic": {"api_key": "sk-ant-from-vault"},
	})

	sm, err := NewSecretManager(srv.URL, "test-token")
	require.NoError(t, err)

	value, err := sm.GetSecret(context.Background(), "secret/data/anthropic", "api_key")
	require.NoError(t, err)
	assert.Equal(t, "sk-ant-from-vault", value)

	_, err = sm.GetSecret(context.Background(), "secret/data/anthropic", "other")
	assert.ErrorIs(t, err, ErrSecretNotFound)

	_, err = sm.GetSecret(context.Background(), "secret/data/missing", "api_key")
	assert.ErrorIs(t, err, ErrSecretNotFound)
}

func TestResolveAPIKeys(t *testing.T) {
	srv := fakeVault(t, map[string]map[string]interface{}{
		"/v1/secret/data/tts": {"api_key": "xi-from-vault"},
	})

	sm, err := NewSecretManager(srv.URL, "test-token")
	require.NoError(t, err)

	cfg := &config.Config{
		Anthropic: config.AnthropicConfig{APIKey: "from-env"},
		Vault: config.VaultConfig{
			AnthropicPath: "secret/data/anthropic",
			TTSPath:       "secret/data/tts",
		},
	}

	sm.ResolveAPIKeys(context.Background(), cfg, zap.NewNop())

	assert.Equal(t, "from-env", cfg.Anthropic.APIKey)
	assert.Equal(t, "xi-from-vault", cfg.TTS.APIKey)
}
