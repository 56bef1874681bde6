package vault

import (
	"context"
	"errors"
	"fmt"

	"github.com/hashicorp/vault/api"
	"go.uber.org/zap"

	"github.com/seu-repo/dreamweaver/pkg/config"
)

// ErrSecretNotFound is returned when a path or key holds no value.
var ErrSecretNotFound = errors.New("vault: secret not found")

type SecretManager struct {
	client *api.Client
}

func NewSecretManager(address, token string) (*SecretManager, error) {
	cfg := api.DefaultConfig()
	cfg.Address = address

	client, err := api.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("vault: create client: %w", err)
	}

	client.SetToken(token)

	return &SecretManager{client: client}, nil
}

// GetSecret reads key from a KV v2 path such as "secret/data/anthropic".
func (sm *SecretManager) GetSecret(ctx context.Context, path, key string) (string, error) {
	secret, err := sm.client.Logical().ReadWithContext(ctx, path)
	if err != nil {
		return "", fmt.Errorf("vault: read %s: %w", path, err)
	}
	if secret == nil || secret.Data == nil {
		return "", fmt.Errorf("%w: %s", ErrSecretNotFound, path)
	}

	data, ok := secret.Data["data"].(map[string]interface{})
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrSecretNotFound, path)
	}

	value, ok := data[key].(string)
	if !ok || value == "" {
		return "", fmt.Errorf("%w: %s#%s", ErrSecretNotFound, path, key)
	}
	return value, nil
}

// ResolveAPIKeys replaces the vendor API keys in cfg with the values stored
// in Vault. Keys that cannot be read keep their configured value.
func (sm *SecretManager) ResolveAPIKeys(ctx context.Context, cfg *config.Config, log *zap.Logger) {
	resolve := func(name, path string, target *string) {
		if path == "" {
			return
		}
		value, err := sm.GetSecret(ctx, path, "api_key")
		if err != nil {
			log.Warn("Using configured API key, Vault lookup failed",
				zap.String("vendor", name),
				zap.Error(err),
			)
			return
		}
		*target = value
		log.Info("Loaded API key from Vault", zap.String("vendor", name))
	}

	resolve("anthropic", cfg.Vault.AnthropicPath, &cfg.Anthropic.APIKey)
	resolve("tts", cfg.Vault.TTSPath, &cfg.TTS.APIKey)
}
