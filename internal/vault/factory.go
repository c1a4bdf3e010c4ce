package vault

import (
	"context"
	"fmt"

	"cronba/internal/backup"
	"cronba/internal/config"
)

// NewVaultFromConfig creates a Vault implementation based on the vault config type.
func NewVaultFromConfig(ctx context.Context, cfg config.VaultConfig) (backup.Vault, error) {
	switch cfg.Type {
	case "memory":
		return NewMemoryVault(cfg.Name), nil
	case "s3":
		if cfg.S3Bucket == "" {
			return nil, fmt.Errorf("s3 vault requires s3_bucket to be set")
		}
		return NewS3Vault(ctx, cfg.Name, S3Options{
			Bucket:          cfg.S3Bucket,
			Prefix:          cfg.S3Prefix,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
		})
	case "filesystem":
		if cfg.FSVaultRoot == "" {
			return nil, fmt.Errorf("filesystem vault requires fs_vault_root to be set")
		}
		return NewFileSystemVault(cfg.Name, cfg.FSVaultRoot)
	default:
		return nil, fmt.Errorf("unknown vault type: %s", cfg.Type)
	}
}

// NewVaultsFromConfig creates every configured vault, in order.
func NewVaultsFromConfig(ctx context.Context, cfgs []config.VaultConfig) ([]backup.Vault, error) {
	vaults := make([]backup.Vault, 0, len(cfgs))
	for _, cfg := range cfgs {
		v, err := NewVaultFromConfig(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("vault %q: %w", cfg.Name, err)
		}
		vaults = append(vaults, v)
	}
	return vaults, nil
}

// validateName rejects archive names that would escape the vault.
func validateName(name string) error {
	if name == "" || name == "." || name == ".." {
		return fmt.Errorf("invalid archive name: %q", name)
	}
	for _, c := range name {
		if c == '/' || c == '\\' {
			return fmt.Errorf("invalid archive name: %q", name)
		}
	}
	return nil
}
