package cli

import (
	"errors"
	"fmt"

	"github.com/julianstephens/optimisable/internal/keyring"
)

// KeyringSetCmd stores the generation API key in the OS keyring
type KeyringSetCmd struct {
	APIKey string `arg:"" help:"API key of the generation service."`
}

func (cmd *KeyringSetCmd) Run(ctx *Context) error {
	if err := keyring.SetAPIKey(cmd.APIKey); err != nil {
		return err
	}
	fmt.Fprintln(ctx.out(), "✓ API key stored successfully in OS keyring")
	return nil
}

// KeyringGetCmd shows the stored key, masked
type KeyringGetCmd struct{}

func (cmd *KeyringGetCmd) Run(ctx *Context) error {
	key, err := keyring.GetAPIKey()
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no API key found in keyring. Use 'optimisable keyring set' to store one")
		}
		return fmt.Errorf("failed to retrieve API key from keyring: %w", err)
	}
	fmt.Fprintln(ctx.out(), keyring.Mask(key))
	return nil
}

// KeyringDeleteCmd removes the stored key
type KeyringDeleteCmd struct{}

func (cmd *KeyringDeleteCmd) Run(ctx *Context) error {
	if err := keyring.DeleteAPIKey(); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no API key found in keyring")
		}
		return err
	}
	fmt.Fprintln(ctx.out(), "✓ API key deleted from OS keyring")
	return nil
}

// KeyringStatusCmd checks the availability of the OS keyring
type KeyringStatusCmd struct{}

func (cmd *KeyringStatusCmd) Run(ctx *Context) error {
	w := ctx.out()
	if !keyring.IsAvailable() {
		fmt.Fprintln(w, "❌ OS keyring is not available on this system")
		return keyring.ErrKeyringUnavailable
	}
	fmt.Fprintln(w, "✓ OS keyring is available")
	if _, err := keyring.GetAPIKey(); err == nil {
		fmt.Fprintln(w, "✓ API key is stored in keyring")
	} else if errors.Is(err, keyring.ErrNotFound) {
		fmt.Fprintln(w, "ℹ No API key stored in keyring")
	}
	return nil
}

// KeyringCmd groups the keyring subcommands
type KeyringCmd struct {
	Set    KeyringSetCmd    `cmd:"" help:"Store the generation API key."`
	Get    KeyringGetCmd    `cmd:"" help:"Show the stored API key (masked)."`
	Delete KeyringDeleteCmd `cmd:"" help:"Remove the stored API key."`
	Status KeyringStatusCmd `cmd:"" help:"Check keyring availability." default:"1"`
}
