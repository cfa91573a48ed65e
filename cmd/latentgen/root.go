package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/zoobzio/latent"
	"github.com/zoobzio/latent/internal/gen"
)

// app carries the state shared by every command.
type app struct {
	v      *viper.Viper
	stdout io.Writer
	stderr io.Writer
	lookup gen.LookupFunc
	logger *slog.Logger
}

func newApp(stdout, stderr io.Writer, lookup gen.LookupFunc) *app {
	return &app{
		v:      viper.New(),
		stdout: stdout,
		stderr: stderr,
		lookup: lookup,
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "latentgen",
		Short: "Seal secrets into Go source or bundles ahead of time",
		Long: `latentgen reads a manifest of secrets and seals each one with its cipher
and key. The output never contains plaintext: generated Go source holds
ciphertext as string constants, and bundles hold base64 or binary ciphertext.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd.Flags())
		},
	}
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	flags := root.PersistentFlags()
	flags.String("config", "", "config file (default is ./.latentgen.yaml)")
	flags.String("seed", "", "key derivation seed (or LATENT_SEED)")
	flags.String("passphrase", "", "passphrase stretched into the seed with Argon2id (or LATENT_PASSPHRASE)")
	flags.String("salt", "", "salt for --passphrase, at least 8 bytes (or LATENT_SALT)")
	flags.BoolP("verbose", "v", false, "enable debug logging")

	root.AddCommand(newGoCmd(a), newBundleCmd(a), newInspectCmd(a))
	return root
}

// init binds flags to viper, reads the optional config file and builds the logger.
func (a *app) init(flags *pflag.FlagSet) error {
	if err := a.v.BindPFlags(flags); err != nil {
		return fmt.Errorf("failed to bind flags: %w", err)
	}

	a.v.SetEnvPrefix("LATENT")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	a.v.AutomaticEnv()

	if cfg := a.v.GetString("config"); cfg != "" {
		a.v.SetConfigFile(cfg)
	} else {
		a.v.AddConfigPath(".")
		a.v.SetConfigName(".latentgen")
		a.v.SetConfigType("yaml")
	}
	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	level := slog.LevelInfo
	if a.v.GetBool("verbose") {
		level = slog.LevelDebug
	}
	a.logger = slog.New(slog.NewTextHandler(a.stderr, &slog.HandlerOptions{Level: level}))
	return nil
}

// seed resolves the derivation seed from --seed or --passphrase.
func (a *app) seed() ([]byte, error) {
	if s := a.v.GetString("seed"); s != "" {
		return []byte(s), nil
	}
	pass := a.v.GetString("passphrase")
	if pass == "" {
		return nil, nil
	}
	a.logger.Debug("stretching passphrase into seed")
	return latent.SeedFromPassphrase([]byte(pass), []byte(a.v.GetString("salt")), latent.DefaultArgon2Params())
}

// seal reads the manifest at path and seals every secret.
func (a *app) seal(path, format string) (*gen.Manifest, []gen.Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	m, err := gen.ParseManifest(data, format, path)
	if err != nil {
		return nil, nil, err
	}

	seed, err := a.seed()
	if err != nil {
		return nil, nil, err
	}

	sealer := &gen.Sealer{Seed: seed, Lookup: a.lookup}
	entries, err := sealer.SealAll(m)
	if err != nil {
		return nil, nil, err
	}

	for _, e := range entries {
		a.logger.Debug("sealed secret",
			slog.String("name", e.Sealed.Name),
			slog.String("cipher", string(e.Sealed.Cipher)),
			slog.Int("size", len(e.Sealed.Ciphertext)),
		)
	}
	return m, entries, nil
}

// write sends data to path, or to stdout when path is empty or "-".
func (a *app) write(path string, data []byte, perm os.FileMode) error {
	if path == "" || path == "-" {
		_, err := a.stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, perm); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	a.logger.Info("wrote output", slog.String("path", path), slog.Int("bytes", len(data)))
	return nil
}
