package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jniedergang/mls-liberate/internal/config"
	"github.com/jniedergang/mls-liberate/internal/errors"
	"github.com/jniedergang/mls-liberate/internal/paths"
	"github.com/jniedergang/mls-liberate/pkg/fileutil"
)

func init() {
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage liberate configuration",
	Long: `Manage liberate configuration. Without a subcommand, shows the
effective configuration after defaults, file, and environment overrides.`,
	Example: `  # Show effective configuration
  liberate config

  # Write a default configuration file
  liberate config init`,
	RunE: runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	Long: `Write a configuration file with the default values, ready for
editing. Refuses to overwrite an existing file.`,
	RunE: runConfigInit,
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	return runConfigShowWithWriter(os.Stdout)
}

func runConfigShowWithWriter(w io.Writer) error {
	effective := cfg
	if effective == nil {
		effective = config.Default()
	}
	data, err := yaml.Marshal(effective)
	if err != nil {
		return errors.Wrap(err, "rendering configuration")
	}
	_, err = w.Write(data)
	return err
}

func runConfigInit(_ *cobra.Command, _ []string) error {
	path := filepath.Join(paths.ConfigHome(), "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return errors.NewUserError(errors.Newf("%s already exists", path),
			"edit the existing file or remove it first")
	}

	if err := paths.EnsureDir(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if err := fileutil.AtomicWriteYAML(path, config.Default()); err != nil {
		return err
	}
	fmt.Printf("%s✓ wrote %s%s\n", colorGreen, path, colorReset)
	return nil
}
