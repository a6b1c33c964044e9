package cmd

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/taskboard/internal/clierr"
	"github.com/twiced-technology-gmbh/taskboard/internal/config"
	"github.com/twiced-technology-gmbh/taskboard/internal/output"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the board configuration",
	Long: `Print every configuration key. Use "config get" for one key and
"config set" to change a writable key; read-only keys are fixed at init.`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get KEY",
	Short: "Print one configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Change a writable configuration value",
	Args:  cobra.ExactArgs(2), //nolint:mnd // key and value
	RunE:  runConfigSet,
}

func init() {
	configCmd.AddCommand(configGetCmd, configSetCmd)
	rootCmd.AddCommand(configCmd)
}

// configKey binds a dotted key to its field. set is nil for read-only keys.
type configKey struct {
	name string
	get  func(*config.Config) any
	set  func(*config.Config, string) error
}

var configKeys = []configKey{
	{name: "version", get: func(c *config.Config) any { return c.Version }},
	{
		name: "board.name",
		get:  func(c *config.Config) any { return c.Board.Name },
		set:  func(c *config.Config, v string) error { c.Board.Name = v; return nil },
	},
	{
		name: "board.description",
		get:  func(c *config.Config) any { return c.Board.Description },
		set:  func(c *config.Config, v string) error { c.Board.Description = v; return nil },
	},
	{name: "columns", get: func(c *config.Config) any { return c.ColumnIDs() }},
	{name: "store.backend", get: func(c *config.Config) any { return c.Store.Backend }},
	{name: "store.key", get: func(c *config.Config) any { return c.Store.Key }},
	{
		name: "tui.body_lines",
		get:  func(c *config.Config) any { return c.TUI.BodyLines },
		set: func(c *config.Config, v string) error {
			n, err := parseConfigInt("tui.body_lines", v)
			if err != nil {
				return err
			}
			c.TUI.BodyLines = n
			return nil
		},
	},
	{
		name: "tui.confirm_delete",
		get:  func(c *config.Config) any { return c.ConfirmDelete() },
		set: func(c *config.Config, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return clierr.Newf(clierr.InvalidInput, "tui.confirm_delete must be true or false, got %q", v)
			}
			c.TUI.ConfirmDelete = &b
			return nil
		},
	},
	{
		name: "log.level",
		get:  func(c *config.Config) any { return c.Log.Level },
		set: func(c *config.Config, v string) error {
			v = strings.ToLower(v)
			if !slices.Contains(config.LogLevels, v) {
				return clierr.New(clierr.InvalidInput, "log.level must be one of "+strings.Join(config.LogLevels, ", ")).
					WithDetails(map[string]any{"value": v})
			}
			c.Log.Level = v
			return nil
		},
	},
}

func parseConfigInt(name, v string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, clierr.Newf(clierr.InvalidInput, "%s must be an integer, got %q", name, v)
	}
	return n, nil
}

func lookupConfigKey(name string) (configKey, error) {
	i := slices.IndexFunc(configKeys, func(k configKey) bool { return k.name == name })
	if i < 0 {
		names := make([]string, len(configKeys))
		for j, k := range configKeys {
			names[j] = k.name
		}
		return configKey{}, clierr.Newf(clierr.InvalidInput, "unknown config key %q", name).
			WithDetails(map[string]any{"keys": names})
	}
	return configKeys[i], nil
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()

	if outputFormat() == output.FormatJSON {
		values := make(map[string]any, len(configKeys))
		for _, k := range configKeys {
			values[k.name] = k.get(cfg)
		}
		return output.JSON(w, values)
	}
	for _, k := range configKeys {
		suffix := ""
		if k.set == nil {
			suffix = " (read-only)"
		}
		fmt.Fprintf(w, "%-20s %s%s\n", k.name, configString(k.get(cfg)), suffix)
	}
	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	k, err := lookupConfigKey(args[0])
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(cmd.OutOrStdout(), k.get(cfg))
	}
	fmt.Fprintln(cmd.OutOrStdout(), configString(k.get(cfg)))
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	k, err := lookupConfigKey(args[0])
	if err != nil {
		return err
	}
	if k.set == nil {
		return clierr.Newf(clierr.InvalidInput, "config key %q is read-only", k.name)
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if err := k.set(cfg, args[1]); err != nil {
		return err
	}
	// Validate owns the range checks.
	if err := cfg.Validate(); err != nil {
		return clierr.Wrap(clierr.ValidationFailed, err)
	}
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	value := k.get(cfg)
	if outputFormat() == output.FormatJSON {
		return output.JSON(cmd.OutOrStdout(), map[string]any{"key": k.name, "value": value})
	}
	output.Messagef(cmd.OutOrStdout(), "%s = %s", k.name, configString(value))
	return nil
}

// configString renders a config value for table output; empty strings show as "--".
func configString(val any) string {
	switch v := val.(type) {
	case []string:
		return strings.Join(v, ", ")
	case string:
		if v == "" {
			return "--"
		}
		return v
	}
	return fmt.Sprint(val)
}
