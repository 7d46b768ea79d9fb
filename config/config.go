package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/domino14/tinue/tak"
	"github.com/domino14/tinue/tinuetree"
)

const (
	ConfigDebug                = "debug"
	ConfigDBPath               = "db"
	ConfigBoardSize            = "board-size"
	ConfigStartID              = "start-id"
	ConfigPliesToUndo          = "undo"
	ConfigMaxDepth             = "max-depth"
	ConfigThreads              = "threads"
	ConfigMultiTinue           = "multi-tinue"
	ConfigUnique               = "unique"
	ConfigTest                 = "test"
	ConfigSkipWalls            = "skip-walls"
	ConfigTTable               = "ttable"
	ConfigTTableMemoryFraction = "ttable-memory-fraction"
	ConfigNatsURL              = "nats-url"
	ConfigNatsSubject          = "nats-subject"
	ConfigOutputFormat         = "output-format"
	ConfigCPUProfile           = "cpu-profile"
)

// MaxSearchDepth is the deepest search that will be accepted, in plies.
const MaxSearchDepth = 15

type Config struct {
	*viper.Viper
}

// DefaultConfig returns a config with every default set and no flags or
// environment applied.
func DefaultConfig() *Config {
	c := &Config{Viper: viper.New()}
	c.setDefaults()
	return c
}

func (c *Config) setDefaults() {
	c.SetDefault(ConfigDebug, false)
	c.SetDefault(ConfigBoardSize, 6)
	c.SetDefault(ConfigStartID, 8000)
	c.SetDefault(ConfigPliesToUndo, 3)
	c.SetDefault(ConfigMaxDepth, 3)
	c.SetDefault(ConfigThreads, 1)
	c.SetDefault(ConfigTTableMemoryFraction, 0.05)
	c.SetDefault(ConfigNatsSubject, "tinue.found")
	c.SetDefault(ConfigOutputFormat, string(tinuetree.FormatJSON))
}

// Load reads flags from args, then TINUE_* environment variables for any flag
// that was not given.
func (c *Config) Load(args []string) error {
	if c.Viper == nil {
		c.Viper = viper.New()
	}
	c.setDefaults()

	fs := pflag.NewFlagSet("tinue", pflag.ContinueOnError)
	fs.Bool(ConfigDebug, false, "debug logging on")
	fs.String(ConfigDBPath, "", "path to the playtak games database")
	fs.IntP(ConfigBoardSize, "n", 6, "board size of the games to analyze")
	fs.IntP(ConfigStartID, "s", 8000, "only analyze games with an id at least this high")
	fs.IntP(ConfigPliesToUndo, "u", 3, "plies to undo from the end of each game; must be greater than 1")
	fs.IntP(ConfigMaxDepth, "d", 3, "maximum tinue depth in plies; must be odd")
	fs.Int(ConfigThreads, 1, "number of games to analyze at once")
	fs.BoolP(ConfigMultiTinue, "m", false, "enumerate every tinue instead of stopping at the first")
	fs.Bool(ConfigUnique, false, "look for a unique tinue and store its principal variation")
	fs.BoolP(ConfigTest, "t", false, "test mode: print results without storing them")
	fs.Bool(ConfigSkipWalls, false, "do not try our own walls on the last two plies of a tinue")
	fs.Bool(ConfigTTable, false, "use a transposition table in alpha-beta searches")
	fs.Float64(ConfigTTableMemoryFraction, 0.05, "fraction of system memory for each thread's transposition table")
	fs.String(ConfigNatsURL, "", "if set, also publish tinues to this NATS server")
	fs.String(ConfigNatsSubject, "tinue.found", "NATS subject for published tinues")
	fs.String(ConfigOutputFormat, string(tinuetree.FormatJSON), "tinue output format: json or yaml")
	fs.String(ConfigCPUProfile, "", "write a CPU profile to this file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := c.BindPFlags(fs); err != nil {
		return err
	}
	c.SetEnvPrefix("tinue")
	c.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.AutomaticEnv()
	return nil
}

// Validate checks the search parameters.
func (c *Config) Validate() error {
	var errs []error
	if !tak.SupportedSize(c.GetInt(ConfigBoardSize)) {
		errs = append(errs, fmt.Errorf("%w: %d", tak.ErrUnsupportedSize, c.GetInt(ConfigBoardSize)))
	}
	if c.GetInt(ConfigPliesToUndo) <= 1 {
		errs = append(errs, fmt.Errorf("plies to undo must be greater than 1, got %d", c.GetInt(ConfigPliesToUndo)))
	}
	if d := c.GetInt(ConfigMaxDepth); d < 1 || d%2 == 0 || d > MaxSearchDepth {
		errs = append(errs, fmt.Errorf("max depth must be an odd number from 1 to %d, got %d", MaxSearchDepth, d))
	}
	if c.GetInt(ConfigThreads) < 1 {
		errs = append(errs, fmt.Errorf("threads must be at least 1, got %d", c.GetInt(ConfigThreads)))
	}
	if c.GetBool(ConfigMultiTinue) && c.GetBool(ConfigUnique) {
		errs = append(errs, errors.New("multi-tinue and unique cannot both be set"))
	}
	if f := c.GetFloat64(ConfigTTableMemoryFraction); f <= 0 || f > 0.5 {
		errs = append(errs, fmt.Errorf("ttable memory fraction must be in (0, 0.5], got %v", f))
	} else if c.GetBool(ConfigTTable) && f*float64(c.GetInt(ConfigThreads)) > 0.5 {
		// Every thread keeps its own table.
		errs = append(errs, fmt.Errorf("ttable memory fraction %v times %d threads is more than half of memory",
			f, c.GetInt(ConfigThreads)))
	}
	if _, err := tinuetree.ParseFormat(c.GetString(ConfigOutputFormat)); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// SanitizedSettings returns all settings, for logging.
func (c *Config) SanitizedSettings() map[string]any {
	settings := c.AllSettings()
	if url, ok := settings[ConfigNatsURL].(string); ok && strings.Contains(url, "@") {
		// Don't log credentials.
		settings[ConfigNatsURL] = "<redacted>"
	}
	return settings
}
