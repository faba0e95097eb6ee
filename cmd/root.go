package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/lepinkainen/gutenshelf/internal/config"
	"github.com/lepinkainen/gutenshelf/internal/tui"
	"github.com/lepinkainen/humanlog"
	"github.com/spf13/viper"
)

var (
	runBrowse           = tui.Browse
	stdin     io.Reader = os.Stdin
	stdout    io.Writer = os.Stdout
)

// CLI represents the complete command structure for the gutenshelf application
type CLI struct {
	// Global flags
	Verbose bool `short:"v" help:"Enable debug logging"`

	// Database flags; empty values keep the config file / environment settings
	Driver string `help:"Database driver: sqlite or postgres"`
	DB     string `help:"Path to SQLite database file"`
	DSN    string `help:"Postgres connection string (also DATABASE_URL)"`

	// Catalog flags
	BaseURL string `help:"Gutendex books endpoint"`

	// Cache flags
	NoCache     bool   `help:"Disable the local catalog response cache"`
	CacheDBFile string `help:"Path to cache SQLite database file"`
	CacheTTL    string `help:"Cache time-to-live duration (e.g., 24h)"`

	Menu     MenuCmd     `cmd:"" default:"1" help:"Interactive menu (default)"`
	Search   SearchCmd   `cmd:"" help:"Search the catalog by title and save the first match"`
	Books    BooksCmd    `cmd:"" help:"List registered books"`
	Authors  AuthorsCmd  `cmd:"" help:"List registered authors"`
	Alive    AliveCmd    `cmd:"" help:"List authors alive in a given year"`
	Language LanguageCmd `cmd:"" help:"List books in a language"`
	Top      TopCmd      `cmd:"" help:"Top 10 most downloaded books"`
	Stats    StatsCmd    `cmd:"" help:"Download statistics"`
	Browse   BrowseCmd   `cmd:"" help:"Browse registered books interactively"`
	Export   ExportCmd   `cmd:"" help:"Export registered books to JSON and markdown"`
	Cache    CacheCmd    `cmd:"" help:"Manage the catalog response cache"`
}

// Execute runs the Kong-based CLI
func Execute() {
	initLogging(false)

	if err := initConfig(); err != nil {
		slog.Error("Fatal error config file", "error", err)
		os.Exit(1)
	}

	var cli CLI

	kctx := kong.Parse(&cli,
		kong.Name("gutenshelf"),
		kong.Description("Search the Project Gutenberg catalog and keep a local shelf of books and authors."),
		kong.UsageOnError(),
	)

	if cli.Verbose {
		initLogging(true)
	}

	updateGlobalConfig(&cli)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt := &cliEnv{ctx: ctx, in: stdin, out: stdout}
	kctx.Bind(rt)

	if err := kctx.Run(); err != nil {
		slog.Error("Command failed", "error", err)
		stop()
		os.Exit(1)
	}
}

// cliEnv is bound into every command's Run method.
type cliEnv struct {
	ctx context.Context
	in  io.Reader
	out io.Writer
}

func (rt *cliEnv) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(rt.out, format, args...)
}

func initConfig() error {
	// .env values feed the environment before viper reads it
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("Failed to load .env file", "error", err)
	}

	config.SetDefaults()

	// Enable environment variable support: GUTENSHELF_DATABASE_DRIVER etc.
	viper.SetEnvPrefix("GUTENSHELF")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	if err := viper.BindEnv("database.dsn", "GUTENSHELF_DATABASE_DSN", "DATABASE_URL"); err != nil {
		slog.Error("Failed to bind environment variable", "error", err)
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return err
		}
		slog.Info("Config file not found, writing default config file...")
		if err := viper.SafeWriteConfig(); err != nil {
			slog.Warn("Error writing config file", "error", err)
		}
	}

	// Initialize global config
	config.InitConfig()
	return nil
}

func updateGlobalConfig(cli *CLI) {
	setIfNotEmpty("database.driver", cli.Driver)
	setIfNotEmpty("database.dbfile", cli.DB)
	setIfNotEmpty("database.dsn", cli.DSN)
	setIfNotEmpty("gutendex.baseurl", cli.BaseURL)
	setIfNotEmpty("cache.dbfile", cli.CacheDBFile)
	setIfNotEmpty("cache.ttl", cli.CacheTTL)

	config.InitConfig()

	if cli.NoCache {
		config.SetCacheEnabled(false)
	}
}

func setIfNotEmpty(key, value string) {
	if value != "" {
		viper.Set(key, value)
	}
}

func initLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	// Logs go to stderr so command output on stdout stays clean
	handler := humanlog.NewHandler(os.Stderr, &humanlog.Options{
		Level: level,
	})

	slog.SetDefault(slog.New(handler))
}
