// Root command for the recettes CLI.
package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/tbourn/recettes/internal/config"
	"github.com/tbourn/recettes/internal/repo"
	"github.com/tbourn/recettes/internal/sysutil"
)

// Global flag values.
var (
	flagEnvFile string
	flagPort    string
	flagDBPath  string
)

// vip holds the environment plus the flags bound on it; cfg is built from
// it by PersistentPreRunE so all subcommands can use it.
var (
	vip = config.NewViper()
	cfg config.Config
)

var rootCmd = &cobra.Command{
	Use:   "recettes",
	Short: "Le hasard des recettes, a small recipe catalog",
	Long: `recettes serves the recipe catalog: HTML pages to browse, search and
edit dishes and ingredients, and a read-only JSON:API under /api.
Without a subcommand it runs the web server.`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	RunE:              runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagEnvFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	rootCmd.PersistentFlags().StringVar(&flagPort, "port", "", "HTTP port (overrides PORT)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db-path", "", "SQLite database file (overrides DB_PATH)")

	for key, name := range map[string]string{"PORT": "port", "DB_PATH": "db-path"} {
		// BindPFlag only fails on a nil flag.
		if err := vip.BindPFlag(key, rootCmd.PersistentFlags().Lookup(name)); err != nil {
			panic(err)
		}
	}

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(userCmd)
	rootCmd.AddCommand(versionCmd)
}

// setup loads the dotenv file, builds the configuration and installs the
// global logger.
func setup(cmd *cobra.Command, _ []string) error {
	if cmd.Name() == "version" {
		return nil
	}
	if err := loadEnvFile(flagEnvFile, cmd.Flags().Changed("env-file")); err != nil {
		return err
	}
	c, err := config.FromViper(vip)
	if err != nil {
		return errors.Wrap(err, "load config")
	}
	cfg = c
	sysutil.ConfigureLogger(os.Stderr, cfg.LogLevel, cfg.LogPretty)
	return nil
}

// loadEnvFile loads path into the environment. A missing default file is
// fine; a missing file named on the command line is not.
func loadEnvFile(path string, explicit bool) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) && !explicit {
			return nil
		}
		return errors.Wrapf(err, "env file %s", path)
	}
	return errors.Wrapf(godotenv.Load(path), "load env file %s", path)
}

// openDB connects to the configured store and migrates the schema.
func openDB() (*gorm.DB, error) {
	db, err := repo.Open(cfg)
	if err != nil {
		return nil, err
	}
	if err := repo.AutoMigrate(db); err != nil {
		closeDB(db)
		return nil, err
	}
	return db, nil
}

func closeDB(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
