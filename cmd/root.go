package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"db-fill/internal/dialect"
	"db-fill/internal/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	dsn        string
	driver     string
	cfgFile    string
	DB         *sql.DB
	Dialect    dialect.Dialect
	SchemaName string
	ActiveDB   *DBConfig
)

var RootCmd = &cobra.Command{
	Use:   "db-fill",
	Short: "Create a table and fill it with constrained synthetic rows",
	Long: `
  ____  ____    _____ ___ _     _     
 |  _ \| __ )  |  ___|_ _| |   | |    
 | | | |  _ \  | |_   | || |   | |    
 | |_| | |_) | |  _|  | || |___| |___ 
 |____/|____/  |_|   |___|_____|_____|

DB FILL - table reconciliation & synthetic data
`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := logger.Init(viper.GetBool("log.debug"), viper.GetBool("log.json")); err != nil {
			return err
		}

		config, err := ResolveDBConfig(os.Getenv)
		if err != nil {
			return err
		}
		ActiveDB = config

		DB, err = sql.Open(config.Driver, config.DSN)
		if err != nil {
			return fmt.Errorf("failed to open db: %w", err)
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
		defer cancel()
		if err := DB.PingContext(ctx); err != nil {
			logger.Log.Error("Database connection failed", zap.String("name", config.Name), zap.String("driver", config.Driver), zap.Error(err))
			return fmt.Errorf("failed to connect to db: %w", err)
		}
		logger.Log.Info("Connected to database", zap.String("name", config.Name), zap.String("driver", config.Driver))

		Dialect = dialect.GetDialect(config.Driver)
		SchemaName = Dialect.GetSchemaName(config.Schema)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if DB != nil {
			_ = DB.Close()
		}
		_ = logger.Log.Sync()
	},
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Define flags
	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./db-fill.yaml)")
	RootCmd.PersistentFlags().StringVar(&dsn, "dsn", "", "Database Source Name (DSN), overrides the databases list")
	RootCmd.PersistentFlags().StringVar(&driver, "driver", "", "database/sql driver for --dsn (detected when empty)")
	RootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	RootCmd.PersistentFlags().Bool("log-json", false, "log as JSON")

	viper.BindPFlag("database.dsn", RootCmd.PersistentFlags().Lookup("dsn"))
	viper.BindPFlag("database.driver", RootCmd.PersistentFlags().Lookup("driver"))
	viper.BindPFlag("log.debug", RootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("log.json", RootCmd.PersistentFlags().Lookup("log-json"))

	viper.SetDefault("settings.default_rows", 10)
	viper.SetDefault("settings.max_attempts", 10000)
	viper.SetDefault("settings.max_rows", 1000000)
	viper.SetDefault("settings.request_timeout", 5*time.Minute)
	viper.SetDefault("settings.statement_timeout", 30*time.Second)
	viper.SetDefault("server.addr", ":8000")
}

// initConfig reads in .env, the config file and ENV variables if set.
func initConfig() {
	// A missing .env is fine.
	_ = godotenv.Load()

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// 1. Executable Directory (Priority 1)
		ex, err := os.Executable()
		if err == nil {
			viper.AddConfigPath(filepath.Dir(ex))
		}

		// 2. Current Directory (Priority 2)
		viper.AddConfigPath(".")

		viper.SetConfigName("db-fill")
		viper.SetConfigType("yaml")
	}

	// DBFILL_SETTINGS_DEFAULT_ROWS -> settings.default_rows
	viper.SetEnvPrefix("DBFILL")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
