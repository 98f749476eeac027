package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "mcscoreboards",
	Short: "Generate Minecraft scoreboard datapacks from player statistics",
	Long: `mcscoreboards builds a datapack with one scoreboard objective per statistic
of a Minecraft version. Given a server's stats directory and whitelist it also
writes a function that loads every player's current values into those
objectives.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default .mcscoreboards.toml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().String("history", "", "SQLite run history database")
	rootCmd.PersistentFlags().String("telemetry", "", "JSONL event file")

	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("history_db", rootCmd.PersistentFlags().Lookup("history"))
	_ = viper.BindPFlag("telemetry", rootCmd.PersistentFlags().Lookup("telemetry"))
}

func initConfig() {
	if cfgFile, _ := rootCmd.PersistentFlags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".mcscoreboards")
		viper.SetConfigType("toml")
		viper.AddConfigPath(".")
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
	}

	viper.SetEnvPrefix("MCSCOREBOARDS")
	viper.AutomaticEnv()

	// It's fine if no config file is found; we use defaults.
	_ = viper.ReadInConfig()
}
