package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"hellod/internal/banner"
	"hellod/internal/server"
	"hellod/internal/styles"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "hellod",
	Short: "hellod - a one-route greeting server",
	Long: `
hellod serves "Hello, World!" on GET / and nothing else.

Run with no subcommand to start the server. Use "probe" to check a
running server and "history" to list earlier probe runs.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return server.ListenAndServe(cmd.Context(), serverConfig(viper.GetViper()))
	},
}

func Execute() {
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		fmt.Println(banner.GetString())
		cmd.Usage()
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		code := reportError(os.Stderr, err)
		stop()
		os.Exit(code)
	}
}

// reportError prints err to w and returns the process exit code.
func reportError(w io.Writer, err error) int {
	var bindErr *server.BindError
	if errors.As(err, &bindErr) {
		fmt.Fprintln(w, styles.Error.Render("❌ cannot listen: "+bindErr.Error()))
	} else {
		fmt.Fprintln(w, styles.Error.Render("❌ "+err.Error()))
	}
	return 1
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.AddCommand(probeCmd, historyCmd)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.hellod.yaml)")
	rootCmd.PersistentFlags().IntP("port", "p", server.DefaultPort, "TCP port to listen on (probe: port to target)")
	rootCmd.Flags().String("host", "", "Interface to bind (default all)")

	viper.BindPFlag("port", rootCmd.PersistentFlags().Lookup("port"))
	viper.BindPFlag("host", rootCmd.Flags().Lookup("host"))
	setDefaults(viper.GetViper())
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", server.DefaultPort)
	v.SetDefault("host", "")
	v.SetEnvPrefix("HELLOD")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
			viper.SetConfigType("yaml")
			viper.SetConfigName(".hellod")
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			fmt.Fprintln(os.Stderr, styles.Warn.Render("⚠️  config: "+err.Error()))
		}
	}
}

func serverConfig(v *viper.Viper) server.Config {
	return server.Config{
		Host: v.GetString("host"),
		Port: v.GetInt("port"),
		Out:  os.Stdout,
	}
}
