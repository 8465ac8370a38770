package cmd

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"goodboard-backend/lib/kvstore"
	"goodboard-backend/services/goodboard"
)

var (
	configPath string
	storePath  string

	config goodboard.Config
	store  kvstore.Store
	merger goodboard.Merger
	router *goodboard.Router
)

var rootCmd = &cobra.Command{
	Use:   "goodboard-cli",
	Short: "goodboard-cli inspects and updates the GoodBoard store from saved portal pages.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if configPath != "" {
			loaded, err := goodboard.ReadConfig(configPath)
			if err != nil {
				return fmt.Errorf("read config: %w", err)
			}
			config = loaded
		}
		if storePath != "" {
			config.StorePath = storePath
		}

		if config.StorePath == "" {
			store = kvstore.NewMemoryStore()
		} else {
			sqlite, err := kvstore.OpenSqliteStore(config.StorePath)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			store = sqlite
		}

		merger = goodboard.NewMerger(store)
		router = goodboard.NewRouter(merger, store)
		router.SetDebounce(config.Debounce())
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a json5 config file")
	rootCmd.PersistentFlags().StringVar(&storePath, "store", "", "sqlite file backing the store (defaults to in-memory)")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(os.Stdout)
	return t
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, err.Error())
	os.Exit(1)
}
