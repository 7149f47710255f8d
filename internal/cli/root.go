package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/idilsaglam/restaurants/internal/auth"
	"github.com/idilsaglam/restaurants/internal/config"
	"github.com/idilsaglam/restaurants/internal/directory"
	"github.com/idilsaglam/restaurants/internal/logging"
	"github.com/idilsaglam/restaurants/internal/remote"
	"github.com/idilsaglam/restaurants/internal/store/jsonstore"
	"github.com/idilsaglam/restaurants/internal/store/sqlstore"
	"github.com/idilsaglam/restaurants/internal/ui"
)

var (
	cfgPath  string
	source   string
	logLevel string
	noColor  bool

	conf    *config.Conf
	log     *logrus.Logger
	logFile io.Closer
)

// Execute runs the restaurants command line.
func Execute() error {
	return newRoot().Execute()
}

func newRoot() *cobra.Command {
	cfgPath, source, logLevel, noColor = "", "", "", false
	conf, log, logFile = nil, nil, nil

	root := &cobra.Command{
		Use:           "restaurants",
		Short:         "Browse, filter and favorite restaurants",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			if source != "" {
				c.Data.Source = source
			}
			if logLevel != "" {
				c.Log.Level = logLevel
			}
			if err := c.Validate(); err != nil {
				return err
			}
			conf = c
			if err := ui.SetTheme(c.UI.Theme); err != nil {
				return err
			}
			ui.SetColorForcing(false, noColor)

			var out io.Writer = os.Stderr
			if cmd.Name() == "browse" {
				f, err := logging.OpenFile(c.Log.File)
				if err != nil {
					return err
				}
				out, logFile = f, f
			}
			log, err = logging.New(c.Env, c.Log.Level, out)
			return err
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if logFile != nil {
				return logFile.Close()
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&cfgPath, "config", "", "config file (default ./restaurants.yaml or ~/.restaurants/restaurants.yaml)")
	root.PersistentFlags().StringVar(&source, "source", "", "data source: json, sqlite or remote")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (default depends on env)")
	root.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	root.AddCommand(browseCmd(), lsCmd(), favCmd(), serveCmd(), importCmd(), authCmd())
	return root
}

// openSource builds the configured data layer. The returned func releases it.
func openSource(ctx context.Context) (directory.DataSource, func() error, error) {
	noop := func() error { return nil }
	switch conf.Data.Source {
	case config.SourceSQLite:
		st, err := sqlstore.Open(ctx, conf.Data.DSN)
		if err != nil {
			return nil, nil, err
		}
		return st, st.Close, nil
	case config.SourceRemote:
		return remote.New(conf.Remote.URL, conf.Remote.Timeout, auth.Token), noop, nil
	case config.SourceJSON:
		st, err := jsonstore.Open(conf.Data.File)
		if err != nil {
			return nil, nil, err
		}
		log.WithField("file", st.Path()).Debug("json store opened")
		return st, noop, nil
	}
	return nil, nil, fmt.Errorf("unknown data source %q", conf.Data.Source)
}

func failurePolicy() (directory.FailurePolicy, error) {
	return directory.ParseFailurePolicy(conf.Favorites.OnFailure)
}
