package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/idilsaglam/restaurants/internal/auth"
	"github.com/idilsaglam/restaurants/internal/directory"
	"github.com/idilsaglam/restaurants/internal/model"
	"github.com/idilsaglam/restaurants/internal/server"
	"github.com/idilsaglam/restaurants/internal/store/jsonstore"
	"github.com/idilsaglam/restaurants/internal/store/sqlstore"
	"github.com/idilsaglam/restaurants/internal/tui"
	"github.com/idilsaglam/restaurants/internal/ui"
)

func browseCmd() *cobra.Command {
	var sel directory.Selection
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Open the interactive list and map browser",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			policy, err := failurePolicy()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			src, closeSrc, err := openSource(ctx)
			if err != nil {
				return err
			}
			defer closeSrc()

			log.WithField("source", conf.Data.Source).Info("browser starting")
			return tui.Run(ctx, src, tui.Options{
				Selection: sel,
				Policy:    policy,
				Center:    model.LatLng{Lat: conf.Map.Center.Lat, Lng: conf.Map.Center.Lng},
				Zoom:      conf.Map.Zoom,
				Log:       log,
			})
		},
	}
	cmd.Flags().StringVarP(&sel.Neighborhood, "neighborhood", "n", directory.All, "initial neighborhood")
	cmd.Flags().StringVarP(&sel.Cuisine, "cuisine", "c", directory.All, "initial cuisine")
	return cmd
}

func serveCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the data source over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			src, closeSrc, err := openSource(ctx)
			if err != nil {
				return err
			}
			defer closeSrc()

			st, ok := src.(server.Store)
			if !ok {
				return fmt.Errorf("serve needs a local data source, got %q", conf.Data.Source)
			}
			if addr == "" {
				addr = conf.Server.Addr
			}
			return server.New(st, log, conf.Server.Token).Run(ctx, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default server.addr)")
	return cmd
}

func importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import [file]",
		Short: "Load a restaurants JSON file into the SQLite database",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file := conf.Data.File
			if len(args) == 1 {
				file = args[0]
			}
			rs, err := jsonstore.Load(file)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			st, err := sqlstore.Open(ctx, conf.Data.DSN)
			if err != nil {
				return err
			}
			defer st.Close()

			n, err := st.Import(ctx, rs)
			if err != nil {
				return err
			}
			log.WithFields(logrus.Fields{"file": file, "dsn": conf.Data.DSN}).Infof("imported %d restaurants", n)
			ui.OK(fmt.Sprintf("imported %d restaurants into %s", n, conf.Data.DSN))
			return nil
		},
	}
}

func authCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the token used against a remote server",
	}

	var ttl time.Duration
	login := &cobra.Command{
		Use:   "login <token>",
		Short: "Save an API token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var expires *time.Time
			if ttl > 0 {
				t := time.Now().Add(ttl)
				expires = &t
			}
			if err := auth.SetToken(args[0], expires); err != nil {
				return err
			}
			ui.OK("token saved")
			return nil
		},
	}
	login.Flags().DurationVar(&ttl, "expires-in", 0, "token lifetime, 0 for none")

	logout := &cobra.Command{
		Use:   "logout",
		Short: "Delete the saved token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := auth.DeleteToken(); err != nil {
				return err
			}
			ui.OK("logged out")
			return nil
		},
	}

	status := &cobra.Command{
		Use:   "status",
		Short: "Show where the token comes from",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ti, err := auth.GetToken()
			if err != nil {
				return err
			}
			if ti == nil {
				ui.Fail("not logged in")
				return nil
			}
			msg := "logged in (" + ti.Source + ")"
			if ti.ExpiresAt != nil {
				msg += ", expires " + ti.ExpiresAt.Format(time.RFC3339)
			}
			ui.OK(msg)
			return nil
		},
	}

	cmd.AddCommand(login, logout, status)
	return cmd
}
