package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/alphabill-org/alphabill-escrow/escrow"
	"github.com/alphabill-org/alphabill-escrow/keyvaluedb"
	"github.com/alphabill-org/alphabill-escrow/keyvaluedb/boltdb"
	"github.com/alphabill-org/alphabill-escrow/logger"
	"github.com/alphabill-org/alphabill-escrow/observability"
	"github.com/alphabill-org/alphabill-escrow/rpc"
	"github.com/alphabill-org/alphabill-escrow/state"
	"github.com/alphabill-org/alphabill-escrow/txsystem"
	"github.com/alphabill-org/alphabill-escrow/types"
)

var stateKey = []byte("state")

type startConfiguration struct {
	base *baseConfiguration

	Address        string
	DbFile         string
	Metrics        string
	Admin          string
	InitialBalance uint64
}

func newStartCmd(config *baseConfiguration) *cobra.Command {
	cfg := &startConfiguration{base: config}
	cmd := &cobra.Command{
		Use:   "start",
		Short: "run the escrow partition node",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNode(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVar(&cfg.Address, "rest-server-address", "localhost:8002", "REST server listen address")
	cmd.Flags().StringVar(&cfg.DbFile, "db", "", "state database file (default $home/escrow.db)")
	cmd.Flags().StringVar(&cfg.Metrics, "metrics", "", `metrics exporter, "prometheus" to enable`)
	cmd.Flags().StringVar(&cfg.Admin, "admin", "", "initial administrator account id as hex, required on first start")
	cmd.Flags().Uint64Var(&cfg.InitialBalance, "initial-balance", 1_000_000_000, "native balance credited to each account on first use")
	return cmd
}

func runNode(ctx context.Context, cfg *startConfiguration) error {
	log, err := logger.New(&logger.LogConfiguration{
		Level:      cfg.base.LogLevel,
		Format:     cfg.base.LogFormat,
		OutputPath: cfg.base.LogFile,
	})
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	obs, err := observability.New(log, cfg.Metrics)
	if err != nil {
		return fmt.Errorf("creating observability: %w", err)
	}
	defer func() {
		if err := obs.Shutdown(context.Background()); err != nil {
			log.Warn("observability shutdown", logger.Error(err))
		}
	}()

	dbFile := cfg.DbFile
	if dbFile == "" {
		if err := os.MkdirAll(cfg.base.HomeDir, 0700); err != nil {
			return fmt.Errorf("creating home directory: %w", err)
		}
		dbFile = filepath.Join(cfg.base.HomeDir, "escrow.db")
	}
	db, err := boltdb.New(dbFile)
	if err != nil {
		return fmt.Errorf("opening state db: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Warn("closing state db", logger.Error(err))
		}
	}()

	s, round, err := loadState(db)
	if err != nil {
		return fmt.Errorf("loading state: %w", err)
	}

	// the verifier needs the current round of the tx system it is wired
	// into, so dereference lazily
	var txs *txsystem.GenericTxSystem
	opts := []escrow.Option{
		escrow.WithNativeLedger(newDevLedger(cfg.InitialBalance)),
		escrow.WithTokenClient(newDevTokenClient(cfg.InitialBalance)),
		escrow.WithCapabilityVerifier(escrow.NewTemplateVerifier(func() uint64 {
			if txs == nil {
				return 0
			}
			return txs.CurrentRound()
		})),
		escrow.WithContractCaller(devCaller{}),
	}
	if s != nil {
		opts = append(opts, escrow.WithState(s))
	}
	if cfg.Admin != "" {
		var admin types.AccountID
		if err := admin.UnmarshalText([]byte(cfg.Admin)); err != nil {
			return fmt.Errorf("parsing admin account id: %w", err)
		}
		opts = append(opts, escrow.WithAdministrator(admin))
	}
	var module *escrow.Module
	txs, module, err = escrow.NewTxSystem(obs, opts...)
	if err != nil {
		return fmt.Errorf("creating tx system: %w", err)
	}

	node := newEscrowNode(txs, db, round, log)
	srv := rpc.NewRESTServer(cfg.Address, obs, rpc.NewEscrowEndpoints(node, module, log))
	if h := obs.MetricsHandler(); h != nil {
		root := http.NewServeMux()
		root.Handle("/metrics", h)
		root.Handle("/", srv.Handler)
		srv.Handler = root
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info(fmt.Sprintf("REST server listening on %s", cfg.Address), logger.Round(round))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// loadState restores the committed state from the latest stored snapshot,
// returns nil state when no snapshot exists yet.
func loadState(db keyvaluedb.KeyValueDB) (*state.State, uint64, error) {
	var snapshot types.Bytes
	found, err := db.Read(stateKey, &snapshot)
	if err != nil {
		return nil, 0, err
	}
	if !found {
		return nil, 0, nil
	}
	s, round, err := state.NewRecoveredState(bytes.NewReader(snapshot), escrow.NewUnitData)
	if err != nil {
		return nil, 0, fmt.Errorf("recovering state snapshot: %w", err)
	}
	return s, round, nil
}
