package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/ardanlabs/conf/v3"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/emberchain/blockchain/app/services/node/handlers"
	"github.com/emberchain/blockchain/foundation/blockchain/database"
	"github.com/emberchain/blockchain/foundation/blockchain/peer"
	"github.com/emberchain/blockchain/foundation/blockchain/signature"
	"github.com/emberchain/blockchain/foundation/blockchain/state"
	"github.com/emberchain/blockchain/foundation/blockchain/storage/badgerdb"
	"github.com/emberchain/blockchain/foundation/blockchain/storage/disk"
	"github.com/emberchain/blockchain/foundation/blockchain/storage/memory"
	"github.com/emberchain/blockchain/foundation/blockchain/transport"
	"github.com/emberchain/blockchain/foundation/blockchain/worker"
	"github.com/emberchain/blockchain/foundation/events"
	"github.com/emberchain/blockchain/foundation/logger"
	"github.com/emberchain/blockchain/foundation/nameservice"
)

// build is the git version of this program. It can be set at build time
// with -ldflags "-X main.build=...".
var build = "develop"

func main() {

	// Construct the application logger.
	log, err := logger.New("NODE")
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer log.Sync()

	// Perform the startup and shutdown sequence.
	if err := run(log); err != nil {
		log.Errorw("startup", "ERROR", err)
		log.Sync()
		os.Exit(1)
	}
}

func run(log *zap.SugaredLogger) error {

	// =========================================================================
	// Configuration

	// An optional .env file can seed the environment before parsing.
	godotenv.Load()

	cfg := struct {
		conf.Version
		Web struct {
			ReadTimeout     time.Duration `conf:"default:5s"`
			WriteTimeout    time.Duration `conf:"default:10s"`
			IdleTimeout     time.Duration `conf:"default:120s"`
			ShutdownTimeout time.Duration `conf:"default:20s"`
			DebugHost       string        `conf:"default:0.0.0.0:7080"`
			PublicHost      string        `conf:"default:0.0.0.0:8080"`
			PrivateHost     string        `conf:"default:0.0.0.0:9080"`
		}
		Node struct {
			MinerName    string   `conf:"default:miner1"`
			Beneficiary  string   `conf:"help:reward address override"`
			KeysFolder   string   `conf:"default:data/keys/"`
			DataDir      string   `conf:"default:data"`
			StoreBackend string   `conf:"default:disk,help:disk badger or memory"`
			Difficulty   int      `conf:"default:0,help:local testing override only"`
			KnownPeers   []string `conf:"help:comma separated list of seed peers"`
		}
	}{
		Version: conf.Version{
			Build: build,
			Desc:  "emberchain node",
		},
	}

	const prefix = "NODE"
	help, err := conf.Parse(prefix, &cfg)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Println(help)
			return nil
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	// =========================================================================
	// App Starting

	log.Infow("starting service", "version", build)
	defer log.Infow("shutdown complete")

	out, err := conf.String(&cfg)
	if err != nil {
		return fmt.Errorf("generating config for output: %w", err)
	}
	log.Infow("startup", "config", out)

	// =========================================================================
	// Name Service Support

	// The nameservice package provides name resolution for addresses. The
	// names come from the file names in the keys folder.
	ns, err := nameservice.New(cfg.Node.KeysFolder)
	if err != nil {
		return fmt.Errorf("unable to load account name service: %w", err)
	}

	for account, name := range ns.Copy() {
		log.Infow("startup", "status", "nameservice", "name", name, "account", account)
	}

	// =========================================================================
	// Blockchain Support

	// The private key file for the configured miner must unlock so the node
	// has an address to credit with block rewards. Failure here is fatal.
	path := filepath.Join(cfg.Node.KeysFolder, cfg.Node.MinerName+".ecdsa")
	privateKey, err := signature.LoadECDSA(path)
	if err != nil {
		return fmt.Errorf("unable to load private key for node: %w", err)
	}

	beneficiaryID, err := signature.PublicKeyHex(&privateKey.PublicKey)
	if err != nil {
		return fmt.Errorf("unable to derive the miner address: %w", err)
	}

	// Rewards normally go to the miner's own wallet, but any address can be
	// configured to receive them.
	if cfg.Node.Beneficiary != "" {
		beneficiaryID = cfg.Node.Beneficiary
	}

	// A peer set is a collection of known nodes in the network so
	// transactions and blocks can be shared.
	peerSet := peer.NewSet()
	for _, host := range cfg.Node.KnownPeers {
		peerSet.Add(peer.New(host))
	}

	// The blockchain packages accept a function of this signature to allow
	// the application to log. These raw messages are also sent to any
	// websocket client connected through the events package.
	evts := events.New()
	ev := func(v string, args ...any) {
		s := fmt.Sprintf(v, args...)
		log.Infow(s, "traceid", "00000000-0000-0000-0000-000000000000")
		evts.Send(s)
	}

	// Select the chain store backend.
	var strg state.Storage
	switch cfg.Node.StoreBackend {
	case "disk":
		strg, err = disk.New(filepath.Join(cfg.Node.DataDir, "chain.json"))
	case "badger":
		strg, err = badgerdb.New(filepath.Join(cfg.Node.DataDir, "badger"))
	case "memory":
		strg = memory.New()
	default:
		return fmt.Errorf("unknown store backend %q", cfg.Node.StoreBackend)
	}
	if err != nil {
		return fmt.Errorf("unable to open chain store: %w", err)
	}

	// The state value represents the blockchain node and provides an API for
	// application support.
	st, err := state.New(state.Config{
		BeneficiaryID: database.AccountID(beneficiaryID),
		Host:          cfg.Web.PrivateHost,
		Difficulty:    cfg.Node.Difficulty,
		Storage:       strg,
		Transport:     transport.New(cfg.Web.PrivateHost),
		KnownPeers:    peerSet,
		EvHandler:     ev,
	})
	if err != nil {
		return err
	}
	defer st.Shutdown()

	// The worker package implements the mining, transaction sharing, and
	// peer update workflows. The worker registers itself with the state.
	worker.Run(st, ev)

	// =========================================================================
	// Start Debug Service

	log.Infow("startup", "status", "debug router started", "host", cfg.Web.DebugHost)

	go func() {
		if err := http.ListenAndServe(cfg.Web.DebugHost, handlers.DebugMux(build, log, st)); err != nil {
			log.Errorw("shutdown", "status", "debug router closed", "host", cfg.Web.DebugHost, "ERROR", err)
		}
	}()

	// =========================================================================
	// Service Start/Stop Support

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	// =========================================================================
	// Start Public Service

	log.Infow("startup", "status", "initializing V1 public API support")

	publicMux := handlers.PublicMux(handlers.MuxConfig{
		Shutdown: shutdown,
		Log:      log,
		State:    st,
		NS:       ns,
		Evts:     evts,
	})

	public := http.Server{
		Addr:         cfg.Web.PublicHost,
		Handler:      publicMux,
		ReadTimeout:  cfg.Web.ReadTimeout,
		WriteTimeout: cfg.Web.WriteTimeout,
		IdleTimeout:  cfg.Web.IdleTimeout,
		ErrorLog:     zap.NewStdLog(log.Desugar()),
	}

	go func() {
		log.Infow("startup", "status", "public api router started", "host", public.Addr)
		serverErrors <- public.ListenAndServe()
	}()

	// =========================================================================
	// Start Private Service

	log.Infow("startup", "status", "initializing V1 private API support")

	privateMux := handlers.PrivateMux(handlers.MuxConfig{
		Shutdown: shutdown,
		Log:      log,
		State:    st,
	})

	private := http.Server{
		Addr:         cfg.Web.PrivateHost,
		Handler:      privateMux,
		ReadTimeout:  cfg.Web.ReadTimeout,
		WriteTimeout: cfg.Web.WriteTimeout,
		IdleTimeout:  cfg.Web.IdleTimeout,
		ErrorLog:     zap.NewStdLog(log.Desugar()),
	}

	go func() {
		log.Infow("startup", "status", "private api router started", "host", private.Addr)
		serverErrors <- private.ListenAndServe()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		log.Infow("shutdown", "status", "shutdown started", "signal", sig)
		defer log.Infow("shutdown", "status", "shutdown complete", "signal", sig)

		// Release any web sockets that are currently active.
		evts.Shutdown()

		// Give outstanding requests a deadline for completion.
		ctx, cancelPri := context.WithTimeout(context.Background(), cfg.Web.ShutdownTimeout)
		defer cancelPri()

		log.Infow("shutdown", "status", "shutdown private API started")
		if err := private.Shutdown(ctx); err != nil {
			private.Close()
			return fmt.Errorf("could not stop private service gracefully: %w", err)
		}

		ctx, cancelPub := context.WithTimeout(context.Background(), cfg.Web.ShutdownTimeout)
		defer cancelPub()

		log.Infow("shutdown", "status", "shutdown public API started")
		if err := public.Shutdown(ctx); err != nil {
			public.Close()
			return fmt.Errorf("could not stop public service gracefully: %w", err)
		}
	}

	return nil
}
