package main

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"net"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alder-protocol/mrv-dashboard/internal/config"
	"github.com/alder-protocol/mrv-dashboard/internal/handlers/httphandlers"
	"github.com/alder-protocol/mrv-dashboard/internal/lib"
	"github.com/alder-protocol/mrv-dashboard/internal/repositories/contracts"
	"github.com/alder-protocol/mrv-dashboard/internal/services"
	"github.com/alder-protocol/mrv-dashboard/internal/session"
	"github.com/alder-protocol/mrv-dashboard/internal/wallet"
	"github.com/alder-protocol/mrv-dashboard/internal/wizard"
	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/sync/errgroup"
)

const (
	hdWalletAccounts = 10
	shutdownTimeout  = 5 * time.Second
)

func main() {
	err := start()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
}

func start() error {
	var cfg config.Config
	err := config.LoadConfig(&cfg, &os.Args, ".env")
	if err != nil {
		return err
	}

	logOpts := func(level string, fileName string) lib.LoggerOptions {
		return lib.LoggerOptions{
			Level:      level,
			Color:      cfg.Log.Color,
			IsProd:     cfg.Log.IsProd,
			JSON:       cfg.Log.JSON,
			FolderPath: cfg.Log.FolderPath,
			FileName:   fileName,
		}
	}

	log, err := lib.NewLogger(logOpts(cfg.Log.LevelApp, "app.log"))
	if err != nil {
		return err
	}
	contractLog, err := lib.NewLogger(logOpts(cfg.Log.LevelContract, "contract.log"))
	if err != nil {
		return err
	}
	sessionLog, err := lib.NewLogger(logOpts(cfg.Log.LevelSession, "session.log"))
	if err != nil {
		return err
	}
	httpLog, err := lib.NewLogger(logOpts(cfg.Log.LevelHTTP, "http.log"))
	if err != nil {
		return err
	}

	defer func() {
		_ = log.Sync()
	}()

	log.Infof("mrv-dashboard %s, environment %s", config.BuildVersion, cfg.Environment)
	log.Debugf("config: %+v", cfg.GetSanitized())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		s := <-shutdownChan
		log.Warnf("Received signal: %s", s)
		cancel()

		s = <-shutdownChan
		log.Warnf("Received signal: %s. Forcing exit...", s)
		os.Exit(1)
	}()

	ethClient, err := contracts.DialContext(ctx, cfg.Blockchain.EthNodeAddress)
	if err != nil {
		return lib.WrapError(errors.New("cannot connect to ethereum node"), err)
	}
	defer ethClient.Close()

	chainID, err := ethClient.ChainID(ctx)
	if err != nil {
		return lib.WrapError(errors.New("cannot get chain id"), err)
	}
	log.Infof("connected to ethereum node %s, chain id %s", ethClient.URL(), chainID)

	var (
		provider  wallet.Provider
		walletCtl httphandlers.WalletControl
	)
	keys, err := newKeyProvider(cfg, chainID, sessionLog)
	if err != nil {
		return err
	}
	if keys != nil {
		err = keys.SelectAccount(cfg.Wallet.AccountIndex)
		if err != nil {
			return err
		}
		provider, walletCtl = keys, keys
		defer func() {
			_ = keys.Close()
		}()
	} else {
		log.Warn("no wallet is configured, only read-only endpoints will work")
	}

	var store session.Store
	switch cfg.Session.Store {
	case "redis":
		redisStore, err := session.DialRedisStore(ctx, cfg.Session.RedisAddress, cfg.Session.RedisPassword, cfg.Session.RedisDB, cfg.Session.KeyPrefix)
		if err != nil {
			return lib.WrapError(errors.New("cannot connect to redis"), err)
		}
		defer redisStore.Close()
		store = redisStore
	default:
		store = session.NewMemoryStore()
	}

	contractAddr := common.HexToAddress(cfg.Contract.Address)
	handleFactory := func(from common.Address, transactor contracts.TransactorFunc) (contracts.ContractHandle, error) {
		return contracts.NewAlder(contractAddr, from, ethClient, transactor, cfg.Blockchain.EthLegacyTx, cfg.Contract.TxTimeout, contractLog)
	}

	sess := session.NewSession(provider, ethClient, handleFactory, store, sessionLog)
	defer sess.Close()

	err = sess.Start(ctx)
	if err != nil {
		log.Warnf("session restore failed: %s", err)
	}

	history := contracts.NewEventHistory(cfg.Contract.EventHistorySize)
	if !cfg.Contract.DisableWatcher {
		logWatcher := contracts.NewLogWatcherPolling(ethClient, cfg.Blockchain.PollingInterval, cfg.Blockchain.MaxReconnects, contractLog)
		eventWatcher, err := contracts.NewEventWatcher(contractAddr, logWatcher, history, contractLog)
		if err != nil {
			return err
		}
		task := lib.NewTask(eventWatcher, "event-watcher", contractLog)
		task.Start(ctx)
		defer func() {
			<-task.Stop()
		}()
	}

	publicUrl, err := url.Parse(cfg.Web.PublicUrl)
	if err != nil {
		return err
	}

	service := services.NewService(contractLog.Named("SERVICE"))
	estimator := wizard.FixedEstimator{Value: wizard.DefaultEstimateTCO2}
	handl := httphandlers.NewHTTPHandler(sess, service, walletCtl, estimator, history, &cfg, publicUrl, httpLog)

	server := &http.Server{
		Addr:    cfg.Web.Address,
		Handler: handl,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Infof("http server is listening: %s", cfg.Web.Address)
		err := server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	err = g.Wait()
	log.Infof("App exited due to %s", ctx.Err())
	return err
}

// newKeyProvider builds the server side wallet, nil when neither a mnemonic nor a key is set
func newKeyProvider(cfg config.Config, chainID *big.Int, log *lib.Logger) (*wallet.KeyProvider, error) {
	switch {
	case cfg.Wallet.Mnemonic != "":
		return wallet.NewHDWalletProvider(cfg.Wallet.Mnemonic, hdWalletAccounts, chainID, log)
	case cfg.Wallet.PrivateKey != "":
		return wallet.NewPrivateKeyProvider(cfg.Wallet.PrivateKey, chainID, log)
	}
	return nil, nil
}
