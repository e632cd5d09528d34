package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/keysafe-network/keysafe-daemon/internal/config"
	"github.com/keysafe-network/keysafe-daemon/internal/core/application"
	"github.com/keysafe-network/keysafe-daemon/internal/core/ports"
	chainsource "github.com/keysafe-network/keysafe-daemon/internal/infrastructure/chain-source"
	keymanagerclient "github.com/keysafe-network/keysafe-daemon/internal/infrastructure/keymanager-client"
	"github.com/keysafe-network/keysafe-daemon/internal/infrastructure/notifier"
	"github.com/keysafe-network/keysafe-daemon/internal/infrastructure/storage/db/inmemory"
	snapshotstore "github.com/keysafe-network/keysafe-daemon/internal/infrastructure/storage/snapshot"
	httpinterface "github.com/keysafe-network/keysafe-daemon/internal/interfaces/http"
)

func main() {
	if err := config.InitConfig(); err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}
	log.SetLevel(log.Level(config.GetInt(config.LogLevelKey)))

	repoManager := inmemory.NewRepoManager()
	defer repoManager.Close()

	snapshotStore, err := snapshotstore.NewStore(config.GetDatadir())
	if err != nil {
		log.WithError(err).Fatal("error while opening snapshot store")
	}
	defer snapshotStore.Close()

	if snapshot, err := snapshotStore.Load(); err != nil {
		log.WithError(err).Warn("could not restore persisted snapshot")
	} else if snapshot != nil {
		repoManager.SnapshotRepository().Restore(*snapshot)
		log.Debug("persisted snapshot restored")
	}

	keyManagerSvc, err := keymanagerclient.NewService(
		config.GetString(config.KeyManagerAddrKey),
		config.GetString(config.AppNameKey),
	)
	if err != nil {
		log.WithError(err).Fatal("error while connecting to key-manager service")
	}
	defer keyManagerSvc.Close()

	notifySvc := notifier.NewLogNotifier()
	accountSvc := application.NewAccountService(keyManagerSvc, repoManager)

	var listenerSvc application.BlockchainListener
	if !config.GetBool(config.OfflineKey) {
		chainSvc := chainsource.NewService(config.GetString(config.ChainAddrKey))
		listenerSvc = application.NewBlockchainListener(
			chainSvc, repoManager, notifySvc,
			uint64(config.GetInt(config.TxGCConfirmationsKey)),
		)
	}

	accountSvc.Launch()
	go launchApp(accountSvc, listenerSvc, notifySvc, repoManager)

	readSvc := httpinterface.NewStoreReadService(repoManager, accountSvc)
	httpAddr := fmt.Sprintf(":%d", config.GetInt(config.HTTPListenPortKey))
	server := &http.Server{Addr: httpAddr, Handler: readSvc.Handler()}
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("error listening on read interface")
		}
	}()
	log.Info("read interface is listening on " + httpAddr)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
	<-sigChan

	log.Debug("shutting down")
	if listenerSvc != nil {
		listenerSvc.StopObserveChain()
	}
	// nolint
	server.Shutdown(context.Background())

	// The snapshot is internally consistent: it is taken in one critical
	// section after the writers have stopped.
	if err := snapshotStore.Save(
		repoManager.SnapshotRepository().Snapshot(),
	); err != nil {
		log.WithError(err).Warn("could not persist snapshot")
	}
	log.Debug("exiting")
}

// launchApp mirrors the boot flow of the app: load accounts, offer onboarding
// when the store is empty and only then start observing the chain.
func launchApp(
	accountSvc application.AccountService,
	listenerSvc application.BlockchainListener,
	notifySvc ports.Notifier,
	repoManager ports.RepoManager,
) {
	ctx := context.Background()

	if err := accountSvc.LoadAccounts(ctx); err != nil {
		notifySvc.Error(err)
		return
	}
	if accountSvc.LoadState() != application.LoadCompleted {
		// Migration flow took over, nothing to run against.
		return
	}

	wallets, err := repoManager.WalletRepository().GetAllWallets(ctx)
	if err != nil {
		notifySvc.Error(err)
		return
	}
	if len(wallets) == 0 {
		if err := accountSvc.Onboard(ctx); err != nil {
			notifySvc.Error(err)
			return
		}
	}

	if listenerSvc != nil {
		listenerSvc.ObserveChain()
	}
}
