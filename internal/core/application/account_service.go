package application

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/keysafe-network/keysafe-daemon/internal/core/domain"
	"github.com/keysafe-network/keysafe-daemon/internal/core/ports"
	"github.com/keysafe-network/keysafe-daemon/pkg/gate"
)

const (
	LoadNotStarted LoadState = iota
	LoadInProgress
	LoadCompleted
	LoadMigrationTriggered
	LoadFailed
)

// LoadState tracks the one-shot initial load cycle.
type LoadState int

func (s LoadState) String() string {
	switch s {
	case LoadNotStarted:
		return "not_started"
	case LoadInProgress:
		return "in_progress"
	case LoadCompleted:
		return "completed"
	case LoadMigrationTriggered:
		return "migration_triggered"
	case LoadFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// AccountService drives every key-manager operation and folds its result into
// the canonical store. It is the only writer of wallet and account identity
// fields.
type AccountService interface {
	// Launch opens the launched barrier and kicks off the initial load.
	Launch()
	// LoadAccounts performs the initial listing and replaces the store's
	// wallet and account sets. One-shot; a second call returns
	// ErrLoadAlreadyStarted.
	LoadAccounts(ctx context.Context) error
	// LoadState returns the state of the initial load cycle.
	LoadState() LoadState
	// WhenLaunched returns a channel closed once Launch has run.
	WhenLaunched() <-chan struct{}
	// WhenAccountsLoaded returns a channel closed once the initial load has
	// been folded into the store.
	WhenAccountsLoaded() <-chan struct{}

	Onboard(ctx context.Context) error
	Create(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context, walletID string) error
	Rename(ctx context.Context, walletID, address string) error
	Export(ctx context.Context, walletID string) error
	ChangePassphrase(ctx context.Context, walletID string) error
	AddAccount(ctx context.Context, walletID string) error
}

type accountService struct {
	keyManager  ports.KeyManager
	repoManager ports.RepoManager

	launched       *gate.Gate
	accountsLoaded *gate.Gate

	stateLock sync.Mutex
	loadState LoadState
}

// NewAccountService returns an AccountService folding into the given store
// through the given key manager.
func NewAccountService(
	keyManager ports.KeyManager, repoManager ports.RepoManager,
) AccountService {
	return &accountService{
		keyManager:     keyManager,
		repoManager:    repoManager,
		launched:       gate.New(),
		accountsLoaded: gate.New(),
	}
}

func (s *accountService) Launch() {
	s.launched.Open()
}

func (s *accountService) LoadState() LoadState {
	s.stateLock.Lock()
	defer s.stateLock.Unlock()
	return s.loadState
}

func (s *accountService) setLoadState(state LoadState) {
	s.stateLock.Lock()
	defer s.stateLock.Unlock()
	s.loadState = state
}

// beginLoad transitions NotStarted to InProgress, failing if the cycle has
// already started.
func (s *accountService) beginLoad() error {
	s.stateLock.Lock()
	defer s.stateLock.Unlock()
	if s.loadState != LoadNotStarted {
		return ErrLoadAlreadyStarted
	}
	s.loadState = LoadInProgress
	return nil
}

func (s *accountService) WhenLaunched() <-chan struct{} {
	return s.launched.Done()
}

func (s *accountService) WhenAccountsLoaded() <-chan struct{} {
	return s.accountsLoaded.Done()
}

func (s *accountService) LoadAccounts(ctx context.Context) error {
	if err := s.launched.Wait(ctx); err != nil {
		return err
	}
	if err := s.beginLoad(); err != nil {
		return err
	}

	records, err := s.keyManager.List(ctx)
	observeKeyOperation("list", err)
	if err != nil {
		if ports.IsMigrationRequired(err) {
			log.Info("key service requires migration, starting migration flow")
			s.setLoadState(LoadMigrationTriggered)
			if err := s.keyManager.Migrate(ctx); err != nil {
				log.WithError(err).Warn("migration flow could not be started")
			}
			return nil
		}
		if ports.IsDataLost(err) {
			log.Warn("key service lost its data, proceeding with empty wallet set")
			records = nil
		} else {
			s.setLoadState(LoadFailed)
			return err
		}
	}

	wallets := make([]domain.Wallet, 0, len(records))
	accounts := make([]domain.Account, 0)
	for _, record := range records {
		wallets = append(wallets, walletFromRecord(record))
		accounts = append(accounts, accountsFromRecord(record)...)
	}

	walletRepo := s.repoManager.WalletRepository()
	if err := walletRepo.ReplaceAll(ctx, wallets, accounts); err != nil {
		s.setLoadState(LoadFailed)
		return err
	}

	if err := s.applyDefaultWalletFallback(ctx, accounts, records); err != nil {
		s.setLoadState(LoadFailed)
		return err
	}

	s.setLoadState(LoadCompleted)
	s.accountsLoaded.Open()
	log.WithField("wallets", len(wallets)).WithField("accounts", len(accounts)).
		Info("accounts loaded")
	return nil
}

func (s *accountService) applyDefaultWalletFallback(
	ctx context.Context,
	accounts []domain.Account, records []ports.KeyRecord,
) error {
	walletRepo := s.repoManager.WalletRepository()
	active, err := walletRepo.GetActiveWallet(ctx)
	if err != nil {
		return err
	}

	if fallback, changed := FallbackDefaultWallet(active, accounts, records); changed {
		log.Debugf("active wallet falls back to %s", fallback)
		return walletRepo.SetActiveWallet(ctx, fallback)
	}
	return nil
}

func (s *accountService) Onboard(ctx context.Context) error {
	if err := s.accountsLoaded.Wait(ctx); err != nil {
		return err
	}
	record, err := s.keyManager.Onboard(ctx)
	observeKeyOperation("onboard", err)
	if err != nil {
		return err
	}
	return s.onOnboardingResult(ctx, *record)
}

func (s *accountService) Create(ctx context.Context) error {
	if err := s.accountsLoaded.Wait(ctx); err != nil {
		return err
	}
	record, err := s.keyManager.Signup(ctx)
	observeKeyOperation("signup", err)
	if err != nil {
		return err
	}
	return s.onOnboardingResult(ctx, *record)
}

func (s *accountService) Login(ctx context.Context) error {
	if err := s.accountsLoaded.Wait(ctx); err != nil {
		return err
	}
	record, err := s.keyManager.Login(ctx)
	observeKeyOperation("login", err)
	if err != nil {
		return err
	}
	return s.onOnboardingResult(ctx, *record)
}

func (s *accountService) Logout(ctx context.Context, walletID string) error {
	if err := s.accountsLoaded.Wait(ctx); err != nil {
		return err
	}
	ok, err := s.keyManager.Logout(ctx, walletID)
	observeKeyOperation("logout", err)
	if err != nil {
		return err
	}
	if !ok {
		return ErrLogoutFailed
	}
	return s.repoManager.WalletRepository().DeleteWallet(ctx, walletID)
}

func (s *accountService) Rename(
	ctx context.Context, walletID, address string,
) error {
	if err := s.accountsLoaded.Wait(ctx); err != nil {
		return err
	}
	result, err := s.keyManager.Rename(ctx, walletID, address)
	observeKeyOperation("rename", err)
	if err != nil {
		return err
	}

	walletRepo := s.repoManager.WalletRepository()
	if err := walletRepo.UpdateWallet(
		ctx, result.WalletID,
		func(w *domain.Wallet) (*domain.Wallet, error) {
			w.Label = result.Label
			return w, nil
		},
	); err != nil && err != domain.ErrWalletNotExist {
		return err
	}

	accountRepo := s.repoManager.AccountRepository()
	for _, account := range result.Accounts {
		if err := accountRepo.UpdateAccountLabel(
			ctx, account.Address, account.Label,
		); err != nil {
			return err
		}
	}
	return nil
}

func (s *accountService) Export(ctx context.Context, walletID string) error {
	if err := s.accountsLoaded.Wait(ctx); err != nil {
		return err
	}
	result, err := s.keyManager.Export(ctx, walletID)
	observeKeyOperation("export", err)
	if err != nil {
		return err
	}

	err = s.repoManager.WalletRepository().UpdateWallet(
		ctx, walletID,
		func(w *domain.Wallet) (*domain.Wallet, error) {
			w.HasFile = result.HasFile
			w.HasWords = result.HasWords
			return w, nil
		},
	)
	if err == domain.ErrWalletNotExist {
		return nil
	}
	return err
}

func (s *accountService) ChangePassphrase(
	ctx context.Context, walletID string,
) error {
	if err := s.accountsLoaded.Wait(ctx); err != nil {
		return err
	}
	err := s.keyManager.ChangePassphrase(ctx, walletID)
	observeKeyOperation("changePassphrase", err)
	return err
}

func (s *accountService) AddAccount(
	ctx context.Context, walletID string,
) error {
	if err := s.accountsLoaded.Wait(ctx); err != nil {
		return err
	}
	newAccount, err := s.keyManager.AddAccount(ctx, walletID)
	observeKeyOperation("addAccount", err)
	if err != nil {
		return err
	}

	wallet, err := s.repoManager.WalletRepository().GetWallet(ctx, walletID)
	if err != nil {
		return err
	}
	return s.repoManager.AccountRepository().UpsertAccount(ctx, domain.Account{
		Address:  newAccount.Address,
		Label:    newAccount.Label,
		Type:     domain.AccountTypeKeyguardHigh,
		WalletID: walletID,
		IsLegacy: wallet.IsLegacy(),
	})
}

// onOnboardingResult is the single merge rule shared by the onboarding,
// creation and login flows: upsert the wallet and all its accounts,
// last writer wins.
func (s *accountService) onOnboardingResult(
	ctx context.Context, record ports.KeyRecord,
) error {
	return s.repoManager.WalletRepository().UpsertWalletWithAccounts(
		ctx, walletFromRecord(record), accountsFromRecord(record),
	)
}

func walletFromRecord(record ports.KeyRecord) domain.Wallet {
	return domain.Wallet{
		ID:       record.ID,
		Label:    record.Label,
		Type:     record.Type,
		HasFile:  record.HasFile,
		HasWords: record.HasWords,
	}
}

// accountsFromRecord maps the address entries of a key record to accounts.
// Synchronized accounts are always keyguard-high ones; hardware and contract
// accounts enter the store through other flows.
func accountsFromRecord(record ports.KeyRecord) []domain.Account {
	accounts := make([]domain.Account, 0, len(record.Accounts))
	for _, entry := range record.Accounts {
		accounts = append(accounts, domain.Account{
			Address:  entry.Address,
			Label:    entry.Label,
			Type:     domain.AccountTypeKeyguardHigh,
			WalletID: record.ID,
			IsLegacy: record.Type == domain.WalletTypeLegacy,
		})
	}
	return accounts
}
