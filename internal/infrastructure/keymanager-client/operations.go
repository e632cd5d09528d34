package keymanagerclient

import (
	"context"
	"encoding/json"

	"github.com/keysafe-network/keysafe-daemon/internal/core/domain"
	"github.com/keysafe-network/keysafe-daemon/internal/core/ports"
)

type operationParams struct {
	AppName  string `json:"appName"`
	WalletID string `json:"walletId,omitempty"`
	Address  string `json:"address,omitempty"`
}

type keyAccountDTO struct {
	Address string `json:"address"`
	Label   string `json:"label"`
}

type keyRecordDTO struct {
	ID       string          `json:"id"`
	WalletID string          `json:"walletId"`
	Label    string          `json:"label"`
	Type     string          `json:"type"`
	HasFile  bool            `json:"hasFile"`
	HasWords bool            `json:"hasWords"`
	Accounts []keyAccountDTO `json:"accounts"`
}

// recordID tolerates both the listing shape (id) and the flow result shape
// (walletId) of the wire protocol.
func (dto keyRecordDTO) recordID() string {
	if dto.ID != "" {
		return dto.ID
	}
	return dto.WalletID
}

func (dto keyRecordDTO) toPortRecord() (*ports.KeyRecord, error) {
	walletType, err := domain.ParseWalletType(dto.Type)
	if err != nil {
		return nil, err
	}
	accounts := make([]ports.KeyAccount, 0, len(dto.Accounts))
	for _, a := range dto.Accounts {
		accounts = append(accounts, ports.KeyAccount{
			Address: a.Address,
			Label:   a.Label,
		})
	}
	return &ports.KeyRecord{
		ID:       dto.recordID(),
		Label:    dto.Label,
		Type:     walletType,
		HasFile:  dto.HasFile,
		HasWords: dto.HasWords,
		Accounts: accounts,
	}, nil
}

func (s *service) List(ctx context.Context) ([]ports.KeyRecord, error) {
	raw, err := s.invoke(ctx, "list", operationParams{AppName: s.appName})
	if err != nil {
		return nil, err
	}

	var dtos []keyRecordDTO
	if err := json.Unmarshal(raw, &dtos); err != nil {
		return nil, err
	}
	records := make([]ports.KeyRecord, 0, len(dtos))
	for _, dto := range dtos {
		record, err := dto.toPortRecord()
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}
	return records, nil
}

func (s *service) Migrate(ctx context.Context) error {
	_, err := s.invoke(ctx, "migrate", operationParams{AppName: s.appName})
	return err
}

func (s *service) Onboard(ctx context.Context) (*ports.KeyRecord, error) {
	return s.invokeKeyFlow(ctx, "onboard")
}

func (s *service) Signup(ctx context.Context) (*ports.KeyRecord, error) {
	return s.invokeKeyFlow(ctx, "signup")
}

func (s *service) Login(ctx context.Context) (*ports.KeyRecord, error) {
	return s.invokeKeyFlow(ctx, "login")
}

func (s *service) invokeKeyFlow(
	ctx context.Context, operation string,
) (*ports.KeyRecord, error) {
	raw, err := s.invoke(ctx, operation, operationParams{AppName: s.appName})
	if err != nil {
		return nil, err
	}

	var dto keyRecordDTO
	if err := json.Unmarshal(raw, &dto); err != nil {
		return nil, err
	}
	return dto.toPortRecord()
}

func (s *service) Logout(
	ctx context.Context, walletID string,
) (bool, error) {
	raw, err := s.invoke(ctx, "logout", operationParams{
		AppName:  s.appName,
		WalletID: walletID,
	})
	if err != nil {
		return false, err
	}

	var result struct {
		Success bool `json:"success"`
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		return false, err
	}
	return result.Success, nil
}

func (s *service) Rename(
	ctx context.Context, walletID, address string,
) (*ports.RenameResult, error) {
	raw, err := s.invoke(ctx, "rename", operationParams{
		AppName:  s.appName,
		WalletID: walletID,
		Address:  address,
	})
	if err != nil {
		return nil, err
	}

	var dto struct {
		WalletID string          `json:"walletId"`
		Label    string          `json:"label"`
		Accounts []keyAccountDTO `json:"accounts"`
	}
	if err := json.Unmarshal(raw, &dto); err != nil {
		return nil, err
	}
	accounts := make([]ports.KeyAccount, 0, len(dto.Accounts))
	for _, a := range dto.Accounts {
		accounts = append(accounts, ports.KeyAccount{
			Address: a.Address,
			Label:   a.Label,
		})
	}
	return &ports.RenameResult{
		WalletID: dto.WalletID,
		Label:    dto.Label,
		Accounts: accounts,
	}, nil
}

func (s *service) Export(
	ctx context.Context, walletID string,
) (*ports.ExportResult, error) {
	raw, err := s.invoke(ctx, "export", operationParams{
		AppName:  s.appName,
		WalletID: walletID,
	})
	if err != nil {
		return nil, err
	}

	var dto struct {
		WalletID string `json:"walletId"`
		HasFile  bool   `json:"hasFile"`
		HasWords bool   `json:"hasWords"`
	}
	if err := json.Unmarshal(raw, &dto); err != nil {
		return nil, err
	}
	return &ports.ExportResult{
		WalletID: dto.WalletID,
		HasFile:  dto.HasFile,
		HasWords: dto.HasWords,
	}, nil
}

func (s *service) ChangePassphrase(
	ctx context.Context, walletID string,
) error {
	_, err := s.invoke(ctx, "changePassphrase", operationParams{
		AppName:  s.appName,
		WalletID: walletID,
	})
	return err
}

func (s *service) AddAccount(
	ctx context.Context, walletID string,
) (*ports.KeyAccount, error) {
	raw, err := s.invoke(ctx, "addAccount", operationParams{
		AppName:  s.appName,
		WalletID: walletID,
	})
	if err != nil {
		return nil, err
	}

	var dto struct {
		Account keyAccountDTO `json:"account"`
	}
	if err := json.Unmarshal(raw, &dto); err != nil {
		return nil, err
	}
	return &ports.KeyAccount{
		Address: dto.Account.Address,
		Label:   dto.Account.Label,
	}, nil
}
