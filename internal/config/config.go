package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

const (
	// DatadirKey is the local data directory where the snapshot database lives
	DatadirKey = "DATADIR"
	// LogLevelKey are the different logging levels. For reference on the values https://godoc.org/github.com/sirupsen/logrus#Level
	LogLevelKey = "LOG_LEVEL"
	// KeyManagerAddrKey is the websocket address of the key-management service
	KeyManagerAddrKey = "KEYMANAGER_ADDR"
	// ChainAddrKey is the websocket address of the streaming network client
	ChainAddrKey = "CHAIN_ADDR"
	// HTTPListenPortKey is the port the read-only HTTP interface listens on
	HTTPListenPortKey = "HTTP_LISTENING_PORT"
	// AppNameKey is the application name sent with every key-manager request
	AppNameKey = "APP_NAME"
	// OfflineKey disables the chain subscription entirely
	OfflineKey = "OFFLINE"
	// TxGCConfirmationsKey is how many blocks past its removal height an
	// expired transaction is kept before being physically pruned
	TxGCConfirmationsKey = "TX_GC_CONFIRMATIONS"

	snapshotLocation = "snapshot"
)

var vip *viper.Viper

func defaultDatadir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".keysafe-daemon"
	}
	return filepath.Join(home, ".keysafe-daemon")
}

func InitConfig() error {
	vip = viper.New()
	vip.SetEnvPrefix("KEYSAFE")
	vip.AutomaticEnv()

	vip.SetDefault(DatadirKey, defaultDatadir())
	vip.SetDefault(LogLevelKey, 4)
	vip.SetDefault(HTTPListenPortKey, 9310)
	vip.SetDefault(AppNameKey, "Keysafe")
	vip.SetDefault(OfflineKey, false)
	vip.SetDefault(TxGCConfirmationsKey, 100)

	if err := validate(); err != nil {
		return fmt.Errorf("error while validating config: %s", err)
	}

	if err := initDatadir(); err != nil {
		return fmt.Errorf("error while creating datadir: %s", err)
	}

	return nil
}

func GetString(key string) string {
	return vip.GetString(key)
}

func GetInt(key string) int {
	return vip.GetInt(key)
}

func GetBool(key string) bool {
	return vip.GetBool(key)
}

func GetDatadir() string {
	return GetString(DatadirKey)
}

func validate() error {
	datadir := GetString(DatadirKey)
	if len(datadir) <= 0 {
		return fmt.Errorf("missing datadir")
	}

	if !vip.IsSet(KeyManagerAddrKey) {
		return fmt.Errorf("missing key-manager address")
	}

	if !GetBool(OfflineKey) && !vip.IsSet(ChainAddrKey) {
		return fmt.Errorf("missing chain address, set %s to run without one", OfflineKey)
	}

	if GetInt(TxGCConfirmationsKey) < 1 {
		return fmt.Errorf("%s must be at least 1", TxGCConfirmationsKey)
	}

	return nil
}

func initDatadir() error {
	return makeDirectoryIfNotExists(
		filepath.Join(GetDatadir(), snapshotLocation),
	)
}

func makeDirectoryIfNotExists(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return os.MkdirAll(path, os.ModeDir|0755)
	}
	return nil
}
