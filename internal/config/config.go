package config

import (
	"strings"
	"time"
)

var BuildVersion = "0.0.0-dev"

// Validation tags described here: https://pkg.go.dev/github.com/go-playground/validator/v10
type Config struct {
	Blockchain struct {
		EthNodeAddress  string        `env:"ETH_NODE_ADDRESS"     flag:"eth-node-address"     validate:"required,url"`
		EthLegacyTx     bool          `env:"ETH_NODE_LEGACY_TX"   flag:"eth-node-legacy-tx"   desc:"use it to disable EIP-1559 transactions"`
		PollingInterval time.Duration `env:"ETH_POLLING_INTERVAL" flag:"eth-polling-interval" validate:"omitempty,duration" desc:"interval between polling for contract events"`
		MaxReconnects   int           `env:"ETH_MAX_RECONNECTS"   flag:"eth-max-reconnects"   validate:"omitempty,number"   desc:"maximum number of consequent failed polls before the event watcher gives up"`
	}
	Contract struct {
		Address          string        `env:"ALDER_CONTRACT_ADDRESS"   flag:"contract-address"         validate:"required,eth_addr"`
		TxTimeout        time.Duration `env:"CONTRACT_TX_TIMEOUT"      flag:"contract-tx-timeout"      validate:"omitempty,duration" desc:"maximum time to wait for a transaction to be mined"`
		EventHistorySize int           `env:"CONTRACT_EVENT_HISTORY"   flag:"contract-event-history"   validate:"omitempty,number"   desc:"number of recent contract events kept in memory"`
		DisableWatcher   bool          `env:"CONTRACT_DISABLE_WATCHER" flag:"contract-disable-watcher" desc:"do not watch contract events"`
	}
	Environment string `env:"ENVIRONMENT" flag:"environment"`
	Log         struct {
		Color         bool   `env:"LOG_COLOR"          flag:"log-color"`
		FolderPath    string `env:"LOG_FOLDER_PATH"    flag:"log-folder-path"    validate:"omitempty,dirpath" desc:"enables file logging and sets the folder path"`
		IsProd        bool   `env:"LOG_IS_PROD"        flag:"log-is-prod"        desc:"affects the format of the log output"`
		JSON          bool   `env:"LOG_JSON"           flag:"log-json"`
		LevelApp      string `env:"LOG_LEVEL_APP"      flag:"log-level-app"      validate:"omitempty,oneof=debug info warn error dpanic panic fatal"`
		LevelContract string `env:"LOG_LEVEL_CONTRACT" flag:"log-level-contract" validate:"omitempty,oneof=debug info warn error dpanic panic fatal"`
		LevelSession  string `env:"LOG_LEVEL_SESSION"  flag:"log-level-session"  validate:"omitempty,oneof=debug info warn error dpanic panic fatal"`
		LevelHTTP     string `env:"LOG_LEVEL_HTTP"     flag:"log-level-http"     validate:"omitempty,oneof=debug info warn error dpanic panic fatal"`
	}
	Session struct {
		Store         string `env:"SESSION_STORE"          flag:"session-store"          validate:"omitempty,oneof=memory redis" desc:"where the cached wallet flag and the selected role are persisted"`
		RedisAddress  string `env:"SESSION_REDIS_ADDRESS"  flag:"session-redis-address"  validate:"required_if=Store redis,omitempty,hostname_port"`
		RedisPassword string `env:"SESSION_REDIS_PASSWORD" flag:"session-redis-password"`
		RedisDB       int    `env:"SESSION_REDIS_DB"       flag:"session-redis-db"       validate:"omitempty,number"`
		KeyPrefix     string `env:"SESSION_KEY_PREFIX"     flag:"session-key-prefix"`
	}
	Wallet struct {
		Mnemonic     string `env:"WALLET_MNEMONIC"      flag:"wallet-mnemonic"      validate:"excluded_with=PrivateKey"`
		PrivateKey   string `env:"WALLET_PRIVATE_KEY"   flag:"wallet-private-key"   validate:"excluded_with=Mnemonic"`
		AccountIndex int    `env:"WALLET_ACCOUNT_INDEX" flag:"wallet-account-index" validate:"omitempty,min=0" desc:"derivation index of the account selected on connect"`
	}
	Web struct {
		Address   string `env:"WEB_ADDRESS"    flag:"web-address"    validate:"required,hostname_port" desc:"http server address host:port"`
		PublicUrl string `env:"WEB_PUBLIC_URL" flag:"web-public-url" validate:"omitempty,url"          desc:"public url of the dashboard, falls back to web-address if empty"`
	}
}

func (cfg *Config) SetDefaults() {
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	// Blockchain

	if cfg.Blockchain.MaxReconnects == 0 {
		cfg.Blockchain.MaxReconnects = 30
	}
	if cfg.Blockchain.PollingInterval == 0 {
		cfg.Blockchain.PollingInterval = 10 * time.Second
	}

	// Contract

	if cfg.Contract.TxTimeout == 0 {
		cfg.Contract.TxTimeout = 2 * time.Minute
	}
	if cfg.Contract.EventHistorySize == 0 {
		cfg.Contract.EventHistorySize = 256
	}

	// Log

	if cfg.Log.LevelApp == "" {
		cfg.Log.LevelApp = "debug"
	}
	if cfg.Log.LevelContract == "" {
		cfg.Log.LevelContract = "debug"
	}
	if cfg.Log.LevelSession == "" {
		cfg.Log.LevelSession = "info"
	}
	if cfg.Log.LevelHTTP == "" {
		cfg.Log.LevelHTTP = "info"
	}

	// Session

	if cfg.Session.Store == "" {
		cfg.Session.Store = "memory"
	}
	if cfg.Session.KeyPrefix == "" {
		cfg.Session.KeyPrefix = "mrv-dashboard:"
	}

	// Wallet

	// normalizes private key
	cfg.Wallet.PrivateKey = strings.TrimPrefix(cfg.Wallet.PrivateKey, "0x")
	cfg.Wallet.Mnemonic = strings.TrimSpace(cfg.Wallet.Mnemonic)

	// Web

	if cfg.Web.Address == "" {
		cfg.Web.Address = "0.0.0.0:8080"
	}
	if cfg.Web.PublicUrl == "" {
		cfg.Web.PublicUrl = "http://localhost:8080"
	}
}

// GetSanitized returns a copy of the config with sensitive data removed
// explicitly adding each field here to avoid accidentally leaking sensitive data
func (cfg *Config) GetSanitized() interface{} {
	publicCfg := Config{}

	publicCfg.Blockchain.EthLegacyTx = cfg.Blockchain.EthLegacyTx
	publicCfg.Blockchain.PollingInterval = cfg.Blockchain.PollingInterval
	publicCfg.Blockchain.MaxReconnects = cfg.Blockchain.MaxReconnects

	publicCfg.Contract.Address = cfg.Contract.Address
	publicCfg.Contract.TxTimeout = cfg.Contract.TxTimeout
	publicCfg.Contract.EventHistorySize = cfg.Contract.EventHistorySize
	publicCfg.Contract.DisableWatcher = cfg.Contract.DisableWatcher

	publicCfg.Environment = cfg.Environment

	publicCfg.Log.Color = cfg.Log.Color
	publicCfg.Log.FolderPath = cfg.Log.FolderPath
	publicCfg.Log.IsProd = cfg.Log.IsProd
	publicCfg.Log.JSON = cfg.Log.JSON
	publicCfg.Log.LevelApp = cfg.Log.LevelApp
	publicCfg.Log.LevelContract = cfg.Log.LevelContract
	publicCfg.Log.LevelSession = cfg.Log.LevelSession
	publicCfg.Log.LevelHTTP = cfg.Log.LevelHTTP

	publicCfg.Session.Store = cfg.Session.Store
	publicCfg.Session.RedisAddress = cfg.Session.RedisAddress
	publicCfg.Session.RedisDB = cfg.Session.RedisDB
	publicCfg.Session.KeyPrefix = cfg.Session.KeyPrefix

	publicCfg.Wallet.AccountIndex = cfg.Wallet.AccountIndex

	publicCfg.Web.Address = cfg.Web.Address
	publicCfg.Web.PublicUrl = cfg.Web.PublicUrl

	return publicCfg
}
