package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

// Defaults for the Tempo testnet the app ships against.
const (
	DefaultAPIURL      = "http://localhost:8080"
	DefaultChainID     = 42431
	DefaultChainName   = "tempo testnet"
	DefaultRPCURL      = "https://rpc.moderato.tempo.xyz"
	DefaultExplorerURL = "https://explore.tempo.xyz"
	DefaultFileName    = ".payme-config.json"
)

// Config represents the application configuration
type Config struct {
	RPCURLs     []RPCUrl `json:"rpc_urls"`
	Profile     Profile  `json:"profile"`
	APIURL      string   `json:"api_url,omitempty"`
	ChainID     int64    `json:"chain_id,omitempty"`
	ChainName   string   `json:"chain_name,omitempty"`
	ExplorerURL string   `json:"explorer_url,omitempty"`
	Tokens      []Token  `json:"tokens,omitempty"`
	Logger      bool     `json:"logger"`
}

// RPCUrl represents an RPC endpoint
type RPCUrl struct {
	Name   string `json:"name"`
	URL    string `json:"url"`
	Active bool   `json:"active"`
}

// Profile is the locally cached display name and address. It is a
// convenience for prefilling forms and never authoritative.
type Profile struct {
	DisplayName string `json:"display_name"`
	Address     string `json:"address"`
}

// Token is a selectable payment token.
type Token struct {
	Symbol  string `json:"symbol"`
	Address string `json:"address"`
}

// Env holds overrides read from the environment.
type Env struct {
	ConfigPath string `envconfig:"PAYME_CONFIG"`
	APIURL     string `envconfig:"PAYME_API_URL"`
	RPCURL     string `envconfig:"ETH_RPC_URL"`
	ChainID    int64  `envconfig:"PAYME_CHAIN_ID"`
	PrivateKey string `envconfig:"PAYME_PRIVATE_KEY"`
}

// ReadEnv processes the environment into an Env.
func ReadEnv() (Env, error) {
	var e Env
	if err := envconfig.Process("", &e); err != nil {
		return Env{}, fmt.Errorf("failed to process env: %w", err)
	}
	return e, nil
}

// DefaultPath returns the config location in the user's home directory.
func DefaultPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, DefaultFileName)
}

// Load reads the config from the specified path
func Load(path string) Config {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}
	}

	return cfg
}

// Save writes the config to the specified path
func Save(path string, cfg Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// DefaultConfig returns a new configuration with sensible defaults
func DefaultConfig() Config {
	return Config{
		RPCURLs: []RPCUrl{
			{
				Name:   "Tempo Testnet",
				URL:    DefaultRPCURL,
				Active: true,
			},
		},
		APIURL:      DefaultAPIURL,
		ChainID:     DefaultChainID,
		ChainName:   DefaultChainName,
		ExplorerURL: DefaultExplorerURL,
		Tokens:      DefaultTokens(),
		Logger:      false,
	}
}

// DefaultTokens lists the testnet stablecoins.
func DefaultTokens() []Token {
	return []Token{
		{Symbol: "pathUSD", Address: "0x20c0000000000000000000000000000000000000"},
		{Symbol: "AlphaUSD", Address: "0x20c0000000000000000000000000000000000001"},
		{Symbol: "BetaUSD", Address: "0x20c0000000000000000000000000000000000002"},
	}
}

// LoadOrCreate loads config from path, or creates a default one if not found
func LoadOrCreate(path string) Config {
	data, err := os.ReadFile(path)
	if err != nil {
		cfg := DefaultConfig()
		_ = Save(path, cfg)
		return cfg
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig()
	}

	return cfg.withDefaults()
}

// withDefaults fills fields that older config files may not carry.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.APIURL == "" {
		c.APIURL = d.APIURL
	}
	if c.ChainID == 0 {
		c.ChainID = d.ChainID
	}
	if c.ChainName == "" {
		c.ChainName = d.ChainName
	}
	if c.ExplorerURL == "" {
		c.ExplorerURL = d.ExplorerURL
	}
	if len(c.Tokens) == 0 {
		c.Tokens = d.Tokens
	}
	return c
}

// Apply overlays non-empty environment values on the file config.
func (c Config) Apply(e Env) Config {
	if e.APIURL != "" {
		c.APIURL = e.APIURL
	}
	if e.ChainID != 0 {
		c.ChainID = e.ChainID
	}
	if e.RPCURL != "" {
		c.RPCURLs = append([]RPCUrl(nil), c.RPCURLs...)
		found := false
		for i := range c.RPCURLs {
			c.RPCURLs[i].Active = c.RPCURLs[i].URL == e.RPCURL
			found = found || c.RPCURLs[i].Active
		}
		if !found {
			c.RPCURLs = append(c.RPCURLs, RPCUrl{Name: "Environment", URL: e.RPCURL, Active: true})
		}
	}
	return c
}

// ActiveRPC returns the URL of the active endpoint, or "" when none is set.
func (c Config) ActiveRPC() string {
	for _, r := range c.RPCURLs {
		if r.Active {
			return r.URL
		}
	}
	return ""
}

// TokenSymbol resolves a token address to its configured symbol.
func (c Config) TokenSymbol(addr string) string {
	for _, t := range c.Tokens {
		if strings.EqualFold(t.Address, addr) {
			return t.Symbol
		}
	}
	return "token"
}
