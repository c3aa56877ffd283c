package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadOrCreate_WritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)

	cfg := LoadOrCreate(path)
	assert.Equal(t, DefaultAPIURL, cfg.APIURL)
	assert.Equal(t, int64(DefaultChainID), cfg.ChainID)
	assert.Equal(t, DefaultRPCURL, cfg.ActiveRPC())

	// second load reads the file written by the first
	again := Load(path)
	assert.Equal(t, cfg.Tokens, again.Tokens)
}

func TestProfile_SaveOnSubmitLoadAtStart(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)
	cfg := LoadOrCreate(path)

	cfg.Profile = Profile{DisplayName: "satoshi", Address: "0x20c0000000000000000000000000000000000000"}
	require.NoError(t, Save(path, cfg))

	loaded := LoadOrCreate(path)
	assert.Equal(t, "satoshi", loaded.Profile.DisplayName)
	assert.Equal(t, cfg.Profile.Address, loaded.Profile.Address)
}

func TestLoad_MissingOrBrokenFile(t *testing.T) {
	assert.Equal(t, Config{}, Load(filepath.Join(t.TempDir(), "nope.json")))
}

func TestApply_EnvOverrides(t *testing.T) {
	cfg := DefaultConfig().Apply(Env{
		APIURL:  "https://api.example",
		RPCURL:  "https://rpc.example",
		ChainID: 7,
	})
	assert.Equal(t, "https://api.example", cfg.APIURL)
	assert.Equal(t, int64(7), cfg.ChainID)
	assert.Equal(t, "https://rpc.example", cfg.ActiveRPC())
	require.Len(t, cfg.RPCURLs, 2)
	assert.False(t, cfg.RPCURLs[0].Active)
}

func TestReadEnv(t *testing.T) {
	t.Setenv("PAYME_API_URL", "https://api.example")
	t.Setenv("PAYME_CHAIN_ID", "99")

	e, err := ReadEnv()
	require.NoError(t, err)
	assert.Equal(t, "https://api.example", e.APIURL)
	assert.Equal(t, int64(99), e.ChainID)

	t.Setenv("PAYME_CHAIN_ID", "not-a-number")
	_, err = ReadEnv()
	assert.Error(t, err)
}

func TestTokenSymbol(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "AlphaUSD", cfg.TokenSymbol("0x20C0000000000000000000000000000000000001"))
	assert.Equal(t, "token", cfg.TokenSymbol("0xdead"))
}
