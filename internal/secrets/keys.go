package secrets

import (
	"errors"
	"os"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	// "Service" groups the app's secrets in the OS keychain.
	KeyringService = "leadminer"

	// Keyring account names for the external APIs.
	AccountOpenAI   = "leadminer:openai"
	AccountRapidAPI = "leadminer:rapidapi"
)

// Env fallbacks for headless installs where no keychain is available.
var envFallback = map[string]string{
	AccountOpenAI:   "OPENAI_API_KEY",
	AccountRapidAPI: "RAPIDAPI_KEY",
}

// GetAPIKey looks up an API key, keychain first, env var second. A missing
// key returns an error; callers decide whether that disables the source.
func GetAPIKey(account string) (string, error) {
	if strings.TrimSpace(account) == "" {
		return "", errors.New("keyring account name is empty")
	}
	key, err := keyring.Get(KeyringService, account)
	if err == nil && strings.TrimSpace(key) != "" {
		return key, nil
	}
	if env := envFallback[account]; env != "" {
		if v := strings.TrimSpace(os.Getenv(env)); v != "" {
			return v, nil
		}
	}
	return "", errors.New("API key not found (set it in keychain or via env)")
}

func SetAPIKey(account, key string) error {
	if strings.TrimSpace(account) == "" {
		return errors.New("keyring account name is empty")
	}
	if strings.TrimSpace(key) == "" {
		return errors.New("API key is empty")
	}
	return keyring.Set(KeyringService, account, key)
}

func DeleteAPIKey(account string) error {
	if strings.TrimSpace(account) == "" {
		return errors.New("keyring account name is empty")
	}
	return keyring.Delete(KeyringService, account)
}
