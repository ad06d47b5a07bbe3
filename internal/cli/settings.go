package cli

import (
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Setting keys. Each is also a flag name and, upper-cased with dashes
// turned into underscores, a DEPLIC_ environment variable.
const (
	keyWorkers  = "workers"
	keyFormat   = "format"
	keyIndexURL = "index-url"
	keyTimeout  = "timeout"
	keyRetries  = "retries"
	keyCache    = "cache"
	keyCacheTTL = "cache-ttl"
)

var settingKeys = []string{keyWorkers, keyFormat, keyIndexURL, keyTimeout, keyRetries, keyCache, keyCacheTTL}

// newSettings layers flags over environment variables. An explicitly set
// flag wins; otherwise DEPLIC_<KEY> is used; otherwise the flag default.
func newSettings(flags *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	for _, key := range settingKeys {
		if f := flags.Lookup(key); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, err
			}
		}
	}
	return v, nil
}
