package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// rootFlagKeys maps persistent flags onto config keys.
var rootFlagKeys = map[string]string{
	"base-url": "service.base_url",
	"timeout":  "service.timeout",
}

// applyConfigFlagOverrides copies explicitly set flags into v, so flags win
// over env, file and defaults.
func applyConfigFlagOverrides(cmd *cobra.Command, v *viper.Viper, keys map[string]string) {
	for flagName, key := range keys {
		flag := cmd.Flags().Lookup(flagName)
		if flag == nil || !flag.Changed {
			continue
		}
		setFromFlag(cmd, v, flagName, key)
	}
}

func setFromFlag(cmd *cobra.Command, v *viper.Viper, flagName, key string) {
	switch cmd.Flags().Lookup(flagName).Value.Type() {
	case "bool":
		if val, err := cmd.Flags().GetBool(flagName); err == nil {
			v.Set(key, val)
		}
	case "int":
		if val, err := cmd.Flags().GetInt(flagName); err == nil {
			v.Set(key, val)
		}
	default:
		if val, err := cmd.Flags().GetString(flagName); err == nil {
			v.Set(key, val)
		}
	}
}
