package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/canonical/pobuild/internal/build"
	"github.com/canonical/pobuild/internal/consts"
	"github.com/canonical/pobuild/internal/i18n"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/ubuntu/decorate"
)

func initViperConfig(name string, cmd *cobra.Command, vip *viper.Viper) (err error) {
	defer decorate.OnError(&err, "can't load configuration")

	// Use command-line flag for verbosity until configuration is parsed
	v, err := cmd.Flags().GetCount("verbosity")
	if err != nil {
		return fmt.Errorf("internal error: no persistent verbosity flags installed on cmd: %w", err)
	}
	setVerboseMode(v)

	// Find a valid configuration file
	if v, err := cmd.Flags().GetString("config"); err == nil && v != "" {
		vip.SetConfigFile(v)
	} else {
		vip.SetConfigName(name)
		vip.AddConfigPath("./")
		vip.AddConfigPath("$HOME/")
		vip.AddConfigPath("/etc/")
		if binPath, err := os.Executable(); err != nil {
			log.Warningf("Failed to get the current executable path, not adding it as a config dir: %v", err)
		} else {
			vip.AddConfigPath(filepath.Dir(binPath))
		}
	}

	// Load the config
	if err := vip.ReadInConfig(); err != nil {
		var e viper.ConfigFileNotFoundError
		if errors.As(err, &e) {
			log.Infof("No configuration file: %v", e)
		} else {
			return fmt.Errorf("invalid configuration file: %v", err)
		}
	} else {
		log.Infof("Using configuration file: %v", vip.ConfigFileUsed())
	}

	// Parse environment variables
	vip.SetEnvPrefix("POBUILD")
	vip.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	vip.AutomaticEnv()

	return nil
}

// installVerbosityFlag adds the -v and -vv options and returns the reference to it.
func installVerbosityFlag(cmd *cobra.Command, viper *viper.Viper) *int {
	r := cmd.PersistentFlags().CountP("verbosity", "v", i18n.G("issue INFO (-v), DEBUG (-vv) or DEBUG with caller (-vvv) output"))
	if err := viper.BindPFlag("verbosity", cmd.PersistentFlags().Lookup("verbosity")); err != nil {
		log.Warning(err)
	}
	return r
}

// installConfigFlag adds the --config flag to allow for custom config paths.
func installConfigFlag(cmd *cobra.Command) *string {
	return cmd.PersistentFlags().StringP("config", "c", "", i18n.G("configuration file path"))
}

// setVerboseMode change ErrorFormat and logs between very, middly and non verbose.
func setVerboseMode(level int) {
	var reportCaller bool
	switch level {
	case 0:
		log.SetLevel(consts.DefaultLogLevel)
	case 1:
		log.SetLevel(log.InfoLevel)
	case 3:
		reportCaller = true
		fallthrough
	default:
		log.SetLevel(log.DebugLevel)
	}
	log.SetReportCaller(reportCaller)
}

// newEnvironment returns the build environment described by the configuration.
// Commands inherit the process PATH, then the env file, then the ENV variable
// of the configuration.
func (a *App) newEnvironment() (env *build.Environment, err error) {
	defer decorate.OnError(&err, i18n.G("can't prepare build environment"))

	env = build.New(nil)
	if path := os.Getenv("PATH"); path != "" {
		env.MergeExecEnv(map[string]string{"PATH": path})
	}

	if a.config.EnvFile != "" {
		vars, err := godotenv.Read(a.config.EnvFile)
		if err != nil {
			return nil, fmt.Errorf("could not read env file: %v", err)
		}
		env.MergeExecEnv(vars)
	}

	for k, v := range a.config.Vars {
		// Configuration keys are case insensitive, construction variables are upper case.
		k = strings.ToUpper(k)
		if k == build.ExecEnvKey {
			vars, err := cast.ToStringMapStringE(v)
			if err != nil {
				return nil, fmt.Errorf("invalid %s: %v", build.ExecEnvKey, err)
			}
			env.MergeExecEnv(vars)
			continue
		}
		env.Set(k, normalizeValue(v))
	}

	return env, nil
}

// normalizeValue converts lists decoded from configuration files to lists
// of strings.
func normalizeValue(v any) any {
	if l, ok := v.([]any); ok {
		return cast.ToStringSlice(l)
	}
	return v
}
