package cmd

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	clibase "github.com/shouni/go-cli-base"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// envPrefix は環境変数のプレフィックスです (例: PSWP_EXACT_INPUT)。
const envPrefix = "PSWP_EXACT"

func bindFlag(key string, flag *pflag.Flag) {
	if flag == nil {
		return
	}
	// BindPFlag は flag が nil の場合のみエラーを返す
	_ = viper.BindPFlag(key, flag)
}

// initConfig は設定ファイルと環境変数を viper に読み込みます。
// 明示された設定ファイルが読めない場合のみエラーとし、デフォルトの探索で見つからない場合は無視します。
func initConfig(cfgFile string) error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(appName)
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", appName))
		}
	}

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("設定ファイルの読み込みエラー: %w", err)
	}

	if clibase.Flags.Verbose {
		log.Printf("設定ファイルを使用します: %s", viper.ConfigFileUsed())
	}
	return nil
}
