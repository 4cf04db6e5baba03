// Package cli собирает команды grader: HTTP-сервер, Telegram-бот, MCP и разовую оценку файлов.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"produce-grader/config"
	"produce-grader/internal/container"
)

// Проставляется через -ldflags при сборке.
var version = "dev"

type rootOptions struct {
	v          *viper.Viper
	configFile string
}

// NewRootCmd создаёт корневую команду со всеми подкомандами.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{v: viper.New()}

	cmd := &cobra.Command{
		Use:                "grader",
		Short:              "Grade fruit and vegetable quality from photos.",
		Long:               `grader scores product photos, assigns grades A-D, finds defects and suggests a price adjustment.`,
		Version:            version,
		SilenceErrors:      true,
		SilenceUsage:       true,
		DisableSuggestions: true,
		Run: func(cmd *cobra.Command, _ []string) {
			_ = cmd.Help()
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "", "Path to config file (default ./grader.yaml or $HOME/grader.yaml)")
	flags.String("extractor", "", "Feature extractor: histogram or onnx or remote")
	flags.String("scorer", "", "Scorer mode: simulated or linear")
	flags.Uint64("seed", 0, "Seed for the simulated scorer (0 = from clock)")
	flags.String("cache", "", "Result cache backend: none or memory or sqlite or postgres or mysql or redis")
	flags.String("cache-dsn", "", "Cache connection string")
	flags.Int("workers", 0, "Number of images assessed in parallel")
	opts.bind("extractor.kind", flags.Lookup("extractor"))
	opts.bind("scorer.mode", flags.Lookup("scorer"))
	opts.bind("scorer.seed", flags.Lookup("seed"))
	opts.bind("cache.backend", flags.Lookup("cache"))
	opts.bind("cache.dsn", flags.Lookup("cache-dsn"))
	opts.bind("workers", flags.Lookup("workers"))

	cmd.AddCommand(
		newServeCmd(opts),
		newBotCmd(opts),
		newAssessCmd(opts),
		newInfoCmd(opts),
		newMCPCmd(opts),
	)
	return cmd
}

// Execute запускает CLI с контекстом, отменяемым по сигналу.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

func (o *rootOptions) bind(key string, flag *pflag.Flag) {
	if err := o.v.BindPFlag(key, flag); err != nil {
		panic(fmt.Sprintf("bind flag %s: %v", flag.Name, err))
	}
}

func (o *rootOptions) loadConfig() (*config.Config, error) {
	return config.LoadFrom(o.v, o.configFile)
}

// openContainer читает конфигурацию и собирает сервисы. Вызывающий закрывает контейнер.
func (o *rootOptions) openContainer(ctx context.Context) (*config.Config, *container.Container, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, nil, err
	}

	c, err := container.New(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build services: %w", err)
	}
	return cfg, c, nil
}
