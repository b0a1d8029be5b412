package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/lixenwraith/synapse/config"
)

// app carries state shared by every subcommand
type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     *config.Config
	session string
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:          "synapse",
		Short:        "Force-directed particle network with pulses and lightning",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.v, a.cfgFile)
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}
			a.cfg = cfg
			a.session = uuid.NewString()
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.cfgFile, "config", "c", "", "config file (default ./synapse.yaml)")
	flags.Int("particles", 0, "particle count")
	flags.Uint64("seed", 0, "random seed, 0 for time based")
	flags.Int("fps", 0, "frames per second")
	flags.String("log-level", "", "log level")
	flags.String("log-file", "", "rotating log file")

	bind := map[string]string{
		"particles": "sim.particles",
		"seed":      "sim.seed",
		"fps":       "sim.fps",
		"log-level": "logger.level",
		"log-file":  "logger.log_file",
	}
	for flag, key := range bind {
		_ = a.v.BindPFlag(key, flags.Lookup(flag))
	}

	root.AddCommand(newRunCmd(a), newServeCmd(a), newBenchCmd(a))
	return root
}
