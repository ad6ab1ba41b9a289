// Command ecgplot 把多导联心电记录绘制为 PNG/SVG/JPG/PDF，或写成临时 SVG 打开查看。
package main

import (
	"context"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/ByLCY/ecgplot/config"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

// newRootCmd 组装命令树。日志与配置在 PersistentPreRunE 中挂到 context 上。
func newRootCmd() *cobra.Command {
	var (
		verbose    bool
		configPath string
	)

	root := &cobra.Command{
		Use:          "ecgplot",
		Short:        "绘制多导联心电图",
		Long:         "ecgplot 按 grid / subplots / single 三种排版方式绘制 EDF、CSV、JSON 或合成的心电数据。",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := log.InfoLevel
			if verbose {
				level = log.DebugLevel
			}
			logger := newLogger(cmd.ErrOrStderr(), level)

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			logger.Debug("已加载配置", "output_dir", cfg.OutputDir, "dpi", cfg.DPI, "style", cfg.Style)

			ctx := withConfig(withLogger(cmd.Context(), logger), cfg)
			cmd.SetContext(ctx)
			return nil
		},
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "输出调试日志")
	root.PersistentFlags().StringVar(&configPath, "config", "", "配置文件路径（默认 $XDG_CONFIG_HOME/ecgplot/config.toml）")

	root.AddCommand(newRenderCmd())
	root.AddCommand(newShowCmd())
	root.AddCommand(newSynthCmd())
	return root
}
