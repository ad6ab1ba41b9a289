package main

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ByLCY/ecgplot/binding"
	"github.com/ByLCY/ecgplot/config"
	"github.com/ByLCY/ecgplot/dsl"
	"github.com/ByLCY/ecgplot/export"
	"github.com/ByLCY/ecgplot/layout"
	"github.com/ByLCY/ecgplot/renderer"
	canvasrenderer "github.com/ByLCY/ecgplot/renderer/canvas"
	"github.com/ByLCY/ecgplot/source"
	"github.com/ByLCY/ecgplot/viewer"
)

// chartOpts 是 render 与 show 共用的排版参数。
type chartOpts struct {
	chart   string // .ecg 文档路径
	mode    string
	style   string
	columns int
	lead    int
	leadSet bool // --lead 显式给出时覆盖文档，包括 0
	title   string
	data    string // 用于标题插值的 JSON
	debug   string // 布局调试 JSON 输出路径
}

type renderOpts struct {
	chartOpts
	formats []string
	output  string
	name    string
	dpi     float64
	layout  string
}

func (o *chartOpts) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.chart, "chart", "c", "", ".ecg 排版文档")
	cmd.Flags().StringVarP(&o.mode, "mode", "m", "grid", "排版方式: grid, subplots, single")
	cmd.Flags().StringVar(&o.style, "style", "", "grid 配色: default, bw")
	cmd.Flags().IntVar(&o.columns, "columns", 0, "列数")
	cmd.Flags().IntVar(&o.lead, "lead", 0, "single 模式绘制的导联序号")
	cmd.Flags().StringVar(&o.title, "title", "", "标题，支持 ${...} 插值")
	cmd.Flags().StringVar(&o.data, "data", "", "绑定到标题的 JSON 数据")
	cmd.Flags().StringVar(&o.debug, "debug", "", "布局调试 JSON 输出路径")
}

func newRenderCmd() *cobra.Command {
	var formats string
	opts := renderOpts{}

	cmd := &cobra.Command{
		Use:   "render [data-file]",
		Short: "把心电记录绘制为图片或 PDF",
		Long:  "读取 .edf/.csv/.json 记录（省略时使用合成数据），按排版方式绘制并导出。",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if formats != "" {
				opts.formats = strings.Split(formats, ",")
			}
			opts.leadSet = cmd.Flags().Changed("lead")
			cfg := configFromContext(cmd.Context())
			if !cmd.Flags().Changed("dpi") {
				opts.dpi = cfg.DPI
			}
			if !cmd.Flags().Changed("layout") {
				opts.layout = cfg.Layout
			}
			if !cmd.Flags().Changed("out") {
				opts.output = cfg.OutputDir
			}
			if opts.style == "" && opts.chart == "" {
				opts.style = cfg.Style
			}
			files, err := runRender(cmd.Context(), dataArg(args), &opts)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			printSuccess(out, "已导出 %d 个文件", len(files))
			for _, f := range files {
				printFile(out, f)
			}
			return nil
		},
	}
	opts.bind(cmd)
	cmd.Flags().StringVarP(&formats, "format", "f", "", "输出格式，逗号分隔: png, svg, jpg, pdf（默认 png）")
	cmd.Flags().StringVarP(&opts.output, "out", "o", export.DefaultPath, "输出目录")
	cmd.Flags().StringVarP(&opts.name, "name", "n", "", "输出文件名（不含扩展名）")
	cmd.Flags().Float64Var(&opts.dpi, "dpi", renderer.DefaultDPI, "PNG/JPG 分辨率")
	cmd.Flags().StringVar(&opts.layout, "layout", export.LayoutTight, "PNG 边界: tight 或 full")
	return cmd
}

func newShowCmd() *cobra.Command {
	opts := chartOpts{}
	cmd := &cobra.Command{
		Use:   "show [data-file]",
		Short: "写出临时 SVG 并用系统查看器打开",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := configFromContext(ctx)
			opts.leadSet = cmd.Flags().Changed("lead")
			if opts.style == "" && opts.chart == "" {
				opts.style = cfg.Style
			}
			chart, _, err := buildChart(ctx, dataArg(args), &opts)
			if err != nil {
				return err
			}
			session := viewer.NewSession(cfg.ViewerDir, newRenderer(cfg),
				viewer.CommandLauncher{Command: cfg.OpenCommand}, loggerFromContext(ctx))
			file, err := session.Show(chart)
			if err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "已打开")
			printFile(cmd.OutOrStdout(), file)
			return nil
		},
	}
	opts.bind(cmd)
	return cmd
}

func dataArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

func newRenderer(cfg config.Config) renderer.Renderer {
	return canvasrenderer.NewRendererWithOptions(canvasrenderer.Options{Font: cfg.Font})
}

// runRender 串联读取、排版、渲染与导出，返回写出的文件路径。
func runRender(ctx context.Context, dataPath string, opts *renderOpts) ([]string, error) {
	logger := loggerFromContext(ctx)
	chart, plan, err := buildChart(ctx, dataPath, &opts.chartOpts)
	if err != nil {
		return nil, err
	}

	exports := plan.Exports
	if len(opts.formats) > 0 || len(exports) == 0 {
		exports = flagExports(opts)
	}
	fallback := opts.name
	if fallback == "" {
		fallback = baseName(dataPath, opts.chart)
	}

	r := newRenderer(configFromContext(ctx))
	var files []string
	for _, e := range exports {
		e = withDefaults(e, opts)
		if e.Path == "" {
			e.Path = opts.output
		}
		e.Path = dirPrefix(e.Path)
		if err := os.MkdirAll(e.Path, 0o755); err != nil {
			return files, fmt.Errorf("创建输出目录失败: %w", err)
		}
		file, err := export.Save(r, chart, e, fallback)
		if err != nil {
			return files, err
		}
		logger.Debug("已导出", "file", file, "format", e.Format)
		files = append(files, file)
	}
	return files, nil
}

// buildChart 读取数据并按文档或命令行参数计算布局。
func buildChart(ctx context.Context, dataPath string, opts *chartOpts) (*layout.Chart, *layout.Plan, error) {
	logger := loggerFromContext(ctx)

	rec, err := loadRecording(dataPath)
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("已读取记录", "leads", len(rec.Leads), "rate", rec.SampleRate, "seconds", rec.Duration())

	data, err := bindingData(rec, opts.data)
	if err != nil {
		return nil, nil, err
	}

	plan, err := loadPlan(opts, data)
	if err != nil {
		return nil, nil, err
	}
	plan.ApplyRecording(rec.SampleRate, rec.Names)

	chart, err := plan.Build(rec.Leads)
	if err != nil {
		return nil, nil, fmt.Errorf("布局计算失败: %w", err)
	}
	logger.Info("布局完成", "mode", plan.Mode, "axes", len(chart.Axes), "rows", chart.Rows, "columns", chart.Columns)

	if opts.debug != "" {
		if err := writeDebug(chart, opts.debug); err != nil {
			return nil, nil, err
		}
	}
	return chart, plan, nil
}

func loadRecording(path string) (*source.Recording, error) {
	if path == "" {
		return source.Synthesize(source.DefaultSynthOptions())
	}
	return source.Open(path)
}

func loadPlan(opts *chartOpts, data map[string]any) (*layout.Plan, error) {
	var plan *layout.Plan
	if opts.chart != "" {
		file, err := os.Open(opts.chart)
		if err != nil {
			return nil, fmt.Errorf("无法打开排版文档 %s: %w", opts.chart, err)
		}
		defer file.Close()

		doc, err := dsl.Parse(file)
		if err != nil {
			return nil, fmt.Errorf("解析排版文档失败: %w", err)
		}
		if plan, err = layout.PlanDocument(doc, data); err != nil {
			return nil, err
		}
	} else {
		mode, err := layout.ParseMode(opts.mode)
		if err != nil {
			return nil, err
		}
		plan = layout.NewPlan(mode)
	}

	if opts.title != "" {
		plan.SetTitle(binding.Interpolate(opts.title, data))
	}
	if opts.style != "" {
		plan.Grid.Style = opts.style
	}
	if opts.columns > 0 {
		plan.Grid.Columns, plan.Subplots.Columns = opts.columns, opts.columns
	}
	if opts.leadSet {
		plan.Lead = opts.lead
	}
	return plan, nil
}

// bindingData 合并记录元信息与 --data 提供的 JSON 对象，后者优先。
func bindingData(rec *source.Recording, raw string) (map[string]any, error) {
	data := map[string]any{}
	maps.Copy(data, rec.Meta)
	data["leads"] = len(rec.Leads)
	data["sample_rate"] = rec.SampleRate
	if raw == "" {
		return data, nil
	}
	var extra map[string]any
	if err := json.Unmarshal([]byte(raw), &extra); err != nil {
		return nil, fmt.Errorf("解析 data JSON 失败: %w", err)
	}
	maps.Copy(data, extra)
	return data, nil
}

func flagExports(opts *renderOpts) []layout.Export {
	formats := opts.formats
	if len(formats) == 0 {
		formats = []string{string(renderer.PNG)}
	}
	exports := make([]layout.Export, 0, len(formats))
	for _, f := range formats {
		exports = append(exports, layout.Export{
			Format: strings.TrimSpace(f),
			Name:   opts.name,
			DPI:    opts.dpi,
			Layout: opts.layout,
		})
	}
	return exports
}

// withDefaults 用命令行（或配置文件）的分辨率与边界补全文档里没写的导出项。
func withDefaults(e layout.Export, opts *renderOpts) layout.Export {
	if e.DPI <= 0 {
		e.DPI = opts.dpi
	}
	if e.Layout == "" {
		e.Layout = opts.layout
	}
	return e
}

func baseName(paths ...string) string {
	for _, p := range paths {
		if p != "" {
			return strings.TrimSuffix(filepath.Base(p), filepath.Ext(p))
		}
	}
	return "ecg"
}

// dirPrefix 保证目录以分隔符结尾，导出文件名按前缀直接拼接。
func dirPrefix(dir string) string {
	if strings.HasSuffix(dir, "/") || strings.HasSuffix(dir, string(filepath.Separator)) {
		return dir
	}
	return dir + string(filepath.Separator)
}

func writeDebug(chart *layout.Chart, debugPath string) error {
	if dir := filepath.Dir(debugPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("创建调试目录失败: %w", err)
		}
	}
	if err := layout.WriteDebugJSON(chart, debugPath); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}
