package canvasrenderer

import (
	"bytes"
	"fmt"
	"image/color"
	"image/jpeg"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/ByLCY/ecgplot/fonts"
	"github.com/ByLCY/ecgplot/layout"
	"github.com/ByLCY/ecgplot/renderer"
)

const (
	tickLength   = 3.5 // pt
	tickPad      = 3.5 // pt，刻度线与刻度标签的间距
	labelPad     = 4.0 // pt，刻度标签与 y 轴标签的间距
	tightMargin  = 1.0 // mm，tight 模式下内容四周保留的边距
	titleTopFrac = 0.98
	jpegQuality  = 90
)

// Renderer draws layout charts via github.com/tdewolff/canvas.
type Renderer struct {
	fontPath string

	fontMu sync.Mutex
	family *canvas.FontFamily
}

var _ renderer.Renderer = (*Renderer)(nil)

// Options configures the canvas renderer.
type Options struct {
	// Font 是标注使用的字体文件路径，为空时使用内置 Go Regular。
	Font string
}

// NewRenderer creates a renderer that uses the built-in label font.
func NewRenderer() *Renderer { return NewRendererWithOptions(Options{}) }

// NewRendererWithOptions creates a renderer with the given options.
func NewRendererWithOptions(opts Options) *Renderer {
	return &Renderer{fontPath: opts.Font}
}

// Render 绘制 chart 并按 opts.Format 编码为文件字节。
func (r *Renderer) Render(chart *layout.Chart, opts renderer.Options) ([]byte, error) {
	c, err := r.Draw(chart)
	if err != nil {
		return nil, err
	}
	if opts.Tight {
		c.Fit(tightMargin)
	}
	c = onWhite(c)

	dpi := opts.DPI
	if dpi <= 0 {
		dpi = renderer.DefaultDPI
	}

	var buf bytes.Buffer
	switch opts.Format {
	case renderer.PNG:
		err = renderers.PNG(canvas.DPI(dpi))(&buf, c)
	case renderer.JPEG:
		err = renderers.JPEG(canvas.DPI(dpi), &jpeg.Options{Quality: jpegQuality})(&buf, c)
	case renderer.SVG:
		err = renderers.SVG()(&buf, c)
	case renderer.PDF:
		err = writePDF(&buf, c, chart.Meta)
	default:
		return nil, fmt.Errorf("不支持的输出格式 %q", opts.Format)
	}
	if err != nil {
		return nil, fmt.Errorf("编码 %s 失败: %w", opts.Format, err)
	}
	return buf.Bytes(), nil
}

// Draw 将 chart 绘制到新的画布上（不含背景）。坐标系为左下角原点、单位 mm。
func (r *Renderer) Draw(chart *layout.Chart) (*canvas.Canvas, error) {
	if chart == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	if chart.Width <= 0 || chart.Height <= 0 {
		return nil, fmt.Errorf("画布尺寸无效: %gx%g", chart.Width, chart.Height)
	}

	c := canvas.New(chart.Width, chart.Height)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianI)
	ctx.SetStrokeJoiner(canvas.RoundJoin)

	for i := range chart.Axes {
		if err := r.drawAxes(ctx, &chart.Axes[i]); err != nil {
			return nil, err
		}
	}
	if err := r.drawTitle(ctx, chart); err != nil {
		return nil, err
	}
	return c, nil
}

// onWhite 把内容画在同尺寸的白色背景上，JPEG 没有透明通道。
func onWhite(content *canvas.Canvas) *canvas.Canvas {
	bg := canvas.New(content.W, content.H)
	ctx := canvas.NewContext(bg)
	ctx.SetFillColor(canvas.White)
	ctx.SetStrokeColor(canvas.Transparent)
	ctx.DrawPath(0, 0, canvas.Rectangle(content.W, content.H))
	content.RenderTo(bg)
	return bg
}

func writePDF(buf *bytes.Buffer, c *canvas.Canvas, meta layout.Meta) error {
	writer := pdf.New(buf, c.W, c.H, nil)
	writer.SetInfo(meta.Title, meta.Subject, "ECG", "", meta.Creator)
	c.RenderTo(writer)
	return writer.Close()
}

func (r *Renderer) drawAxes(ctx *canvas.Context, ax *layout.Axes) error {
	m := newMapper(ax)

	// 先次网格再主网格，曲线压在网格之上。
	drawGrid(ctx, m, ax.XTicks.Minor, ax.YTicks.Minor, ax.MinorGrid)
	drawGrid(ctx, m, ax.XTicks.Major, ax.YTicks.Major, ax.MajorGrid)

	if ax.FrameVisible {
		ctx.SetFillColor(canvas.Transparent)
		ctx.SetStrokeColor(canvas.Black)
		ctx.SetStrokeWidth(toMm(ax.FrameLineWidth))
		ctx.DrawPath(ax.Frame.X, ax.Frame.Y, canvas.Rectangle(ax.Frame.Width, ax.Frame.Height))
	}

	for _, tr := range ax.Traces {
		strokePath(ctx, m.polyline(tr.X, tr.Y), tr.Color, tr.Width)
	}
	for _, sg := range ax.Segments {
		strokePath(ctx, m.polyline([]float64{sg.X1, sg.X2}, []float64{sg.Y1, sg.Y2}), sg.Color, sg.Width)
	}

	for _, lb := range ax.Labels {
		face, err := r.fontFace(lb.FontSize, lb.Color)
		if err != nil {
			return err
		}
		x, y := m.point(lb.X, lb.Y)
		ctx.DrawText(x, y, canvas.NewTextLine(face, lb.Content, canvas.Left))
	}

	return r.drawTickLabels(ctx, m, ax)
}

func drawGrid(ctx *canvas.Context, m mapper, xs, ys []float64, style layout.GridStyle) {
	if !style.Visible || style.Width <= 0 {
		return
	}
	f := m.frame
	p := &canvas.Path{}
	for _, x := range xs {
		px, _ := m.point(x, 0)
		p.MoveTo(px, f.Y)
		p.LineTo(px, f.Y+f.Height)
	}
	for _, y := range ys {
		_, py := m.point(0, y)
		p.MoveTo(f.X, py)
		p.LineTo(f.X+f.Width, py)
	}
	strokePath(ctx, p, style.Color, style.Width)
}

func strokePath(ctx *canvas.Context, p *canvas.Path, col layout.Color, widthPt float64) {
	if p == nil || p.Empty() {
		return
	}
	ctx.SetFillColor(canvas.Transparent)
	ctx.SetStrokeColor(colorFromLayout(col))
	ctx.SetStrokeWidth(toMm(widthPt))
	ctx.DrawPath(0, 0, p)
}

func (r *Renderer) drawTickLabels(ctx *canvas.Context, m mapper, ax *layout.Axes) error {
	if !ax.XTickLabels && !ax.YTickLabels && ax.YLabel == "" {
		return nil
	}
	size := ax.TickFontSize
	if size <= 0 {
		size = 8
	}
	face, err := r.fontFace(size, layout.Color{})
	if err != nil {
		return err
	}
	ascent := face.Metrics().Ascent
	f := ax.Frame
	tick := toMm(tickLength)
	pad := toMm(tickPad)

	ctx.SetStrokeColor(canvas.Black)
	ctx.SetStrokeWidth(toMm(ax.FrameLineWidth))
	if ax.XTickLabels {
		for _, v := range ax.XTicks.Major {
			x, _ := m.point(v, 0)
			ctx.DrawPath(x, f.Y, canvas.Line(0, -tick))
			text := canvas.NewTextLine(face, formatTick(v, ax.XTicks.Step), canvas.Center)
			top := f.Y - tick - pad
			if ax.XTickRotation != 0 {
				text = canvas.NewTextLine(face, formatTick(v, ax.XTicks.Step), canvas.Right)
				ctx.Push()
				ctx.Translate(x, top)
				ctx.Rotate(ax.XTickRotation)
				ctx.DrawText(0, -ascent*0.35, text)
				ctx.Pop()
				continue
			}
			ctx.DrawText(x, top-ascent, text)
		}
	}

	labelsWidth := 0.0
	if ax.YTickLabels {
		for _, v := range ax.YTicks.Major {
			_, y := m.point(0, v)
			ctx.DrawPath(f.X, y, canvas.Line(-tick, 0))
			s := formatTick(v, ax.YTicks.Step)
			labelsWidth = math.Max(labelsWidth, face.TextWidth(s))
			ctx.DrawText(f.X-tick-pad, y-ascent*0.35, canvas.NewTextLine(face, s, canvas.Right))
		}
	}

	if ax.YLabel != "" {
		x := f.X - toMm(labelPad)
		if ax.YTickLabels {
			x -= tick + pad + labelsWidth
		}
		ctx.Push()
		ctx.Translate(x, f.Y+f.Height/2)
		ctx.Rotate(90)
		ctx.DrawText(0, 0, canvas.NewTextLine(face, ax.YLabel, canvas.Center))
		ctx.Pop()
	}
	return nil
}

func (r *Renderer) drawTitle(ctx *canvas.Context, chart *layout.Chart) error {
	if chart.Title.Content == "" {
		return nil
	}
	size := chart.Title.FontSize
	if size <= 0 {
		size = 12
	}
	face, err := r.fontFace(size, layout.Color{})
	if err != nil {
		return err
	}
	baseline := chart.Height*titleTopFrac - face.Metrics().Ascent
	ctx.DrawText(chart.Width/2, baseline, canvas.NewTextLine(face, chart.Title.Content, canvas.Center))
	return nil
}

// fontFace 返回给定字号（pt）与颜色的字体面，字体族只加载一次。
func (r *Renderer) fontFace(sizePt float64, col layout.Color) (*canvas.FontFace, error) {
	family, err := r.ensureFontFamily()
	if err != nil {
		return nil, err
	}
	return family.Face(sizePt, colorFromLayout(col), canvas.FontRegular, canvas.FontNormal), nil
}

func (r *Renderer) ensureFontFamily() (*canvas.FontFamily, error) {
	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	if r.family != nil {
		return r.family, nil
	}
	data, err := fonts.Load(r.fontPath)
	if err != nil {
		return nil, err
	}
	family := canvas.NewFontFamily("ecgplot")
	if err := family.LoadFont(data, 0, canvas.FontRegular); err != nil {
		return nil, fmt.Errorf("加载字体失败: %w", err)
	}
	r.family = family
	return family, nil
}

// formatTick 按主刻度间距的小数位数格式化刻度值，例如 step=0.2 时输出 "0.4"。
func formatTick(v, step float64) string {
	decimals := 0
	if step > 0 {
		s := strconv.FormatFloat(step, 'f', -1, 64)
		if i := strings.IndexByte(s, '.'); i >= 0 {
			decimals = len(s) - i - 1
		}
	}
	if decimals == 0 && v != math.Trunc(v) {
		decimals = 1
	}
	out := strconv.FormatFloat(v, 'f', decimals, 64)
	if strings.Trim(out, "-0.") == "" {
		out = strings.TrimPrefix(out, "-")
	}
	return out
}

func colorFromLayout(c layout.Color) color.Color {
	return canvas.RGBA(c.R, c.G, c.B, 1.0)
}

// toMm 将点(pt)转换为毫米(mm)。
func toMm(pt float64) float64 { return pt * layout.PtToMm }
