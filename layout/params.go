package layout

import "errors"

// 布局计算在输入不可用时返回的错误。
var (
	ErrSampleRate = errors.New("layout: 采样率必须为正数")
	ErrEmptyLeads = errors.New("layout: 导联数据为空")
	ErrColumns    = errors.New("layout: 列数必须不小于 1")
	ErrLeadOrder  = errors.New("layout: 导联顺序索引越界")
)

// Style names accepted by GridParams.Style.
const (
	StyleDefault = "default"
	StyleBW      = "bw"
)

// Palette 是网格与曲线的一组配色。
type Palette struct {
	Major Color
	Minor Color
	Line  Color
}

// PaletteFor 返回样式对应的配色，未知样式按 default 处理。
func PaletteFor(style string) Palette {
	if style == StyleBW {
		return Palette{
			Major: Color{0.4, 0.4, 0.4},
			Minor: Color{0.75, 0.75, 0.75},
			Line:  Color{0, 0, 0},
		}
	}
	return Palette{
		Major: Color{1, 0, 0},
		Minor: Color{1, 0.7, 0.7},
		Line:  Color{0, 0, 0.7},
	}
}

// DefaultLeadIndex returns the clinical 12-lead names. A new slice is built on every call.
func DefaultLeadIndex() []string {
	return []string{"I", "II", "III", "aVR", "aVL", "aVF", "V1", "V2", "V3", "V4", "V5", "V6"}
}

// DefaultLeadOrder returns 0..n-1.
func DefaultLeadOrder(n int) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	return order
}

// GridParams 配置单画布网格模式（所有导联共用一组坐标轴）。
type GridParams struct {
	SampleRate       float64
	Title            string
	LeadIndex        []string // nil 时使用 DefaultLeadIndex
	LeadOrder        []int    // 为空时使用 0..len(leads)-1
	Style            string
	Columns          int
	RowHeight        float64
	ShowLeadName     bool
	ShowGrid         bool
	ShowSeparateLine bool
}

// DefaultGridParams 返回网格模式的默认参数。
func DefaultGridParams() GridParams {
	return GridParams{
		SampleRate:       500,
		Title:            "ECG 12",
		Style:            StyleDefault,
		Columns:          2,
		RowHeight:        6,
		ShowLeadName:     true,
		ShowGrid:         true,
		ShowSeparateLine: true,
	}
}

// SubplotParams 配置每个导联独立坐标轴的矩阵模式。
// Speed 为走纸速度（mm/s），Voltage 为增益（mm/mV），二者只影响图幅尺寸。
type SubplotParams struct {
	SampleRate float64
	Title      string
	LeadIndex  []string
	LeadOrder  []int
	Columns    int
	Speed      float64
	Voltage    float64
	LineWidth  float64 // pt
	Amplitude  float64 // 纵轴范围 [-Amplitude, Amplitude]
	TimeTicks  float64 // 横轴主刻度间距（秒）
}

// DefaultSubplotParams 返回矩阵模式的默认参数。
func DefaultSubplotParams() SubplotParams {
	return SubplotParams{
		SampleRate: 500,
		Title:      "ECG 12",
		Columns:    2,
		Speed:      50,
		Voltage:    20,
		LineWidth:  0.6,
		Amplitude:  1.8,
		TimeTicks:  0.2,
	}
}

// SingleParams 配置单导联图。
type SingleParams struct {
	SampleRate float64
	Title      string
	Width      Length
	Height     Length
	LineWidth  float64 // pt
	Amplitude  float64
	TimeTicks  float64
}

// DefaultSingleParams 返回单导联图的默认参数。
func DefaultSingleParams() SingleParams {
	return SingleParams{
		SampleRate: 500,
		Title:      "ECG",
		Width:      Inches(15),
		Height:     Inches(2),
		LineWidth:  0.5,
		Amplitude:  1.8,
		TimeTicks:  0.2,
	}
}

const (
	titleFontSize  = 12.0 // pt
	labelFontSize  = 9.0  // pt
	tickFontSize   = 8.0  // pt
	gridLineWidth  = 0.5  // pt
	frameLineWidth = 0.8  // pt
	minorDivisions = 5
)

// 矩阵模式与单导联模式的默认曲线颜色。
var traceBlue = Color{0.122, 0.467, 0.706}
