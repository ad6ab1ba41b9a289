package source

import (
	"fmt"
	"math"
)

// SynthOptions 控制合成心电的参数。
type SynthOptions struct {
	SampleRate float64 // Hz
	Seconds    float64
	HeartRate  float64 // 次/分
	Noise      float64 // mV，确定性伪噪声幅度
}

// DefaultSynthOptions 返回 500 Hz、10 秒、72 次/分的参数。
func DefaultSynthOptions() SynthOptions {
	return SynthOptions{SampleRate: 500, Seconds: 10, HeartRate: 72, Noise: 0.01}
}

// 每个导联相对 II 导联波形的增益，分别作用于 P、QRS、T 三段。
var leadGains = []struct {
	name       string
	p, qrs, tw float64
}{
	{"I", 0.5, 0.6, 0.5},
	{"II", 1, 1, 1},
	{"III", 0.5, 0.4, 0.5},
	{"aVR", -0.75, -0.8, -0.75},
	{"aVL", 0, 0.1, 0},
	{"aVF", 0.75, 0.7, 0.75},
	{"V1", 0.3, -0.7, -0.2},
	{"V2", 0.4, -0.3, 0.6},
	{"V3", 0.5, 0.4, 0.9},
	{"V4", 0.6, 1.2, 1.0},
	{"V5", 0.6, 1.1, 0.8},
	{"V6", 0.5, 0.8, 0.6},
}

// Synthesize 生成确定性的 12 导联心电：每个心动周期由高斯形状的 P、Q、R、S、T 波叠加而成。
// 相同参数总是得到相同数据。
func Synthesize(opts SynthOptions) (*Recording, error) {
	if opts.SampleRate <= 0 {
		return nil, fmt.Errorf("采样率必须为正数，实际 %g", opts.SampleRate)
	}
	if opts.Seconds <= 0 || opts.HeartRate <= 0 {
		return nil, fmt.Errorf("时长与心率必须为正数")
	}
	n := int(math.Round(opts.SampleRate * opts.Seconds))
	cycle := opts.HeartRate / 60

	rec := &Recording{SampleRate: opts.SampleRate}
	for li, g := range leadGains {
		lead := make([]float64, n)
		for i := range lead {
			t := float64(i) / opts.SampleRate
			phase := fract(t * cycle)
			p, qrs, tw := beat(phase)
			baseline := 0.03 * math.Sin(2*math.Pi*0.25*t+float64(li))
			noise := opts.Noise * (2*fract(math.Sin(float64(i*(li+1))*12.9898)*43758.5453) - 1)
			lead[i] = g.p*p + g.qrs*qrs + g.tw*tw + baseline + noise
		}
		rec.Leads = append(rec.Leads, lead)
		rec.Names = append(rec.Names, g.name)
	}
	rec.setMeta("patient", "synthetic")
	rec.setMeta("heart_rate", opts.HeartRate)
	rec.setMeta("duration", rec.Duration())
	return rec, nil
}

// beat 返回一个心动周期内相位 t∈[0,1) 处 P、QRS、T 三段的幅值（mV）。
func beat(t float64) (p, qrs, tw float64) {
	p = 0.15 * gauss(t, 0.18, 0.025)
	qrs = -0.12*gauss(t, 0.30, 0.01) + 1.1*gauss(t, 0.32, 0.008) - 0.3*gauss(t, 0.345, 0.01)
	tw = 0.3 * gauss(t, 0.58, 0.05)
	return p, qrs, tw
}

func gauss(x, mu, sigma float64) float64 {
	z := (x - mu) / sigma
	return math.Exp(-0.5 * z * z)
}

func fract(x float64) float64 { return x - math.Floor(x) }
