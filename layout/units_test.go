package layout

import (
	"math"
	"testing"
)

// TestPtMmRoundTrip 验证 pt↔mm 换算的往返精度（允许极小的浮点误差）。
func TestPtMmRoundTrip(t *testing.T) {
	samples := []float64{0, 0.001, 0.5, 9, 12, 72, 144, 1000}
	for _, pt := range samples {
		mm := pt * PtToMm
		back := mm * MmToPt
		if diff := math.Abs(back - pt); diff > 1e-9 {
			t.Fatalf("pt→mm→pt 往返误差过大: in=%gpt mm=%g back=%g diff=%g", pt, mm, back, diff)
		}
	}
}

// TestLengthConversions 覆盖 Length 在常见单位上的转换正确性。
func TestLengthConversions(t *testing.T) {
	cases := []struct {
		in   Length
		want float64 // mm
	}{
		{Length{Value: 1, Unit: UnitIN}, 25.4},
		{Length{Value: 2, Unit: UnitNone}, 50.8},
		{Length{Value: 2.54, Unit: UnitCM}, 25.4},
		{Length{Value: 10, Unit: UnitMM}, 10},
		{Length{Value: 12, Unit: UnitPT}, 12 * PtToMm},
	}
	for _, c := range cases {
		if got := c.in.ToMM(); math.Abs(got-c.want) > 1e-9 {
			t.Fatalf("%g%s 转 mm 期望 %g，实际 %g", c.in.Value, UnitToString(c.in.Unit), c.want, got)
		}
	}
	if got := Inches(15).ToIN(); math.Abs(got-15) > 1e-9 {
		t.Fatalf("15in 往返期望 15，实际 %g", got)
	}
}

func TestParseLength(t *testing.T) {
	cases := map[string]Length{
		"15in":  {Value: 15, Unit: UnitIN},
		"38cm":  {Value: 38, Unit: UnitCM},
		" 2 ":   {Value: 2, Unit: UnitNone},
		"9pt":   {Value: 9, Unit: UnitPT},
		"120mm": {Value: 120, Unit: UnitMM},
	}
	for in, want := range cases {
		got, err := ParseLength(in)
		if err != nil {
			t.Fatalf("解析 %q 失败: %v", in, err)
		}
		if got != want {
			t.Fatalf("解析 %q 期望 %#v，实际 %#v", in, want, got)
		}
	}
	if _, err := ParseLength("wide"); err == nil {
		t.Fatalf("非法长度应返回错误")
	}
}
