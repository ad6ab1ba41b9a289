package layout

import "testing"

func TestArangeExcludesStop(t *testing.T) {
	got := arange(0, 1, 0.2)
	want := []float64{0, 0.2, 0.4, 0.6, 0.8}
	if len(got) != len(want) {
		t.Fatalf("arange(0, 1, 0.2) = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("arange(0, 1, 0.2) = %v", got)
		}
	}
	if arange(1, 1, 0.2) != nil || arange(0, 1, 0) != nil {
		t.Fatalf("空区间或非正步长应返回 nil")
	}
}

func TestMinorTicksSkipMajor(t *testing.T) {
	lim := Range{Min: 0, Max: 1}
	major := arange(0, 1+GridTimeStep, GridTimeStep)
	minor := minorTicks(major, GridTimeStep, minorDivisions, lim)
	// 每个主刻度间隔 4 条次刻度，共 5 个间隔。
	if len(minor) != 20 {
		t.Fatalf("次刻度数量 %d: %v", len(minor), minor)
	}
	for _, v := range minor {
		for _, m := range major {
			if almostEqual(v, m) {
				t.Fatalf("次刻度 %g 与主刻度重合", v)
			}
		}
	}
}

func TestCleanTick(t *testing.T) {
	if got := cleanTick(0.1 + 0.2); got != 0.3 {
		t.Fatalf("cleanTick(0.1+0.2) = %v", got)
	}
	if got := cleanTick(-1e-12); got != 0 {
		t.Fatalf("cleanTick(-1e-12) = %v", got)
	}
}
