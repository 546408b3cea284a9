package timedec

import "testing"

func TestToClock(t *testing.T) {
	cases := []struct {
		hour float64
		want string
	}{
		{0, "00:00"},
		{9.5, "09:30"},
		{8.25, "08:15"},
		{16.75, "16:45"},
		{23.9833333333, "23:59"},
		{24, "24:00"},
	}
	for _, c := range cases {
		got, err := ToClock(c.hour)
		if err != nil {
			t.Fatalf("ToClock(%v) 返回错误: %v", c.hour, err)
		}
		if got != c.want {
			t.Errorf("ToClock(%v) = %q, 期望 %q", c.hour, got, c.want)
		}
	}
}

func TestToClock_OutOfRange(t *testing.T) {
	if _, err := ToClock(-0.5); err != ErrOutOfRange {
		t.Errorf("负数小时应返回 ErrOutOfRange, 实际 %v", err)
	}
	if _, err := ToClock(24.5); err != ErrOutOfRange {
		t.Errorf("超过24小时应返回 ErrOutOfRange, 实际 %v", err)
	}
}

func TestFromClock(t *testing.T) {
	cases := []struct {
		clock string
		want  float64
	}{
		{"09:30", 9.5},
		{"08:15", 8.25},
		{"00:00", 0},
		{"24:00", 24},
		{"17:00:00", 17}, // 数据库 time 列带秒
	}
	for _, c := range cases {
		got, err := FromClock(c.clock)
		if err != nil {
			t.Fatalf("FromClock(%q) 返回错误: %v", c.clock, err)
		}
		if diff := got - c.want; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("FromClock(%q) = %v, 期望 %v", c.clock, got, c.want)
		}
	}
}

func TestFromClock_Invalid(t *testing.T) {
	for _, clock := range []string{"", "9", "ab:cd", "09:99", "25:00"} {
		if _, err := FromClock(clock); err == nil {
			t.Errorf("FromClock(%q) 应返回错误", clock)
		}
	}
}

// 往返转换不应引入舍入漂移
func TestRoundTrip(t *testing.T) {
	for _, hour := range []float64{0, 0.25, 9.5, 11.75, 16.5, 23.5, 24} {
		clock, err := ToClock(hour)
		if err != nil {
			t.Fatalf("ToClock(%v): %v", hour, err)
		}
		back, err := FromClock(clock)
		if err != nil {
			t.Fatalf("FromClock(%q): %v", clock, err)
		}
		if back != hour {
			t.Errorf("往返转换 %v → %q → %v 不一致", hour, clock, back)
		}
	}
}

func TestValidRange(t *testing.T) {
	cases := []struct {
		start, end float64
		want       bool
	}{
		{9, 17, true},
		{0, 24, true},
		{17, 17, false},       // 零长度
		{17, 16, false},       // 反向
		{9, 9 + Step, true},   // 恰好一个时间单位
		{-1, 8, false},        // 越界
		{20, 24.5, false},     // 越界
	}
	for _, c := range cases {
		if got := ValidRange(c.start, c.end); got != c.want {
			t.Errorf("ValidRange(%v, %v) = %v, 期望 %v", c.start, c.end, got, c.want)
		}
	}
}
