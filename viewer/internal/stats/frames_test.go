package stats

import (
	"testing"
	"time"
)

func fill(values ...time.Duration) *FrameTimes {
	f := &FrameTimes{}
	for _, v := range values {
		f.Add(v)
	}
	return f
}

// near aceita o erro de quantização do histograma (3 dígitos significativos).
func near(got, want time.Duration) bool {
	diff := got - want
	if diff < 0 {
		diff = -diff
	}
	return diff <= want/500+time.Microsecond
}

func TestSummarize(t *testing.T) {
	ms := time.Millisecond
	f := fill(2*ms, 4*ms, 4*ms, 4*ms, 5*ms, 5*ms, 7*ms, 9*ms)
	s := f.Summarize(time.Second)

	tests := []struct {
		name      string
		got, want time.Duration
	}{
		{"min", s.Min, 2 * ms},
		{"max", s.Max, 9 * ms},
		{"mean", s.Mean, 5 * ms},
		{"stddev", s.StdDev, 2 * ms},
		{"p95", s.P95, 9 * ms},
		{"p99", s.P99, 9 * ms},
	}
	if s.Count != 8 {
		t.Errorf("count = %d, want 8", s.Count)
	}
	for _, tt := range tests {
		if !near(tt.got, tt.want) {
			t.Errorf("%s = %v, want ~%v", tt.name, tt.got, tt.want)
		}
	}
}

func TestPercentile(t *testing.T) {
	f := &FrameTimes{}
	for i := 100; i >= 1; i-- {
		f.Add(time.Duration(i) * time.Millisecond)
	}
	tests := []struct {
		p    float64
		want time.Duration
	}{
		{1, 1 * time.Millisecond},
		{50, 50 * time.Millisecond},
		{95, 95 * time.Millisecond},
		{99, 99 * time.Millisecond},
		{100, 100 * time.Millisecond},
		{150, 100 * time.Millisecond},
	}
	for _, tt := range tests {
		if got := f.Percentile(tt.p); !near(got, tt.want) {
			t.Errorf("Percentile(%v) = %v, want ~%v", tt.p, got, tt.want)
		}
	}
	if got := (&FrameTimes{}).Percentile(50); got != 0 {
		t.Errorf("empty Percentile = %v", got)
	}
}

func TestResetKeepsWorking(t *testing.T) {
	f := fill(time.Millisecond, 2*time.Millisecond)
	f.Reset()
	if f.Len() != 0 {
		t.Fatalf("Len() after Reset = %d", f.Len())
	}
	f.Add(3 * time.Millisecond)
	if s := f.Summarize(time.Second); s.Count != 1 || !near(s.Min, 3*time.Millisecond) {
		t.Errorf("after Reset: %+v", s)
	}
}

func TestHugeFrameSaturates(t *testing.T) {
	f := fill(2 * time.Minute)
	if s := f.Summarize(time.Minute); s.Count != 1 || !near(s.Max, time.Minute) {
		t.Errorf("summary = %+v, want one frame clamped to 60s", s)
	}
}

func TestSummaryString(t *testing.T) {
	s := Summary{
		Count:   61,
		Elapsed: 1010 * time.Millisecond,
		Min:     15 * time.Millisecond,
		Mean:    16500 * time.Microsecond,
		P95:     18 * time.Millisecond,
		P99:     20 * time.Millisecond,
		Max:     33330 * time.Microsecond,
		StdDev:  1250 * time.Microsecond,
	}
	want := "00061 frames over 01.01s. Min: 15.00ms; Average: 16.50ms; 95%: 18.00ms; 99%: 20.00ms; Max: 33.33ms; StdDev: 01.25ms"
	if got := s.String(); got != want {
		t.Errorf("String() =\n%q\nwant\n%q", got, want)
	}
}

func TestEmptyWindow(t *testing.T) {
	s := (&FrameTimes{}).Summarize(0)
	if s.Count != 0 || s.Max != 0 || s.FPS() != 0 {
		t.Errorf("empty summary = %+v", s)
	}
}

func TestRecorderClosesWindow(t *testing.T) {
	t0 := time.Unix(1000, 0)
	r := NewRecorder(t0, time.Second)

	now := t0
	reports := 0
	for i := 0; i < 250; i++ {
		now = now.Add(10 * time.Millisecond)
		if s, ok := r.Frame(now); ok {
			reports++
			if s.Count != 101 {
				t.Errorf("report %d count = %d, want 101", reports, s.Count)
			}
			if !near(s.Min, 10*time.Millisecond) || !near(s.Max, 10*time.Millisecond) {
				t.Errorf("report %d min/max = %v/%v", reports, s.Min, s.Max)
			}
		}
	}
	if got := r.History().Len(); got != 250 {
		t.Errorf("history = %d frames, want 250", got)
	}
	if reports != 2 {
		t.Fatalf("reports = %d, want 2", reports)
	}
	if fps := r.Last().FPS(); fps < 99.9 || fps > 100.1 {
		t.Errorf("FPS = %v", fps)
	}
}

func TestNegativeDurationClamped(t *testing.T) {
	f := fill(-time.Millisecond, time.Millisecond)
	if s := f.Summarize(time.Second); s.Min != 0 {
		t.Errorf("min = %v, want 0", s.Min)
	}
}
