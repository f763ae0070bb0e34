// Package stats acumula tempos de quadro e gera o relatório por segundo.
package stats

import (
	"fmt"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// Summary resume uma janela de tempos de quadro.
type Summary struct {
	Count   int
	Elapsed time.Duration
	Min     time.Duration
	Mean    time.Duration
	P95     time.Duration
	P99     time.Duration
	Max     time.Duration
	StdDev  time.Duration
}

func ms(d time.Duration) float64 { return float64(d) / float64(time.Millisecond) }

// String formata a linha de relatório (tempos em ms).
func (s Summary) String() string {
	return fmt.Sprintf("%05d frames over %05.2fs. Min: %05.2fms; Average: %05.2fms; 95%%: %05.2fms; 99%%: %05.2fms; Max: %05.2fms; StdDev: %05.2fms",
		s.Count, s.Elapsed.Seconds(), ms(s.Min), ms(s.Mean), ms(s.P95), ms(s.P99), ms(s.Max), ms(s.StdDev))
}

// FPS é o número de quadros por segundo da janela.
func (s Summary) FPS() float64 {
	if s.Elapsed <= 0 {
		return 0
	}
	return float64(s.Count) / s.Elapsed.Seconds()
}

// Faixa do histograma, em microssegundos: de 1µs a 60s com 3 dígitos significativos.
const (
	lowestFrame  = 1
	highestFrame = int64(60 * time.Second / time.Microsecond)
	sigFigs      = 3
)

// FrameTimes guarda os tempos de quadro de uma janela num histograma HDR.
// O valor zero é utilizável. Não é seguro para uso concorrente; só o loop de
// renderização mexe nele.
type FrameTimes struct {
	hist *hdrhistogram.Histogram
}

func (f *FrameTimes) histogram() *hdrhistogram.Histogram {
	if f.hist == nil {
		f.hist = hdrhistogram.New(lowestFrame, highestFrame, sigFigs)
	}
	return f.hist
}

// Add registra um tempo de quadro. Negativos contam como zero e quadros
// acima de 60s saturam no teto do histograma.
func (f *FrameTimes) Add(d time.Duration) {
	us := min(max(d.Microseconds(), 0), highestFrame)
	// RecordValue só falha fora da faixa, que o clamp acima já exclui.
	_ = f.histogram().RecordValue(us)
}

// Len retorna quantos quadros estão na janela.
func (f *FrameTimes) Len() int {
	if f.hist == nil {
		return 0
	}
	return int(f.hist.TotalCount())
}

// Reset esvazia a janela mantendo o histograma alocado.
func (f *FrameTimes) Reset() {
	if f.hist != nil {
		f.hist.Reset()
	}
}

func usec(v float64) time.Duration { return time.Duration(v * float64(time.Microsecond)) }

// Percentile retorna o tempo no percentil p (0 a 100). Janela vazia retorna 0.
func (f *FrameTimes) Percentile(p float64) time.Duration {
	if f.Len() == 0 {
		return 0
	}
	return usec(float64(f.hist.ValueAtQuantile(min(max(p, 0), 100))))
}

// Summarize calcula o resumo da janela; elapsed é o tempo de parede coberto por ela.
func (f *FrameTimes) Summarize(elapsed time.Duration) Summary {
	s := Summary{Count: f.Len(), Elapsed: elapsed}
	if s.Count == 0 {
		return s
	}
	h := f.hist
	s.Min = usec(float64(h.Min()))
	s.Max = usec(float64(h.Max()))
	s.Mean = usec(h.Mean())
	s.P95 = usec(float64(h.ValueAtQuantile(95)))
	s.P99 = usec(float64(h.ValueAtQuantile(99)))
	s.StdDev = usec(h.StdDev())
	return s
}

const historyFrames = 256

// Recorder mede o intervalo entre quadros e fecha uma janela a cada Period.
type Recorder struct {
	Period time.Duration

	times      FrameTimes
	history    *History
	lastFrame  time.Time
	lastReport time.Time
	last       Summary
}

// NewRecorder cria um Recorder começando em now.
func NewRecorder(now time.Time, period time.Duration) *Recorder {
	return &Recorder{Period: period, history: NewHistory(historyFrames), lastFrame: now, lastReport: now}
}

// Frame registra o quadro terminado em now. Quando a janela passa de Period,
// devolve o resumo dela e começa outra.
func (r *Recorder) Frame(now time.Time) (Summary, bool) {
	d := now.Sub(r.lastFrame)
	r.times.Add(d)
	r.history.Push(d)
	r.lastFrame = now

	elapsed := now.Sub(r.lastReport)
	if elapsed <= r.Period {
		return Summary{}, false
	}
	r.last = r.times.Summarize(elapsed)
	r.times.Reset()
	r.lastReport = now
	return r.last, true
}

// History retorna os últimos quadros, inclusive os da janela aberta.
func (r *Recorder) History() *History { return r.history }

// Last retorna o último resumo fechado.
func (r *Recorder) Last() Summary { return r.last }
