package stats

import "time"

// History guarda os últimos quadros num buffer circular, para o gráfico do HUD.
// A capacidade é arredondada para potência de 2.
type History struct {
	entries []time.Duration
	mask    uint64
	next    uint64
}

// NewHistory cria um histórico com pelo menos capacity posições.
func NewHistory(capacity int) *History {
	n := nextPowerOfTwo(capacity)
	return &History{entries: make([]time.Duration, n), mask: uint64(n - 1)}
}

// Push grava um quadro, sobrescrevendo o mais antigo quando cheio.
func (h *History) Push(d time.Duration) {
	h.entries[h.next&h.mask] = d
	h.next++
}

// Len retorna quantos quadros estão guardados.
func (h *History) Len() int {
	return int(min(h.next, uint64(len(h.entries))))
}

// Cap retorna a capacidade real.
func (h *History) Cap() int { return len(h.entries) }

// Each percorre os quadros do mais antigo para o mais novo.
func (h *History) Each(fn func(i int, d time.Duration)) {
	n := uint64(h.Len())
	start := h.next - n
	for i := uint64(0); i < n; i++ {
		fn(int(i), h.entries[(start+i)&h.mask])
	}
}

// Max retorna o maior quadro guardado.
func (h *History) Max() time.Duration {
	var m time.Duration
	h.Each(func(_ int, d time.Duration) { m = max(m, d) })
	return m
}

func nextPowerOfTwo(v int) int {
	if v <= 1 {
		return 1
	}
	n := 1
	for n < v {
		n <<= 1
	}
	return n
}
