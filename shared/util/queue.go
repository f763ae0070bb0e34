package util

import "sync"

// ThreadSafeQueue é uma fila FIFO simples protegida por mutex.
// Produtores (workers da cidade) chamam Push de qualquer goroutine; o
// consumidor (thread de render) esvazia a fila com Pop ou Drain.
type ThreadSafeQueue[T any] struct {
	mu    sync.Mutex
	items []T
}

// NewThreadSafeQueue cria uma nova fila thread-safe.
func NewThreadSafeQueue[T any]() *ThreadSafeQueue[T] {
	return &ThreadSafeQueue[T]{
		items: make([]T, 0, 64),
	}
}

// Push adiciona um item ao fim da fila.
func (q *ThreadSafeQueue[T]) Push(item T) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, item)
}

// Pop remove e retorna o primeiro item. Retorna false se vazia.
func (q *ThreadSafeQueue[T]) Pop() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		var zero T
		return zero, false
	}
	item := q.items[0]
	var zero T
	q.items[0] = zero // solta a referência para o GC
	q.items = q.items[1:]
	return item, true
}

// Drain remove e retorna todos os itens na ordem de chegada.
func (q *ThreadSafeQueue[T]) Drain() []T {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = make([]T, 0, 64)
	return out
}

// Len retorna o tamanho da fila.
func (q *ThreadSafeQueue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
