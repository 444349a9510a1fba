package utils

import (
	"log/slog"
	"sync"
)

type BatchBuffer[T any] struct {
	buffer     []T
	size       int
	bufferLock sync.Mutex
}

func NewBatchBuffer[T any](size int) *BatchBuffer[T] {
	if size <= 0 {
		size = 1
	}
	return &BatchBuffer[T]{
		buffer: make([]T, 0, size),
		size:   size,
	}
}

// Add appends item and reports whether the buffer reached its batch size.
func (b *BatchBuffer[T]) Add(item T) bool {
	b.bufferLock.Lock()
	defer b.bufferLock.Unlock()

	b.buffer = append(b.buffer, item)
	return len(b.buffer) >= b.size
}

func (b *BatchBuffer[T]) GetAndClear() []T {
	b.bufferLock.Lock()
	defer b.bufferLock.Unlock()

	if len(b.buffer) == 0 {
		return nil
	}

	batch := b.buffer
	b.buffer = make([]T, 0, b.size)
	return batch
}

// Requeue puts items back ahead of anything added since they were taken.
func (b *BatchBuffer[T]) Requeue(items []T) {
	if len(items) == 0 {
		return
	}
	b.bufferLock.Lock()
	defer b.bufferLock.Unlock()

	merged := make([]T, 0, len(items)+len(b.buffer))
	merged = append(merged, items...)
	b.buffer = append(merged, b.buffer...)
}

func (b *BatchBuffer[T]) Size() int {
	b.bufferLock.Lock()
	defer b.bufferLock.Unlock()
	return len(b.buffer)
}

func (b *BatchBuffer[T]) HasData() bool {
	return b.Size() > 0
}

func (b *BatchBuffer[T]) LogBatchProcessing(batchType string) {
	b.bufferLock.Lock()
	defer b.bufferLock.Unlock()

	slog.Debug("[BatchBuffer] Processing batch",
		slog.String("type", batchType),
		slog.Int("batch_size", len(b.buffer)))
}
