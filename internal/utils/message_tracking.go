package utils

import (
	"cmp"
	"slices"
	"sync"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/samber/lo"
)

type partitionKey struct {
	topic     string
	partition int32
}

// OffsetTracker follows in-flight Kafka offsets per partition. An offset is
// committable only once it and every lower tracked offset on the same
// partition are done. The zero value is ready to use.
type OffsetTracker struct {
	mu         sync.Mutex
	partitions map[partitionKey]map[kafka.Offset]bool
}

func keyOf(tp kafka.TopicPartition) partitionKey {
	key := partitionKey{partition: tp.Partition}
	if tp.Topic != nil {
		key.topic = *tp.Topic
	}
	return key
}

// Track registers tp as pending. Tracking an offset again resets it to
// pending, which happens when a partition is redelivered after a rebalance.
func (t *OffsetTracker) Track(tp kafka.TopicPartition) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.partitions == nil {
		t.partitions = make(map[partitionKey]map[kafka.Offset]bool)
	}
	key := keyOf(tp)
	if t.partitions[key] == nil {
		t.partitions[key] = make(map[kafka.Offset]bool)
	}
	t.partitions[key][tp.Offset] = false
}

// Done marks a tracked offset as finished. Untracked offsets are ignored.
func (t *OffsetTracker) Done(tp kafka.TopicPartition) {
	t.mu.Lock()
	defer t.mu.Unlock()

	offsets := t.partitions[keyOf(tp)]
	if _, ok := offsets[tp.Offset]; ok {
		offsets[tp.Offset] = true
	}
}

// Pending counts tracked offsets that are not done yet.
func (t *OffsetTracker) Pending() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	pending := 0
	for _, offsets := range t.partitions {
		pending += len(lo.PickByValues(offsets, []bool{false}))
	}
	return pending
}

// Committable drains the contiguous run of done offsets at the head of each
// partition and returns the next offset to read for every partition that
// advanced, in Kafka commit form.
func (t *OffsetTracker) Committable() []kafka.TopicPartition {
	t.mu.Lock()
	defer t.mu.Unlock()

	var positions []kafka.TopicPartition
	for key, offsets := range t.partitions {
		ordered := lo.Keys(offsets)
		slices.Sort(ordered)

		advanced := false
		var last kafka.Offset
		for _, offset := range ordered {
			if !offsets[offset] {
				break
			}
			delete(offsets, offset)
			last = offset
			advanced = true
		}
		if len(offsets) == 0 {
			delete(t.partitions, key)
		}
		if !advanced {
			continue
		}

		topic := key.topic
		positions = append(positions, kafka.TopicPartition{
			Topic:     &topic,
			Partition: key.partition,
			Offset:    last + 1,
		})
	}

	slices.SortFunc(positions, func(a, b kafka.TopicPartition) int {
		if c := cmp.Compare(*a.Topic, *b.Topic); c != 0 {
			return c
		}
		return cmp.Compare(a.Partition, b.Partition)
	})
	return positions
}
