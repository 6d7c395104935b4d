package executor

import (
	"context"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// partitionedQueue owns one buffered channel per worker. Messages with the
// same key always land on the same channel, so they run in submission order.
type partitionedQueue struct {
	channels []chan message
}

func (pq partitionedQueue) channelOf(msg message) chan message {
	return pq.channels[indexByHash(msg.key, len(pq.channels))]
}

func newPartitionedQueue(
	ctx context.Context,
	wg *sync.WaitGroup,
	numWorkers, bufferSize int,
	handleFn func(message),
) partitionedQueue {
	channels := make([]chan message, numWorkers)
	ready := sync.WaitGroup{}
	for i := 0; i < numWorkers; i++ {
		ready.Add(1)
		wg.Add(1)
		ch := make(chan message, bufferSize)
		go func(ch chan message) {
			defer wg.Done()
			ready.Done()
			for {
				// a closed executor stops taking jobs even if some are queued
				if ctx.Err() != nil {
					return
				}
				select {
				case msg := <-ch:
					handleFn(msg)
				case <-ctx.Done():
					return
				}
			}
		}(ch)
		channels[i] = ch
	}
	ready.Wait()
	return partitionedQueue{channels: channels}
}

func indexByHash(key string, numChs int) int {
	switch numChs {
	case 0:
		panic("number of channels cannot be 0")
	case 1:
		return 0
	default:
		return int(xxhash.Sum64String(key) % uint64(numChs))
	}
}
