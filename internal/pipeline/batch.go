package pipeline

import "leadminer-engine/internal/domain"

// Batch partitions items into order-preserving chunks of at most size, sized
// to keep one classification request under practical payload limits. The last
// chunk may be smaller. A non-positive size yields a single batch.
func Batch(items []domain.RawItem, size int) [][]domain.RawItem {
	if len(items) == 0 {
		return nil
	}
	if size <= 0 {
		return [][]domain.RawItem{items}
	}
	out := make([][]domain.RawItem, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		out = append(out, items[start:end])
	}
	return out
}
