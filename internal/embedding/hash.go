package embedding

import "hash/fnv"

// keywordSlotValue maps a keyword to a stable value in [0, 0.99] via 64-bit
// FNV-1a. The hash is part of the compatibility surface of the keyword
// slots: changing it moves every keyword's encoded value.
func keywordSlotValue(word string) float32 {
	h := fnv.New64a()
	h.Write([]byte(word))
	return float32(h.Sum64()%100) / 100.0
}
