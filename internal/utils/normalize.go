package utils

// CreateRankList creates a slice of ranks based on position.
// The rank starts at 1 for the first item and increments for subsequent items.
// Ranks past the uint16 range stick at its maximum.
func CreateRankList(count int) []uint16 {
	if count <= 0 {
		return []uint16{}
	}
	ranks := make([]uint16, count)
	for i := 0; i < count; i++ {
		if i+1 > 0xFFFF {
			ranks[i] = 0xFFFF
			continue
		}
		ranks[i] = uint16(i + 1)
	}
	return ranks
}
