package compute

// nextState applies B3/S23 to a cell with n live neighbors.
func nextState(alive uint8, n int) uint8 {
	if alive != 0 {
		if n == 2 || n == 3 {
			return 1
		}
		return 0
	}
	if n == 3 {
		return 1
	}
	return 0
}
