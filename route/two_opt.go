package route

// twoOpt improves an open path in place by reversing segments [i..j] while
// that strictly shortens the two boundary edges. Position 0 is the start and
// never moves; j stops one short of the end so the final edge (j, j+1)
// always exists.
func twoOpt(dist [][]int, path []int) []int {
	last := len(path) - 1
	if last < 3 {
		return path
	}

	improved := true
	for improved {
		improved = false
		for i := 1; i <= last-2; i++ {
			for j := i + 1; j <= last-1; j++ {
				a, b := path[i-1], path[i]
				c, d := path[j], path[j+1]
				before := dist[a][b] + dist[c][d]
				after := dist[a][c] + dist[b][d]
				if after < before {
					reverse(path, i, j)
					improved = true
				}
			}
		}
	}
	return path
}

func reverse(path []int, i, j int) {
	for i < j {
		path[i], path[j] = path[j], path[i]
		i++
		j--
	}
}
