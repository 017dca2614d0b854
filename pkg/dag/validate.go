package dag

import "cmp"

func detectCycles[ID cmp.Ordered](ids []ID, children func(ID) []ID) error {
	const (
		white = iota
		gray
		black
	)

	color := make(map[ID]int, len(ids))
	var hasCycle bool

	var dfs func(id ID)
	dfs = func(id ID) {
		color[id] = gray
		for _, child := range children(id) {
			switch color[child] {
			case white:
				dfs(child)
			case gray:
				hasCycle = true
			}
			if hasCycle {
				return
			}
		}
		color[id] = black
	}

	for _, id := range ids {
		if color[id] == white {
			dfs(id)
			if hasCycle {
				return ErrGraphHasCycle
			}
		}
	}
	return nil
}
