package inspector

// tarjanSCC computes strongly connected components over an index-based
// edge list. The implementation is iterative so deep graphs cannot blow
// the stack. Components come out in reverse topological order; members
// keep ascending index order.
func tarjanSCC(edges [][]int) [][]int {
	n := len(edges)
	index := make([]int, n)
	lowlink := make([]int, n)
	onStack := make([]bool, n)
	for i := range index {
		index[i] = -1
	}

	var (
		counter    int
		stack      []int
		components [][]int
	)

	type frame struct {
		node int
		edge int
	}

	for start := 0; start < n; start++ {
		if index[start] != -1 {
			continue
		}

		callStack := []frame{{node: start}}
		index[start] = counter
		lowlink[start] = counter
		counter++
		stack = append(stack, start)
		onStack[start] = true

		for len(callStack) > 0 {
			top := &callStack[len(callStack)-1]
			v := top.node

			if top.edge < len(edges[v]) {
				w := edges[v][top.edge]
				top.edge++
				if index[w] == -1 {
					index[w] = counter
					lowlink[w] = counter
					counter++
					stack = append(stack, w)
					onStack[w] = true
					callStack = append(callStack, frame{node: w})
				} else if onStack[w] {
					if index[w] < lowlink[v] {
						lowlink[v] = index[w]
					}
				}
				continue
			}

			callStack = callStack[:len(callStack)-1]
			if len(callStack) > 0 {
				parent := callStack[len(callStack)-1].node
				if lowlink[v] < lowlink[parent] {
					lowlink[parent] = lowlink[v]
				}
			}

			if lowlink[v] == index[v] {
				var component []int
				for {
					w := stack[len(stack)-1]
					stack = stack[:len(stack)-1]
					onStack[w] = false
					component = append(component, w)
					if w == v {
						break
					}
				}
				sortInts(component)
				components = append(components, component)
			}
		}
	}

	return components
}

func sortInts(xs []int) {
	for i := 1; i < len(xs); i++ {
		for j := i; j > 0 && xs[j] < xs[j-1]; j-- {
			xs[j], xs[j-1] = xs[j-1], xs[j]
		}
	}
}

// hasSelfLoop reports whether the node lists itself as an edge target.
func hasSelfLoop(edges [][]int, node int) bool {
	for _, target := range edges[node] {
		if target == node {
			return true
		}
	}
	return false
}
