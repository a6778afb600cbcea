package depgraph

// DetectCycle reports whether adding the candidate edge
// (dependentID -> prerequisiteID) to the given edge set would create a
// dependency cycle. It returns the full cycle path for diagnostic display,
// ending with a closing repeat of the first task ID, or nil if the edge is
// safe.
//
// The function is pure: it never mutates the edge set and touches no
// storage. It is the single validation authority used by both
// ValidateDependency and AddDependency.
//
// A cycle exists iff the prerequisite already depends, directly or
// transitively, on the dependent. The search is a depth-first traversal of
// depends-on links starting at the prerequisite, with a visited set
// bounding the work to O(V+E). When several cycles exist, which one is
// returned is unspecified.
func DetectCycle(edges []Edge, dependentID, prerequisiteID string) []string {
	// A self-edge is the degenerate cycle.
	if dependentID == prerequisiteID {
		return []string{dependentID, dependentID}
	}

	dependsOn := make(map[string][]string, len(edges))
	for _, e := range edges {
		dependsOn[e.DependentID] = append(dependsOn[e.DependentID], e.PrerequisiteID)
	}

	visited := make(map[string]bool)
	parent := make(map[string]string)

	var dfs func(taskID string) bool
	dfs = func(taskID string) bool {
		visited[taskID] = true
		for _, next := range dependsOn[taskID] {
			if next == dependentID {
				parent[next] = taskID
				return true
			}
			if visited[next] {
				continue
			}
			parent[next] = taskID
			if dfs(next) {
				return true
			}
		}
		return false
	}

	if !dfs(prerequisiteID) {
		return nil
	}

	// Reconstruct the prerequisite -> ... -> dependent chain, then close
	// the loop with the candidate edge.
	var chain []string
	for current := dependentID; ; current = parent[current] {
		chain = append([]string{current}, chain...)
		if current == prerequisiteID {
			break
		}
	}

	cycle := make([]string, 0, len(chain)+2)
	cycle = append(cycle, dependentID)
	cycle = append(cycle, chain...)
	return cycle
}

// HasCycle reports whether the edge set itself already contains a cycle,
// independent of any candidate. The engine's mutation path keeps the
// persisted graph acyclic, so this is used by consistency checks and tests
// rather than the hot path.
func HasCycle(edges []Edge) bool {
	dependsOn := make(map[string][]string, len(edges))
	nodes := make(map[string]bool)
	for _, e := range edges {
		dependsOn[e.DependentID] = append(dependsOn[e.DependentID], e.PrerequisiteID)
		nodes[e.DependentID] = true
		nodes[e.PrerequisiteID] = true
	}

	visited := make(map[string]bool)
	recStack := make(map[string]bool)

	var dfs func(taskID string) bool
	dfs = func(taskID string) bool {
		visited[taskID] = true
		recStack[taskID] = true
		for _, next := range dependsOn[taskID] {
			if !visited[next] {
				if dfs(next) {
					return true
				}
			} else if recStack[next] {
				return true
			}
		}
		recStack[taskID] = false
		return false
	}

	for id := range nodes {
		if !visited[id] {
			if dfs(id) {
				return true
			}
		}
	}
	return false
}
