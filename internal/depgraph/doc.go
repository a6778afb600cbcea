// Package depgraph implements the task dependency graph engine for
// LaunchMap execution plans.
//
// The engine maintains a set of directed edges (dependent -> prerequisite)
// scoped per plan, rejects edges that would introduce a cycle, derives
// blocked/ready status from prerequisite completion state, and gates task
// completion behind an explicit, audited override when prerequisites are
// incomplete.
//
// The package is organized as a stateless module of pure functions over an
// explicit edge set (DetectCycle, BuildDependencyMap) plus an [Engine] that
// binds those functions to a persistence backend ([EdgeStore]) and to the
// surrounding product's collaborators ([TaskDirectory], [AccessPolicy],
// [AuditSink]). The cycle detector is the single validation authority: both
// ValidateDependency and AddDependency go through it.
//
// Mutations are serialized per plan via EdgeStore.WithPlanLock so that two
// concurrent adds cannot each validate against a stale snapshot and jointly
// introduce a cycle. Read-only queries take no locks and may observe a
// slightly stale graph.
//
// Usage:
//
//	engine := depgraph.New(store, tasks, access, audit)
//
//	edge, err := engine.AddDependency(ctx, "user-1", "task-b", "task-a")
//	if err != nil {
//	    var cycleErr *errors.CycleError
//	    if errors.As(err, &cycleErr) {
//	        render(cycleErr.Path)
//	    }
//	}
package depgraph
