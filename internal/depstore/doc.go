// Package depstore provides the persistence backends for the dependency
// engine: an in-memory store used by tests and throwaway sessions, and a
// SQLite store for durable single-file deployments.
//
// Both backends implement depgraph.EdgeStore, depgraph.TaskDirectory, and
// depgraph.AccessPolicy, so one store value can serve the engine and its
// collaborator contracts in a standalone deployment. In the full product
// the task and access implementations are replaced by the surrounding
// service's own systems.
package depstore
