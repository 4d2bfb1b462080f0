/*
Package operation implements the two mutating workflows: syncing bound
values into target files and quarantining disposable paths.

	+-------------+      +-------------+      +-------------+
	|   source    | ---> |   Syncer    | ---> |  workspace  |
	|  (bindings) |      | (line patch)|      | (backup +   |
	+-------------+      +-------------+      |  write)     |
	                                          +------+------+
	+-------------+      +-------------+             |
	|    trash    | ---> |   Cleaner   | ------------+
	|   (rules)   |      | (walk+move) |
	+-------------+      +-------------+

🎯 Purpose:
- Syncer.Apply renders each rule through the source bindings and replaces
  matching lines, backing the file up before any write
- Syncer.SyncAll runs every target, collecting failures into SyncFailures;
  a PathEscapeError aborts immediately
- Cleaner.Clean walks the project, collects matches, then quarantines or
  deletes them in lexical order

⚡ Guarantees:
- Every write or move is checked against the project root first
- A backup exists before the original is modified or moved
- Dry runs compute the same lines and matches without touching disk
- A failed write restores the original from its backup

🔍 Example:

	syncer, err := operation.NewSyncer(operation.Options{
		Workspace:  ws,
		RunContext: rc,
		Bindings:   bindings,
		Reporter:   reporter,
	})
	results, err := syncer.SyncAll(ctx, targets, rc.DryRun())
*/
package operation
