/*
Package status describes what happened to each file during a run.

	+-----------+      +-----------+      +-----------+
	| operation | ---> |   Event   | ---> |  Reporter |
	+-----------+      +-----------+      +-----+-----+
	                                            |
	                         +------------------+------------------+
	                         |                  |                  |
	                   +-----+-----+      +-----+-----+      +-----+-----+
	                   | Recorder  |      |  console  |      |   Multi   |
	                   | (memory)  |      | (pkg/log) |      | (fan-out) |
	                   +-----------+      +-----------+      +-----------+

🎯 Purpose:
- One Event per synced target or trashed path
- The same events for real and dry runs, flagged with DryRun
- Formatting helpers shared by every reporter

⚡ Key Types:
- Event: operation, name, path, outcome, backup path, error
- Reporter: StartOperation / Report / FinishOperation
- Recorder: in-memory reporter used by tests and the status command
- FileFormatter: single-line messages; FormatColumns for table rows

🔍 Example:

	rec := status.NewRecorder()
	syncer := operation.NewSyncer(operation.Options{Workspace: ws, Reporter: rec})
	_, err := syncer.SyncAll(ctx, targets, false)
	fmt.Println(rec.Counts()[status.StatusModified])
*/
package status
