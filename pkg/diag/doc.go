// Package diag collects the diagnostics produced while a model is assembled.
//
// # Overview
//
// Assembly is best-effort: a missing reference, a malformed template or a
// conflicting relationship never stops the engine. Instead every component
// records what it saw in a shared [Logger], and callers read the ordered
// entries and the derived [Status] once assembly returns.
//
//	d := diag.New()
//	d.Warn(diag.MsgChainSkipped, "c1")
//	fmt.Println(d.Status()) // WARNING
//
// # Levels
//
// Entries carry one of three levels: [Info], [Warn] and [Error]. The overall
// status is the worst level present: ERROR if any error entry exists, WARNING
// if any warning exists, OK otherwise.
//
// # Echo
//
// A Logger can mirror every entry to a charmbracelet [log.Logger] with
// [WithSink], which is how the CLI shows diagnostics while running with
// --verbose.
package diag
