// Package runway is a multi-tenant workflow run engine. Templates describe an
// ordered list of steps; runs execute those steps sequentially, pausing at
// approve-gated steps until a human decision arrives. Every transition is
// appended to a per-run journal, and a tracking job projects coarse progress
// for pollers.
//
// The zero-configuration setup keeps everything in memory:
//
//	engine := runway.New()
//	rt := engine.Runtime()
//	run, _ := rt.CreateRun(ctx, "acme", "tpl-onboarding", "amy")
//	_ = rt.StartRun(ctx, "acme", run.ID)
//
// A blocked run surfaces through PendingApprovals and continues with
// ResumeRun once approved.
package runway
