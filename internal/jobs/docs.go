// Package jobs provides scheduled background tasks for the delivery core.
//
// Jobs are cron-driven (github.com/robfig/cron/v3, six-field schedules with
// seconds) and managed through JobManager:
//
//	jobManager := jobs.NewJobManager()
//	jobManager.Add("assignment expiry", jobs.NewAssignmentExpiryJob(expireHandler, cfg.ExpiryCron, cfg.BroadcastTTL, logger))
//	jobManager.Add("presence sweep", jobs.NewPresenceSweepJob(disconnectIdleHandler, cfg.PresenceSweepCron, cfg.PresenceTTL, logger))
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Available Jobs
//
// AssignmentExpiryJob moves broadcasted assignments older than the broadcast
// TTL to expired. Assignments accepted in the meantime are skipped by the
// conditional transition, so the job never races an acceptance.
//
// PresenceSweepJob is the teardown path for channel connections that died
// silently. A courier whose last identify or position report is older than
// the presence TTL is marked offline with an empty handle, exactly as if
// courier.disconnect had been received.
package jobs
