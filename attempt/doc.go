// Package attempt provides failed-attempt stores for the sentry core. The
// Redis-backed [RedisStore] is the production choice; [MemoryStore] serves
// tests and single-process deployments. Both satisfy sentry.AttemptStore
// and report suspensions as *sentry.SuspendedError.
package attempt
