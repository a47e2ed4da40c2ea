// Package retention prunes stored validation runs by age and by count,
// either on demand or on a cron schedule.
package retention
