// Package http exposes the planner over JSON/HTTP.
//
// The router exposes the following endpoints:
//   - POST /schedules/generate: builds a one-day schedule. Body:
//     {"userId","tasks","events","preferences","date"}; see generateScheduleRequest
//     in schedule_handler.go. The response carries the blocks, metadata and the
//     tasks that could not be placed together with the reason.
//   - POST /forecasts: forecasts capacity for one user over the requested number
//     of weeks. Body: {"userId","resourceProfile","parameters","baseDate","workload"}.
//     Without a resourceProfile the stored profile for userId is used; without a
//     workload the server's shared workload source is read.
//   - POST /forecasts/batch: {"requests":[...]} of the same shape, answered in order.
//   - GET /forecasts/{userId}/latest: the most recent unexpired prediction.
//   - GET /profiles, GET /profiles/{userId}, PUT /profiles/{userId},
//     DELETE /profiles/{userId}: resource profile storage.
//   - POST /profiles/{userId}/preset: {"userType","overrides"} derives a profile
//     from a user-type preset and stores it.
//   - GET /healthz: 204 when the store answers a ping.
//
// Validation failures answer 422 with localized per-field messages.
package http
