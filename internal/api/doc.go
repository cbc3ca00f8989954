// Package api contains the HTTP handlers for the task management API:
// authentication, task listing and lifecycle, the calendar feed, and
// profile management. Handlers translate between the JSON wire format and
// the service layer, and map service errors onto HTTP status codes.
package api
