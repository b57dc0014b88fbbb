// Package api is a small client for the application's JSON API.
//
// Every URL is built from a route table, so the client never hard-codes
// paths. Outcomes are reported to the user through a Reporter such as
// alert.Stack, and destructive calls are gated by a Confirm hook.
package api
