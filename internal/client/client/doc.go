// Package client contains the client-side building blocks that talk to the
// DocuDefense backend.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface) covering
//     user CRUD, login, user id lookup by email and per-user file
//     operations.
//  2. A concrete REST implementation (see HTTPClient) that builds JSON and
//     multipart requests against one base URL and attaches the bearer token
//     from a TokenSource whenever one is stored.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations) for the CLI,
//     opening an SQLite database and applying embedded goose migrations.
//
// # Error Handling
//
// Every non-2xx response becomes an *APIError carrying the operation name and
// status. errors.Is(err, common.ErrorUnauthorized) matches 401/403 and
// errors.Is(err, common.ErrorNotFound) matches 404. Transport failures wrap
// ErrUnavailable. Calls are never retried.
//
// Concurrency & Contexts
//
// HTTPClient is safe for concurrent use. All operations accept a
// context.Context and honor cancellation and deadlines.
package client
