// Package client contains the transport side of the gophnotes CLI.
//
// # Overview
//
// The package provides:
//  1. The Client interface: the remote note operations the sync layer relies
//     on (Ping, FetchAll, Get, Create, Update, Delete).
//  2. GRPCClient, a gRPC implementation that attaches the access token via an
//     interceptor, bounds every call with a timeout, and maps gRPC status
//     codes to sentinel errors.
//  3. InitDatabase, which opens the local SQLite cache and applies its
//     embedded goose migrations.
//
// # Error Handling
//
// Every transport-level failure (server unreachable, dial failure, expired
// timeout) is reported as ErrUnavailable so callers can switch to offline
// behaviour with errors.Is. Application errors map to the sentinels in
// internal/common and to ErrUnauthorized.
package client
