// Package client contains the client side of the MoodKeeper remote store.
//
// RemoteStore is the transport-agnostic contract used by the mood entry
// store: documents grouped in collections, files grouped in buckets, and a
// session. GRPCClient implements it over gRPC. It injects the access token
// through an interceptor, refreshes an expired token once and retries, and
// maps status codes to sentinel errors (ErrUnauthorized, ErrUnavailable) and
// to the common repository errors.
//
// Files travel outside gRPC: the backend hands out presigned object-storage
// URLs and the bytes are moved with plain HTTP (see package netx).
//
// InitDatabase and RunMigrations bootstrap the local SQLite database that
// keeps the session between runs.
package client
