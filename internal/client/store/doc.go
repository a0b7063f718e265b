// Package store implements the mood entry store: the session's list of mood
// entries, the writes that go through the remote store, and the day-grouped
// view used by Memory Lane.
//
// Reads are fail-soft. A failed GetMoods records LastError and keeps the
// previous list. Writes are fail-hard: a failed Append or Delete leaves the
// list untouched and runs the configured WritePolicy, which may end the
// session. A successful write is followed by a full refresh; the store never
// inserts its own copy of an entry.
//
// Every method is safe for concurrent use. Overlapping GetMoods calls are
// ordered by a generation counter, so a fetch that started before the most
// recently applied one is dropped instead of overwriting newer data.
package store
