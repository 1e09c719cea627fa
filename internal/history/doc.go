// Package history records tool runs.
//
// Two [Store] backends exist: [NewMemory], a bounded in-process log, and
// [OpenSQLite], a file-backed store on the pure-Go modernc.org/sqlite driver.
package history
