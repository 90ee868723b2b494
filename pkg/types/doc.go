// Package types defines the Book and Reservation entities, the RecordStore
// and Backend interfaces, and the standard errors for the booklib storage
// system.
//
// Every persisted change goes through RecordStore as a whole-collection
// rewrite: read the full array, mutate it in memory, write the full array.
package types
