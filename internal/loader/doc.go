// Package loader writes normalized record sets into SQLite destination
// tables and keeps an audit log of every table load.
//
// Each record set is staged in a temp_<table> table and copied into the
// destination with an INSERT ... WHERE NOT EXISTS on the table's natural
// key, so reloading a release never duplicates rows. Destination tables are
// created on first use and gain columns when a later release introduces
// them.
package loader
