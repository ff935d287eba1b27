// Package io reads the turnout and law tables from delimited text and writes
// the joined table back out as JSON.
//
// # Input Formats
//
// The turnout file starts with one or more title lines, followed by a column
// header line and the data rows. Only column 0 (state name) and column 2
// (turnout as a percentage string such as "58.3%") are read:
//
//	2014 November General Election
//	State,Source,VEP Highest Office,...
//	Alabama,,33.2%,...
//
// The law file has a header line naming at least a "state" and a "law" column.
// A blank law cell means the state has no specific ID law:
//
//	state,law
//	Alabama,photo
//	Alaska,nonphoto
//	Arizona,
//
// # Import
//
// Use [Load] to read both files from a data directory and join them, or
// [ReadTurnout] and [ReadLaws] to read from any io.Reader. A missing file
// fails with FILE_NOT_FOUND; a short row or an unparseable percentage fails
// with INVALID_INPUT naming the offending line. Nothing is retried and no
// partial table is returned.
//
// # Export
//
// [WriteJSON] and [ExportJSON] write the joined table as an array of
// {"state", "turnout", "law"} objects. [MarshalTable] produces the same bytes
// in memory; the pipeline hashes them to key its artifact cache.
package io
