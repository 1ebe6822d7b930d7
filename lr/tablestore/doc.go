/*
Package tablestore stores precomputed parser tables in an SQLite database.

Tables are keyed by their fingerprint (see table.Tables.Fingerprint), so storing
the same tables twice results in a single entry. Applications which generate
tables for a grammar may keep them in a store and load them by fingerprint
instead of re-reading table files.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package tablestore

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'lalr.tablestore'.
func tracer() tracing.Trace {
	return tracing.Select("lalr.tablestore")
}
