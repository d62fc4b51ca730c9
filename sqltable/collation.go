package sqltable

import (
	"modernc.org/sqlite"

	sorttable "github.com/domonda/go-sorttable"
)

// Collation is the name of the SQLite collation
// that orders text like sorttable.DefaultCollator.
// It is registered for every SQLite connection
// opened through the "sqlite" driver.
const Collation = "sorttable"

func init() {
	sqlite.MustRegisterCollationUtf8(Collation, func(left, right string) int {
		return sorttable.DefaultCollator().Compare(left, right)
	})
}
