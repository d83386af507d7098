package sqlite

import (
	"errors"

	"github.com/mattn/go-sqlite3"
)

// IsBusy reports whether err is a transient lock conflict worth retrying.
func IsBusy(err error) bool {
	var se sqlite3.Error
	if !errors.As(err, &se) {
		return false
	}
	return se.Code == sqlite3.ErrBusy || se.Code == sqlite3.ErrLocked
}
