// Package keys derives collision-avoiding, date-scoped object keys.
//
// A day's uploads share a dated base ("{base}_{YYYYMMDD}") and are told apart
// by a trailing integer suffix. The next suffix is one past the highest
// already in use that day.
package keys

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/daehan-lim/weathervault/storage"
)

const dateLayout = "20060102"

// DatedBase scopes a base key to one day.
func DatedBase(base string, day time.Time) string {
	return fmt.Sprintf("%s_%s", base, day.Format(dateLayout))
}

// Next computes the next unused key for datedBase given the keys already
// stored under its prefix. Only keys that are exactly datedBase or datedBase
// followed by "_<n>" participate; anything with extra trailing characters is
// excluded. Suffix-less matches contribute nothing to the numeric set.
func Next(datedBase string, existing []string) string {
	pattern := regexp.MustCompile(`^` + regexp.QuoteMeta(datedBase) + `(?:_(\d+))?$`)

	max := 0
	for _, key := range existing {
		m := pattern.FindStringSubmatch(key)
		if m == nil || m[1] == "" {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}

	return fmt.Sprintf("%s_%d", datedBase, max+1)
}

// Resolve lists the keys already written for base on the given day and
// returns the next unused one. The listing is not atomic with the eventual
// write: two concurrent runs can resolve the same key.
func Resolve(ctx context.Context, store storage.System, base string, now time.Time) (string, error) {
	datedBase := DatedBase(base, now)
	existing, err := store.GetKeysWithPrefix(ctx, datedBase)
	if err != nil {
		return "", errors.Wrapf(err, "listing keys under %s", datedBase)
	}
	return Next(datedBase, existing), nil
}
