package main

import (
	"fmt"
)

// verifyCount checks final against the attack's outcome. Every successful Up
// must be in final. A failed Up may still have been applied by the store (a
// timeout or a cancel after the write), so final may exceed
// initial+succeeded by at most the number of failures; that excess is
// returned as unconfirmed.
func verifyCount(initial, final, succeeded, requests int64) (unconfirmed int64, err error) {
	switch {
	case final < initial+succeeded:
		return 0, fmt.Errorf("lost updates: initial=%d + succeeded=%d > final=%d", initial, succeeded, final)
	case final > initial+requests:
		return 0, fmt.Errorf("extra updates: initial=%d + requests=%d < final=%d", initial, requests, final)
	}
	return final - initial - succeeded, nil
}
