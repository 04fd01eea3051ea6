package db

import (
	"errors"
	"testing"
)

func TestError(t *testing.T) {
	cause := errors.New("connection reset")

	withKey := &Error{Op: OpHGetAll, Key: "shopdex:product:7", Err: cause}
	if got := withKey.Error(); got != "HGETALL shopdex:product:7: connection reset" {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(withKey, cause) {
		t.Error("Error should unwrap to its cause")
	}

	indexLevel := &Error{Op: OpSearch, Err: cause}
	if got := indexLevel.Error(); got != "FT.SEARCH: connection reset" {
		t.Errorf("Error() = %q", got)
	}
}
