// Package tests holds the small assertion helpers shared by the package
// tests.
package tests

import (
	"reflect"
	"runtime"
	"testing"
)

func CheckString(t *testing.T, expected, actual string) {
	if expected != actual {
		failure(t, expected, actual)
	}
}

func CheckBool(t *testing.T, expected, actual bool) {
	if expected != actual {
		failure(t, expected, actual)
	}
}

func CheckInt(t *testing.T, expected, actual int) {
	if expected != actual {
		failure(t, expected, actual)
	}
}

// CheckStrings compares two string slices element by element; nil and empty
// slices are considered equal.
func CheckStrings(t *testing.T, expected, actual []string) {
	if len(expected) == 0 && len(actual) == 0 {
		return
	}

	if !reflect.DeepEqual(expected, actual) {
		failure(t, expected, actual)
	}
}

func failure(t *testing.T, expected, actual interface{}) {
	t.Helper()

	_, file, line, ok := runtime.Caller(2)
	if ok {
		t.Fatalf("Failure at %s:%d! Expected '%v', got '%v'\n", file, line, expected, actual)
	} else {
		t.Fatalf("Failure! Expected '%v', got '%v'\n", expected, actual)
	}
}
