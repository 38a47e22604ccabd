// Package utils provides small, generic helper functions used across
// different layers of the application. These utilities are independent
// of domain or business logic.
package utils

import "strconv"

// AtoiDefault converts a string to an int using strconv.Atoi.
// If the string is empty or cannot be parsed as an integer,
// it returns the provided default value instead.
//
// Example:
//
//	n := utils.AtoiDefault("42", 0) // returns 42
//	n = utils.AtoiDefault("", 10)   // returns 10
//	n = utils.AtoiDefault("x", 5)   // returns 5
func AtoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}

// ParsePage reads a "page" query value. Only plain ASCII digits are
// accepted (no sign, no spaces); anything else, and 0, yields page 1.
func ParsePage(s string) int {
	if s == "" {
		return 1
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 1
		}
	}
	n := AtoiDefault(s, 1)
	if n < 1 {
		return 1
	}
	return n
}

// ParseID parses a positive database identifier. ok is false for anything
// that is not a base-10 integer >= 1.
func ParseID(s string) (id uint, ok bool) {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil || n == 0 || n > uint64(^uint(0)) {
		return 0, false
	}
	return uint(n), true
}
