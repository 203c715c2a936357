// Package utils provides small conversion helpers shared across the application,
// such as turning loosely typed JSON numbers and query strings into ints and bools.
package utils
