// Package convert is the single entry point for turning an instant given in
// any supported representation into every other one.
//
// A Converter normalizes its Input to one canonical UTC calendar instant and
// fans that instant out into a Result. The leap-second table is passed in at
// construction; a Converter holds no other state and is safe for concurrent
// use.
package convert
