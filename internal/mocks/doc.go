// Package mocks provides hand-written test doubles for the store and
// service interfaces. Each mock carries optional function fields that
// override its default in-memory behavior.
package mocks
