// Package store defines the persistence contracts of the engine.
//
// The only primitive the engine assumes is a remote keyed store of
// JSON-shaped values addressed by slash-delimited paths, with a single
// atomicity guarantee: a batch of absolute-path writes applied together.
// The typed stores in this package (cards, deck settings, shares, shared
// progress) map domain entities onto that layout and express every
// multi-record mutation as one such batch. Business rules stay independent
// of the concrete backend; see internal/platform/memstore and
// internal/platform/postgres for implementations.
package store
