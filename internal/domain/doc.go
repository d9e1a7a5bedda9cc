// Package domain contains the core business entities, value objects, and
// domain logic of the engine: cards, deck paths, deck settings, and share
// records, together with their invariants. It represents the heart of the
// system, independent of any specific infrastructure or delivery mechanism.
package domain
