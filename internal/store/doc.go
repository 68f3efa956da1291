// Package store owns the single application document: it bootstraps it from
// durable storage or a seed source, caches it in memory, and persists every
// mutation as one compare-and-swap write of the whole document.
//
// Lifecycle: New -> Initialize -> (View | Update | Persist)* -> Close.
// States move UNINITIALIZED -> LOADING -> READY. Concurrent Initialize calls
// share one bootstrap, so the seed source is fetched at most once.
package store
