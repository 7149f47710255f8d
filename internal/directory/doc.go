// Package directory keeps the filtered restaurant set, the list view and
// the map markers consistent with each other.
//
// State lives in three owners: Reference (filter options), FilterController
// (selection and refresh generation) and Synchronizer (rendered items and
// favorite writes). Their mutating methods are meant for a single event
// loop. Blocking work is split out into LoadReference, FilterController.Fetch
// and Synchronizer.Persist, which return values to be fed back into the loop
// via Reference.Apply, FilterController.Resolve and Synchronizer.Settle.
package directory
