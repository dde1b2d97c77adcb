// Package model holds the immutable problem description for shelf slotting.
//
// A Problem is built once from item and shelf inputs and never changes while it
// is being solved. Items and shelves are sorted by identifier and addressed by
// integer index; the binary variable "item i on shelf s" has index
// i*NumShelves()+s. Every other package (relaxation, search, validation,
// reporting) reads the problem through these indices.
//
// Example usage:
//
//	p, err := model.NewProblem(items, shelves, model.WithSlotLimit(50))
//	if err != nil {
//	    return err
//	}
//	cost := p.Cost(p.ItemIndex("A-100"), p.ShelfIndex("S1"))
package model
