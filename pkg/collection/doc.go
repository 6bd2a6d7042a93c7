/*
	Package collection provides ordered, duplicate-free working sets of
	treants and trees, with set algebra over them.

	Bundle holds treants and keys membership by treant id, so the same
	dataset reached through two different paths still counts once.  View
	holds trees and keys membership by canonical path, since plain trees
	have no identity beyond where they sit.  Both preserve first-seen
	order, and both project into the other (Bundle.View, View.Bundle).

	Set operations (Union, Intersection, Difference, SymmetricDifference)
	return new collections; operands are never mutated.  Aggregate limbs
	attached to any operand reappear on the result, re-instantiated fresh
	against it by the receiver's registry.

	Collections hold member objects only; none of the operations here
	touch member state on disk except where documented (View.Bundle reads
	records to decide which trees qualify).
*/
package collection
