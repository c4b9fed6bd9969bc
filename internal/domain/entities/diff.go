package entities

// DiffSnapshots computes the ordered operation sequence turning the old
// snapshot into the new one. Both snapshots expose their names sorted, so
// a single merge-join pass drives the whole diff: a name present on one
// side only yields per-record Adds or Removes, and a name present on both
// sides goes through per-name reconciliation. Output order is fully
// deterministic for identical inputs.
func DiffSnapshots(oldSnap, newSnap Snapshot) []Operation {
	oldNames := oldSnap.Names()
	newNames := newSnap.Names()

	var ops []Operation
	i, j := 0, 0
	for i < len(oldNames) || j < len(newNames) {
		switch {
		case j == len(newNames) || (i < len(oldNames) && oldNames[i] < newNames[j]):
			for _, record := range oldSnap.Records(oldNames[i]) {
				ops = append(ops, RemoveOperation(record))
			}
			i++
		case i == len(oldNames) || newNames[j] < oldNames[i]:
			for _, record := range newSnap.Records(newNames[j]) {
				ops = append(ops, AddOperation(record))
			}
			j++
		default:
			ops = append(ops, reconcileName(oldSnap.Records(oldNames[i]), newSnap.Records(newNames[j]))...)
			i++
			j++
		}
	}
	return ops
}

// reconcileName diffs the variants of a single name. Records present on
// both sides are unchanged and dropped first; the remainders are paired
// positionally by sorted rank, with leftovers becoming Removes or Adds.
//
// Rank pairing can cross versions when several variants of one name
// change at once, e.g.
//
//	--- error-chain 0.12.1
//	    error-chain 0.11.0 -> 0.12.2
//
// That output is the long-standing contract of the tool; a
// closest-version matching would be a behavior change.
func reconcileName(oldList, newList []DependencyRecord) []Operation {
	oldRest, newRest := removeUnchanged(oldList, newList)

	common := len(oldRest)
	if len(newRest) < common {
		common = len(newRest)
	}

	ops := make([]Operation, 0, len(oldRest)+len(newRest)-common)
	for _, record := range oldRest[common:] {
		ops = append(ops, RemoveOperation(record))
	}
	for i := 0; i < common; i++ {
		ops = append(ops, UpdateOperation(oldRest[i], newRest[i]))
	}
	for _, record := range newRest[common:] {
		ops = append(ops, AddOperation(record))
	}
	return ops
}

// removeUnchanged drops records present on both sides under full-record
// equality. Both lists are sorted and deduplicated, so one two-pointer
// pass finds the intersection.
func removeUnchanged(oldList, newList []DependencyRecord) (oldRest, newRest []DependencyRecord) {
	i, j := 0, 0
	for i < len(oldList) && j < len(newList) {
		switch c := oldList[i].Compare(newList[j]); {
		case c == 0:
			i++
			j++
		case c < 0:
			oldRest = append(oldRest, oldList[i])
			i++
		default:
			newRest = append(newRest, newList[j])
			j++
		}
	}
	oldRest = append(oldRest, oldList[i:]...)
	newRest = append(newRest, newList[j:]...)
	return oldRest, newRest
}
