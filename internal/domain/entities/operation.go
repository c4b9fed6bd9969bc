package entities

// OperationKind tags one reported change between two snapshots.
type OperationKind int

const (
	OperationAdd OperationKind = iota
	OperationRemove
	OperationUpdate
)

// Operation is one Add, Remove, or Update produced by the diff. Old is the
// zero record for Add; New is the zero record for Remove. Operations are
// produced once and consumed in the order produced.
type Operation struct {
	Kind OperationKind
	Old  DependencyRecord
	New  DependencyRecord
}

// AddOperation reports a record present only in the new snapshot.
func AddOperation(record DependencyRecord) Operation {
	return Operation{Kind: OperationAdd, New: record}
}

// RemoveOperation reports a record present only in the old snapshot.
func RemoveOperation(record DependencyRecord) Operation {
	return Operation{Kind: OperationRemove, Old: record}
}

// UpdateOperation reports a record whose version or source changed.
func UpdateOperation(oldRecord, newRecord DependencyRecord) Operation {
	return Operation{Kind: OperationUpdate, Old: oldRecord, New: newRecord}
}

// String renders the report line for the operation. The format is an
// external contract pinned by golden tests; do not restyle it.
func (o Operation) String() string {
	switch o.Kind {
	case OperationAdd:
		return "+++ " + o.New.Name + " " + o.New.Version
	case OperationRemove:
		return "--- " + o.Old.Name + " " + o.Old.Version
	case OperationUpdate:
		return "    " + o.Old.Name + " " + o.Old.Version + " -> " + o.New.Version
	default:
		return ""
	}
}
