package entities

import "sort"

// Snapshot is the structured form of one lockfile's contents: dependency
// name mapped to a sorted, deduplicated list of the records sharing that
// name. Snapshots are built once and never mutated afterwards.
type Snapshot struct {
	names  []string
	groups map[string][]DependencyRecord
}

// NewSnapshot groups records by name, sorting and deduplicating each group.
func NewSnapshot(records []DependencyRecord) Snapshot {
	groups := make(map[string][]DependencyRecord)
	for _, record := range records {
		groups[record.Name] = append(groups[record.Name], record)
	}

	names := make([]string, 0, len(groups))
	for name, group := range groups {
		sort.Slice(group, func(i, j int) bool {
			return group[i].Compare(group[j]) < 0
		})
		groups[name] = dedupRecords(group)
		names = append(names, name)
	}
	sort.Strings(names)

	return Snapshot{names: names, groups: groups}
}

// Names returns all dependency names in ascending order.
func (s Snapshot) Names() []string { return s.names }

// Records returns the sorted records for one name, or nil when absent.
func (s Snapshot) Records(name string) []DependencyRecord { return s.groups[name] }

// Len returns the total number of records across all names.
func (s Snapshot) Len() int {
	total := 0
	for _, group := range s.groups {
		total += len(group)
	}
	return total
}

// dedupRecords collapses adjacent equal records in a sorted group.
func dedupRecords(sorted []DependencyRecord) []DependencyRecord {
	result := sorted[:0]
	for i, record := range sorted {
		if i == 0 || !record.Equal(sorted[i-1]) {
			result = append(result, record)
		}
	}
	return result
}
