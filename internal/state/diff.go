package state

// Diff partitions declared and database names into the three reconciliation
// buckets: names only declared, names only in the database, and names in
// both.
type Diff struct {
	OnlyDeclared []string
	OnlyDatabase []string
	Common       []string
}

// diffNames computes the Diff for two name lists. Output order follows the
// input lists, declared first, so reconciliation runs are deterministic.
func diffNames(declared, database []string) Diff {
	inDeclared := make(map[string]bool, len(declared))
	for _, n := range declared {
		inDeclared[n] = true
	}
	inDatabase := make(map[string]bool, len(database))
	for _, n := range database {
		inDatabase[n] = true
	}

	var d Diff
	for _, n := range declared {
		if inDatabase[n] {
			d.Common = append(d.Common, n)
		} else {
			d.OnlyDeclared = append(d.OnlyDeclared, n)
		}
	}
	for _, n := range database {
		if !inDeclared[n] {
			d.OnlyDatabase = append(d.OnlyDatabase, n)
		}
	}
	return d
}
