package importer

import "strings"

// ProductGroup is the ordered set of rows describing variants of one logical
// product, keyed by the trimmed product name.
type ProductGroup struct {
	Key  string
	Rows []*NormalizedRow
}

// GroupRows partitions rows into product groups. The key is the trimmed,
// case-sensitive product name; group order equals the first appearance of
// each key in the input, which fixes the order groups are reconciled in and
// keeps per-product outcomes deterministic. Grouping is name-based only: two
// distinct products sharing a name collapse into one group.
func GroupRows(rows []*NormalizedRow) []ProductGroup {
	index := make(map[string]int, len(rows))
	groups := make([]ProductGroup, 0, len(rows))

	for _, row := range rows {
		key := strings.TrimSpace(row.ProductName)
		if i, ok := index[key]; ok {
			groups[i].Rows = append(groups[i].Rows, row)
			continue
		}
		index[key] = len(groups)
		groups = append(groups, ProductGroup{Key: key, Rows: []*NormalizedRow{row}})
	}

	return groups
}
