package models

// IndexRef is a classified row awaiting enrichment.
type IndexRef struct {
	Category Category
	Index    int
}

// Inventory carries one run's state through the pipeline stages. It is owned
// by a single run and never shared.
type Inventory struct {
	Hostname string

	// Discovered keeps classified storage rows in walk order.
	Discovered []IndexRef
	counts     map[Category]int

	// Processes maps a configured process name to its hrSWRun indexes.
	Processes map[string][]int

	Entities []Entity
}

func NewInventory(hostname string) *Inventory {
	return &Inventory{
		Hostname:  hostname,
		counts:    make(map[Category]int),
		Processes: make(map[string][]int),
	}
}

// AddIndex records a classified row. A positive limit caps each category and
// further rows are refused.
func (inv *Inventory) AddIndex(category Category, index, limit int) bool {
	if limit > 0 && inv.counts[category] >= limit {
		return false
	}
	inv.counts[category]++
	inv.Discovered = append(inv.Discovered, IndexRef{Category: category, Index: index})
	return true
}

func (inv *Inventory) Count(category Category) int {
	return inv.counts[category]
}

func (inv *Inventory) AddProcessIndex(name string, index int) {
	inv.Processes[name] = append(inv.Processes[name], index)
}

func (inv *Inventory) AddEntity(e Entity) {
	inv.Entities = append(inv.Entities, e)
}
