package store

// Changes lists how the declarations of one run differ from another.
type Changes struct {
	Added   []string `json:"added"`
	Removed []string `json:"removed"`
	Changed []string `json:"changed"`
}

// Empty reports whether the runs emitted identical declarations.
func (c Changes) Empty() bool {
	return len(c.Added) == 0 && len(c.Removed) == 0 && len(c.Changed) == 0
}

// Diff compares declarations by name and fingerprint. Added and Changed
// follow next's emission order; Removed follows prev's.
func Diff(prev, next Run) Changes {
	before := make(map[string]string, len(prev.Declarations))
	for _, d := range prev.Declarations {
		before[d.Name] = d.Fingerprint
	}
	after := make(map[string]bool, len(next.Declarations))

	c := Changes{Added: []string{}, Removed: []string{}, Changed: []string{}}
	for _, d := range next.Declarations {
		after[d.Name] = true
		fp, existed := before[d.Name]
		switch {
		case !existed:
			c.Added = append(c.Added, d.Name)
		case fp != d.Fingerprint:
			c.Changed = append(c.Changed, d.Name)
		}
	}
	for _, d := range prev.Declarations {
		if !after[d.Name] {
			c.Removed = append(c.Removed, d.Name)
		}
	}
	return c
}
