package femesh

import "fmt"

// Group is the connectivity of one basis group: per-element global dof
// indices plus orientation signs. A nil Sign means every sign is +1.
type Group struct {
	Name string
	Conn [][]int
	Sign [][]int
}

// ElementMesh maps (element, basis group, local index) to a global dof
// index and orientation sign. Construction validates all connectivity up
// front so the assembly loops never index out of range.
type ElementMesh struct {
	numDof int
	groups []Group
}

func NewElementMesh(numDof int, groups ...Group) (m *ElementMesh, err error) {
	if numDof < 0 {
		err = fmt.Errorf("negative dof count %d", numDof)
		return
	}
	if len(groups) == 0 {
		err = fmt.Errorf("element mesh needs at least one basis group")
		return
	}
	nelem := len(groups[0].Conn)
	for g, grp := range groups {
		if len(grp.Conn) != nelem {
			err = fmt.Errorf("group %d (%s) has %d elements, group 0 has %d",
				g, grp.Name, len(grp.Conn), nelem)
			return
		}
		if grp.Sign != nil && len(grp.Sign) != nelem {
			err = fmt.Errorf("group %d (%s) has %d sign rows for %d elements",
				g, grp.Name, len(grp.Sign), nelem)
			return
		}
		for e, conn := range grp.Conn {
			if grp.Sign != nil && len(grp.Sign[e]) != len(conn) {
				err = fmt.Errorf("group %d (%s) element %d has %d signs for %d dofs",
					g, grp.Name, e, len(grp.Sign[e]), len(conn))
				return
			}
			for i, gd := range conn {
				if gd < 0 || gd >= numDof {
					err = fmt.Errorf("group %d (%s) element %d local dof %d references global dof %d of %d",
						g, grp.Name, e, i, gd, numDof)
					return
				}
				if grp.Sign != nil {
					if s := grp.Sign[e][i]; s != 1 && s != -1 {
						err = fmt.Errorf("group %d (%s) element %d local dof %d has sign %d, want +1 or -1",
							g, grp.Name, e, i, s)
						return
					}
				}
			}
		}
	}
	m = &ElementMesh{numDof: numDof, groups: groups}
	return
}

func (m *ElementMesh) NumElements() int { return len(m.groups[0].Conn) }

func (m *ElementMesh) NumDof() int { return m.numDof }

func (m *ElementMesh) NumGroups() int { return len(m.groups) }

func (m *ElementMesh) GlobalDof(elem, group, i int) int {
	return m.groups[group].Conn[elem][i]
}

func (m *ElementMesh) GlobalDofSign(elem, group, i int) int {
	if m.groups[group].Sign == nil {
		return 1
	}
	return m.groups[group].Sign[elem][i]
}
