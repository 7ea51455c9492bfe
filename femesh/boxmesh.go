package femesh

/*
Structured hex meshes of the box [0,lx] x [0,ly] x [0,lz]. Element e =
ei + nx*(ej + ny*ek); within an element, local tensor nodes run first
coordinate fastest, matching the hex basis node ordering, and dofs
interleave components as node*C + c.
*/

// NewBoxMeshH1 builds the dof map of a continuous degree p field with C
// components on an nx x ny x nz hex grid. Global nodes form an
// (nx*p+1) x (ny*p+1) x (nz*p+1) lattice shared between neighboring
// elements.
func NewBoxMeshH1(nx, ny, nz, p, C int) (m *ElementMesh) {
	var (
		mx, my = nx*p + 1, ny*p + 1
		mz     = nz*p + 1
		n1     = p + 1
		conn   = make([][]int, nx*ny*nz)
	)
	for ek := 0; ek < nz; ek++ {
		for ej := 0; ej < ny; ej++ {
			for ei := 0; ei < nx; ei++ {
				c := make([]int, C*n1*n1*n1)
				for k := 0; k < n1; k++ {
					for j := 0; j < n1; j++ {
						for i := 0; i < n1; i++ {
							var (
								node = i + n1*(j+n1*k)
								g    = (ei*p + i) + mx*((ej*p+j)+my*(ek*p+k))
							)
							for cc := 0; cc < C; cc++ {
								c[node*C+cc] = g*C + cc
							}
						}
					}
				}
				conn[ei+nx*(ej+ny*ek)] = c
			}
		}
	}
	m, err := NewElementMesh(C*mx*my*mz, Group{Name: "u", Conn: conn})
	if err != nil {
		panic(err)
	}
	return
}

// NewBoxMeshL2 builds the dof map of a discontinuous field with n dofs per
// element; nothing is shared, global dofs are element blocks.
func NewBoxMeshL2(nx, ny, nz, n int) (m *ElementMesh) {
	nelem := nx * ny * nz
	conn := make([][]int, nelem)
	for e := 0; e < nelem; e++ {
		c := make([]int, n)
		for i := 0; i < n; i++ {
			c[i] = e*n + i
		}
		conn[e] = c
	}
	m, err := NewElementMesh(nelem*n, Group{Name: "u", Conn: conn})
	if err != nil {
		panic(err)
	}
	return
}

// BoxGeometry returns the vertex coordinate array matching
// NewBoxMeshH1(nx, ny, nz, 1, 3): three interleaved components per lattice
// node of the box [0,lx] x [0,ly] x [0,lz].
func BoxGeometry(nx, ny, nz int, lx, ly, lz float64) (X []float64) {
	var (
		mx, my, mz = nx + 1, ny + 1, nz + 1
	)
	X = make([]float64, 3*mx*my*mz)
	for k := 0; k < mz; k++ {
		for j := 0; j < my; j++ {
			for i := 0; i < mx; i++ {
				g := i + mx*(j+my*k)
				X[3*g+0] = lx * float64(i) / float64(nx)
				X[3*g+1] = ly * float64(j) / float64(ny)
				X[3*g+2] = lz * float64(k) / float64(nz)
			}
		}
	}
	return
}
