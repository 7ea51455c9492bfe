/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"io/ioutil"
	"math/rand"
	"os"
	"time"

	"github.com/notargets/gofea/InputParameters"
	"github.com/notargets/gofea/febasis"
	"github.com/notargets/gofea/fem"
	"github.com/notargets/gofea/femesh"
	"github.com/notargets/gofea/model_problems/multiphysics"
	"github.com/notargets/gofea/utils"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"
)

type CaseRun struct {
	CaseFile string
	NThreads int
	Profile  bool
}

// AssembleCmd represents the assemble command
var AssembleCmd = &cobra.Command{
	Use:   "assemble",
	Short: "Assemble residual and Jacobian products for a YAML case file",
	Long: `Assemble residual, Jacobian-vector product and, at low order, the
sparse Jacobian for the model named in the case file, on a structured box of
hexahedra with a random solution vector. Models: projection, poisson,
heat_conduction, linear_elasticity. Reports norms, nonzeros and timings.`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			err error
		)
		fmt.Println("assemble called")
		cr := &CaseRun{}
		if cr.CaseFile, err = cmd.Flags().GetString("caseFile"); err != nil {
			panic(err)
		}
		cr.NThreads, _ = cmd.Flags().GetInt("nthreads")
		cr.Profile, _ = cmd.Flags().GetBool("profile")
		cp := processCase(cr)
		RunAssemble(cr, cp)
	},
}

func processCase(cr *CaseRun) (cp *InputParameters.CaseParameters) {
	var (
		err error
	)
	if len(cr.CaseFile) == 0 {
		err = fmt.Errorf("must supply a case file (-F, --caseFile) in YAML format")
		fmt.Printf("error: %s\n", err.Error())
		exampleFile := `
########################################
Title: "Heat Slab"
Model: heat_conduction # projection, poisson, heat_conduction, linear_elasticity
PolynomialOrder: 1
Nx: 8
Ny: 8
Nz: 8
Lx: 1.
Ly: 1.
Lz: 1.
NThreads: 4
ModelParams:
  Kappa0: 1.
  Beta: 0.5
  Q: 1.
########################################
`
		fmt.Printf("Example File:%s\n", exampleFile)
		os.Exit(1)
	}
	var data []byte
	if data, err = ioutil.ReadFile(cr.CaseFile); err != nil {
		panic(err)
	}
	cp = &InputParameters.CaseParameters{}
	if err = cp.Parse(data); err != nil {
		panic(err)
	}
	cp.SetDefaults()
	if cr.NThreads > 0 {
		cp.NThreads = cr.NThreads
	}
	return
}

func init() {
	rootCmd.AddCommand(AssembleCmd)
	AssembleCmd.Flags().StringP("caseFile", "F", "", "YAML case file with mesh size and model parameters")
	AssembleCmd.Flags().IntP("nthreads", "n", 0, "number of threads, overrides the case file when set")
	AssembleCmd.Flags().BoolP("profile", "p", false, "write a CPU profile of the assembly")
}

// caseAssembly bundles the quadrature, bases, meshes and data vector built
// from a case file. The geometry is always trilinear on the box.
type caseAssembly struct {
	pde               fem.PDE[float64]
	quad              *febasis.Rule
	dataB, geoB, solB *febasis.FEBasis[float64]
	dataM, geoM, solM *femesh.ElementMesh
	X, dataVec        []float64
}

func newCaseAssembly(cp *InputParameters.CaseParameters) (ca *caseAssembly) {
	var (
		p     = cp.PolynomialOrder
		solC  = 1
		nelem = cp.Nx * cp.Ny * cp.Nz
	)
	ca = &caseAssembly{quad: febasis.HexGauss(p + 1)}
	ca.geoB = febasis.NewFEBasis[float64](febasis.NewHexH1Group("X", 1, 3, ca.quad))
	ca.geoM = femesh.NewBoxMeshH1(cp.Nx, cp.Ny, cp.Nz, 1, 3)
	ca.X = femesh.BoxGeometry(cp.Nx, cp.Ny, cp.Nz, cp.Lx, cp.Ly, cp.Lz)
	switch cp.Model {
	case "projection":
		ca.pde = multiphysics.NewProjection[float64](1)
	case "poisson":
		ca.pde = multiphysics.NewPoisson[float64](cp.Param("F", 1))
	case "heat_conduction":
		ca.pde = multiphysics.NewHeatConduction[float64](cp.Param("Beta", 0.5))
		ca.dataB = febasis.NewFEBasis[float64](febasis.NewHexL2Group("mat", 0, 2, ca.quad))
		ca.dataM = femesh.NewBoxMeshL2(cp.Nx, cp.Ny, cp.Nz, 2)
		ca.dataVec = constantPairs(nelem, cp.Param("Kappa0", 1), cp.Param("Q", 1))
	case "linear_elasticity":
		solC = 3
		ca.pde = multiphysics.NewLinearElasticity[float64]()
		ca.dataB = febasis.NewFEBasis[float64](febasis.NewHexL2Group("lame", 0, 2, ca.quad))
		ca.dataM = femesh.NewBoxMeshL2(cp.Nx, cp.Ny, cp.Nz, 2)
		ca.dataVec = constantPairs(nelem, cp.Param("Lambda", 1), cp.Param("Mu", 1))
	default:
		err := fmt.Errorf("unknown model \"%s\", must be one of "+
			"projection, poisson, heat_conduction, linear_elasticity", cp.Model)
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}
	ca.solB = febasis.NewFEBasis[float64](febasis.NewHexH1Group("u", p, solC, ca.quad))
	ca.solM = femesh.NewBoxMeshH1(cp.Nx, cp.Ny, cp.Nz, p, solC)
	if ca.dataB == nil {
		ca.dataB = febasis.NewEmptyBasis[float64](ca.quad.NumPoints())
	}
	return
}

func constantPairs(nelem int, a, b float64) (v []float64) {
	v = make([]float64, 2*nelem)
	for e := 0; e < nelem; e++ {
		v[2*e] = a
		v[2*e+1] = b
	}
	return
}

func (ca *caseAssembly) dataView() fem.ElemVec[float64] {
	if ca.dataVec == nil {
		return fem.NewElementVectorEmpty[float64]()
	}
	return fem.NewElementVectorSerial(ca.dataM, ca.dataB, ca.dataVec)
}

func (ca *caseAssembly) outputView(vec []float64, np int) fem.ElemVec[float64] {
	if np > 1 {
		return fem.NewElementVectorParallel(ca.solM, ca.solB, vec, np)
	}
	return fem.NewElementVectorSerial(ca.solM, ca.solB, vec)
}

func randomVector(n int, rnd *rand.Rand) (v []float64) {
	v = make([]float64, n)
	for i := range v {
		v[i] = 2*rnd.Float64() - 1
	}
	return
}

func RunAssemble(cr *CaseRun, cp *InputParameters.CaseParameters) {
	if cr.Profile {
		defer profile.Start().Stop()
	}
	cp.Print()
	var (
		ca  = newCaseAssembly(cp)
		fe  = fem.NewFiniteElement[float64](ca.quad, ca.dataB, ca.geoB, ca.solB)
		n   = ca.solM.NumDof()
		np  = cp.NThreads
		rnd = rand.New(rand.NewSource(1))
		u   = randomVector(n, rnd)
		x   = randomVector(n, rnd)
		res = make([]float64, n)
		y   = make([]float64, n)
		err error
	)
	fe.SetParallel(np)
	fmt.Printf("%d elements, %d solution dofs, %d threads\n",
		ca.solM.NumElements(), n, np)

	var (
		dataView = ca.dataView()
		geoView  = fem.NewElementVectorSerial(ca.geoM, ca.geoB, ca.X)
		solView  = fem.NewElementVectorSerial(ca.solM, ca.solB, u)
		xView    = fem.NewElementVectorSerial(ca.solM, ca.solB, x)
		resView  = ca.outputView(res, np)
		yView    = ca.outputView(y, np)
	)

	start := time.Now()
	resView.InitZeroValues()
	if err = fe.AddResidual(ca.pde, dataView, geoView, solView, resView); err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}
	resView.AddValues()
	fmt.Printf("Residual   ||r||   = %12.6e   %8.3f ms\n",
		floats.Norm(res, 2), 1000*time.Since(start).Seconds())

	start = time.Now()
	yView.InitZeroValues()
	if err = fe.AddJacobianVectorProduct(ca.pde, dataView, geoView, solView,
		xView, yView); err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}
	yView.AddValues()
	fmt.Printf("JacVec     ||J*x|| = %12.6e   %8.3f ms\n",
		floats.Norm(y, 2), 1000*time.Since(start).Seconds())

	if cp.PolynomialOrder > 2 {
		fmt.Printf("skipping the sparse Jacobian above polynomial order 2\n")
		return
	}
	dok := utils.NewDOK(n, n)
	em := fem.NewElementMatrixSerial[float64](ca.solM, ca.solB, dok)
	start = time.Now()
	if err = fe.AddJacobian(ca.pde, dataView, geoView, solView, em); err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}
	A := dok.ToCSR()
	fmt.Printf("Jacobian   nnz     = %12d   %8.3f ms\n",
		A.M.NNZ(), 1000*time.Since(start).Seconds())

	// The frozen matrix applied to x must reproduce the matrix-free product.
	Ax := A.MulVec(x)
	floats.Sub(Ax, y)
	fmt.Printf("Consistency ||A*x - J*x|| = %12.6e\n", floats.Norm(Ax, 2))
}
