package InputParameters

import (
	"fmt"
	"sort"

	"github.com/ghodss/yaml"
)

// CaseParameters are read from the YAML case file supplied to the assemble
// command. ModelParams carries the physics constants for the selected model,
// for instance Kappa0 and Beta for heat_conduction or Lambda and Mu for
// linear_elasticity.
type CaseParameters struct {
	Title           string             `yaml:"Title"`
	Model           string             `yaml:"Model"`
	PolynomialOrder int                `yaml:"PolynomialOrder"`
	Nx              int                `yaml:"Nx"`
	Ny              int                `yaml:"Ny"`
	Nz              int                `yaml:"Nz"`
	Lx              float64            `yaml:"Lx"`
	Ly              float64            `yaml:"Ly"`
	Lz              float64            `yaml:"Lz"`
	NThreads        int                `yaml:"NThreads"`
	ModelParams     map[string]float64 `yaml:"ModelParams"` // Key is the parameter name for the selected model
}

func (cp *CaseParameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, cp)
}

func (cp *CaseParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", cp.Title)
	fmt.Printf("[%s]\t\t= Model\n", cp.Model)
	fmt.Printf("[%d]\t\t\t\t= Polynomial Order\n", cp.PolynomialOrder)
	fmt.Printf("[%d x %d x %d]\t\t\t= Mesh\n", cp.Nx, cp.Ny, cp.Nz)
	fmt.Printf("%8.5f x %8.5f x %8.5f\t= Box\n", cp.Lx, cp.Ly, cp.Lz)
	fmt.Printf("[%d]\t\t\t\t= NThreads\n", cp.NThreads)
	keys := make([]string, len(cp.ModelParams))
	i := 0
	for k := range cp.ModelParams {
		keys[i] = k
		i++
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Printf("ModelParams[%s] = %v\n", key, cp.ModelParams[key])
	}
}

// SetDefaults fills in anything the case file left unset so that a minimal
// file with only a Title and Model still assembles.
func (cp *CaseParameters) SetDefaults() {
	if cp.Model == "" {
		cp.Model = "projection"
	}
	if cp.PolynomialOrder < 1 {
		cp.PolynomialOrder = 1
	}
	if cp.Nx < 1 {
		cp.Nx = 2
	}
	if cp.Ny < 1 {
		cp.Ny = 2
	}
	if cp.Nz < 1 {
		cp.Nz = 2
	}
	if cp.Lx <= 0 {
		cp.Lx = 1
	}
	if cp.Ly <= 0 {
		cp.Ly = 1
	}
	if cp.Lz <= 0 {
		cp.Lz = 1
	}
	if cp.NThreads < 1 {
		cp.NThreads = 1
	}
}

// Param returns a model parameter by name, falling back to def when the case
// file did not set it.
func (cp *CaseParameters) Param(name string, def float64) float64 {
	if v, ok := cp.ModelParams[name]; ok {
		return v
	}
	return def
}
