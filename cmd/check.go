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
	"math/rand"
	"os"

	"github.com/notargets/gofea/fem"
	"github.com/notargets/gofea/fespace"
	"github.com/notargets/gofea/model_problems/multiphysics"
	"github.com/spf13/cobra"
)

// CheckCmd represents the check command
var CheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify weak form derivatives for every model problem",
	Long: `Verify that each model problem's analytic Jacobian-vector product is
consistent with its weak form. The check runs at a single randomized
quadrature context, complex step by default, central finite differences
with --fd.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("check called")
		dh, _ := cmd.Flags().GetFloat64("dh")
		seed, _ := cmd.Flags().GetInt64("seed")
		useFD, _ := cmd.Flags().GetBool("fd")
		if RunCheck(dh, seed, useFD) {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(CheckCmd)
	CheckCmd.Flags().Float64("dh", fem.DefaultCheckStep, "perturbation step size for the derivative estimate")
	CheckCmd.Flags().Int64("seed", 1, "seed for the randomized quadrature context")
	CheckCmd.Flags().BoolP("fd", "f", false, "use central finite differences instead of the complex step")
}

type modelCheck struct {
	Name   string
	Checks []fem.DerivCheck
	MaxErr float64
}

// RunCheck verifies every model problem and prints a per component table.
// It returns true when any model exceeds the tolerance for the chosen
// estimator.
func RunCheck(dh float64, seed int64, useFD bool) (failed bool) {
	var (
		rnd     = rand.New(rand.NewSource(seed))
		results []modelCheck
		tol     = 1.e-10
		method  = "complex step"
	)
	if useFD {
		tol = 1.e-4
		method = "central finite difference"
		results = checkModels[float64](rnd, dh)
	} else {
		results = checkModels[complex128](rnd, dh)
	}
	fmt.Printf("Derivative check, %s, dh = %8.2e\n", method, dh)
	for _, res := range results {
		fmt.Printf("%s:\n", res.Name)
		for _, c := range res.Checks {
			fmt.Printf("  comp[%2d]  analytic %15.8e  estimate %15.8e  relerr %9.2e\n",
				c.Component, c.Analytic, c.Estimate, c.RelErr)
		}
		verdict := "PASS"
		if res.MaxErr > tol {
			verdict = "FAIL"
			failed = true
		}
		fmt.Printf("  max relative error %9.2e [%s]\n", res.MaxErr, verdict)
	}
	return
}

func checkModels[T fespace.Scalar](rnd *rand.Rand, dh float64) (results []modelCheck) {
	models := []struct {
		name string
		pde  fem.PDE[T]
	}{
		{"projection", multiphysics.NewProjection[T](2)},
		{"poisson", multiphysics.NewPoisson[T](1)},
		{"heat_conduction", multiphysics.NewHeatConduction[T](0.5)},
		{"linear_elasticity", multiphysics.NewLinearElasticity[T]()},
		{"mixed_poisson", multiphysics.NewMixedPoisson[T](1)},
	}
	for _, m := range models {
		checks, maxErr := fem.CheckDerivatives(m.pde, rnd, dh)
		results = append(results, modelCheck{m.name, checks, maxErr})
	}
	return
}
