package main

import (
	"fmt"
	"log"

	"github.com/simplexkit/lpdict/lpdict"
	"github.com/simplexkit/lpdict/simplex"
)

func main() {
	// Maximize: 5.5*x0 + 2.1*x1
	// Subject to: -x0 + x1 <= 2, 8*x0 + 2*x1 <= 17, x >= 0
	p := simplex.New("example")
	p.SetMaximize(true)
	x0 := p.AddColumn("", 5.5, 0, false)
	x1 := p.AddColumn("", 2.1, 0, false)
	if _, err := p.AddRow("", []int{x0, x1}, []float64{-1, 1}, 2); err != nil {
		log.Fatal(err)
	}
	if _, err := p.AddRow("", []int{x0, x1}, []float64{8, 2}, 17); err != nil {
		log.Fatal(err)
	}
	if err := p.Solve(); err != nil {
		log.Fatal(err)
	}

	d, err := lpdict.New(p)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("basic:", d.BasicVariables())
	fmt.Println("nonbasic:", d.NonbasicVariables())
	fmt.Println("constants:", d.ConstantTerms())
	fmt.Printf("objective = %.2f\n", d.ObjectiveValue())

	// Walk away from the optimum: pivot w_0 in and x_0 out.
	if err := d.Enter("w_0"); err != nil {
		log.Fatal(err)
	}
	if err := d.Leave("x_0"); err != nil {
		log.Fatal(err)
	}
	if err := d.Update(); err != nil {
		log.Fatal(err)
	}
	fmt.Println("after pivot, basic:", d.BasicVariables())
	fmt.Printf("objective = %.2f\n", d.ObjectiveValue())

	// Cut off the current vertex and re-solve.
	if err := d.AddRow([]float64{1, 1}, 4, "cut_0", false); err != nil {
		log.Fatal(err)
	}
	if err := p.Solve(); err != nil {
		log.Fatal(err)
	}
	fmt.Println("after cut, basic:", d.BasicVariables())
	fmt.Printf("objective = %.2f\n", d.ObjectiveValue())
}
