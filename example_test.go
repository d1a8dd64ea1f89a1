package rete_test

import (
	"fmt"

	"github.com/slott56/rete"
)

func Example() {
	n := rete.NewNetwork()

	x, y, z := rete.Variable("x"), rete.Variable("y"), rete.Variable("z")
	p, err := n.AddProduction(
		rete.Cond{ID: x, Attr: "on", Value: y},
		rete.Cond{ID: y, Attr: "left-of", Value: z},
	)
	if err != nil {
		fmt.Println(err)
		return
	}

	n.AssertFact("B1", "on", "B2")
	n.AssertFact("B2", "left-of", "B3")

	matches, _ := n.Matches(p)
	for _, m := range matches {
		fmt.Printf("x=%v y=%v z=%v\n", m[x], m[y], m[z])
	}
	// Output: x=B1 y=B2 z=B3
}

func ExampleNeg() {
	n := rete.NewNetwork()

	x, y := rete.Variable("x"), rete.Variable("y")
	p, err := n.AddProduction(
		rete.Cond{ID: x, Attr: "status", Value: "ready"},
		rete.Neg{ID: x, Attr: "blocked-by", Value: y},
	)
	if err != nil {
		fmt.Println(err)
		return
	}

	n.AssertFact("task-1", "status", "ready")
	n.AssertFact("task-2", "status", "ready")
	n.AssertFact("task-2", "blocked-by", "task-1")

	matches, _ := n.Matches(p)
	for _, m := range matches {
		fmt.Printf("runnable: %v\n", m[x])
	}
	// Output: runnable: task-1
}

func ExampleProduction_OnMatch() {
	n := rete.NewNetwork()

	x := rete.Variable("x")
	p, err := n.AddProduction(rete.Cond{ID: x, Attr: "temperature", Value: "high"})
	if err != nil {
		fmt.Println(err)
		return
	}
	p.OnMatch = func(b rete.Bindings) {
		fmt.Printf("alert for %v\n", b[x])
	}

	n.AssertFact("sensor-7", "temperature", "high")
	// Output: alert for sensor-7
}

func ExampleBind() {
	n := rete.NewNetwork()

	x, amount := rete.Variable("x"), rete.Variable("amount")
	p, err := n.AddProduction(
		rete.Cond{ID: x, Attr: "amount", Value: amount},
		rete.Bind{
			Var:    "taxed",
			Params: []rete.Variable{amount},
			Fn: func(args map[rete.Variable]any) (any, error) {
				return args[amount].(int) * 110 / 100, nil
			},
		},
	)
	if err != nil {
		fmt.Println(err)
		return
	}

	n.AssertFact("invoice-1", "amount", 200)

	matches, _ := n.Matches(p)
	for _, m := range matches {
		fmt.Printf("%v owes %v\n", m[x], m[rete.Variable("taxed")])
	}
	// Output: invoice-1 owes 220
}

func ExampleFact_String() {
	f := rete.Fact{Identifier: "B1", Attribute: "on", Value: "B2"}
	fmt.Println(f.String())
	// Output: (B1 ^on B2)
}
