package rowmap_test

import (
	"fmt"
	"reflect"

	"row-mapper/row"
	"row-mapper/rowmap"
)

type Customer struct {
	ID   int
	Name string
}

type Order struct {
	ID       int
	Total    float64
	Customer *Customer `row:"customer,nested,propagatenull=id"`
}

func ExampleFor() {
	orders, err := rowmap.For[Order](rowmap.NewRegistry(), "")
	if err != nil {
		panic(err)
	}

	columns := []string{"id", "total", "customer_id", "customer_name"}

	for _, values := range [][]any{
		{1, 9.5, 10, "Alice"},
		{2, 3.25, nil, nil},
	} {
		r, _ := row.New(columns, values)

		o, err := orders.Apply(r)
		if err != nil {
			panic(err)
		}

		fmt.Printf("order %d total %.2f customer %+v\n", o.ID, o.Total, o.Customer)
	}

	// Output:
	// order 1 total 9.50 customer &{ID:10 Name:Alice}
	// order 2 total 3.25 customer <nil>
}

type Point struct {
	X, Y int
}

func NewPoint(x, y int) Point { return Point{X: x, Y: y} }

func ExampleRegistry_Register() {
	reg := rowmap.NewRegistry()

	err := reg.Register(rowmap.Configure[Point](rowmap.Constructor(NewPoint, "x", "y")))
	if err != nil {
		panic(err)
	}

	m, err := reg.Resolve(reflect.TypeFor[Point](), "p")
	if err != nil {
		panic(err)
	}

	for _, c := range m.Columns() {
		fmt.Println(c.Display, c.Normalized)
	}

	p, err := m.Apply(row.FromMap(map[string]any{"p.x": 1, "P_Y": 2}))
	fmt.Println(p, err, m.Descriptor())

	// Output:
	// p.x px
	// p.y py
	// {1 2} <nil> rowmap_test.Point(StrategyConstructor)
}
