package export_test

import (
	"fmt"
	"strings"

	"github.com/matzehuels/forcegraph/pkg/export"
	"github.com/matzehuels/forcegraph/pkg/graph"
)

func ExampleToDOT() {
	g, _ := graph.New(
		[]graph.Node{
			{ID: "app", X: 400, Y: 300, Category: graph.Service},
			{ID: "db", X: 550, Y: 300, Category: graph.Infrastructure},
		},
		[]graph.Edge{{Source: "app", Target: "db"}},
	)

	dot := export.ToDOT(g, export.Options{})
	for _, line := range strings.Split(dot, "\n") {
		if strings.Contains(line, "--") || strings.Contains(line, "pos=") {
			fmt.Println(strings.TrimSpace(line))
		}
	}
	// Output:
	// "app" [label="app", pos="400,-300!", width=0.4444444444444444, fillcolor="#06b6d4"];
	// "db" [label="db", pos="550,-300!", width=0.5, fillcolor="#84cc16"];
	// "app" -- "db" [penwidth=1];
}
