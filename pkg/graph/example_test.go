package graph_test

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/flowschem/pkg/flow"
	"github.com/matzehuels/flowschem/pkg/graph"
)

func ExampleWriteGraph() {
	g := flow.NewGraph()
	_, _ = g.AddNode(flow.Node{ID: "core_app", Name: "App", Section: "core", Row: 1})
	_, _ = g.AddNode(flow.Node{ID: "core_db", Name: "DB", Section: "core", Row: 2})
	g.Connect(flow.Connection{From: "core_app", To: "core_db"})

	var buf bytes.Buffer
	if err := graph.WriteGraph(g, &buf); err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Print(buf.String())
	// Output:
	// {
	//   "nodes": [
	//     {
	//       "id": "core_app",
	//       "label": "App",
	//       "section": "core",
	//       "row": 1
	//     },
	//     {
	//       "id": "core_db",
	//       "label": "DB",
	//       "section": "core",
	//       "row": 2
	//     }
	//   ],
	//   "edges": [
	//     {
	//       "from": "core_app",
	//       "to": "core_db",
	//       "kind": "to"
	//     }
	//   ]
	// }
}

func ExampleReadGraph() {
	data := `{
		"nodes": [
			{"id": "a", "section": "s", "row": 1},
			{"id": "b", "section": "s", "row": 2}
		],
		"edges": [{"from": "b", "to": "a", "kind": "from"}]
	}`
	g, err := graph.ReadGraph(bytes.NewReader([]byte(data)))
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	for _, c := range g.Normalized() {
		fmt.Printf("%s -> %s\n", c.From, c.To)
	}
	// Output:
	// a -> b
}
