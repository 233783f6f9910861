package graph

import (
	"encoding/xml"
	"fmt"
	"strconv"

	"gonum.org/v1/gonum/graph/encoding"
	"gonum.org/v1/gonum/graph/encoding/dot"
	"gonum.org/v1/gonum/graph/simple"
)

// dotNode renders an author with its item weight.
type dotNode struct {
	authorNode
	items int
}

func (n dotNode) DOTID() string { return n.name }

func (n dotNode) Attributes() []encoding.Attribute {
	return []encoding.Attribute{{Key: "items", Value: strconv.Itoa(n.items)}}
}

// MarshalDOT encodes the graph in Graphviz DOT format.
func MarshalDOT(g *Graph, name string) ([]byte, error) {
	out := simple.NewUndirectedGraph()
	nodes := make([]dotNode, len(g.names))
	for id, author := range g.names {
		nodes[id] = dotNode{authorNode: authorNode{id: int64(id), name: author}, items: g.items[id]}
		out.AddNode(nodes[id])
	}
	it := g.g.Edges()
	for it.Next() {
		e := it.Edge()
		out.SetEdge(out.NewEdge(nodes[e.From().ID()], nodes[e.To().ID()]))
	}
	data, err := dot.Marshal(out, name, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode graph %s as DOT: %w", name, err)
	}
	return data, nil
}

type graphML struct {
	XMLName xml.Name     `xml:"graphml"`
	XMLNS   string       `xml:"xmlns,attr"`
	Keys    []graphMLKey `xml:"key"`
	Graph   graphMLGraph `xml:"graph"`
}

type graphMLKey struct {
	ID   string `xml:"id,attr"`
	For  string `xml:"for,attr"`
	Name string `xml:"attr.name,attr"`
	Type string `xml:"attr.type,attr"`
}

type graphMLGraph struct {
	ID          string        `xml:"id,attr"`
	EdgeDefault string        `xml:"edgedefault,attr"`
	Nodes       []graphMLNode `xml:"node"`
	Edges       []graphMLEdge `xml:"edge"`
}

type graphMLNode struct {
	ID   string        `xml:"id,attr"`
	Data []graphMLData `xml:"data"`
}

type graphMLEdge struct {
	Source string `xml:"source,attr"`
	Target string `xml:"target,attr"`
}

type graphMLData struct {
	Key   string `xml:"key,attr"`
	Value string `xml:",chardata"`
}

// MarshalGraphML encodes the graph as GraphML with an items attribute per node.
func MarshalGraphML(g *Graph, name string) ([]byte, error) {
	doc := graphML{
		XMLNS: "http://graphml.graphdrawing.org/xmlns",
		Keys:  []graphMLKey{{ID: "items", For: "node", Name: "items", Type: "int"}},
		Graph: graphMLGraph{ID: name, EdgeDefault: "undirected"},
	}
	for _, author := range g.Authors() {
		doc.Graph.Nodes = append(doc.Graph.Nodes, graphMLNode{
			ID:   author,
			Data: []graphMLData{{Key: "items", Value: strconv.Itoa(g.Items(author))}},
		})
	}
	for _, e := range g.Edges() {
		doc.Graph.Edges = append(doc.Graph.Edges, graphMLEdge{Source: e[0], Target: e[1]})
	}
	data, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode graph %s as GraphML: %w", name, err)
	}
	return append([]byte(xml.Header), data...), nil
}
