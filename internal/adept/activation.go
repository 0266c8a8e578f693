package adept

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// AdeptNS is the XML namespace of activation.dat.
const AdeptNS = "http://ns.adobe.com/adept"

// Credentials holds the fields of the first adept:credentials element in an
// activation document. Absent elements are nil.
type Credentials struct {
	User              *string
	Username          *string
	Method            *string
	PrivateLicenseKey *string
}

// Name builds the display name with the same rules as the registry walk.
func (c Credentials) Name() string {
	var b NameBuilder
	if c.User != nil {
		b.AddUser(*c.User)
	}
	b.AddUsername(c.Method, c.Username)
	return b.String()
}

// xmlNode is a generic element used to walk documents of unknown shape.
type xmlNode struct {
	XMLName xml.Name
	Attrs   []xml.Attr `xml:",any,attr"`
	Text    string     `xml:",chardata"`
	Nodes   []xmlNode  `xml:",any"`
}

// ParseActivation reads an activation.dat document. Each field is taken
// from the first adept:credentials element that has it as a direct child.
func ParseActivation(r io.Reader) (Credentials, error) {
	var root xmlNode
	if err := xml.NewDecoder(r).Decode(&root); err != nil {
		return Credentials{}, fmt.Errorf("parse activation document: %w", err)
	}

	var creds Credentials
	var found bool
	visit(&root, func(n *xmlNode) {
		if !isAdept(n.XMLName, "credentials") {
			return
		}
		found = true
		for i := range n.Nodes {
			child := &n.Nodes[i]
			switch {
			case isAdept(child.XMLName, "user") && creds.User == nil:
				creds.User = text(child)
			case isAdept(child.XMLName, "username") && creds.Username == nil:
				creds.Username = text(child)
				if m, ok := attr(child, "method"); ok {
					creds.Method = &m
				}
			case isAdept(child.XMLName, "privateLicenseKey") && creds.PrivateLicenseKey == nil:
				creds.PrivateLicenseKey = text(child)
			}
		}
	})
	if !found {
		return Credentials{}, NewError(NoKeyFound, nil, "No credentials element in activation document")
	}
	return creds, nil
}

func visit(n *xmlNode, fn func(*xmlNode)) {
	fn(n)
	for i := range n.Nodes {
		visit(&n.Nodes[i], fn)
	}
}

func isAdept(name xml.Name, local string) bool {
	return name.Space == AdeptNS && name.Local == local
}

func text(n *xmlNode) *string {
	s := strings.TrimSpace(n.Text)
	return &s
}

func attr(n *xmlNode, local string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name.Local == local {
			return a.Value, true
		}
	}
	return "", false
}
