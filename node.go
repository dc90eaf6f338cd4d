package e57

import (
	"sort"

	"github.com/migr8/libE57Format/internal/container"
)

// formatName identifies the container format in the file root.
const formatName = "ASTM E57 3D Imaging Data File"

// StructureNode is a read-only view of named metadata values.
type StructureNode struct {
	fields map[string]any
}

// Get returns the value of the named field.
func (n StructureNode) Get(name string) (any, bool) {
	v, ok := n.fields[name]
	return v, ok
}

// Names returns the field names in sorted order.
func (n StructureNode) Names() []string {
	names := make([]string, 0, len(n.fields))
	for name := range n.fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// VectorNode is a read-only ordered list of structure views.
type VectorNode struct {
	elems []StructureNode
}

// Len returns the number of elements.
func (n VectorNode) Len() int { return len(n.elems) }

// At returns the element at position i.
func (n VectorNode) At(i int) StructureNode { return n.elems[i] }

func (impl *writerImpl) rawRoot() StructureNode {
	return StructureNode{fields: map[string]any{
		"formatName":         formatName,
		"guid":               impl.c.GUID(),
		"versionMajor":       int64(1),
		"versionMinor":       int64(0),
		"coordinateMetadata": impl.c.CoordinateMetadata(),
	}}
}

func (impl *writerImpl) rawData3D() VectorNode {
	records := impl.c.Records(container.KindData3D)
	elems := make([]StructureNode, 0, len(records))
	for _, rec := range records {
		header := impl.scans[rec.Index]
		fields := map[string]any{
			"index":         rec.Index,
			"pointCount":    rec.Capacity,
			"pointsWritten": rec.Written,
		}
		if header != nil {
			fields["guid"] = header.GUID
			fields["name"] = header.Name
		}
		if rec.Groups != nil {
			fields["groupCount"] = int64(len(rec.Groups.IDs))
		}
		elems = append(elems, StructureNode{fields: fields})
	}
	return VectorNode{elems: elems}
}

func (impl *writerImpl) rawImages2D() VectorNode {
	records := impl.c.Records(container.KindImage2D)
	elems := make([]StructureNode, 0, len(records))
	for _, rec := range records {
		header := impl.images[rec.Index]
		fields := map[string]any{
			"index":        rec.Index,
			"imageSize":    rec.Capacity,
			"bytesWritten": rec.Written,
		}
		if header != nil {
			fields["guid"] = header.GUID
			fields["name"] = header.Name
			if header.Representation != 0 {
				fields["representation"] = header.Representation.String()
			}
			if header.Projection != 0 {
				fields["projection"] = header.Projection.String()
			}
		}
		elems = append(elems, StructureNode{fields: fields})
	}
	return VectorNode{elems: elems}
}
