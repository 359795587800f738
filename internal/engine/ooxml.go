package engine

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"

	"github.com/beevik/etree"

	"github.com/alnah/go-docforge/internal/fileutil"
	"github.com/alnah/go-docforge/internal/outline"
)

// OOXML namespace URIs shared by the docx and pptx part builders.
const (
	nsRelationships    = "http://schemas.openxmlformats.org/package/2006/relationships"
	nsContentTypes     = "http://schemas.openxmlformats.org/package/2006/content-types"
	nsWordprocessingML = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	nsPresentationML   = "http://schemas.openxmlformats.org/presentationml/2006/main"
	nsDrawingML        = "http://schemas.openxmlformats.org/drawingml/2006/main"
	nsOfficeRels       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
)

// NativeOOXML builds docx and pptx artifacts directly as OPC packages,
// with no external tool. It always probes available.
type NativeOOXML struct {
	// To selects the package flavor: "docx" or "pptx".
	To string
}

// NewNativeOOXML creates a native OOXML engine for the given flavor.
func NewNativeOOXML(to string) *NativeOOXML {
	return &NativeOOXML{To: to}
}

func (e *NativeOOXML) Name() string { return NameNativeOOXML }

func (e *NativeOOXML) Close() error { return nil }

func (e *NativeOOXML) Render(ctx context.Context, job Job) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	doc := outline.Parse(job.Markdown)
	if doc.Title == "" {
		doc.Title = job.Title
	}

	var parts []ooxmlPart
	var err error
	switch e.To {
	case "docx":
		parts, err = buildDocxParts(doc)
	case "pptx":
		parts, err = buildPptxParts(doc)
	default:
		return fmt.Errorf("%w: unknown ooxml flavor %q", ErrRenderFailed, e.To)
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}

	content, err := zipParts(parts)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}
	return fileutil.WriteFileAtomic(job.OutputPath, content)
}

// ooxmlPart is one file inside the OPC package.
type ooxmlPart struct {
	Name string
	Data []byte
}

func zipParts(parts []ooxmlPart) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, part := range parts {
		w, err := zw.Create(part.Name)
		if err != nil {
			return nil, fmt.Errorf("creating package part %s: %w", part.Name, err)
		}
		if _, err := w.Write(part.Data); err != nil {
			return nil, fmt.Errorf("writing package part %s: %w", part.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("closing package: %w", err)
	}
	return buf.Bytes(), nil
}

// newOOXMLDoc starts an XML part with the standard declaration.
func newOOXMLDoc() *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8" standalone="yes"`)
	return doc
}

func serializePart(name string, doc *etree.Document) (ooxmlPart, error) {
	data, err := doc.WriteToBytes()
	if err != nil {
		return ooxmlPart{}, fmt.Errorf("serializing %s: %w", name, err)
	}
	return ooxmlPart{Name: name, Data: data}, nil
}

// relationshipsPart builds a .rels part from (id, type, target) triples.
func relationshipsPart(name string, rels [][3]string) (ooxmlPart, error) {
	doc := newOOXMLDoc()
	root := doc.CreateElement("Relationships")
	root.CreateAttr("xmlns", nsRelationships)
	for _, rel := range rels {
		r := root.CreateElement("Relationship")
		r.CreateAttr("Id", rel[0])
		r.CreateAttr("Type", rel[1])
		r.CreateAttr("Target", rel[2])
	}
	return serializePart(name, doc)
}

// contentTypesPart builds [Content_Types].xml from part-name to
// content-type overrides.
func contentTypesPart(overrides [][2]string) (ooxmlPart, error) {
	doc := newOOXMLDoc()
	root := doc.CreateElement("Types")
	root.CreateAttr("xmlns", nsContentTypes)

	rels := root.CreateElement("Default")
	rels.CreateAttr("Extension", "rels")
	rels.CreateAttr("ContentType", "application/vnd.openxmlformats-package.relationships+xml")
	xml := root.CreateElement("Default")
	xml.CreateAttr("Extension", "xml")
	xml.CreateAttr("ContentType", "application/xml")

	for _, o := range overrides {
		ov := root.CreateElement("Override")
		ov.CreateAttr("PartName", o[0])
		ov.CreateAttr("ContentType", o[1])
	}
	return serializePart("[Content_Types].xml", doc)
}
