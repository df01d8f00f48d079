package document

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
)

const (
	wordNS = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"

	defaultMainPart = "word/document.xml"
	packageRels     = "_rels/.rels"
	maxRelsBytes    = 1 << 20
)

var errPartTooLarge = errors.New("main document part exceeds size limit")

// readDocx joins the text of every top-level body paragraph with "\n".
// Empty paragraphs still contribute a line.
func readDocx(ctx context.Context, data []byte, maxXMLBytes int64) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open container: %w", err)
	}

	files := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		files[f.Name] = f
	}

	mainPart, err := resolveMainPart(files)
	if err != nil {
		return "", err
	}
	docFile, ok := files[mainPart]
	if !ok {
		return "", fmt.Errorf("%s not found in archive", mainPart)
	}
	if docFile.UncompressedSize64 > uint64(maxXMLBytes) {
		return "", errPartTooLarge
	}

	rc, err := docFile.Open()
	if err != nil {
		return "", fmt.Errorf("open %s: %w", mainPart, err)
	}
	defer rc.Close()

	paragraphs, err := bodyParagraphs(ctx, &cappedReader{r: rc, remaining: maxXMLBytes})
	if err != nil {
		return "", err
	}
	return strings.Join(paragraphs, "\n"), nil
}

type relationships struct {
	Items []struct {
		Type   string `xml:"Type,attr"`
		Target string `xml:"Target,attr"`
	} `xml:"Relationship"`
}

// resolveMainPart follows the package officeDocument relationship. Packages
// without _rels/.rels fall back to word/document.xml.
func resolveMainPart(files map[string]*zip.File) (string, error) {
	relsFile, ok := files[packageRels]
	if !ok {
		return defaultMainPart, nil
	}
	rc, err := relsFile.Open()
	if err != nil {
		return "", fmt.Errorf("open %s: %w", packageRels, err)
	}
	defer rc.Close()

	var rels relationships
	if err := xml.NewDecoder(io.LimitReader(rc, maxRelsBytes)).Decode(&rels); err != nil {
		return "", fmt.Errorf("decode %s: %w", packageRels, err)
	}
	for _, rel := range rels.Items {
		if strings.HasSuffix(rel.Type, "/officeDocument") && rel.Target != "" {
			return strings.TrimPrefix(path.Clean("/"+rel.Target), "/"), nil
		}
	}
	return defaultMainPart, nil
}

// bodyParagraphs walks the main part and returns the text of each w:p that
// is a direct child of w:body. Only runs directly under the paragraph, or
// under a hyperlink directly under it, are read, so table cells, tracked
// insertions and text boxes in drawings are skipped.
func bodyParagraphs(ctx context.Context, r io.Reader) ([]string, error) {
	decoder := xml.NewDecoder(r)

	var (
		stack      []xml.Name
		paragraphs []string
		current    strings.Builder
		inPara     bool
		paraDepth  int
		inText     bool
		sawBody    bool
	)

	isWord := func(name xml.Name, local string) bool {
		return name.Space == wordNS && name.Local == local
	}

	// inRun reports whether the element being opened is a direct child of a
	// run that belongs to the current paragraph's own text.
	inRun := func() bool {
		top := len(stack) - 1
		if top < 0 || !isWord(stack[top], "r") {
			return false
		}
		switch top - paraDepth {
		case 1:
			return true
		case 2:
			return isWord(stack[paraDepth+1], "hyperlink")
		}
		return false
	}

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode document part: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if isWord(t.Name, "body") {
				sawBody = true
			}
			if t.Name.Space == wordNS {
				switch {
				case !inPara && t.Name.Local == "p" && len(stack) > 0 && isWord(stack[len(stack)-1], "body"):
					if err := ctx.Err(); err != nil {
						return nil, err
					}
					inPara = true
					paraDepth = len(stack)
					current.Reset()
				case inPara && inRun():
					writeRunChild(&current, t, &inText)
				}
			}
			stack = append(stack, t.Name)

		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
			if !inPara || t.Name.Space != wordNS {
				continue
			}
			switch {
			case t.Name.Local == "t":
				inText = false
			case t.Name.Local == "p" && len(stack) == paraDepth:
				paragraphs = append(paragraphs, current.String())
				inPara = false
			}

		case xml.CharData:
			if inPara && inText {
				current.Write(t)
			}
		}
	}

	if !sawBody {
		return nil, fmt.Errorf("document part has no body")
	}
	return paragraphs, nil
}

// writeRunChild renders one run child. Page and column breaks produce no text.
func writeRunChild(b *strings.Builder, el xml.StartElement, inText *bool) {
	switch el.Name.Local {
	case "t":
		*inText = true
	case "tab", "ptab":
		b.WriteByte('\t')
	case "cr":
		b.WriteByte('\n')
	case "br":
		if breakType(el) == "textWrapping" {
			b.WriteByte('\n')
		}
	case "noBreakHyphen":
		b.WriteByte('-')
	}
}

func breakType(el xml.StartElement) string {
	for _, attr := range el.Attr {
		if attr.Name.Local == "type" && (attr.Name.Space == wordNS || attr.Name.Space == "") {
			return attr.Value
		}
	}
	return "textWrapping"
}

// cappedReader fails once more than remaining bytes have been read.
type cappedReader struct {
	r         io.Reader
	remaining int64
}

func (c *cappedReader) Read(p []byte) (int, error) {
	if c.remaining < 0 {
		return 0, errPartTooLarge
	}
	if int64(len(p)) > c.remaining+1 {
		p = p[:c.remaining+1]
	}
	n, err := c.r.Read(p)
	c.remaining -= int64(n)
	if c.remaining < 0 {
		return n, errPartTooLarge
	}
	return n, err
}
