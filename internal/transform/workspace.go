package transform

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Workspace validation errors.
var (
	ErrEmptyWorkspace  = errors.New("workspace document is empty")
	ErrNoRootElement   = errors.New("workspace document has no root element")
	ErrTrailingContent = errors.New("workspace document has content after the root element")
)

// ValidateWorkspace runs the minimal structural check required before any
// write that changes a project's workspace content: the document must be
// non-empty, well-formed XML with exactly one root element. It deliberately
// does not validate block semantics; the block registry owns that.
func ValidateWorkspace(doc string) error {
	if strings.TrimSpace(doc) == "" {
		return ErrEmptyWorkspace
	}

	dec := xml.NewDecoder(strings.NewReader(doc))
	depth := 0
	roots := 0
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("workspace document is not well-formed: %w", err)
		}
		switch tok.(type) {
		case xml.StartElement:
			if depth == 0 {
				roots++
				if roots > 1 {
					return ErrTrailingContent
				}
			}
			depth++
		case xml.EndElement:
			depth--
		}
	}
	if roots == 0 {
		return ErrNoRootElement
	}
	return nil
}
