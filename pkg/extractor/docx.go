package extractor

import (
	"encoding/xml"
	"io"
	"strings"
)

// docxDecoder walks the WordprocessingML token stream. Text lives in w:t
// elements; paragraph ends become newlines so clause boundaries survive.
type docxDecoder struct {
	dec *xml.Decoder
}

func newDocxDecoder(r io.Reader) *docxDecoder {
	return &docxDecoder{dec: xml.NewDecoder(r)}
}

func (d *docxDecoder) text() (string, error) {
	var sb strings.Builder
	inText := false

	for {
		tok, err := d.dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inText = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				sb.WriteString("\n")
			}
		case xml.CharData:
			if inText {
				sb.Write(t)
			}
		}
	}
	return sb.String(), nil
}
