package core

// extract.go turns raw upload bytes into an ordered list of loosely typed
// field maps, one per prospective session. It performs no validation beyond
// recognising the overall shape of the document; per-field checks belong to
// RowValidator.

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"
)

// Format identifies the encoding of an uploaded file.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatXML  Format = "xml"
)

// Formats lists the supported import formats.
var Formats = []Format{FormatCSV, FormatJSON, FormatXML}

// ParseFormat resolves a declared format name such as "csv" or "JSON".
func ParseFormat(name string) (Format, error) {
	f, ok := matchEnum(name, Formats)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
	}
	return f, nil
}

// DetectFormat infers the format from a file name extension, falling back to
// the declared content type.
func DetectFormat(fileName, contentType string) (Format, error) {
	if ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(fileName)), "."); ext != "" {
		if f, err := ParseFormat(ext); err == nil {
			return f, nil
		}
	}

	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
		switch mediaType {
		case "text/csv", "application/csv":
			return FormatCSV, nil
		case "application/json", "text/json":
			return FormatJSON, nil
		case "application/xml", "text/xml":
			return FormatXML, nil
		}
	}

	return "", fmt.Errorf("%w: cannot infer format of %q", ErrUnsupportedFormat, fileName)
}

// FieldMap is one extracted row. Values are string, float64, bool, nil or
// []any depending on what the source format could express.
type FieldMap map[string]any

// Extract parses data in the given format. The returned maps are in source
// order; the first map is row 1. A *ParseError is returned when the input
// does not have a recognisable shape or contains no rows.
func Extract(data []byte, format Format) ([]FieldMap, error) {
	switch format {
	case FormatCSV:
		return extractCSV(data)
	case FormatJSON:
		return extractJSON(data)
	case FormatXML:
		return extractXML(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// ----------------------------------------------------------------------------
// CSV
// ----------------------------------------------------------------------------

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func extractCSV(data []byte) ([]FieldMap, error) {
	data = sanitizeUTF8(bytes.TrimPrefix(data, utf8BOM))
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, parseErrorf(FormatCSV, nil, "empty file")
	}

	records, err := parseCSV(data)
	if err != nil {
		return nil, parseErrorf(FormatCSV, err, "invalid csv")
	}

	headerAt := -1
	for i, rec := range records {
		if !isEmptyRow(rec) {
			headerAt = i
			break
		}
	}
	if headerAt < 0 {
		return nil, parseErrorf(FormatCSV, nil, "empty file")
	}

	header := make([]string, len(records[headerAt]))
	seen := make(map[string]bool, len(header))
	for i, h := range records[headerAt] {
		name := CleanCell(h)
		key := NormalizeKey(name)
		if key == "" || seen[key] {
			continue // unnamed or repeated column; first occurrence wins
		}
		seen[key] = true
		header[i] = name
	}

	var rows []FieldMap
	for _, rec := range records[headerAt+1:] {
		if isEmptyRow(rec) {
			continue
		}
		row := make(FieldMap, len(header))
		for i, cell := range rec {
			if i >= len(header) || header[i] == "" {
				continue
			}
			row[header[i]] = cell
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, parseErrorf(FormatCSV, nil, "no data rows after header")
	}
	return rows, nil
}

// parseCSV reads records with the standard quoting rules. Files that write
// embedded quotes as \" are retried with those rewritten to the doubled form,
// and anything still rejected is read with lazy quoting.
func parseCSV(data []byte) ([][]string, error) {
	records, err := readCSV(data, false)
	if err == nil {
		return records, nil
	}

	if bytes.Contains(data, []byte(`\"`)) {
		rewritten := bytes.ReplaceAll(data, []byte(`\"`), []byte(`""`))
		if records, err := readCSV(rewritten, false); err == nil {
			return records, nil
		}
	}

	return readCSV(data, true)
}

func readCSV(data []byte, lazy bool) ([][]string, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = lazy
	return r.ReadAll()
}

func sanitizeUTF8(data []byte) []byte {
	if utf8.Valid(data) {
		return data
	}

	var buf bytes.Buffer
	buf.Grow(len(data))

	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			buf.WriteRune('\uFFFD')
			data = data[1:]
		} else {
			buf.WriteRune(r)
			data = data[size:]
		}
	}

	return buf.Bytes()
}

func isEmptyRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// ----------------------------------------------------------------------------
// JSON
// ----------------------------------------------------------------------------

func extractJSON(data []byte) ([]FieldMap, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, parseErrorf(FormatJSON, err, "invalid json")
	}

	var list []any
	switch v := doc.(type) {
	case []any:
		list = v
	case map[string]any:
		sessions, ok := v["sessions"].([]any)
		if !ok {
			return nil, parseErrorf(FormatJSON, nil, `expected a list of sessions or an object with a "sessions" list`)
		}
		list = sessions
	default:
		return nil, parseErrorf(FormatJSON, nil, `expected a list of sessions or an object with a "sessions" list`)
	}

	if len(list) == 0 {
		return nil, parseErrorf(FormatJSON, nil, "no sessions found")
	}

	rows := make([]FieldMap, 0, len(list))
	for _, item := range list {
		obj, _ := item.(map[string]any)
		rows = append(rows, foldKeys(obj))
	}
	return rows, nil
}

// foldKeys drops keys that collide once normalized, keeping the
// lexically-first spelling so the result does not depend on map order.
func foldKeys(obj map[string]any) FieldMap {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	row := make(FieldMap, len(obj))
	seen := make(map[string]bool, len(obj))
	for _, k := range keys {
		nk := NormalizeKey(k)
		if nk == "" || seen[nk] {
			continue
		}
		seen[nk] = true
		row[k] = obj[k]
	}
	return row
}

// ----------------------------------------------------------------------------
// XML
// ----------------------------------------------------------------------------

type xmlNode struct {
	name     string
	text     strings.Builder
	children []*xmlNode
}

func (n *xmlNode) value() string {
	return strings.TrimSpace(n.text.String())
}

func extractXML(data []byte) ([]FieldMap, error) {
	roots, err := decodeXML(data)
	if err != nil {
		return nil, parseErrorf(FormatXML, err, "invalid xml")
	}

	var sessions []*xmlNode
	for _, root := range roots {
		switch root.name {
		case "sessions":
			for _, child := range root.children {
				if child.name == "session" {
					sessions = append(sessions, child)
				}
			}
		case "session":
			sessions = append(sessions, root)
		}
	}

	if len(sessions) == 0 {
		return nil, parseErrorf(FormatXML, nil, "no session elements found")
	}

	rows := make([]FieldMap, 0, len(sessions))
	for _, s := range sessions {
		rows = append(rows, xmlSessionFields(s))
	}
	return rows, nil
}

// xmlSessionFields unwraps each child element of a <session> to its text.
// <tags> holding <tag> children becomes a list; a repeated element keeps its
// first occurrence.
func xmlSessionFields(s *xmlNode) FieldMap {
	row := make(FieldMap, len(s.children))
	for _, child := range s.children {
		if _, exists := row[child.name]; exists {
			continue
		}
		if NormalizeKey(child.name) == "tags" {
			row[child.name] = xmlTags(child)
			continue
		}
		row[child.name] = child.value()
	}
	return row
}

func xmlTags(n *xmlNode) any {
	tags := make([]any, 0, len(n.children))
	for _, c := range n.children {
		if c.name == "tag" {
			tags = append(tags, c.value())
		}
	}
	if len(tags) == 0 && n.value() != "" {
		return n.value()
	}
	return tags
}

// decodeXML reads every top-level element of data into a node tree.
// Several top-level elements are accepted so a bare run of <session>
// elements can be imported without a wrapper.
func decodeXML(data []byte) ([]*xmlNode, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Strict = true

	var roots []*xmlNode
	var stack []*xmlNode

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			node := &xmlNode{name: t.Name.Local}
			if len(stack) == 0 {
				roots = append(roots, node)
			} else {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, node)
			}
			stack = append(stack, node)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].text.Write(t)
			}
		}
	}

	if len(stack) > 0 {
		return nil, fmt.Errorf("unclosed element <%s>", stack[len(stack)-1].name)
	}
	return roots, nil
}
