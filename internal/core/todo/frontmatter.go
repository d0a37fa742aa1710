package todo

import (
	"bufio"
	"strings"

	"gopkg.in/yaml.v3"
)

const delimiter = "---"

// header is the wire shape of a record's front-matter block. Parsing goes
// through yaml.v3 so tags written either inline ([a, b]) or as a block list
// decode identically.
type header struct {
	ID        string   `yaml:"id"`
	Title     string   `yaml:"title"`
	Tags      []string `yaml:"tags"`
	Status    string   `yaml:"status"`
	CreatedAt string   `yaml:"created_at"`
}

// record converts the decoded header into a Record. An empty tag sequence
// decodes as a non-nil empty slice; it folds to nil so tag-less records
// round-trip unchanged.
func (h header) record() Record {
	tags := h.Tags
	if len(tags) == 0 {
		tags = nil
	}
	return Record{
		ID:        h.ID,
		Title:     h.Title,
		Tags:      tags,
		Status:    h.Status,
		CreatedAt: h.CreatedAt,
	}
}

// Serialize renders a record as a front-matter block followed by the body.
// Field order and tag rendering are part of the on-disk format, so output is
// written by hand instead of through yaml.Marshal.
func Serialize(r Record) string {
	var b strings.Builder

	b.WriteString(delimiter + "\n")
	b.WriteString("id: " + r.ID + "\n")
	b.WriteString("title: " + quoteScalar(r.Title) + "\n")
	if len(r.Tags) == 0 {
		b.WriteString("tags: []\n")
	} else {
		b.WriteString("tags:\n")
		for _, tag := range r.Tags {
			b.WriteString("  - " + quoteScalar(tag) + "\n")
		}
	}
	b.WriteString("status: " + quoteScalar(r.Status) + "\n")
	b.WriteString("created_at: " + r.CreatedAt + "\n")
	b.WriteString(delimiter + "\n")

	if body := NormalizeBody(r.Body); body != "" {
		b.WriteString(body)
	}

	return b.String()
}

// Parse decodes a record file. Content without a leading front-matter block,
// or with a block that fails to decode, is treated as all body.
func Parse(content string) Record {
	head, body, ok := splitFrontmatter(content)
	if !ok {
		return Record{Body: NormalizeBody(content)}
	}

	var h header
	if err := yaml.Unmarshal([]byte(head), &h); err != nil {
		return Record{Body: NormalizeBody(content)}
	}

	r := h.record()
	r.Body = NormalizeBody(body)
	return r
}

// ParseHeader decodes only the front-matter block, skipping the body. List
// operations use this to avoid carrying bodies for every record.
func ParseHeader(content string) Record {
	head, _, ok := splitFrontmatter(content)
	if !ok {
		return Record{}
	}

	var h header
	if err := yaml.Unmarshal([]byte(head), &h); err != nil {
		return Record{}
	}

	return h.record()
}

// splitFrontmatter separates the front-matter block from the body.
// The opening delimiter must be the first line of the file.
func splitFrontmatter(content string) (head, body string, ok bool) {
	scanner := bufio.NewScanner(strings.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if !scanner.Scan() || strings.TrimSpace(scanner.Text()) != delimiter {
		return "", "", false
	}

	var headLines []string
	closed := false
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == delimiter {
			closed = true
			break
		}
		headLines = append(headLines, line)
	}

	if !closed || len(headLines) == 0 {
		return "", "", false
	}

	var bodyLines []string
	for scanner.Scan() {
		bodyLines = append(bodyLines, scanner.Text())
	}

	return strings.Join(headLines, "\n"), strings.Join(bodyLines, "\n"), true
}

// NormalizeBody strips leading blank lines and trailing whitespace. The
// result is newline-terminated unless it is empty.
func NormalizeBody(body string) string {
	body = strings.TrimLeft(body, "\n")
	body = strings.TrimRight(body, " \t\n")
	if body == "" {
		return ""
	}
	return body + "\n"
}

// quoteScalar renders a YAML double-quoted scalar.
func quoteScalar(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}
