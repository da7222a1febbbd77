package catalog

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Column headers the source must provide. Scores is optional.
const (
	colDimensions  = "Dimensions"
	colQuestions   = "Questions"
	colDescription = "Description"
	colOptions     = "Options"
	colScores      = "Scores"
)

// Load parses the rubric CSV at path. The file is tried as UTF-8 (with or
// without BOM), then as the legacy 8-bit encodings the source has historically
// shipped in. If the file is missing, unreadable in every encoding, or lacks
// the required columns, the built-in default catalog is returned instead;
// loading never fails hard.
func Load(path string, log *slog.Logger) *Catalog {
	raw, err := os.ReadFile(path)
	if err != nil {
		log.Warn("catalog source unreadable, using built-in default", "path", path, "error", err)
		return Default()
	}

	for _, enc := range candidateEncodings(raw) {
		c, err := parse(decodeReader(raw, enc), log)
		if err == nil {
			log.Info("catalog loaded", "path", path, "sections", len(c.sections), "questions", c.TotalQuestions())
			return c
		}
		log.Debug("catalog parse attempt failed", "path", path, "error", err)
	}

	log.Warn("catalog source undecodable, using built-in default", "path", path)
	return Default()
}

// candidateEncodings orders the decoders to try. Latin-1 style decoders never
// fail, so UTF-8 input is recognized up front to avoid mojibake.
func candidateEncodings(raw []byte) []encoding.Encoding {
	if utf8.Valid(raw) {
		return []encoding.Encoding{unicode.UTF8BOM}
	}
	return []encoding.Encoding{charmap.Windows1252, charmap.ISO8859_1}
}

func decodeReader(raw []byte, enc encoding.Encoding) io.Reader {
	return transform.NewReader(bytes.NewReader(raw), enc.NewDecoder())
}

// parse runs the row reducer: a non-empty Dimensions cell opens or continues a
// dimension scope, a non-empty Questions cell closes the previous question and
// opens a new one, and any row with a non-empty Options cell appends that
// option to the open question. Broken rows are skipped, not fatal.
func parse(r io.Reader, log *slog.Logger) (*Catalog, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols := indexColumns(header)
	for _, required := range []string{colDimensions, colQuestions, colOptions} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("missing required column %q", required)
		}
	}

	c := New()
	var currentDimension string
	var current *Question

	flush := func() {
		if current != nil {
			c.add(*current)
			current = nil
		}
	}

	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Warn("skipping malformed catalog row", "line", line, "error", err)
			continue
		}

		cell := func(name string) string {
			i, ok := cols[name]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		if dim := cell(colDimensions); dim != "" {
			currentDimension = dim
		}

		if q := cell(colQuestions); q != "" {
			if currentDimension == "" {
				log.Warn("skipping question outside any dimension", "line", line, "question", q)
				continue
			}
			flush()
			current = &Question{
				Dimension:   currentDimension,
				Text:        q,
				Description: cell(colDescription),
			}
		}

		if opt := cell(colOptions); opt != "" && current != nil {
			score := 0
			if s := cell(colScores); s != "" {
				n, err := strconv.Atoi(s)
				if err != nil {
					log.Warn("skipping unparseable score", "line", line, "score", s)
				} else {
					score = n
				}
			}
			current.Options = append(current.Options, Option{Text: opt, Score: score})
		}
	}
	flush()

	if c.TotalQuestions() == 0 {
		return nil, fmt.Errorf("no questions parsed")
	}
	return c, nil
}

func indexColumns(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(strings.TrimPrefix(name, "\uFEFF"))] = i
	}
	return cols
}
