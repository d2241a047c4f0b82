// Package codec reads and writes alive sets in the plain "x,y" line format:
// one alive cell per line, no header, dead cells omitted.
package codec

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-gol/model"
)

// ErrMalformedRecord is returned when a token is not two comma separated integers
var ErrMalformedRecord = errors.New("malformed record")

// Encode writes one "x,y" line per alive cell, ordered by x then y
func Encode(w io.Writer, cells model.CellSet) error {
	bw := bufio.NewWriter(w)
	for _, c := range cells.Sorted() {
		bw.WriteString(strconv.Itoa(c.X))
		bw.WriteByte(',')
		bw.WriteString(strconv.Itoa(c.Y))
		bw.WriteByte('\n')
	}
	return errors.Wrap(bw.Flush(), "[Encode] failed to write cells")
}

// EncodeString is Encode into a string
func EncodeString(cells model.CellSet) string {
	var sb strings.Builder
	_ = Encode(&sb, cells)
	return sb.String()
}

// Decode parses whitespace separated "x,y" tokens.
// Coordinates are not checked against any domain.
func Decode(r io.Reader) (model.CellSet, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "[Decode] failed to read input")
	}
	return DecodeString(string(data))
}

// DecodeString is Decode over an in-memory string
func DecodeString(s string) (model.CellSet, error) {
	cells := make(model.CellSet)
	for i, token := range strings.Fields(s) {
		c, err := parseRecord(token)
		if err != nil {
			return nil, errors.Wrapf(err, "[Decode] record %d", i+1)
		}
		cells.Add(c)
	}
	return cells, nil
}

func parseRecord(token string) (model.Coordinate, error) {
	fields := strings.Split(token, ",")
	if len(fields) != 2 {
		return model.Coordinate{}, errors.Wrapf(ErrMalformedRecord, "%q: want 2 fields, got %d", token, len(fields))
	}
	x, errX := strconv.Atoi(fields[0])
	y, errY := strconv.Atoi(fields[1])
	if errX != nil || errY != nil {
		return model.Coordinate{}, errors.Wrapf(ErrMalformedRecord, "%q: fields must be integers", token)
	}
	return model.Coordinate{X: x, Y: y}, nil
}
