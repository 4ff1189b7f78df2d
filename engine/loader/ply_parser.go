package loader

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Carmen-Shannon/rove-go/common"
	"github.com/go-gl/mathgl/mgl32"
)

// Common errors returned by the parser
var (
	errMissingPLYMagic      = errors.New("missing ply magic header")
	errInvalidPLYFormat     = errors.New("invalid ply format: must be ascii, binary_little_endian, or binary_big_endian version 1.0")
	errMalformedHeader      = errors.New("malformed ply header")
	errMissingVertexElement = errors.New("ply file has no vertex element")
	errVertexNotFirst       = errors.New("unsupported ply layout: vertex element must precede other elements")
	errMissingPositionData  = errors.New("vertex element missing x/y/z properties")
	errUnsupportedProperty  = errors.New("unsupported vertex property")
	errVertexDataTruncated  = errors.New("vertex data truncated")
	errInvalidVertexValue   = errors.New("invalid vertex value")
)

// plyFormat identifies the body encoding of a ply file.
type plyFormat int

const (
	plyASCII plyFormat = iota
	plyBinaryLittleEndian
	plyBinaryBigEndian
)

// plyScalarType identifies a scalar property type in a ply header.
type plyScalarType int

const (
	plyInt8 plyScalarType = iota
	plyUint8
	plyInt16
	plyUint16
	plyInt32
	plyUint32
	plyFloat32
	plyFloat64
)

// plyScalarSizes maps each plyScalarType to its size in bytes in binary encodings.
var plyScalarSizes = [...]int{1, 1, 2, 2, 4, 4, 4, 8}

// parseScalarType maps a ply type keyword to its scalar type.
// Both the classic names (uchar, float) and the sized aliases (uint8, float32)
// appear in the wild.
func parseScalarType(keyword string) (plyScalarType, bool) {
	switch keyword {
	case "char", "int8":
		return plyInt8, true
	case "uchar", "uint8":
		return plyUint8, true
	case "short", "int16":
		return plyInt16, true
	case "ushort", "uint16":
		return plyUint16, true
	case "int", "int32":
		return plyInt32, true
	case "uint", "uint32":
		return plyUint32, true
	case "float", "float32":
		return plyFloat32, true
	case "double", "float64":
		return plyFloat64, true
	}
	return 0, false
}

// plyProperty describes one scalar property of the vertex element.
type plyProperty struct {
	name string
	typ  plyScalarType
}

// plyHeader holds the parsed header of a ply file.
type plyHeader struct {
	format      plyFormat
	vertexCount int
	properties  []plyProperty
}

// vertexLayout holds the resolved property indices and binary record geometry
// needed to decode vertex data.
type vertexLayout struct {
	xIdx, yIdx, zIdx int
	rIdx, gIdx, bIdx int
	hasColors        bool

	offsets []int // byte offset of each property within a binary record
	stride  int   // total binary record size in bytes
}

// plyParserImpl is the implementation of the plyParser interface.
type plyParserImpl struct{}

// plyParser defines the interface for loading and parsing ply point cloud files.
// It handles header parsing and decodes ascii and binary vertex data into
// positions and optional per-vertex colors. This is internal to the loader package.
type plyParser interface {
	// Parse loads and parses a ply file from the given path.
	// The body encoding (ascii or binary) is detected from the header.
	//
	// Parameters:
	//   - path: path to the ply file
	//
	// Returns:
	//   - *common.PointCloud: the parsed point cloud, named after the file
	//   - error: error if parsing fails
	Parse(path string) (*common.PointCloud, error)

	// ParseReader parses a ply document from a reader.
	// Use this when loading from embedded resources or network streams.
	//
	// Parameters:
	//   - name: the name to assign to the parsed cloud
	//   - r: reader containing ply data
	//
	// Returns:
	//   - *common.PointCloud: the parsed point cloud
	//   - error: error if parsing fails
	ParseReader(name string, r io.Reader) (*common.PointCloud, error)
}

var _ plyParser = &plyParserImpl{}

// newPLYParser creates a new ply parser.
//
// Returns:
//   - plyParser: the parser instance
func newPLYParser() plyParser {
	return &plyParserImpl{}
}

func (p *plyParserImpl) Parse(path string) (*common.PointCloud, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ply file: %w", err)
	}
	defer f.Close()

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return p.ParseReader(name, f)
}

func (p *plyParserImpl) ParseReader(name string, r io.Reader) (*common.PointCloud, error) {
	br := bufio.NewReader(r)

	header, err := parseHeader(br)
	if err != nil {
		return nil, err
	}

	layout, err := resolveVertexLayout(header)
	if err != nil {
		return nil, err
	}

	cloud := &common.PointCloud{
		Name:      name,
		Positions: make([]mgl32.Vec3, 0, header.vertexCount),
	}
	if layout.hasColors {
		cloud.Colors = make([][3]uint8, 0, header.vertexCount)
	}

	switch header.format {
	case plyASCII:
		err = readASCIIVertices(br, header, layout, cloud)
	case plyBinaryLittleEndian:
		err = readBinaryVertices(br, header, layout, binary.LittleEndian, cloud)
	case plyBinaryBigEndian:
		err = readBinaryVertices(br, header, layout, binary.BigEndian, cloud)
	}
	if err != nil {
		return nil, err
	}

	return cloud, nil
}

// parseHeader reads and validates the ply header up to and including the
// end_header line. Elements other than vertex are tolerated as long as their
// data comes after the vertex block; the parser never reads past the vertices.
func parseHeader(br *bufio.Reader) (*plyHeader, error) {
	magic, err := readHeaderLine(br)
	if err != nil {
		return nil, err
	}
	if magic != "ply" {
		return nil, errMissingPLYMagic
	}

	header := &plyHeader{vertexCount: -1}
	currentElement := ""
	sawFormat := false
	sawDataBefore := false

	for {
		line, err := readHeaderLine(br)
		if err != nil {
			return nil, err
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "end_header":
			if !sawFormat {
				return nil, errInvalidPLYFormat
			}
			if header.vertexCount < 0 {
				return nil, errMissingVertexElement
			}
			return header, nil

		case "comment", "obj_info":
			// Free-form metadata, skipped.

		case "format":
			if len(fields) != 3 || fields[2] != "1.0" {
				return nil, errInvalidPLYFormat
			}
			switch fields[1] {
			case "ascii":
				header.format = plyASCII
			case "binary_little_endian":
				header.format = plyBinaryLittleEndian
			case "binary_big_endian":
				header.format = plyBinaryBigEndian
			default:
				return nil, errInvalidPLYFormat
			}
			sawFormat = true

		case "element":
			if len(fields) != 3 {
				return nil, fmt.Errorf("%w: %q", errMalformedHeader, line)
			}
			count, aerr := strconv.Atoi(fields[2])
			if aerr != nil || count < 0 {
				return nil, fmt.Errorf("%w: %q", errMalformedHeader, line)
			}
			currentElement = fields[1]
			if currentElement == "vertex" {
				if header.vertexCount >= 0 {
					return nil, fmt.Errorf("%w: duplicate vertex element", errMalformedHeader)
				}
				if sawDataBefore {
					return nil, errVertexNotFirst
				}
				header.vertexCount = count
			} else if header.vertexCount < 0 && count > 0 {
				sawDataBefore = true
			}

		case "property":
			if currentElement != "vertex" {
				// Properties of other elements are never decoded.
				continue
			}
			if len(fields) >= 2 && fields[1] == "list" {
				return nil, fmt.Errorf("%w: list property on vertex element", errUnsupportedProperty)
			}
			if len(fields) != 3 {
				return nil, fmt.Errorf("%w: %q", errMalformedHeader, line)
			}
			typ, ok := parseScalarType(fields[1])
			if !ok {
				return nil, fmt.Errorf("%w: unknown type %q", errUnsupportedProperty, fields[1])
			}
			header.properties = append(header.properties, plyProperty{name: fields[2], typ: typ})

		default:
			// Unknown header keywords are skipped.
		}
	}
}

// readHeaderLine reads one header line, trimming the line ending. Header lines
// are ascii regardless of the body encoding.
func readHeaderLine(br *bufio.Reader) (string, error) {
	line, err := br.ReadString('\n')
	if err != nil {
		if err == io.EOF {
			return "", fmt.Errorf("%w: unexpected end of header", errMalformedHeader)
		}
		return "", fmt.Errorf("failed to read ply header: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// resolveVertexLayout locates the position and color properties and computes
// binary record offsets. Positions must be float or double; colors are picked
// up only when red, green, and blue are all present as uchar.
func resolveVertexLayout(header *plyHeader) (*vertexLayout, error) {
	l := &vertexLayout{xIdx: -1, yIdx: -1, zIdx: -1, rIdx: -1, gIdx: -1, bIdx: -1}
	l.offsets = make([]int, len(header.properties))

	for i, prop := range header.properties {
		l.offsets[i] = l.stride
		l.stride += plyScalarSizes[prop.typ]

		switch prop.name {
		case "x", "y", "z":
			if prop.typ != plyFloat32 && prop.typ != plyFloat64 {
				return nil, fmt.Errorf("%w: %s must be float or double", errUnsupportedProperty, prop.name)
			}
			switch prop.name {
			case "x":
				l.xIdx = i
			case "y":
				l.yIdx = i
			case "z":
				l.zIdx = i
			}
		case "red":
			l.rIdx = i
		case "green":
			l.gIdx = i
		case "blue":
			l.bIdx = i
		}
	}

	if l.xIdx < 0 || l.yIdx < 0 || l.zIdx < 0 {
		return nil, errMissingPositionData
	}
	l.hasColors = l.rIdx >= 0 && l.gIdx >= 0 && l.bIdx >= 0 &&
		header.properties[l.rIdx].typ == plyUint8 &&
		header.properties[l.gIdx].typ == plyUint8 &&
		header.properties[l.bIdx].typ == plyUint8
	return l, nil
}

// readASCIIVertices decodes whitespace-separated vertex rows into the cloud.
// Blank lines between rows are tolerated.
func readASCIIVertices(br *bufio.Reader, header *plyHeader, layout *vertexLayout, cloud *common.PointCloud) error {
	for i := 0; i < header.vertexCount; i++ {
		var fields []string
		eof := false
		for {
			line, err := br.ReadString('\n')
			if err != nil && err != io.EOF {
				return fmt.Errorf("failed to read ply vertex data: %w", err)
			}
			eof = err == io.EOF
			fields = strings.Fields(line)
			if len(fields) > 0 {
				break
			}
			if eof {
				return fmt.Errorf("%w: got %d of %d vertices", errVertexDataTruncated, i, header.vertexCount)
			}
		}

		if len(fields) < len(header.properties) {
			return fmt.Errorf("%w: vertex %d has %d of %d values", errVertexDataTruncated, i, len(fields), len(header.properties))
		}

		pos, col, err := parseASCIIVertex(fields, header, layout)
		if err != nil {
			return fmt.Errorf("vertex %d: %w", i, err)
		}
		cloud.Positions = append(cloud.Positions, pos)
		if layout.hasColors {
			cloud.Colors = append(cloud.Colors, col)
		}

		if eof && i < header.vertexCount-1 {
			return fmt.Errorf("%w: got %d of %d vertices", errVertexDataTruncated, i+1, header.vertexCount)
		}
	}
	return nil
}

// parseASCIIVertex extracts the position and optional color from one row of fields.
func parseASCIIVertex(fields []string, header *plyHeader, layout *vertexLayout) (mgl32.Vec3, [3]uint8, error) {
	var pos mgl32.Vec3
	var col [3]uint8

	for axis, idx := range [3]int{layout.xIdx, layout.yIdx, layout.zIdx} {
		v, err := strconv.ParseFloat(fields[idx], 64)
		if err != nil {
			return pos, col, fmt.Errorf("%w: %q", errInvalidVertexValue, fields[idx])
		}
		pos[axis] = float32(v)
	}

	if layout.hasColors {
		for ch, idx := range [3]int{layout.rIdx, layout.gIdx, layout.bIdx} {
			v, err := strconv.ParseUint(fields[idx], 10, 8)
			if err != nil {
				return pos, col, fmt.Errorf("%w: %q", errInvalidVertexValue, fields[idx])
			}
			col[ch] = uint8(v)
		}
	}

	return pos, col, nil
}

// readBinaryVertices decodes fixed-stride binary vertex records into the cloud.
func readBinaryVertices(br *bufio.Reader, header *plyHeader, layout *vertexLayout, order binary.ByteOrder, cloud *common.PointCloud) error {
	record := make([]byte, layout.stride)
	for i := 0; i < header.vertexCount; i++ {
		if _, err := io.ReadFull(br, record); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				return fmt.Errorf("%w: got %d of %d vertices", errVertexDataTruncated, i, header.vertexCount)
			}
			return fmt.Errorf("failed to read ply vertex data: %w", err)
		}

		var pos mgl32.Vec3
		for axis, idx := range [3]int{layout.xIdx, layout.yIdx, layout.zIdx} {
			pos[axis] = decodeFloatProperty(record[layout.offsets[idx]:], header.properties[idx].typ, order)
		}
		cloud.Positions = append(cloud.Positions, pos)

		if layout.hasColors {
			cloud.Colors = append(cloud.Colors, [3]uint8{
				record[layout.offsets[layout.rIdx]],
				record[layout.offsets[layout.gIdx]],
				record[layout.offsets[layout.bIdx]],
			})
		}
	}
	return nil
}

// decodeFloatProperty decodes a float or double property value from a binary record.
func decodeFloatProperty(b []byte, typ plyScalarType, order binary.ByteOrder) float32 {
	if typ == plyFloat64 {
		return float32(math.Float64frombits(order.Uint64(b)))
	}
	return math.Float32frombits(order.Uint32(b))
}
