// Package objfmt parses the Wavefront OBJ subset this renderer needs:
// vertex positions, normals, texture coordinates and n-gon faces
// (triangulated as a fan), with no material/group support and a
// precise per-keyword error taxonomy.
package objfmt

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ungerik/go3d/vec3"

	"github.com/maxkl/raytracer/kdtree"
	"github.com/maxkl/raytracer/ray"
)

// ErrorKind distinguishes the 7 ways a malformed OBJ file is reported.
type ErrorKind int

const (
	NotEnoughArguments ErrorKind = iota
	TooManyArguments
	MultipleObjects
	InvalidFloat
	InvalidKeyword
	InvalidVertexReference
	IndexOutOfBounds
)

// ParseError reports the line and keyword involved in a malformed OBJ
// file.
type ParseError struct {
	Kind    ErrorKind
	Line    int
	Keyword string
	Detail  string
}

func (e *ParseError) Error() string {
	switch e.Kind {
	case NotEnoughArguments:
		return fmt.Sprintf("not enough arguments to '%s' in line %d", e.Keyword, e.Line)
	case TooManyArguments:
		return fmt.Sprintf("too many arguments to '%s' in line %d", e.Keyword, e.Line)
	case MultipleObjects:
		return fmt.Sprintf("more than one object (second object starts in line %d)", e.Line)
	case InvalidFloat:
		return fmt.Sprintf("invalid float in line %d", e.Line)
	case InvalidKeyword:
		return fmt.Sprintf("invalid keyword '%s' in line %d", e.Keyword, e.Line)
	case InvalidVertexReference:
		return fmt.Sprintf("invalid vertex reference in line %d: %s", e.Line, e.Detail)
	case IndexOutOfBounds:
		return fmt.Sprintf("vertex %s index out of bounds", e.Detail)
	default:
		return "objfmt: unknown parse error"
	}
}

type vertexRef struct {
	pos      int
	texCoord int // -1 if absent
	normal   int // -1 if absent
}

// Parse reads a Wavefront OBJ document from r into a kdtree.MeshData.
func Parse(r io.Reader) (*kdtree.MeshData, error) {
	var positions []vec3.T
	var normals []vec3.T
	var texCoords []ray.TexCoords
	var triangles []kdtree.IndexedTriangle
	haveObjectName := false

	scanner := bufio.NewScanner(r)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimLeft(scanner.Text(), " \t")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		keyword := fields[0]
		args := fields[1:]

		switch keyword {
		case "mtllib", "usemtl", "s":
			// Materials and smoothing groups are not supported.

		case "o":
			if len(args) < 1 {
				return nil, &ParseError{Kind: NotEnoughArguments, Line: lineNumber, Keyword: "o"}
			}
			if len(args) > 1 {
				return nil, &ParseError{Kind: TooManyArguments, Line: lineNumber, Keyword: "o"}
			}
			if haveObjectName {
				return nil, &ParseError{Kind: MultipleObjects, Line: lineNumber}
			}
			haveObjectName = true

		case "v":
			vals, err := parseFloats(args, lineNumber)
			if err != nil {
				return nil, err
			}
			if len(vals) < 3 {
				return nil, &ParseError{Kind: NotEnoughArguments, Line: lineNumber, Keyword: "v"}
			}
			if len(vals) > 4 {
				return nil, &ParseError{Kind: TooManyArguments, Line: lineNumber, Keyword: "v"}
			}
			positions = append(positions, vec3.T{vals[0], vals[1], vals[2]})

		case "vn":
			vals, err := parseFloats(args, lineNumber)
			if err != nil {
				return nil, err
			}
			if len(vals) < 3 {
				return nil, &ParseError{Kind: NotEnoughArguments, Line: lineNumber, Keyword: "vn"}
			}
			if len(vals) > 3 {
				return nil, &ParseError{Kind: TooManyArguments, Line: lineNumber, Keyword: "vn"}
			}
			n := vec3.T{vals[0], vals[1], vals[2]}
			n.Normalize()
			normals = append(normals, n)

		case "vt":
			vals, err := parseFloats(args, lineNumber)
			if err != nil {
				return nil, err
			}
			if len(vals) < 1 {
				return nil, &ParseError{Kind: NotEnoughArguments, Line: lineNumber, Keyword: "vt"}
			}
			if len(vals) > 3 {
				return nil, &ParseError{Kind: TooManyArguments, Line: lineNumber, Keyword: "vt"}
			}
			v := float32(0)
			if len(vals) > 1 {
				v = vals[1]
			}
			texCoords = append(texCoords, ray.TexCoords{U: vals[0], V: v})

		case "f":
			if len(args) < 3 {
				return nil, &ParseError{Kind: NotEnoughArguments, Line: lineNumber, Keyword: "f"}
			}
			refs := make([]vertexRef, len(args))
			for i, a := range args {
				v, err := parseVertexRef(a, lineNumber)
				if err != nil {
					return nil, err
				}
				refs[i] = v
			}

			hasTexCoords := refs[0].texCoord != -1
			hasNormals := refs[0].normal != -1
			for _, v := range refs {
				if (v.texCoord != -1) != hasTexCoords {
					return nil, &ParseError{Kind: InvalidVertexReference, Line: lineNumber,
						Detail: "only some vertices have texture coordinates"}
				}
				if (v.normal != -1) != hasNormals {
					return nil, &ParseError{Kind: InvalidVertexReference, Line: lineNumber,
						Detail: "only some vertices have normals"}
				}
			}

			// Fan-triangulate faces with more than 3 vertices.
			for i := 2; i < len(refs); i++ {
				v0, v1, v2 := refs[0], refs[i-1], refs[i]
				tri := kdtree.IndexedTriangle{
					PositionIndices: [3]int{v0.pos, v1.pos, v2.pos},
				}
				if hasTexCoords {
					idx := [3]int{v0.texCoord, v1.texCoord, v2.texCoord}
					tri.TexCoordIndices = &idx
				}
				if hasNormals {
					idx := [3]int{v0.normal, v1.normal, v2.normal}
					tri.NormalIndices = &idx
				}
				triangles = append(triangles, tri)
			}

		default:
			return nil, &ParseError{Kind: InvalidKeyword, Line: lineNumber, Keyword: keyword}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	for _, tri := range triangles {
		if !indicesInBounds(tri.PositionIndices, len(positions)) {
			return nil, &ParseError{Kind: IndexOutOfBounds, Detail: "position"}
		}
		if tri.TexCoordIndices != nil && !indicesInBounds(*tri.TexCoordIndices, len(texCoords)) {
			return nil, &ParseError{Kind: IndexOutOfBounds, Detail: "texture coordinates"}
		}
		if tri.NormalIndices != nil && !indicesInBounds(*tri.NormalIndices, len(normals)) {
			return nil, &ParseError{Kind: IndexOutOfBounds, Detail: "normal"}
		}
	}

	return &kdtree.MeshData{
		VertexPositions: positions,
		VertexNormals:   normals,
		VertexTexCoords: texCoords,
		Triangles:       triangles,
	}, nil
}

func indicesInBounds(idx [3]int, n int) bool {
	for _, i := range idx {
		if i < 0 || i >= n {
			return false
		}
	}
	return true
}

func parseFloats(args []string, lineNumber int) ([]float32, error) {
	vals := make([]float32, len(args))
	for i, a := range args {
		f, err := strconv.ParseFloat(a, 32)
		if err != nil {
			return nil, &ParseError{Kind: InvalidFloat, Line: lineNumber}
		}
		vals[i] = float32(f)
	}
	return vals, nil
}

// parseVertexRef parses a "pos", "pos/tex", "pos//norm" or
// "pos/tex/norm" face-vertex reference, converting the 1-based OBJ
// indices to 0-based.
func parseVertexRef(s string, lineNumber int) (vertexRef, error) {
	parts := strings.Split(s, "/")
	if len(parts) == 0 || parts[0] == "" {
		return vertexRef{}, &ParseError{Kind: InvalidVertexReference, Line: lineNumber, Detail: "missing position index"}
	}

	pos, err := strconv.Atoi(parts[0])
	if err != nil {
		return vertexRef{}, &ParseError{Kind: InvalidVertexReference, Line: lineNumber, Detail: "invalid position index"}
	}

	ref := vertexRef{pos: pos - 1, texCoord: -1, normal: -1}

	if len(parts) >= 2 && parts[1] != "" {
		t, err := strconv.Atoi(parts[1])
		if err != nil {
			return vertexRef{}, &ParseError{Kind: InvalidVertexReference, Line: lineNumber, Detail: "invalid texture coordinate index"}
		}
		ref.texCoord = t - 1
	}

	if len(parts) >= 3 && parts[2] != "" {
		n, err := strconv.Atoi(parts[2])
		if err != nil {
			return vertexRef{}, &ParseError{Kind: InvalidVertexReference, Line: lineNumber, Detail: "invalid normal index"}
		}
		ref.normal = n - 1
	}

	if len(parts) > 3 {
		return vertexRef{}, &ParseError{Kind: InvalidVertexReference, Line: lineNumber, Detail: "too many slashes"}
	}

	return ref, nil
}
