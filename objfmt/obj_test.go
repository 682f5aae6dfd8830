package objfmt

import (
	"strings"
	"testing"
)

func TestParseTriangle(t *testing.T) {
	src := `
v 0 0 0
v 1 0 0
v 0 1 0
f 1 2 3
`
	data, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(data.VertexPositions) != 3 {
		t.Fatalf("got %d positions, want 3", len(data.VertexPositions))
	}
	if len(data.Triangles) != 1 {
		t.Fatalf("got %d triangles, want 1", len(data.Triangles))
	}
	if data.Triangles[0].PositionIndices != [3]int{0, 1, 2} {
		t.Fatalf("got indices %v, want [0 1 2]", data.Triangles[0].PositionIndices)
	}
}

func TestParseQuadFanTriangulates(t *testing.T) {
	src := `
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
f 1 2 3 4
`
	data, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(data.Triangles) != 2 {
		t.Fatalf("got %d triangles, want 2", len(data.Triangles))
	}
}

func TestParseNotEnoughArguments(t *testing.T) {
	_, err := Parse(strings.NewReader("v 0 0\n"))
	assertKind(t, err, NotEnoughArguments)
}

func TestParseInvalidFloat(t *testing.T) {
	_, err := Parse(strings.NewReader("v a 0 0\n"))
	assertKind(t, err, InvalidFloat)
}

func TestParseInvalidKeyword(t *testing.T) {
	_, err := Parse(strings.NewReader("bogus 1 2 3\n"))
	assertKind(t, err, InvalidKeyword)
}

func TestParseMultipleObjects(t *testing.T) {
	_, err := Parse(strings.NewReader("o first\no second\n"))
	assertKind(t, err, MultipleObjects)
}

func TestParseIndexOutOfBounds(t *testing.T) {
	src := "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 4\n"
	_, err := Parse(strings.NewReader(src))
	assertKind(t, err, IndexOutOfBounds)
}

func TestParseIndexOutOfBoundsNegative(t *testing.T) {
	src := "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 0 1 2\n"
	_, err := Parse(strings.NewReader(src))
	assertKind(t, err, IndexOutOfBounds)
}

func TestParseMixedTexCoordPresenceRejected(t *testing.T) {
	src := "v 0 0 0\nv 1 0 0\nv 0 1 0\nvt 0 0\nf 1/1 2 3\n"
	_, err := Parse(strings.NewReader(src))
	assertKind(t, err, InvalidVertexReference)
}

func assertKind(t *testing.T, err error, want ErrorKind) {
	t.Helper()
	if err == nil {
		t.Fatal("expected an error")
	}
	pe, ok := err.(*ParseError)
	if !ok {
		t.Fatalf("got error type %T, want *ParseError", err)
	}
	if pe.Kind != want {
		t.Fatalf("got error kind %v, want %v", pe.Kind, want)
	}
}
