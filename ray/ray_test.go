package ray

import (
	"math"
	"testing"

	"github.com/ungerik/go3d/vec3"
)

func absf32(f float32) float32 {
	if f < 0 {
		return -f
	}
	return f
}

func TestReflectTwiceReturnsOriginalDirection(t *testing.T) {
	normal := vec3.T{0, 1, 0}
	incident := vec3.T{0.6, -0.8, 0}
	hitPoint := vec3.T{0, 0, 0}

	once := Reflect(normal, incident, hitPoint, nil)
	twice := Reflect(normal, once.Direction, hitPoint, nil)

	for i := 0; i < 3; i++ {
		if absf32(twice.Direction[i]-incident[i]) > 1e-5 {
			t.Fatalf("got direction %v after reflecting twice, want %v", twice.Direction, incident)
		}
	}
}

func TestTransmitObeysSnellsLaw(t *testing.T) {
	normal := vec3.T{0, 1, 0}
	incident := vec3.T{0.3, -0.95393920141, 0} // well under the critical angle
	incident.Normalize()
	hitPoint := vec3.T{0, 0, 0}

	const eta = 1.5

	transmitted, ok := Transmit(normal, incident, hitPoint, eta, nil)
	if !ok {
		t.Fatal("expected transmission below the critical angle")
	}

	negNormal := vecNegate(normal)
	cosThetaI := -(incident[0]*normal[0] + incident[1]*normal[1] + incident[2]*normal[2])
	cosThetaT := transmitted.Direction[0]*negNormal[0] + transmitted.Direction[1]*negNormal[1] + transmitted.Direction[2]*negNormal[2]

	sinThetaI := math.Sqrt(1 - float64(cosThetaI*cosThetaI))
	sinThetaT := math.Sqrt(1 - float64(cosThetaT*cosThetaT))

	// Snell's law: sin(theta_i) = eta * sin(theta_t) for a ray entering
	// a medium of refractive index eta from vacuum.
	if math.Abs(sinThetaI-eta*sinThetaT) > 1e-3 {
		t.Fatalf("sin(theta_i)=%v, eta*sin(theta_t)=%v, want equal", sinThetaI, eta*sinThetaT)
	}
}

func TestTransmitTotalInternalReflection(t *testing.T) {
	normal := vec3.T{0, 1, 0}
	// A steep grazing angle from inside a denser medium exceeds the
	// critical angle for eta=1.5 and must fail to transmit.
	incident := vec3.T{0.99, -0.1, 0}
	incident.Normalize()
	hitPoint := vec3.T{0, 0, 0}

	if _, ok := Transmit(vecNegate(normal), incident, hitPoint, 1.5, nil); ok {
		t.Fatal("expected total internal reflection")
	}
}

func vecNegate(v vec3.T) vec3.T {
	return vec3.T{-v[0], -v[1], -v[2]}
}

func TestNearerComparesDistance(t *testing.T) {
	a := Hit{Distance: 1}
	b := Hit{Distance: 2}
	if !Nearer(a, b) {
		t.Fatal("expected a nearer than b")
	}
	if Nearer(b, a) {
		t.Fatal("expected b not nearer than a")
	}
}

func TestFromScreenProducesUnitDirection(t *testing.T) {
	r := FromScreen(10, 10, 20, 20, 60)
	length := math.Sqrt(float64(r.Direction[0]*r.Direction[0] + r.Direction[1]*r.Direction[1] + r.Direction[2]*r.Direction[2]))
	if absf32(float32(length)-1) > 1e-4 {
		t.Fatalf("got direction length %v, want 1", length)
	}
}
