package component

import (
	"fmt"
	"math"
	"testing"

	"github.com/milk9111/horde/common"
)

func TestSeekIsFlatUnit(t *testing.T) {
	got := Seek(common.V3(0, 0, 0), common.V3(3, 10, 4))
	if got.Y != 0 || !approx(got.Len(), 1) {
		t.Fatalf("seek = %+v", got)
	}
	if !Seek(common.V3(1, 0, 1), common.V3(1, 5, 1)).IsZero() {
		t.Fatalf("target straight above should give zero seek")
	}
}

func TestSeparationRadiusBoundary(t *testing.T) {
	pos := common.V3(0, 0, 0)
	cases := []struct {
		name     string
		neighbor common.Vec3
		wantZero bool
	}{
		{"exactly_on_radius", common.V3(2.5, 0, 0), true},
		{"outside", common.V3(0, 0, 3), true},
		{"inside", common.V3(2.4, 0, 0), false},
		{"coincident", pos, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := Separation(pos, []common.Vec3{c.neighbor}, 2.5)
			if got.IsZero() != c.wantZero {
				t.Fatalf("separation = %+v, wantZero=%v", got, c.wantZero)
			}
			if !c.wantZero && got.X >= 0 {
				t.Fatalf("separation should push away from neighbor, got %+v", got)
			}
		})
	}
}

func TestSeparationCloserPushesHarder(t *testing.T) {
	near := Separation(common.Zero, []common.Vec3{common.V3(0.5, 0, 0)}, 2.5)
	far := Separation(common.Zero, []common.Vec3{common.V3(2, 0, 0)}, 2.5)
	if near.Len() <= far.Len() {
		t.Fatalf("near=%v far=%v", near.Len(), far.Len())
	}
}

func TestWobbleIsSideways(t *testing.T) {
	seek := common.V3(0, 0, 1)
	w := Wobble(seek, math.Pi/2, 0.5)
	if !approx(w.Dot(seek), 0) || !approx(w.Len(), 0.5) {
		t.Fatalf("wobble = %+v", w)
	}
	if !Wobble(seek, 0, 0.5).IsZero() {
		t.Fatalf("zero phase should give zero wobble")
	}
}

func TestSteeringNoTargetIsZero(t *testing.T) {
	s := DefaultSteering()
	res := s.Step(SteeringInput{Position: common.V3(1, 0, 1)}, 0.1)
	if !res.Direction.IsZero() {
		t.Fatalf("direction = %+v", res.Direction)
	}
	if s.Phase() != 0 {
		t.Fatalf("wobble timer should not advance without a target")
	}
}

func TestSteeringDirectionUnitOrZero(t *testing.T) {
	world := &sphereWorld{}
	world.add(9, common.V3(2, 0.5, 2), 1, LayerObstacle)

	cases := []struct {
		name      string
		pos       common.Vec3
		target    common.Vec3
		neighbors []common.Vec3
	}{
		{"open_field", common.V3(0, 0, 0), common.V3(-10, 0, -10), nil},
		{"crowded", common.V3(0, 0, 0), common.V3(0, 0, -10), []common.Vec3{{X: 0.1}, {X: -0.1}, {Z: 0.3}}},
		{"toward_wall", common.V3(0, 0, 0), common.V3(5, 0, 5), nil},
		{"on_target", common.V3(1, 0, 1), common.V3(1, 0, 1), nil},
		{"cancelling_neighbors", common.V3(0, 0, 0), common.V3(0, 0, 10), []common.Vec3{{Z: 1}}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s := DefaultSteering()
			for i := 0; i < 20; i++ {
				dir := s.Direction(SteeringInput{
					Position:   c.pos,
					Target:     c.target,
					HasTarget:  true,
					Neighbors:  c.neighbors,
					CastOrigin: c.pos.Add(common.V3(0, 0.5, 0)),
					Query:      world,
				}, 0.05)
				if dir.IsZero() {
					continue
				}
				if !approx(dir.Len(), 1) {
					t.Fatalf("tick %d: |dir| = %v", i, dir.Len())
				}
				if math.IsNaN(dir.X) || math.IsNaN(dir.Z) {
					t.Fatalf("tick %d: NaN direction", i)
				}
			}
		})
	}
}

func TestSteeringAvoidsWall(t *testing.T) {
	world := &sphereWorld{}
	world.add(9, common.V3(0.8, 0.5, 2), 1, LayerObstacle)

	s := DefaultSteering()
	s.WobbleAmount = 0
	origin := common.V3(0, 0.5, 0)

	avoid := s.Avoidance(world, origin, common.V3(0, 0, 1))
	if avoid.IsZero() || avoid.Y != 0 {
		t.Fatalf("avoidance = %+v", avoid)
	}

	res := s.Step(SteeringInput{
		Position:   common.Zero,
		Target:     common.V3(0, 0, 50),
		HasTarget:  true,
		CastOrigin: origin,
		Query:      world,
	}, 0.05)
	if res.Direction.X >= 0 {
		t.Fatalf("expected to veer away from the wall on +X, got %+v", res.Direction)
	}
	if !approx(res.Direction.Len(), 1) {
		t.Fatalf("|dir| = %v", res.Direction.Len())
	}

	if got := s.Avoidance(&sphereWorld{}, origin, common.V3(0, 0, 1)); !got.IsZero() {
		t.Fatalf("empty world should not avoid, got %+v", got)
	}
}

func TestSteeringHeadOnAvoidanceTurnsGradually(t *testing.T) {
	world := &sphereWorld{}
	world.add(9, common.V3(0, 0.5, 2), 1, LayerObstacle)
	seek := common.V3(0, 0, 1)

	step := func(dt float64) (SteeringResult, float64) {
		s := DefaultSteering()
		s.WobbleAmount = 0
		res := s.Step(SteeringInput{
			Position:   common.Zero,
			Target:     common.V3(0, 0, 50),
			HasTarget:  true,
			CastOrigin: common.V3(0, 0.5, 0),
			Query:      world,
		}, dt)
		dev := math.Acos(common.Clamp(res.Direction.Dot(seek), -1, 1))
		return res, dev
	}

	prev := -1.0
	for _, dt := range []float64{0.001, 0.01, 0.02, 0.04, 0.08, 0.2} {
		t.Run(fmt.Sprintf("dt=%v", dt), func(t *testing.T) {
			res, dev := step(dt)
			if res.Avoidance.IsZero() {
				t.Fatalf("obstacle straight ahead produced no avoidance")
			}
			if !approx(res.Direction.Len(), 1) {
				t.Fatalf("|dir| = %v", res.Direction.Len())
			}
			full := math.Acos(common.Clamp(res.Avoidance.Normalized().Dot(seek), -1, 1))
			want := common.Clamp01(10*dt) * full
			if math.Abs(dev-want) > 1e-4 {
				t.Fatalf("deviation = %v, want %v", dev, want)
			}
			if dev > full+1e-9 {
				t.Fatalf("deviation %v overshoots pure avoidance %v", dev, full)
			}
			if dev <= prev {
				t.Fatalf("deviation %v did not grow past %v", dev, prev)
			}
			if dt == 0.001 && dev <= 0 {
				t.Fatalf("smallest step did not turn at all")
			}
			prev = dev
		})
	}
}
